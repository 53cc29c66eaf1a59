// Package manifest records what a build handed to the site generator: the
// snapshot, a hash of its configuration, and one entry per sidebar page.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"git.home.luguber.info/inful/booksite/internal/content"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// SiteManifest is the page manifest for one snapshot.
type SiteManifest struct {
	Snapshot    string    `json:"snapshot"`
	Timestamp   time.Time `json:"timestamp"`
	Base        string    `json:"base"`
	ConfigHash  string    `json:"config_hash"`
	ContentRoot string    `json:"content_root,omitempty"`
	Pages       []Page    `json:"pages"`
	Plugins     []string  `json:"plugins,omitempty"`
}

// Page is one sidebar entry and the document behind it.
type Page struct {
	Target      string     `json:"target"`
	Path        string     `json:"path"`
	Group       string     `json:"group"`
	Label       string     `json:"label"`
	Title       string     `json:"title,omitempty"`
	Fingerprint string     `json:"fingerprint,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	Missing     bool       `json:"missing,omitempty"`
}

// Build assembles the manifest in sidebar order. inv may be nil, in which
// case pages carry only what the configuration knows.
func Build(snapshot string, cfg site.SiteConfig, inv *content.Inventory) (*SiteManifest, error) {
	hash, err := ConfigHash(cfg)
	if err != nil {
		return nil, err
	}
	m := &SiteManifest{
		Snapshot:   snapshot,
		Timestamp:  time.Now().UTC(),
		Base:       cfg.Base,
		ConfigHash: hash,
		Pages:      []Page{},
	}
	if cfg.Vite != nil {
		for _, p := range cfg.Vite.Plugins {
			m.Plugins = append(m.Plugins, p.From)
		}
	}
	if inv != nil {
		m.ContentRoot = inv.Root
	}

	for _, e := range cfg.SidebarEntries() {
		page := Page{
			Target: e.Link,
			Path:   content.DocumentPath(e.Link),
			Group:  e.Group,
			Label:  e.Text,
		}
		if inv != nil {
			doc, ok := inv.Lookup(e.Link)
			if !ok {
				page.Missing = true
			} else {
				page.Title = doc.Title
				page.Fingerprint = doc.Fingerprint
				if !doc.LastUpdated.IsZero() {
					t := doc.LastUpdated.UTC()
					page.LastUpdated = &t
				}
			}
		}
		m.Pages = append(m.Pages, page)
	}
	return m, nil
}

// ConfigHash is the sha256 of the configuration's JSON encoding.
func ConfigHash(cfg site.SiteConfig) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config for hash: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// ToJSON serializes the manifest to JSON.
func (m *SiteManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*SiteManifest, error) {
	var m SiteManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the configuration and page
// fingerprints. Timestamps are excluded, so two builds of unchanged inputs
// hash the same.
func (m *SiteManifest) Hash() (string, error) {
	type pageKey struct {
		Target      string `json:"target"`
		Fingerprint string `json:"fingerprint"`
		Missing     bool   `json:"missing"`
	}
	hashInput := struct {
		Snapshot   string    `json:"snapshot"`
		ConfigHash string    `json:"config_hash"`
		Pages      []pageKey `json:"pages"`
	}{
		Snapshot:   m.Snapshot,
		ConfigHash: m.ConfigHash,
	}
	for _, p := range m.Pages {
		hashInput.Pages = append(hashInput.Pages, pageKey{Target: p.Target, Fingerprint: p.Fingerprint, Missing: p.Missing})
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// MissingPages lists targets whose document was not found.
func (m *SiteManifest) MissingPages() []string {
	var out []string
	for _, p := range m.Pages {
		if p.Missing {
			out = append(out, p.Target)
		}
	}
	return out
}
