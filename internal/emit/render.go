package emit

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/site"
)

const entryTemplate = `// Generated by booksite. Edit the Go snapshot, not this file.
import { defineConfig } from 'vitepress'
{{- range .Plugins}}
import {{.Import}} from '{{.From}}'
{{- end}}

export default defineConfig({{.Body}})
`

var (
	entryTpl = template.Must(template.New("config.mts").Option("missingkey=error").Parse(entryTemplate))
	jsIdent  = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

type entryData struct {
	Plugins []site.PluginRef
	Body    string
}

// Render produces the configuration in the requested format.
func Render(cfg site.SiteConfig, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := marshalJSON(cfg, "")
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryEmit, "encode configuration as JSON").Build()
		}
		return data, nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryEmit, "encode configuration as YAML").Build()
		}
		if err := enc.Close(); err != nil {
			return nil, errors.WrapError(err, errors.CategoryEmit, "encode configuration as YAML").Build()
		}
		return buf.Bytes(), nil
	case FormatMTS, "":
		return renderEntry(cfg)
	default:
		return nil, errors.ValidationError("unsupported output format").WithContext("format", string(format)).Build()
	}
}

func marshalJSON(v any, prefix string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderEntry writes the plain config as a JSON object literal and splices
// plugin factory calls in as vite.plugins, since those are code, not data.
func renderEntry(cfg site.SiteConfig) ([]byte, error) {
	var plugins []site.PluginRef
	if cfg.Vite != nil {
		plugins = cfg.Vite.Plugins
	}
	for _, p := range plugins {
		if !jsIdent.MatchString(p.Import) {
			return nil, errors.EmitError("plugin import is not a valid identifier").WithContext("import", p.Import).Build()
		}
		if p.From == "" || strings.ContainsAny(p.From, "'\\\n") {
			return nil, errors.EmitError("plugin module specifier cannot be quoted").WithContext("from", p.From).Build()
		}
	}

	plain := cfg
	plain.Vite = nil
	body, err := marshalJSON(plain, "")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEmit, "encode configuration object").Build()
	}
	obj := strings.TrimRight(string(body), "\n")

	if len(plugins) > 0 {
		calls := make([]string, 0, len(plugins))
		for _, p := range plugins {
			call, err := pluginCall(p)
			if err != nil {
				return nil, err
			}
			calls = append(calls, call)
		}
		vite := "  \"vite\": {\n    \"plugins\": [\n      " + strings.Join(calls, ",\n      ") + "\n    ]\n  }\n}"
		obj = strings.TrimSuffix(obj, "}")
		obj = strings.TrimRight(obj, "\n") + ",\n" + vite
	}

	var out bytes.Buffer
	if err := entryTpl.Execute(&out, entryData{Plugins: plugins, Body: obj}); err != nil {
		return nil, errors.WrapError(err, errors.CategoryEmit, "render entry point").Build()
	}
	return out.Bytes(), nil
}

func pluginCall(p site.PluginRef) (string, error) {
	if len(p.Options) == 0 {
		return p.Import + "()", nil
	}
	opts, err := marshalJSON(p.Options, "      ")
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryEmit, "encode plugin options").WithContext("import", p.Import).Build()
	}
	return p.Import + "(" + strings.TrimRight(string(opts), "\n") + ")", nil
}

// Decode parses a JSON or YAML rendering back into a configuration value.
// The mts entry point contains code and is not decodable.
func Decode(data []byte, format Format) (site.SiteConfig, error) {
	var cfg site.SiteConfig
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return site.SiteConfig{}, errors.WrapError(err, errors.CategoryValidation, "decode JSON configuration").Build()
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return site.SiteConfig{}, errors.WrapError(err, errors.CategoryValidation, "decode YAML configuration").Build()
		}
	default:
		return site.SiteConfig{}, errors.ValidationError("format cannot be decoded").WithContext("format", string(format)).Build()
	}
	return cfg, nil
}
