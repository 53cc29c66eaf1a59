// Package site defines the tutorial site's configuration value and its
// authored snapshots.
//
// A SiteConfig is built once per build invocation by a pure function (V1, V2)
// and never mutated afterwards; callers that need to adjust a value work on a
// Clone. The value carries no behavior of its own: checking it is the job of
// package lint, and writing it out for the site generator is the job of
// package emit.
//
// The two snapshots are sequential authored states of the same site. There is
// no migration between them and they are never merged.
package site
