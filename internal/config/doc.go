// Package config defines the format-agnostic model of a bridge
// configuration: the owning resource, convar defaults, client scripts,
// dev servers, and mock scenarios. Format-specific loaders (the hcl
// package) translate their syntax into this model, and tests can build
// models directly without touching the filesystem.
package config
