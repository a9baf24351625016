// Package hcl loads bridge configuration from .hcl files and translates it
// into the format-agnostic config model.
package hcl
