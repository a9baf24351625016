package config

import "context"

// Loader is the interface for a format-specific configuration loader. A
// path may be a single file or a directory; directories are searched
// recursively and their files merged into one model.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}
