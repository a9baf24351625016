package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/nk/nuibridge/internal/config"
	"github.com/nk/nuibridge/internal/ctxlog"
	"github.com/nk/nuibridge/internal/fsutil"
	"github.com/nk/nuibridge/internal/schema"
)

// Loader parses .hcl bridge configuration files. It implements
// config.Loader.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads every .hcl file reachable from the given paths, translates
// each into the agnostic model, and merges them in lexical file order.
// Later files append scripts and mock events and override scalar blocks.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat config path %q: %w", path, err)
		}
		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("failed to scan config directory %q: %w", path, err)
			}
			files = append(files, found...)
		} else {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl configuration files found in %v", paths)
	}
	logger.Debug("Discovered configuration files.", "count", len(files))

	model := &config.Model{Convars: make(map[string]string)}
	for _, file := range files {
		if err := l.mergeFile(ctx, file, model); err != nil {
			return nil, err
		}
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.",
		"scripts", len(model.Scripts), "mocks", len(model.Mocks))
	return model, nil
}

// mergeFile parses a single file and folds its contents into the model.
func (l *Loader) mergeFile(ctx context.Context, path string, model *config.Model) error {
	f, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse %s: %w", path, diags)
	}

	var root schema.Root
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode %s: %w", path, diags)
	}

	return l.translate(ctx, path, &root, model)
}
