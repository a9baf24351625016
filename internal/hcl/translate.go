package hcl

import (
	"context"
	"fmt"
	"time"

	"github.com/nk/nuibridge/internal/config"
	"github.com/nk/nuibridge/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// translate folds one decoded file into the agnostic model.
func (l *Loader) translate(ctx context.Context, path string, root *schema.Root, model *config.Model) error {
	if root.Resource != nil {
		if model.Resource != nil && model.Resource.Name != root.Resource.Name {
			return fmt.Errorf("%s: resource %q conflicts with earlier resource %q", path, root.Resource.Name, model.Resource.Name)
		}
		model.Resource = &config.Resource{Name: root.Resource.Name}
	}

	if root.Convars != nil {
		if err := l.translateConvars(root.Convars, model); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	for _, s := range root.Scripts {
		model.Scripts = append(model.Scripts, &config.Script{Name: s.Name, Path: s.Path})
	}

	for _, m := range root.Mocks {
		ev, err := translateMock(m)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		model.Mocks = append(model.Mocks, ev)
	}

	if root.DevServer != nil {
		model.DevServer = &config.DevServer{Port: root.DevServer.Port, UIDir: root.DevServer.UIDir}
	}

	if root.Callback != nil {
		cb := &config.Callback{Port: root.Callback.Port}
		if root.Callback.RequestTimeout != "" {
			d, err := time.ParseDuration(root.Callback.RequestTimeout)
			if err != nil {
				return fmt.Errorf("%s: invalid request_timeout: %w", path, err)
			}
			cb.RequestTimeout = d
		}
		model.Callback = cb
	}

	return nil
}

// translateConvars folds the free-form attributes of a convars block into
// the model. Every value is converted to its string form, matching how the
// host runtime stores console variables.
func (l *Loader) translateConvars(block *schema.Convars, model *config.Model) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("invalid convars block: %w", diags)
	}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("invalid convar %q: %w", name, diags)
		}
		strVal, err := convert.Convert(val, cty.String)
		if err != nil {
			return fmt.Errorf("convar %q cannot be represented as a string: %w", name, err)
		}
		model.Convars[name] = strVal.AsString()
	}
	return nil
}

// translateMock converts a mock block, serialising its payload literal to
// the exact JSON the UI handler will receive.
func translateMock(m *schema.Mock) (*config.MockEvent, error) {
	ev := &config.MockEvent{Action: m.Action}

	if m.Data != nil {
		val, diags := m.Data.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid data for mock %q: %w", m.Action, diags)
		}
		if !val.IsNull() {
			raw, err := ctyjson.Marshal(val, val.Type())
			if err != nil {
				return nil, fmt.Errorf("failed to encode data for mock %q: %w", m.Action, err)
			}
			ev.Data = raw
		}
	}

	if m.Delay != "" {
		d, err := time.ParseDuration(m.Delay)
		if err != nil {
			return nil, fmt.Errorf("invalid delay for mock %q: %w", m.Action, err)
		}
		ev.Delay = d
	}

	return ev, nil
}
