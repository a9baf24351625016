package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Model is the unified representation of the entire bridge configuration.
type Model struct {
	Resource  *Resource
	Convars   map[string]string
	Scripts   []*Script
	Mocks     []*MockEvent
	DevServer *DevServer
	Callback  *Callback
}

// Resource names the overlay resource this configuration belongs to. The
// name namespaces convars such as "<name>-debugMode".
type Resource struct {
	Name string
}

// Script points at one client script the scripting host should run.
type Script struct {
	Name string
	Path string
}

// MockEvent is one scripted action/payload pair for dev-mode replay.
type MockEvent struct {
	Action string
	Data   json.RawMessage
	Delay  time.Duration
}

// DevServer configures the socket.io message channel and the static UI dir.
type DevServer struct {
	Port  int
	UIDir string
}

// Callback configures the HTTP callback transport. A zero RequestTimeout
// keeps the bridge's default unbounded wait.
type Callback struct {
	Port           int
	RequestTimeout time.Duration
}

// Validate checks the model for the invariants the rest of the application
// assumes. It is called once after loading; components may then use the
// model without re-checking.
func (m *Model) Validate() error {
	if m.Resource == nil || m.Resource.Name == "" {
		return errors.New("configuration must declare a named resource block")
	}
	seen := make(map[string]struct{}, len(m.Scripts))
	for _, s := range m.Scripts {
		if s.Path == "" {
			return fmt.Errorf("script %q is missing a path", s.Name)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate script name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	for _, ev := range m.Mocks {
		if ev.Action == "" {
			return errors.New("mock event is missing an action")
		}
	}
	if m.DevServer != nil && m.DevServer.Port <= 0 {
		return errors.New("devserver block requires a positive port")
	}
	if m.Callback != nil && m.Callback.Port <= 0 {
		return errors.New("callback block requires a positive port")
	}
	return nil
}
