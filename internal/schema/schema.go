// Package schema holds the HCL-specific structures a bridge configuration
// file decodes into. Translation into the format-agnostic config model
// happens in the hcl package.
package schema

import "github.com/hashicorp/hcl/v2"

// Resource represents a `resource` block naming the overlay resource.
type Resource struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Convars represents a `convars` block. Its attributes are free-form
// name/value pairs, so the body is decoded with JustAttributes.
type Convars struct {
	Body hcl.Body `hcl:",remain"`
}

// Script represents a `script` block pointing at one client script.
type Script struct {
	Name string `hcl:"name,label"`
	Path string `hcl:"path"`
}

// Mock represents a `mock` block: one scripted UI message for dev replay.
// Data stays an expression so payloads can be arbitrary HCL literals.
type Mock struct {
	Action string         `hcl:"action,label"`
	Data   hcl.Expression `hcl:"data,optional"`
	Delay  string         `hcl:"delay,optional"`
}

// DevServer represents the `devserver` block.
type DevServer struct {
	Port  int    `hcl:"port"`
	UIDir string `hcl:"ui_dir,optional"`
}

// Callback represents the `callback` block.
type Callback struct {
	Port           int    `hcl:"port"`
	RequestTimeout string `hcl:"request_timeout,optional"`
}

// Root is the top-level structure of a bridge configuration file.
type Root struct {
	Resource  *Resource  `hcl:"resource,block"`
	Convars   *Convars   `hcl:"convars,block"`
	Scripts   []*Script  `hcl:"script,block"`
	Mocks     []*Mock    `hcl:"mock,block"`
	DevServer *DevServer `hcl:"devserver,block"`
	Callback  *Callback  `hcl:"callback,block"`
	Body      hcl.Body   `hcl:",remain"`
}
