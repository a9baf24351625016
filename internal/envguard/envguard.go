// Package envguard decides whether the UI layer is running inside the
// embedded game client or in an ordinary browser-style dev context. The
// decision is made once at startup and injected into the components that
// branch on it, so both branches stay testable.
package envguard

import "os"

// Environment identifies the execution context of the UI layer.
type Environment int

const (
	// Browser is a standalone browser or dev harness without the game
	// client attached. Mock behaviour and debug aids are allowed.
	Browser Environment = iota
	// Embedded is the game client's own UI surface. Mock behaviour must
	// never fire here.
	Embedded
)

// SentinelResource is the placeholder identifier the UI frame reports when
// it is not hosted by the game client.
const SentinelResource = "nui-frame-app"

// resourceEnvVar is how the embedded runtime advertises the owning resource
// to helper processes.
const resourceEnvVar = "NUI_RESOURCE_NAME"

// String returns a human-readable name for the environment.
func (e Environment) String() string {
	if e == Embedded {
		return "embedded"
	}
	return "browser"
}

// IsEmbedded reports whether the environment is the game client's UI surface.
func (e Environment) IsEmbedded() bool {
	return e == Embedded
}

// LookupFunc reports the host-provided resource identifier, if any.
type LookupFunc func() (string, bool)

// DefaultLookup reads the resource identifier from the process environment.
func DefaultLookup() (string, bool) {
	v := os.Getenv(resourceEnvVar)
	return v, v != ""
}

// Detect resolves the environment from the host-provided identifier: the
// context is embedded exactly when an identifier is present and is not the
// sentinel. The check is pure apart from the injected lookup.
func Detect(lookup LookupFunc) Environment {
	if lookup == nil {
		lookup = DefaultLookup
	}
	name, ok := lookup()
	if ok && name != "" && name != SentinelResource {
		return Embedded
	}
	return Browser
}
