package convar

import (
	"fmt"
	"io"
)

// debugSuffix is appended to a resource name to form its debug-mode convar.
const debugSuffix = "-debugMode"

// DebugConvar returns the name of the convar gating a resource's debug
// output.
func DebugConvar(resource string) string {
	return resource + debugSuffix
}

// DebugPrinter emits diagnostic lines only while the owning resource's
// debug convar is truthy. The convar is re-read on every print so the flag
// can be flipped mid-session.
type DebugPrinter struct {
	out      io.Writer
	store    *Store
	resource string
}

// NewDebugPrinter creates a printer for a resource backed by a store.
func NewDebugPrinter(out io.Writer, store *Store, resource string) *DebugPrinter {
	return &DebugPrinter{out: out, store: store, resource: resource}
}

// Print formats values like fmt.Println when debug mode is enabled and does
// nothing otherwise.
func (p *DebugPrinter) Print(values ...any) {
	if p == nil || p.store == nil || !p.store.GetBool(DebugConvar(p.resource)) {
		return
	}
	fmt.Fprintln(p.out, values...)
}
