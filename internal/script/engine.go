// Package script hosts the client-side game scripts on an embedded
// JavaScript runtime, standing in for the game client's scripting side
// during development. Scripts talk to the overlay through the same bridge
// primitives the real client would use.
package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/nk/nuibridge/internal/bridge"
	"github.com/nk/nuibridge/internal/convar"
	"github.com/nk/nuibridge/internal/ctxlog"
)

// ErrNoCallback is returned when a request names an endpoint no script has
// registered.
var ErrNoCallback = errors.New("no callback registered for endpoint")

// DefaultScriptTimeout bounds a single script's top-level execution. Event
// callbacks invoked later are not subject to it.
const DefaultScriptTimeout = 60 * time.Second

// Engine runs client scripts on a single goja VM and exposes the bridge API
// to them. The VM is not safe for concurrent use, so every entry point into
// it is serialised by a mutex; that matches the single scripting execution
// context the game client provides.
type Engine struct {
	mu         sync.Mutex
	vm         *goja.Runtime
	dispatcher *bridge.Dispatcher
	convars    *convar.Store
	debug      *convar.DebugPrinter
	resource   string
	callbacks  map[string]goja.Callable
	baseCtx    context.Context
}

// NewEngine creates an Engine wired to a dispatcher and convar store. The
// context carries the logger used for script-originated sends. Diagnostic
// output from debugPrint goes to out.
func NewEngine(ctx context.Context, dispatcher *bridge.Dispatcher, convars *convar.Store, resource string, out io.Writer) *Engine {
	e := &Engine{
		vm:         goja.New(),
		dispatcher: dispatcher,
		convars:    convars,
		debug:      convar.NewDebugPrinter(out, convars, resource),
		resource:   resource,
		callbacks:  make(map[string]goja.Callable),
		baseCtx:    ctx,
	}
	e.bind(out)
	return e
}

// bind installs the host API on the VM.
func (e *Engine) bind(out io.Writer) {
	vm := e.vm

	vm.Set("sprintf", fmt.Sprintf)
	vm.Set("println", func(values ...any) {
		fmt.Fprintln(out, values...)
	})
	vm.Set("getResourceName", func() string {
		return e.resource
	})
	vm.Set("getConvar", func(name, fallback string) string {
		return e.convars.GetString(name, fallback)
	})
	vm.Set("debugPrint", func(values ...any) {
		e.debug.Print(values...)
	})
	vm.Set("sendUIMessage", func(action string, data goja.Value) {
		var payload any
		if data != nil && !goja.IsUndefined(data) && !goja.IsNull(data) {
			payload = data.Export()
		}
		e.dispatcher.Send(e.baseCtx, action, payload)
	})
	vm.Set("registerCallback", func(endpoint string, fn goja.Value) {
		callable, ok := goja.AssertFunction(fn)
		if !ok {
			panic(vm.ToValue(fmt.Sprintf("registerCallback(%q): second argument is not a function", endpoint)))
		}
		e.callbacks[endpoint] = callable
		ctxlog.FromContext(e.baseCtx).Debug("Registered script callback.", "endpoint", endpoint)
	})
}

// RunFile loads and runs one script file.
func (e *Engine) RunFile(ctx context.Context, name, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script %q: %w", name, err)
	}
	return e.RunScript(ctx, name, string(src))
}

// RunScript executes a script's top-level code with a deadline. The VM is
// interrupted if the script does not finish in time.
func (e *Engine) RunScript(ctx context.Context, name, src string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running client script.", "script", name)

	runCtx, cancel := context.WithTimeout(ctx, DefaultScriptTimeout)
	defer cancel()

	type result struct {
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		_, err := e.vm.RunScript(name, src)
		resultCh <- result{err: err}
	}()

	select {
	case <-runCtx.Done():
		e.vm.Interrupt("timeout")
		// Wait for the interrupted run to unwind before reusing the VM.
		<-resultCh
		e.vm.ClearInterrupt()
		return fmt.Errorf("script %q timed out: %w", name, runCtx.Err())
	case res := <-resultCh:
		if res.err != nil {
			return fmt.Errorf("failed to run script %q: %w", name, res.err)
		}
		return nil
	}
}

// InvokeCallback routes one endpoint call into the registered script
// callback and returns its result encoded as JSON. The request body is
// decoded before crossing into the VM so scripts see plain objects.
func (e *Engine) InvokeCallback(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	callable, ok := e.callbacks[endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoCallback, endpoint)
	}

	var payload any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("invalid request body for endpoint %q: %w", endpoint, err)
		}
	}

	ctxlog.FromContext(ctx).Debug("Invoking script callback.", "endpoint", endpoint)
	res, err := callable(goja.Undefined(), e.vm.ToValue(payload))
	if err != nil {
		return nil, fmt.Errorf("callback %q failed: %w", endpoint, err)
	}

	var out any
	if res != nil && !goja.IsUndefined(res) && !goja.IsNull(res) {
		out = res.Export()
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("callback %q returned an unencodable value: %w", endpoint, err)
	}
	return encoded, nil
}

// Endpoints lists the registered callback endpoints.
func (e *Engine) Endpoints() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.callbacks))
	for name := range e.callbacks {
		names = append(names, name)
	}
	return names
}
