package callback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nk/nuibridge/internal/bridge"
	"github.com/nk/nuibridge/internal/convar"
	"github.com/nk/nuibridge/internal/script"
	"github.com/nk/nuibridge/internal/uiclient"
)

// newTestServer mounts a callback server backed by a script engine on
// httptest and returns both.
func newTestServer(t *testing.T, scriptSrc string) (*httptest.Server, *script.Engine) {
	t.Helper()

	transport := noopTransport{}
	engine := script.NewEngine(context.Background(), bridge.NewDispatcher(transport), convar.NewStore(nil), "overlay", discard{})
	if scriptSrc != "" {
		require.NoError(t, engine.RunScript(context.Background(), "main", scriptSrc))
	}

	srv := httptest.NewServer(NewServer(context.Background(), engine).Routes())
	t.Cleanup(srv.Close)
	return srv, engine
}

type noopTransport struct{}

func (noopTransport) Send(context.Context, bridge.Message) error { return nil }

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestServer_RequestRoundTrip(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv, _ := newTestServer(t, `
		registerCallback("getClientData", function(data) {
			return { name: "John Doe", health: 100 };
		});
	`)
	b := bridge.NewRequestBridge(uiclient.NewHTTPCaller(srv.URL))

	// --- Act ---
	resp, err := b.Request(context.Background(), "getClientData", nil)

	// --- Assert ---
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"John Doe","health":100}`, string(resp))
}

func TestServer_UnknownEndpointIs404(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "")
	b := bridge.NewRequestBridge(uiclient.NewHTTPCaller(srv.URL))

	_, err := b.Request(context.Background(), "nobodyHome", nil)

	var reqErr *bridge.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "nobodyHome", reqErr.Endpoint)
	require.Contains(t, err.Error(), "404")
}

func TestServer_CallbackFailureIs500(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, `
		registerCallback("boom", function() {
			throw new Error("script exploded");
		});
	`)
	b := bridge.NewRequestBridge(uiclient.NewHTTPCaller(srv.URL))

	_, err := b.Request(context.Background(), "boom", nil)

	var reqErr *bridge.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Contains(t, err.Error(), "script exploded")
}

func TestServer_RejectsNonPOST(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/getClientData")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_MissingEndpointNameIs404(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "")

	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_CallbackReceivesRequestBody(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, `
		registerCallback("double", function(data) {
			return data.value * 2;
		});
	`)
	b := bridge.NewRequestBridge(uiclient.NewHTTPCaller(srv.URL))

	resp, err := b.Request(context.Background(), "double", map[string]int{"value": 21})
	require.NoError(t, err)
	require.JSONEq(t, "42", string(resp))
}
