// Package bridge implements the messaging contract between the game
// client's scripting runtime and the overlay UI layer: a named-action
// message envelope, a listener registry, a fire-and-forget dispatcher,
// and a request/response bridge backed by a single-shot promise.
//
// The package is transport-agnostic. The scripting side pushes messages
// through a Transport, and the UI side issues callback requests through
// a Caller; concrete implementations live in the devserver, callback
// and uiclient packages.
package bridge
