// Package app wires configuration, logging, the scripting host and the dev
// servers into one runnable bridge instance.
package app
