// Package app wires the application together: configuration, logging,
// Prometheus metrics, the source loader, dashboard and health services,
// the chi router with its middleware chain, and the HTTP server with
// graceful shutdown.
package app
