// Package http implements the HTTP transport layer for the registration
// dashboard API: filter-aware dashboard queries, trend and maker growth
// endpoints, and health checks. Handlers bind query parameters, validate
// them, call into services and render JSON responses, converting failures
// to RFC 7807 problem documents.
package http
