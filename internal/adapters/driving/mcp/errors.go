// Package mcp provides an MCP (Model Context Protocol) server adapter for kbhub.
// It gives AI assistants read-only access to the knowledge base: listing
// files, semantic search and preview links.
package mcp

import "errors"

var (
	// ErrMissingSessionGate is returned when the session gate is not provided.
	ErrMissingSessionGate = errors.New("mcp: session gate is required")

	// ErrEmptyQuery is returned when a search tool is called without a query.
	ErrEmptyQuery = errors.New("mcp: query is required")
)
