package mcp

import (
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Gate resolves the signed-in session into a workspace.
	Gate driving.SessionGate
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Gate == nil {
		return ErrMissingSessionGate
	}
	return nil
}
