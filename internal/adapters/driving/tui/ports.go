// Package tui provides an interactive terminal user interface for kbhub.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
// Everything session-scoped is reached through the workspace the gate opens.
type Ports struct {
	// Gate resolves the signed-in user and opens their workspace.
	Gate driving.SessionGate
}

// NewPorts creates a new Ports aggregate.
func NewPorts(gate driving.SessionGate) *Ports {
	return &Ports{Gate: gate}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Gate == nil {
		return ErrMissingSessionGate
	}
	return nil
}
