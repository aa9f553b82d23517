package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
)

// Ensure ViewState implements the interface.
var _ driving.ViewState = (*ViewState)(nil)

// ViewState tracks the active tab. Reachable tabs are fixed by the role
// set at construction.
type ViewState struct {
	mu     sync.RWMutex
	caps   domain.Capabilities
	active domain.Tab
}

// NewViewState starts on the default tab for caps.
func NewViewState(caps domain.Capabilities) *ViewState {
	return &ViewState{
		caps:   caps,
		active: caps.DefaultTab(),
	}
}

// Active returns the current tab.
func (v *ViewState) Active() domain.Tab {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.active
}

// Tabs returns the reachable tabs in display order.
func (v *ViewState) Tabs() []domain.Tab {
	return v.caps.Tabs()
}

// Switch changes the active tab.
func (v *ViewState) Switch(tab domain.Tab) error {
	if !v.caps.Allows(tab) {
		return fmt.Errorf("%w: %s", domain.ErrTabUnavailable, tab)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.active = tab
	return nil
}
