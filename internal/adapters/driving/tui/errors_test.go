package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingSessionGate.Error(), ErrInvalidPorts.Error())
}

func TestErrMissingSessionGate_Message(t *testing.T) {
	assert.Contains(t, ErrMissingSessionGate.Error(), "session gate")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
