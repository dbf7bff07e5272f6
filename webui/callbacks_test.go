package webui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOneShotFireThenStop(t *testing.T) {
	released := 0
	o := &oneShot{release: func() { released++ }}

	assert.True(t, o.settle(), "fire")
	assert.False(t, o.settle(), "stop after fire")
	assert.Equal(t, 1, released)
}

func TestOneShotStopReleases(t *testing.T) {
	released := 0
	o := &oneShot{release: func() { released++ }}

	assert.True(t, o.settle(), "stop")
	assert.False(t, o.settle(), "late fire is dropped")
	assert.Equal(t, 1, released)
}

func TestOverlayGateShowCancelsPendingHide(t *testing.T) {
	var g overlayGate

	current := g.hide()
	g.show()
	assert.False(t, current(), "hide scheduled before a show must not apply")

	current = g.hide()
	assert.True(t, current())
}

func TestOverlayGateLatestHideWins(t *testing.T) {
	var g overlayGate

	first := g.hide()
	second := g.hide()
	assert.False(t, first())
	assert.True(t, second())
}
