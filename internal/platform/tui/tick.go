// Package tui provides the Bubble Tea integration for demoloop.
// It owns the frame clock, turns terminal input into key edges, and
// draws demo screens with lipgloss.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick.
type TickMsg time.Time

// maxDelta caps the frame time so a stalled terminal does not tunnel
// the player through pipes.
const maxDelta = 0.1

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(tickInterval(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func tickInterval(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = 60
	}
	return time.Second / time.Duration(tickRate)
}

// frameDelta returns the seconds between two ticks, capped at maxDelta.
// The first tick has no predecessor and gets one nominal frame.
func frameDelta(prev, now time.Time, tickRate int) float32 {
	if prev.IsZero() {
		if tickRate <= 0 {
			tickRate = 60
		}
		return 1 / float32(tickRate)
	}
	dt := now.Sub(prev).Seconds()
	if dt < 0 {
		dt = 0
	}
	if dt > maxDelta {
		dt = maxDelta
	}
	return float32(dt)
}
