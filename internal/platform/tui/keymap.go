package tui

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/demoloop/internal/core"
)

// physicalKeys maps Bubble Tea key strings to the keys demos understand.
var physicalKeys = map[string]core.Key{
	"w":     core.KeyW,
	"a":     core.KeyA,
	"s":     core.KeyS,
	"d":     core.KeyD,
	"up":    core.KeyArrowUp,
	"down":  core.KeyArrowDown,
	"left":  core.KeyArrowLeft,
	"right": core.KeyArrowRight,
	" ":     core.KeySpace,
	"space": core.KeySpace,
}

// PhysicalKey translates a key message to a demo key.
func PhysicalKey(msg tea.KeyMsg) (core.Key, bool) {
	k, ok := physicalKeys[msg.String()]
	return k, ok
}

// KeyByName looks up a demo key by its Bubble Tea name ("w", "up", "space").
func KeyByName(name string) (core.Key, bool) {
	k, ok := physicalKeys[name]
	return k, ok
}

// GameKeyMap holds the platform bindings that never reach a demo.
type GameKeyMap struct {
	Pause      key.Binding
	Restart    key.Binding
	Screenshot key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Restart, k.Screenshot, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new seed"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "screenshot"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DefaultHoldTimeout outlasts the usual terminal auto-repeat delay.
const DefaultHoldTimeout = 500 * time.Millisecond

// DefaultRepeatGap is longer than the usual terminal auto-repeat interval.
const DefaultRepeatGap = 100 * time.Millisecond

// KeyTracker turns terminal key messages, which only ever report presses,
// into press and release edges. Messages for a key closer together than the
// repeat gap are auto-repeat; a message after a longer gap is a new tap and
// yields a release followed by a fresh press. A key with no message for
// longer than the hold timeout is released.
type KeyTracker struct {
	hold    time.Duration
	gap     time.Duration
	now     func() time.Time
	held    map[core.Key]time.Time
	pending []core.KeyEvent
}

// NewKeyTracker creates a tracker. A zero hold uses DefaultHoldTimeout.
func NewKeyTracker(hold time.Duration) *KeyTracker {
	if hold <= 0 {
		hold = DefaultHoldTimeout
	}
	return &KeyTracker{
		hold: hold,
		gap:  min(DefaultRepeatGap, hold),
		now:  time.Now,
		held: make(map[core.Key]time.Time),
	}
}

// Observe records one key message.
func (t *KeyTracker) Observe(k core.Key) {
	now := t.now()
	last, held := t.held[k]
	t.held[k] = now
	switch {
	case !held:
		t.pending = append(t.pending, core.Press(k))
	case now.Sub(last) <= t.gap:
		t.pending = append(t.pending, core.KeyEvent{Key: k, Edge: core.Pressed, Repeat: true})
	default:
		t.pending = append(t.pending, core.Release(k), core.Press(k))
	}
}

// Flush returns the events gathered since the last call, followed by
// releases for keys whose hold expired.
func (t *KeyTracker) Flush() []core.KeyEvent {
	now := t.now()

	var expired []core.Key
	for k, last := range t.held {
		if now.Sub(last) > t.hold {
			expired = append(expired, k)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })
	for _, k := range expired {
		delete(t.held, k)
		t.pending = append(t.pending, core.Release(k))
	}

	events := t.pending
	t.pending = nil
	return events
}

// Held reports whether k is currently considered held.
func (t *KeyTracker) Held(k core.Key) bool {
	_, ok := t.held[k]
	return ok
}

// Reset forgets every held key without emitting releases.
func (t *KeyTracker) Reset() {
	clear(t.held)
	t.pending = nil
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
