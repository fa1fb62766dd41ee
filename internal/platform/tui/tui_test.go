package tui

import (
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/demoloop/internal/core"
	_ "github.com/vovakirdan/demoloop/internal/games/flappy"
	_ "github.com/vovakirdan/demoloop/internal/games/topdown"
	"github.com/vovakirdan/demoloop/internal/registry"
	"github.com/vovakirdan/demoloop/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

// fakeClock is advanced by hand.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestKeyTrackerEdges(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	kt := NewKeyTracker(100 * time.Millisecond)
	kt.now = clock.now

	kt.Observe(core.KeySpace)
	got := kt.Flush()
	if len(got) != 1 || got[0] != core.Press(core.KeySpace) {
		t.Fatalf("first message = %+v, expected a plain press", got)
	}

	// Auto-repeat while held.
	clock.advance(50 * time.Millisecond)
	kt.Observe(core.KeySpace)
	got = kt.Flush()
	if len(got) != 1 || !got[0].Repeat || got[0].Edge != core.Pressed {
		t.Fatalf("second message = %+v, expected a repeat press", got)
	}

	clock.advance(100 * time.Millisecond)
	if got = kt.Flush(); len(got) != 0 {
		t.Errorf("key still inside hold timeout, got %+v", got)
	}
	if !kt.Held(core.KeySpace) {
		t.Error("key should still be held")
	}

	clock.advance(time.Millisecond)
	got = kt.Flush()
	if len(got) != 1 || got[0] != core.Release(core.KeySpace) {
		t.Fatalf("expired key = %+v, expected a release", got)
	}
	if kt.Held(core.KeySpace) {
		t.Error("released key should not be held")
	}

	// A new message after the release is a fresh press.
	kt.Observe(core.KeySpace)
	got = kt.Flush()
	if len(got) != 1 || got[0].Repeat {
		t.Errorf("press after release = %+v", got)
	}
}

func TestKeyTrackerSeparateTaps(t *testing.T) {
	tests := []struct {
		name     string
		gap      time.Duration
		expected []core.KeyEvent
	}{
		{"auto-repeat", 30 * time.Millisecond, []core.KeyEvent{{Key: core.KeySpace, Edge: core.Pressed, Repeat: true}}},
		{"at the repeat gap", DefaultRepeatGap, []core.KeyEvent{{Key: core.KeySpace, Edge: core.Pressed, Repeat: true}}},
		{"second tap", 300 * time.Millisecond, []core.KeyEvent{core.Release(core.KeySpace), core.Press(core.KeySpace)}},
		{"just inside the hold", DefaultHoldTimeout, []core.KeyEvent{core.Release(core.KeySpace), core.Press(core.KeySpace)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(1000, 0)}
			kt := NewKeyTracker(DefaultHoldTimeout)
			kt.now = clock.now

			kt.Observe(core.KeySpace)
			kt.Flush()
			clock.advance(tt.gap)
			kt.Observe(core.KeySpace)
			if got := kt.Flush(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("events = %+v, expected %+v", got, tt.expected)
			}
			if !kt.Held(core.KeySpace) {
				t.Error("key should be held after the second message")
			}
		})
	}
}

func TestKeyTrackerReleaseOrder(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	kt := NewKeyTracker(0)
	kt.now = clock.now

	kt.Observe(core.KeyD)
	kt.Observe(core.KeyW)
	kt.Flush()

	clock.advance(DefaultHoldTimeout + time.Millisecond)
	got := kt.Flush()
	expected := []core.KeyEvent{core.Release(core.KeyW), core.Release(core.KeyD)}
	if len(got) != len(expected) {
		t.Fatalf("Flush() = %+v, expected %+v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("event %d = %+v, expected %+v", i, got[i], expected[i])
		}
	}

	kt.Observe(core.KeyA)
	kt.Reset()
	if got := kt.Flush(); len(got) != 0 {
		t.Errorf("Reset() should drop pending events, got %+v", got)
	}
}

func TestPhysicalKey(t *testing.T) {
	tests := []struct {
		msg      tea.KeyMsg
		expected core.Key
		ok       bool
	}{
		{runes("w"), core.KeyW, true},
		{runes("d"), core.KeyD, true},
		{tea.KeyMsg{Type: tea.KeyUp}, core.KeyArrowUp, true},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.KeyArrowLeft, true},
		{space, core.KeySpace, true},
		{runes("x"), core.KeyUnknown, false},
	}
	for _, tt := range tests {
		k, ok := PhysicalKey(tt.msg)
		if k != tt.expected || ok != tt.ok {
			t.Errorf("PhysicalKey(%q) = %v, %v; expected %v, %v", tt.msg.String(), k, ok, tt.expected, tt.ok)
		}
	}
}

func TestFrameDelta(t *testing.T) {
	base := time.Unix(10, 0)
	tests := []struct {
		name     string
		prev     time.Time
		now      time.Time
		expected float32
	}{
		{"first tick", time.Time{}, base, 1.0 / 60},
		{"normal", base, base.Add(20 * time.Millisecond), 0.02},
		{"stall capped", base, base.Add(2 * time.Second), maxDelta},
		{"clock went back", base, base.Add(-time.Second), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := frameDelta(tt.prev, tt.now, 60); got != tt.expected {
				t.Errorf("frameDelta() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func newTestModel(t *testing.T, id string, store *storage.Store) Model {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	game, err := registry.Create(id)
	if err != nil {
		t.Fatal(err)
	}
	cfg := core.DefaultConfig()
	cfg.Seed = 7
	m, err := NewModel(game, store, cfg)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm
}

func TestModelJumpReachesDemo(t *testing.T) {
	m := newTestModel(t, "flappy", nil)
	start := time.Unix(100, 0)

	m = update(t, m, space)
	m = update(t, m, TickMsg(start))

	pos, ok := m.game.World().PlayerPosition()
	if !ok || pos.Y <= 0 {
		t.Errorf("space should flap the player up, y = %v", pos.Y)
	}
}

func TestModelTwoTapsFlapTwice(t *testing.T) {
	m := newTestModel(t, "flappy", nil)
	clock := &fakeClock{t: time.Unix(100, 0)}
	m.tracker.now = clock.now
	frame := time.Second / 60

	flaps := 0
	tick := func() {
		clock.advance(frame)
		m = update(t, m, TickMsg(clock.t))
		if m.game.World().Input().JustPressed(core.ActionJump) {
			flaps++
		}
	}

	m = update(t, m, space)
	tick()
	for i := 0; i < 18; i++ {
		tick()
	}
	m = update(t, m, space)
	tick()
	if !m.game.World().Input().JustPressed(core.ActionJump) {
		t.Error("second tap 300ms after the first did not press Jump")
	}
	if flaps != 2 {
		t.Errorf("two distinct taps produced %d flaps, expected 2", flaps)
	}
	if m.game.World().Restarts() != 0 {
		t.Errorf("run restarted %d times during the taps", m.game.World().Restarts())
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t, "flappy", nil)
	start := time.Unix(100, 0)

	m = update(t, m, runes("p"))
	m = update(t, m, TickMsg(start))
	if !m.State().Paused {
		t.Fatal("p should pause the demo")
	}

	frames := m.game.World().Frames()
	m = update(t, m, TickMsg(start.Add(time.Second/60)))
	if m.game.World().Frames() != frames {
		t.Error("paused demo should not tick")
	}

	m = update(t, m, runes("p"))
	m = update(t, m, TickMsg(start.Add(2*time.Second/60)))
	if m.State().Paused {
		t.Error("second p should resume")
	}
}

func TestModelDropsDuplicateTick(t *testing.T) {
	m := newTestModel(t, "flappy", nil)
	start := time.Unix(100, 0)

	m = update(t, m, TickMsg(start))
	m = update(t, m, TickMsg(start.Add(time.Millisecond)))
	if got := m.game.World().Frames(); got != 1 {
		t.Errorf("Frames() = %d, a tick right after another should be dropped", got)
	}
}

func TestModelSavesScoredRuns(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	m := newTestModel(t, "flappy", store)

	m.recordRun(core.RunSummary{Score: 0, Seed: 7})
	m.recordRun(core.RunSummary{Score: 3, Duration: 4, Seed: 7, Digest: 99})

	runs, err := store.AllScores("flappy")
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Score != 3 || runs[0].Digest != 99 {
		t.Errorf("stored runs = %+v, expected only the scored one", runs)
	}
}

func TestModelRestartUsesNewSeed(t *testing.T) {
	m := newTestModel(t, "flappy", nil)
	clock := &fakeClock{t: time.Unix(5000, 0)}
	m.now = clock.now

	m = update(t, m, TickMsg(time.Unix(100, 0)))
	m = update(t, m, runes("r"))

	if got := m.game.World().Seed(); got != clock.t.UnixNano() {
		t.Errorf("Seed() = %d, expected %d", got, clock.t.UnixNano())
	}
	if m.game.World().Frames() != 0 {
		t.Error("restart should build a fresh world")
	}
}

func TestModelMouseAims(t *testing.T) {
	m := newTestModel(t, "topdown", nil)
	m = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	if m.cursor == nil {
		t.Fatal("mouse motion should set the cursor for top-down")
	}
	if m.cursor.X >= 0 || m.cursor.Y <= 0 {
		t.Errorf("top-left cell should map to the upper left quadrant, got %+v", *m.cursor)
	}
}

func TestModelQuitAndBack(t *testing.T) {
	m := newTestModel(t, "flappy", nil)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !next.(Model).IsQuitting() || cmd == nil {
		t.Error("ctrl+c should quit")
	}

	m.inMenu = true
	next, cmd = m.Update(runes("b"))
	if !next.(Model).BackToMenu() || cmd != nil {
		t.Error("b inside a menu should go back without quitting the program")
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawTextColored(0, 0, "Score", core.ColorHUD)
	s.SetColored(0, 1, '@', core.ColorPlayer)

	out := RenderScreen(s)
	if !strings.Contains(out, "Score") || !strings.Contains(out, "@") {
		t.Errorf("RenderScreen() lost text: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderScreen() should emit one line per row, got %q", out)
	}
}

func TestMenuNavigation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	m := NewMenuModel(nil, core.DefaultConfig())
	if len(m.items) < 2 {
		t.Fatalf("menu should list the registered demos, got %d", len(m.items))
	}

	next, _ := m.Update(runes("j"))
	m = next.(MenuModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d after down, expected 1", m.cursor)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if m.Selected() == nil || m.Selected().GameID != m.items[1].GameID {
		t.Errorf("Selected() = %+v", m.Selected())
	}
	if !strings.Contains(m.View(), "D E M O L O O P") {
		t.Error("menu title missing")
	}
}

func TestSessionMenuToDemoAndBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	s := NewSessionModel(nil, core.DefaultConfig())

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = next.(SessionModel)
	if s.gameModel == nil {
		t.Fatal("enter should start the selected demo")
	}

	next, _ = s.Update(runes("b"))
	s = next.(SessionModel)
	if s.gameModel != nil {
		t.Error("b should return to the menu")
	}
	if s.quitting {
		t.Error("going back must not end the session")
	}
}

func TestScoreboardShowsRuns(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	games := registry.List()
	traced, err := store.SaveRun(games[0].ID, core.RunSummary{
		Score: 42, Duration: 12.5, Seed: 1234, Digest: 0xbeef,
		Trace: []core.FrameInput{{Delta: 1.0 / 60}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun(games[0].ID, core.RunSummary{Score: 7, Seed: 99}); err != nil {
		t.Fatal(err)
	}

	m := NewScoreboardModel(store, 100, 30)
	if len(m.runs) != 2 {
		t.Fatalf("runs = %d, expected 2", len(m.runs))
	}
	rows := m.table.Rows()
	if rows[0][1] != traced[:8] || rows[0][2] != "42" || rows[0][4] != "1234" || rows[0][5] != "000000000000beef" {
		t.Errorf("top row = %v", rows[0])
	}
	if !strings.Contains(m.View(), "Runs 2   Best 42") {
		t.Errorf("stats line missing from view:\n%s", m.View())
	}

	tests := []struct {
		name string
		key  tea.KeyMsg
		want string
	}{
		{"recorded run", tea.KeyMsg{}, "demoloop simulate --verify " + traced[:8]},
		{"seed only", tea.KeyMsg{Type: tea.KeyDown}, "demoloop play " + games[0].ID + " --seed 99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := m.Update(tt.key)
			m = next.(ScoreboardModel)
			if got := m.ReplayHint(); got != tt.want {
				t.Errorf("ReplayHint() = %q, expected %q", got, tt.want)
			}
		})
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.cursor != 1 || len(m.runs) != 0 || m.ReplayHint() != "" {
		t.Errorf("tab should switch to the next demo, cursor = %d runs = %d", m.cursor, len(m.runs))
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m = next.(ScoreboardModel); m.cursor != 0 || len(m.runs) != 2 {
		t.Errorf("shift+tab should return to the first demo, cursor = %d", m.cursor)
	}
}

func TestSSHShutdownClosesStoreLast(t *testing.T) {
	dir := t.TempDir()
	srv, err := NewSSHServer(SSHServerConfig{
		Address:     "127.0.0.1:0",
		HostKeyPath: filepath.Join(dir, "host_key"),
		DBPath:      filepath.Join(dir, "runs.db"),
		IdleTimeout: time.Second,
		Runtime:     core.DefaultConfig(),
		Logger:      log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewSSHServer() error = %v", err)
	}
	store := srv.store
	if store == nil {
		t.Fatal("store should be open")
	}
	if _, err := store.SaveRun("flappy", core.RunSummary{Score: 3}); err != nil {
		t.Fatalf("SaveRun() before shutdown error = %v", err)
	}

	for i := range 2 {
		if err := srv.Shutdown(); err != nil {
			t.Errorf("Shutdown() #%d error = %v", i+1, err)
		}
	}
	if srv.store != store {
		t.Error("Shutdown should not swap the store out from under sessions")
	}
	if _, err := store.HighScore("flappy"); err == nil {
		t.Error("store should be closed after shutdown")
	}
}
