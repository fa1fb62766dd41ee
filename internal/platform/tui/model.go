package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/demoloop/internal/core"
	"github.com/vovakirdan/demoloop/internal/registry"
	"github.com/vovakirdan/demoloop/internal/storage"
)

// Model is the Bubble Tea model for running a demo.
type Model struct {
	game     registry.Game
	screen   *core.Screen
	store    *storage.Store
	config   core.RuntimeConfig
	logger   *log.Logger
	keys     GameKeyMap
	tracker  *KeyTracker
	cursor   *core.Vec2
	pause    bool
	lastTick time.Time
	state    core.GameState
	quitting bool
	back     bool
	inMenu   bool // back returns to a menu instead of quitting
	now      func() time.Time
}

// NewModel creates a new Bubble Tea model for the given demo and resets it.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) (Model, error) {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	if err := game.Reset(cfg); err != nil {
		return Model{}, fmt.Errorf("tui: reset %s: %w", game.ID(), err)
	}

	return Model{
		game:    game,
		screen:  core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:   store,
		config:  cfg,
		logger:  cfg.Logger,
		keys:    DefaultGameKeyMap(),
		tracker: NewKeyTracker(DefaultHoldTimeout),
		state:   game.State(),
		now:     time.Now,
	}, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.back = true
		if m.inMenu {
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Screenshot):
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "err", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		m.pause = true
		m.tracker.Reset()
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		m.restart()
		return m, nil
	}

	if k, ok := PhysicalKey(msg); ok {
		m.tracker.Observe(k)
	}
	return m, nil
}

// handleMouse moves the aim cursor for demos that map screen cells.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	mapper, ok := m.game.(registry.ScreenMapper)
	if !ok {
		return m, nil
	}
	p := mapper.CellToWorld(msg.X, msg.Y)
	m.cursor = &p
	return m, nil
}

// handleResize processes window resize events.
// Demos fit the world to whatever screen they draw into, so the run continues.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// restart begins a fresh session on a new seed.
func (m *Model) restart() {
	m.config.Seed = m.now().UnixNano()
	if err := m.game.Reset(m.config); err != nil {
		m.logger.Error("restart failed", "game", m.game.ID(), "err", err)
		return
	}
	m.tracker.Reset()
	m.pause = false
	m.lastTick = time.Time{}
	m.state = m.game.State()
	m.logger.Info("new session", "game", m.game.ID(), "seed", m.config.Seed)
}

// handleTick advances the demo by the wall-clock time since the last tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	// A second tick chain (left over from a previous session) is dropped.
	if !m.lastTick.IsZero() && now.Sub(m.lastTick) < tickInterval(m.config.TickRate)/2 {
		return m, nil
	}
	in := core.FrameInput{
		Delta:  frameDelta(m.lastTick, now, m.config.TickRate),
		Keys:   m.tracker.Flush(),
		Cursor: m.cursor,
		Pause:  m.pause,
	}
	m.lastTick = now
	m.pause = false

	result := m.game.Step(in)
	m.state = result.State

	if result.Ended != nil {
		m.recordRun(*result.Ended)
	}

	return m, tickCmd(m.config.TickRate)
}

// recordRun stores a finished run. Runs that never scored are only logged.
func (m *Model) recordRun(run core.RunSummary) {
	m.logger.Info("run ended",
		"game", m.game.ID(),
		"score", run.Score,
		"duration", run.Duration,
		"digest", fmt.Sprintf("%016x", run.Digest),
	)
	if m.store == nil || run.Score <= 0 {
		return
	}
	id, err := m.store.SaveRun(m.game.ID(), run)
	if err != nil {
		m.logger.Error("save run failed", "err", err)
		return
	}
	m.logger.Debug("run saved", "id", id, "frames", len(run.Trace))
}

// saveScreenshot writes the current screen to ~/.demoloop/screenshots.
func (m *Model) saveScreenshot() (string, error) {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".demoloop", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	timestamp := m.now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// BackToMenu reports whether the user asked to leave the demo.
func (m Model) BackToMenu() bool {
	return m.back
}

// IsQuitting reports whether the user asked to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// State returns the state after the last tick.
func (m Model) State() core.GameState {
	return m.state
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program with the given demo. It reports
// whether the user left with the back key rather than quitting.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...tea.ProgramOption) (backToMenu bool, err error) {
	model, err := NewModel(game, store, cfg)
	if err != nil {
		return false, err
	}

	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(), // aim follows the pointer
	}, opts...)

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.BackToMenu(), nil
}
