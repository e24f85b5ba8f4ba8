// Package daemon orchestrates the scratchpad controllers: it adapts the
// platform backend into the host surface scratchpads drive, dispatches
// window events from the X event loop, and serves toggle requests coming
// in over hotkeys and IPC.
package daemon

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/scratchpad/internal/config"
	"github.com/1broseidon/scratchpad/internal/ipc"
	"github.com/1broseidon/scratchpad/internal/platform"
	"github.com/1broseidon/scratchpad/internal/scratchpad"
)

// HotkeyBinder registers a callback on a global key sequence.
type HotkeyBinder interface {
	RegisterFunc(keySequence string, callback func()) error
}

// Manager owns the set of configured scratchpads. It implements
// scratchpad.Host on top of the platform backend and ipc.Controller for
// the IPC server.
type Manager struct {
	backend    platform.Backend
	logger     *slog.Logger
	configPath string

	mu sync.Mutex
	// pads preserves configuration order; with no class match configured,
	// the first pending scratchpad in this order claims a new window.
	pads    []*scratchpad.Scratchpad
	byName  map[string]*scratchpad.Scratchpad
	hotkeys map[string]string // key sequence -> scratchpad name
	cfgs    map[string]config.ScratchpadConfig

	binder  HotkeyBinder
	grabbed map[string]bool
}

var (
	_ scratchpad.Host = (*Manager)(nil)
	_ ipc.Controller  = (*Manager)(nil)
)

// NewManager builds a manager and one scratchpad per configured entry.
// The config is assumed validated.
func NewManager(backend platform.Backend, cfg *config.Config, configPath string, logger *slog.Logger) (*Manager, error) {
	m := &Manager{
		backend:    backend,
		logger:     logger,
		configPath: configPath,
		byName:     make(map[string]*scratchpad.Scratchpad),
		hotkeys:    make(map[string]string),
		cfgs:       make(map[string]config.ScratchpadConfig),
		grabbed:    make(map[string]bool),
	}

	for _, sc := range cfg.Scratchpads {
		opts, err := buildOptions(sc)
		if err != nil {
			return nil, err
		}
		pad, err := scratchpad.New(m, opts)
		if err != nil {
			return nil, err
		}
		m.pads = append(m.pads, pad)
		m.byName[sc.Name] = pad
		m.cfgs[sc.Name] = sc
		if sc.Hotkey != "" {
			m.hotkeys[sc.Hotkey] = sc.Name
		}
	}

	return m, nil
}

func buildOptions(sc config.ScratchpadConfig) (scratchpad.Options, error) {
	a, err := sc.BuildAnchor()
	if err != nil {
		return scratchpad.Options{}, fmt.Errorf("scratchpad %q: %w", sc.Name, err)
	}
	return scratchpad.Options{
		Name:       sc.Name,
		Command:    sc.Command,
		Width:      sc.Width,
		Height:     sc.Height,
		Anchor:     a,
		MatchClass: sc.MatchClass,
		Screen:     sc.GetScreen(),
	}, nil
}

// BindHotkeys grabs the configured key sequences. The binder is retained
// so sequences added by a config reload can be grabbed later; sequences
// removed by a reload stay grabbed but fall through to a no-op.
func (m *Manager) BindHotkeys(binder HotkeyBinder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.binder = binder
	for seq := range m.hotkeys {
		if err := m.grabLocked(seq); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) grabLocked(seq string) error {
	if m.grabbed[seq] {
		return nil
	}
	sequence := seq
	if err := m.binder.RegisterFunc(sequence, func() {
		m.toggleByHotkey(sequence)
	}); err != nil {
		return fmt.Errorf("failed to bind hotkey %q: %w", sequence, err)
	}
	m.grabbed[seq] = true
	m.logger.Info("hotkey bound", "sequence", seq, "scratchpad", m.hotkeys[seq])
	return nil
}

// toggleByHotkey resolves the key sequence at press time so a config
// reload can re-point a sequence without re-grabbing it.
func (m *Manager) toggleByHotkey(seq string) {
	m.mu.Lock()
	name, ok := m.hotkeys[seq]
	pad := m.byName[name]
	m.mu.Unlock()

	if !ok || pad == nil {
		m.logger.Debug("hotkey no longer bound", "sequence", seq)
		return
	}

	m.logger.Debug("hotkey toggle", "sequence", seq, "scratchpad", name)
	pad.Toggle()
}

// Toggle toggles a named scratchpad. Part of ipc.Controller.
func (m *Manager) Toggle(name string) error {
	m.mu.Lock()
	pad, ok := m.byName[name]
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown scratchpad %q", name)
	}
	pad.Toggle()
	return nil
}

// Scratchpads reports the state of every scratchpad in configuration
// order. Part of ipc.Controller.
func (m *Manager) Scratchpads() []ipc.ScratchpadInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]ipc.ScratchpadInfo, 0, len(m.pads))
	for _, pad := range m.pads {
		info := ipc.ScratchpadInfo{
			Name:     pad.Name(),
			Command:  pad.Command(),
			State:    string(pad.State()),
			WindowID: uint32(pad.Window()),
		}
		if sc, ok := m.cfgs[pad.Name()]; ok {
			info.Hotkey = sc.Hotkey
		}
		infos = append(infos, info)
	}
	return infos
}

// Reload re-reads the configuration and applies it. Scratchpads that keep
// their name also keep their tracked window; removed ones are hidden and
// dropped; new ones are created. On any error the running configuration
// is left untouched.
func (m *Manager) Reload() error {
	cfg, err := config.LoadFromPath(m.configPath)
	if err != nil {
		return err
	}
	return m.Apply(cfg)
}

// Apply swaps in an already-validated configuration.
func (m *Manager) Apply(cfg *config.Config) error {
	// Build everything that can fail before touching live state.
	type staged struct {
		sc   config.ScratchpadConfig
		opts scratchpad.Options
	}
	stagedPads := make([]staged, 0, len(cfg.Scratchpads))
	for _, sc := range cfg.Scratchpads {
		opts, err := buildOptions(sc)
		if err != nil {
			return err
		}
		stagedPads = append(stagedPads, staged{sc: sc, opts: opts})
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	keep := make(map[string]bool, len(stagedPads))
	pads := make([]*scratchpad.Scratchpad, 0, len(stagedPads))
	byName := make(map[string]*scratchpad.Scratchpad, len(stagedPads))
	hotkeys := make(map[string]string, len(stagedPads))
	cfgs := make(map[string]config.ScratchpadConfig, len(stagedPads))

	for _, st := range stagedPads {
		keep[st.sc.Name] = true

		pad, ok := m.byName[st.sc.Name]
		if ok {
			if err := pad.UpdateOptions(st.opts); err != nil {
				return err
			}
		} else {
			var err error
			pad, err = scratchpad.New(m, st.opts)
			if err != nil {
				return err
			}
			m.logger.Info("scratchpad added", "name", st.sc.Name)
		}

		pads = append(pads, pad)
		byName[st.sc.Name] = pad
		cfgs[st.sc.Name] = st.sc
		if st.sc.Hotkey != "" {
			hotkeys[st.sc.Hotkey] = st.sc.Name
		}
	}

	for name, pad := range m.byName {
		if !keep[name] {
			pad.Hide()
			m.logger.Info("scratchpad removed", "name", name)
		}
	}

	m.pads = pads
	m.byName = byName
	m.hotkeys = hotkeys
	m.cfgs = cfgs

	if m.binder != nil {
		for seq := range m.hotkeys {
			if err := m.grabLocked(seq); err != nil {
				m.logger.Warn("hotkey bind failed on reload", "sequence", seq, "error", err)
			}
		}
	}

	m.logger.Info("configuration applied", "scratchpads", len(m.pads))
	return nil
}

// WindowCreated offers a newly mapped window to the scratchpads. The
// first one that adopts it ends the dispatch.
func (m *Manager) WindowCreated(id platform.WindowID, class string) {
	m.mu.Lock()
	pads := make([]*scratchpad.Scratchpad, len(m.pads))
	copy(pads, m.pads)
	m.mu.Unlock()

	// Maps fire for re-shown windows too, not just fresh clients. A window
	// some scratchpad already tracks must not be offered to a pending one.
	for _, pad := range pads {
		if pad.Window() == id {
			return
		}
	}

	for _, pad := range pads {
		pad.WindowCreated(id, class)
		if pad.Window() == id {
			m.logger.Info("window adopted", "scratchpad", pad.Name(), "window", id, "class", class)
			return
		}
	}
}

// WindowRemoved tells every scratchpad about a destroyed window.
func (m *Manager) WindowRemoved(id platform.WindowID) {
	m.mu.Lock()
	pads := make([]*scratchpad.Scratchpad, len(m.pads))
	copy(pads, m.pads)
	m.mu.Unlock()

	for _, pad := range pads {
		pad.WindowRemoved(id)
	}
}

// LayoutApplied re-asserts every visible scratchpad after the window
// manager recomputes its layout.
func (m *Manager) LayoutApplied() {
	index := -1
	if d, err := m.backend.ActiveDisplay(); err == nil {
		index = d.ID
	}

	m.mu.Lock()
	pads := make([]*scratchpad.Scratchpad, len(m.pads))
	copy(pads, m.pads)
	m.mu.Unlock()

	for _, pad := range pads {
		pad.LayoutApplied(index)
	}
}

// Spawn implements scratchpad.Host.
func (m *Manager) Spawn(command string) error {
	return m.backend.Spawn(command)
}

// ShowWindow implements scratchpad.Host.
func (m *Manager) ShowWindow(id platform.WindowID) error {
	return m.backend.Show(id)
}

// HideWindow implements scratchpad.Host.
func (m *Manager) HideWindow(id platform.WindowID) error {
	return m.backend.Hide(id)
}

// PositionWindow implements scratchpad.Host.
func (m *Manager) PositionWindow(id platform.WindowID, region platform.Rect) error {
	return m.backend.MoveResize(id, region)
}

// MarkExternallyManaged implements scratchpad.Host.
func (m *Manager) MarkExternallyManaged(id platform.WindowID) error {
	return m.backend.MarkExternallyManaged(id)
}

// ActiveScreenRegion implements scratchpad.Host using the active
// display's usable work area.
func (m *Manager) ActiveScreenRegion() (platform.Rect, error) {
	d, err := m.backend.ActiveDisplay()
	if err != nil {
		return platform.Rect{}, err
	}
	return d.Usable, nil
}

// ScreenRegion implements scratchpad.Host; the index is the display ID.
func (m *Manager) ScreenRegion(index int) (platform.Rect, bool) {
	displays, err := m.backend.Displays()
	if err != nil {
		return platform.Rect{}, false
	}
	for _, d := range displays {
		if d.ID == index {
			return d.Usable, true
		}
	}
	return platform.Rect{}, false
}
