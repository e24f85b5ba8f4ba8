package daemon

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/1broseidon/scratchpad/internal/config"
	"github.com/1broseidon/scratchpad/internal/platform"
	"github.com/1broseidon/scratchpad/internal/scratchpad"
)

type stubBackend struct {
	mu       sync.Mutex
	spawned  []string
	shown    []platform.WindowID
	hidden   []platform.WindowID
	managed  []platform.WindowID
	moved    map[platform.WindowID]platform.Rect
	displays []platform.Display
	active   int
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		moved: make(map[platform.WindowID]platform.Rect),
		displays: []platform.Display{
			{ID: 0, Name: "DP-1", Bounds: platform.Rect{Width: 1000, Height: 800}, Usable: platform.Rect{Width: 1000, Height: 800}},
			{ID: 1, Name: "HDMI-1", Bounds: platform.Rect{X: 1000, Width: 500, Height: 400}, Usable: platform.Rect{X: 1000, Width: 500, Height: 400}},
		},
	}
}

func (b *stubBackend) Displays() ([]platform.Display, error) {
	return b.displays, nil
}

func (b *stubBackend) ActiveDisplay() (platform.Display, error) {
	return b.displays[b.active], nil
}

func (b *stubBackend) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.moved[id] = bounds
	return nil
}

func (b *stubBackend) Show(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shown = append(b.shown, id)
	return nil
}

func (b *stubBackend) Hide(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hidden = append(b.hidden, id)
	return nil
}

func (b *stubBackend) MarkExternallyManaged(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.managed = append(b.managed, id)
	return nil
}

func (b *stubBackend) WindowClass(id platform.WindowID) string { return "" }

func (b *stubBackend) Spawn(command string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.spawned = append(b.spawned, command)
	return nil
}

type fakeBinder struct {
	callbacks map[string]func()
}

func newFakeBinder() *fakeBinder {
	return &fakeBinder{callbacks: make(map[string]func())}
}

func (b *fakeBinder) RegisterFunc(seq string, cb func()) error {
	b.callbacks[seq] = cb
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(pads ...config.ScratchpadConfig) *config.Config {
	return &config.Config{Scratchpads: pads}
}

func padConfig(name, command string) config.ScratchpadConfig {
	return config.ScratchpadConfig{
		Name:    name,
		Command: command,
		Width:   0.8,
		Height:  0.8,
	}
}

func newTestManager(t *testing.T, backend *stubBackend, cfg *config.Config) *Manager {
	t.Helper()
	m, err := NewManager(backend, cfg, "/nonexistent/config.yaml", testLogger())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestToggle_UnknownNameFails(t *testing.T) {
	m := newTestManager(t, newStubBackend(), testConfig(padConfig("term", "xterm")))

	if err := m.Toggle("nope"); err == nil {
		t.Fatal("expected error for unknown scratchpad name")
	}
}

func TestToggle_SpawnsThenAdoptsWindow(t *testing.T) {
	backend := newStubBackend()
	m := newTestManager(t, backend, testConfig(padConfig("term", "xterm")))

	if err := m.Toggle("term"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if len(backend.spawned) != 1 || backend.spawned[0] != "xterm" {
		t.Fatalf("expected one spawn of xterm, got %v", backend.spawned)
	}

	m.WindowCreated(42, "XTerm")

	infos := m.Scratchpads()
	if len(infos) != 1 {
		t.Fatalf("expected one scratchpad, got %d", len(infos))
	}
	if infos[0].State != string(scratchpad.StateVisible) {
		t.Fatalf("expected visible, got %s", infos[0].State)
	}
	if infos[0].WindowID != 42 {
		t.Fatalf("expected window 42, got %d", infos[0].WindowID)
	}
	if got := backend.moved[42]; got != (platform.Rect{X: 100, Y: 80, Width: 800, Height: 640}) {
		t.Fatalf("unexpected geometry: %+v", got)
	}
	if len(backend.managed) != 1 || backend.managed[0] != 42 {
		t.Fatalf("expected window 42 marked externally managed, got %v", backend.managed)
	}
}

func TestWindowCreated_FirstPendingClaims(t *testing.T) {
	backend := newStubBackend()
	m := newTestManager(t, backend, testConfig(
		padConfig("first", "xterm"),
		padConfig("second", "alacritty"),
	))

	m.Toggle("first")
	m.Toggle("second")

	m.WindowCreated(10, "XTerm")
	m.WindowCreated(11, "Alacritty")

	infos := m.Scratchpads()
	if infos[0].WindowID != 10 {
		t.Fatalf("expected first scratchpad to claim window 10, got %d", infos[0].WindowID)
	}
	if infos[1].WindowID != 11 {
		t.Fatalf("expected second scratchpad to claim window 11, got %d", infos[1].WindowID)
	}
}

func TestWindowCreated_ClassRouting(t *testing.T) {
	alpha := padConfig("alpha", "xterm -class Alpha")
	alpha.MatchClass = "Alpha"
	beta := padConfig("beta", "xterm -class Beta")
	beta.MatchClass = "Beta"

	backend := newStubBackend()
	m := newTestManager(t, backend, testConfig(alpha, beta))

	m.Toggle("alpha")
	m.Toggle("beta")

	// Spawn order does not dictate adoption order when classes match.
	m.WindowCreated(20, "Beta")

	infos := m.Scratchpads()
	if infos[0].State != string(scratchpad.StatePending) {
		t.Fatalf("expected alpha still pending, got %s", infos[0].State)
	}
	if infos[1].WindowID != 20 {
		t.Fatalf("expected beta to claim window 20, got %d", infos[1].WindowID)
	}
}

func TestWindowCreated_ReshownWindowIsNotReadopted(t *testing.T) {
	backend := newStubBackend()
	m := newTestManager(t, backend, testConfig(
		padConfig("first", "xterm"),
		padConfig("second", "alacritty"),
	))

	m.Toggle("first")
	m.WindowCreated(10, "XTerm")
	m.Toggle("first") // hide

	m.Toggle("second") // pending, no match class
	m.Toggle("first")  // show again, which maps window 10 again
	m.WindowCreated(10, "XTerm")

	infos := m.Scratchpads()
	if infos[0].WindowID != 10 {
		t.Fatalf("expected first scratchpad to keep window 10, got %d", infos[0].WindowID)
	}
	if infos[1].State != string(scratchpad.StatePending) {
		t.Fatalf("expected second scratchpad still pending, got %s", infos[1].State)
	}
	if infos[1].WindowID != 0 {
		t.Fatalf("expected second scratchpad windowless, got %d", infos[1].WindowID)
	}
}

func TestWindowRemoved_ResetsScratchpad(t *testing.T) {
	backend := newStubBackend()
	m := newTestManager(t, backend, testConfig(padConfig("term", "xterm")))

	m.Toggle("term")
	m.WindowCreated(42, "XTerm")
	m.WindowRemoved(42)

	infos := m.Scratchpads()
	if infos[0].State != string(scratchpad.StateEmpty) {
		t.Fatalf("expected empty after window removal, got %s", infos[0].State)
	}
}

func TestLayoutApplied_ReassertsVisibleScratchpad(t *testing.T) {
	backend := newStubBackend()
	m := newTestManager(t, backend, testConfig(padConfig("term", "xterm")))

	m.Toggle("term")
	m.WindowCreated(42, "XTerm")
	delete(backend.moved, 42)
	shows := len(backend.shown)

	m.LayoutApplied()

	if got := backend.moved[42]; got != (platform.Rect{X: 100, Y: 80, Width: 800, Height: 640}) {
		t.Fatalf("expected geometry re-asserted, got %+v", got)
	}
	if len(backend.shown) != shows+1 {
		t.Fatalf("expected one more show, got %d", len(backend.shown)-shows)
	}
}

func TestApply_KeepsTrackedWindow(t *testing.T) {
	backend := newStubBackend()
	m := newTestManager(t, backend, testConfig(padConfig("term", "xterm")))

	m.Toggle("term")
	m.WindowCreated(42, "XTerm")

	updated := padConfig("term", "xterm")
	updated.Width = 0.5
	updated.Height = 0.5
	if err := m.Apply(testConfig(updated)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	infos := m.Scratchpads()
	if infos[0].WindowID != 42 {
		t.Fatalf("expected tracked window kept across reload, got %d", infos[0].WindowID)
	}
	if got := backend.moved[42]; got != (platform.Rect{X: 250, Y: 200, Width: 500, Height: 400}) {
		t.Fatalf("expected new geometry applied, got %+v", got)
	}
}

func TestApply_RemovedScratchpadIsHidden(t *testing.T) {
	backend := newStubBackend()
	m := newTestManager(t, backend, testConfig(
		padConfig("term", "xterm"),
		padConfig("notes", "emacs"),
	))

	m.Toggle("notes")
	m.WindowCreated(77, "Emacs")

	if err := m.Apply(testConfig(padConfig("term", "xterm"))); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	infos := m.Scratchpads()
	if len(infos) != 1 || infos[0].Name != "term" {
		t.Fatalf("expected only term left, got %+v", infos)
	}

	hidden := false
	for _, id := range backend.hidden {
		if id == 77 {
			hidden = true
		}
	}
	if !hidden {
		t.Fatal("expected removed scratchpad's window to be hidden")
	}
}

func TestHotkeys_ToggleAndRemap(t *testing.T) {
	term := padConfig("term", "xterm")
	term.Hotkey = "Mod4-grave"

	backend := newStubBackend()
	m := newTestManager(t, backend, testConfig(term))

	binder := newFakeBinder()
	if err := m.BindHotkeys(binder); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	cb, ok := binder.callbacks["Mod4-grave"]
	if !ok {
		t.Fatal("expected Mod4-grave to be grabbed")
	}
	cb()
	if len(backend.spawned) != 1 {
		t.Fatalf("expected hotkey press to spawn, got %v", backend.spawned)
	}

	// Drop the hotkey via reload; the grabbed sequence becomes a no-op.
	unbound := padConfig("term", "xterm")
	if err := m.Apply(testConfig(unbound)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	cb()
	if len(backend.spawned) != 1 {
		t.Fatalf("expected unbound hotkey press to be a no-op, got %v", backend.spawned)
	}
}

func TestHotkeys_NewSequenceGrabbedOnReload(t *testing.T) {
	backend := newStubBackend()
	m := newTestManager(t, backend, testConfig(padConfig("term", "xterm")))

	binder := newFakeBinder()
	if err := m.BindHotkeys(binder); err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	if len(binder.callbacks) != 0 {
		t.Fatalf("expected no grabs yet, got %d", len(binder.callbacks))
	}

	rebound := padConfig("term", "xterm")
	rebound.Hotkey = "Mod4-t"
	if err := m.Apply(testConfig(rebound)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	cb, ok := binder.callbacks["Mod4-t"]
	if !ok {
		t.Fatal("expected Mod4-t grabbed after reload")
	}
	cb()
	if len(backend.spawned) != 1 {
		t.Fatalf("expected toggle via new hotkey, got %v", backend.spawned)
	}
}
