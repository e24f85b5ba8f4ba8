package scratchpad

import (
	"fmt"
	"log"
	"sync"

	"github.com/1broseidon/scratchpad/internal/anchor"
	"github.com/1broseidon/scratchpad/internal/platform"
)

// Host is the window-system surface a scratchpad drives. All commands are
// idempotent; Spawn is fire-and-forget with no correlation token.
type Host interface {
	Spawn(command string) error
	ShowWindow(id platform.WindowID) error
	HideWindow(id platform.WindowID) error
	PositionWindow(id platform.WindowID, region platform.Rect) error
	// MarkExternallyManaged excludes a window from the host's normal
	// placement so the scratchpad alone controls its geometry.
	MarkExternallyManaged(id platform.WindowID) error
	ActiveScreenRegion() (platform.Rect, error)
	ScreenRegion(index int) (platform.Rect, bool)
}

// Options configures a single scratchpad.
type Options struct {
	Name    string
	Command string
	// Width and Height are fractions of the screen in [0,1].
	Width  float64
	Height float64
	Anchor anchor.Anchor
	// MatchClass restricts window adoption to windows whose WM_CLASS
	// matches. Empty means the first window mapped while a spawn is
	// outstanding is claimed, which is only safe when at most one
	// scratchpad has a pending spawn at a time.
	MatchClass string
	// Screen pins positioning to a fixed screen index; -1 follows the
	// active screen.
	Screen int
}

// State is the derived lifecycle state of a scratchpad.
type State string

const (
	StateEmpty   State = "empty"   // no window, no spawn outstanding
	StatePending State = "pending" // spawn issued, window not yet mapped
	StateHidden  State = "hidden"  // window tracked but not shown
	StateVisible State = "visible" // window tracked and shown
)

// Scratchpad tracks a single on-demand window shown above the normal
// layout. The three state fields are updated as one unit under mu: toggle
// requests can arrive from IPC goroutines while window notifications come
// from the X event loop.
type Scratchpad struct {
	host Host
	opts Options

	mu      sync.Mutex
	window  platform.WindowID // 0 = none
	pending bool
	visible bool
}

// New validates opts and returns a scratchpad bound to host. Fractions
// outside [0,1] and an empty command are setup mistakes and fail here,
// before a session starts.
func New(host Host, opts Options) (*Scratchpad, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return &Scratchpad{host: host, opts: opts}, nil
}

func validateOptions(opts Options) error {
	if opts.Command == "" {
		return fmt.Errorf("scratchpad %q: command must not be empty", opts.Name)
	}
	if opts.Width < 0 || opts.Width > 1 {
		return fmt.Errorf("scratchpad %q: width %v outside [0,1]", opts.Name, opts.Width)
	}
	if opts.Height < 0 || opts.Height > 1 {
		return fmt.Errorf("scratchpad %q: height %v outside [0,1]", opts.Name, opts.Height)
	}
	return nil
}

// Name returns the scratchpad's configured name.
func (s *Scratchpad) Name() string {
	return s.opts.Name
}

// Command returns the configured launch command.
func (s *Scratchpad) Command() string {
	return s.opts.Command
}

// UpdateOptions swaps the configuration in place, keeping the tracked
// window and visibility across a config reload. The same validation as New
// applies.
func (s *Scratchpad) UpdateOptions(opts Options) error {
	if err := validateOptions(opts); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
	if s.window != 0 && s.visible {
		s.surfaceLocked(s.window)
	}
	return nil
}

// Hide hides the window if it is currently visible. Used when a scratchpad
// is dropped from the configuration.
func (s *Scratchpad) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.window == 0 || !s.visible {
		return
	}
	s.visible = false
	if err := s.host.HideWindow(s.window); err != nil {
		log.Printf("scratchpad %q: hide failed: %v", s.opts.Name, err)
	}
}

// State returns the current derived state.
func (s *Scratchpad) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Scratchpad) stateLocked() State {
	switch {
	case s.pending:
		return StatePending
	case s.window == 0:
		return StateEmpty
	case s.visible:
		return StateVisible
	default:
		return StateHidden
	}
}

// Window returns the tracked window ID, or 0 when none is tracked.
func (s *Scratchpad) Window() platform.WindowID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// Toggle shows or hides the bound window. With no window and no spawn
// outstanding it launches the command; the window is adopted later via
// WindowCreated. A second toggle while the spawn is outstanding is a no-op
// so a slow program is not launched twice.
func (s *Scratchpad) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.window == 0 {
		if s.pending {
			return
		}
		s.pending = true
		s.visible = false
		if err := s.host.Spawn(s.opts.Command); err != nil {
			s.pending = false
			log.Printf("scratchpad %q: spawn failed: %v", s.opts.Name, err)
		}
		return
	}

	if s.visible {
		s.visible = false
		if err := s.host.HideWindow(s.window); err != nil {
			log.Printf("scratchpad %q: hide failed: %v", s.opts.Name, err)
		}
		return
	}

	s.visible = true
	s.surfaceLocked(s.window)
}

// WindowCreated offers a newly mapped window. It is adopted only while a
// spawn is outstanding, and only when class matches the configured token
// (an empty token accepts any window). Adoption marks the window as
// externally managed and immediately shows it.
func (s *Scratchpad) WindowCreated(id platform.WindowID, class string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending || s.window != 0 {
		return
	}
	if s.opts.MatchClass != "" && class != s.opts.MatchClass {
		return
	}

	s.pending = false
	s.window = id
	s.visible = true

	if err := s.host.MarkExternallyManaged(id); err != nil {
		log.Printf("scratchpad %q: failed to mark window %d externally managed: %v", s.opts.Name, id, err)
	}
	s.surfaceLocked(id)
}

// WindowRemoved drops the tracked window when it is destroyed. The next
// toggle spawns a fresh one.
func (s *Scratchpad) WindowRemoved(id platform.WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.window == 0 || id != s.window {
		return
	}
	s.window = 0
	s.visible = false
}

// LayoutApplied re-asserts position and visibility after the host recomputes
// window placement. The layout engine does not know about this window and
// may have moved or covered it; without this the scratchpad is silently
// absorbed into the layout.
func (s *Scratchpad) LayoutApplied(screenIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.window == 0 || !s.visible {
		return
	}

	// A pinned scratchpad stays on its own screen regardless of where the
	// layout pass happened.
	if s.opts.Screen >= 0 {
		screenIndex = s.opts.Screen
	}

	if region, ok := s.host.ScreenRegion(screenIndex); ok {
		if err := s.host.PositionWindow(s.window, s.opts.Anchor.Resolve(region, s.opts.Width, s.opts.Height)); err != nil {
			log.Printf("scratchpad %q: position failed: %v", s.opts.Name, err)
		}
	}
	if err := s.host.ShowWindow(s.window); err != nil {
		log.Printf("scratchpad %q: show failed: %v", s.opts.Name, err)
	}
}

// surfaceLocked positions and shows a window on the relevant screen. A
// screen that cannot be resolved means nothing to position, not an error;
// the window is still shown.
func (s *Scratchpad) surfaceLocked(id platform.WindowID) {
	region, ok := s.screenRegionLocked()
	if ok {
		if err := s.host.PositionWindow(id, s.opts.Anchor.Resolve(region, s.opts.Width, s.opts.Height)); err != nil {
			log.Printf("scratchpad %q: position failed: %v", s.opts.Name, err)
		}
	}
	if err := s.host.ShowWindow(id); err != nil {
		log.Printf("scratchpad %q: show failed: %v", s.opts.Name, err)
	}
}

func (s *Scratchpad) screenRegionLocked() (platform.Rect, bool) {
	if s.opts.Screen >= 0 {
		return s.host.ScreenRegion(s.opts.Screen)
	}
	region, err := s.host.ActiveScreenRegion()
	if err != nil {
		return platform.Rect{}, false
	}
	return region, true
}
