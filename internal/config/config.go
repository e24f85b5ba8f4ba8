package config

import (
	"fmt"

	"github.com/1broseidon/scratchpad/internal/anchor"
)

// AnchorConfig describes where a scratchpad is pinned on its screen.
type AnchorConfig struct {
	Horizontal string `yaml:"horizontal"` // left, right, center
	Vertical   string `yaml:"vertical"`   // top, bottom, center
	OffsetX    int    `yaml:"offset_x,omitempty"`
	OffsetY    int    `yaml:"offset_y,omitempty"`
}

// ScratchpadConfig describes a single managed scratchpad.
type ScratchpadConfig struct {
	// Name identifies the scratchpad for toggle commands and status output.
	Name string `yaml:"name"`
	// Command is launched (whitespace-split, no shell) the first time the
	// scratchpad is toggled and whenever its window has gone away.
	Command string `yaml:"command"`
	// Hotkey is an optional global key sequence (e.g. "Mod4-grave") bound
	// to toggling this scratchpad.
	Hotkey string `yaml:"hotkey,omitempty"`
	// MatchClass restricts window adoption to windows with this WM_CLASS.
	// Strongly recommended when more than one scratchpad is configured:
	// without it, whichever window maps first while a spawn is outstanding
	// is claimed by the first pending scratchpad.
	MatchClass string `yaml:"match_class,omitempty"`
	// Width and Height are fractions of the screen in [0,1].
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// Screen pins the scratchpad to a fixed monitor index. Absent or -1
	// follows the active monitor.
	Screen *int         `yaml:"screen,omitempty"`
	Anchor AnchorConfig `yaml:"anchor,omitempty"`
}

// Config is the daemon configuration.
type Config struct {
	Scratchpads []ScratchpadConfig `yaml:"scratchpads"`
}

// Default returns a starter configuration with a single centered terminal
// scratchpad.
func Default() *Config {
	return &Config{
		Scratchpads: []ScratchpadConfig{
			{
				Name:    "term",
				Command: "xterm -class ScratchTerm",
				Hotkey:  "Mod4-grave",
				// xterm -class sets both WM_CLASS fields.
				MatchClass: "ScratchTerm",
				Width:      0.6,
				Height:     0.5,
				Anchor: AnchorConfig{
					Horizontal: string(anchor.Center),
					Vertical:   string(anchor.Center),
				},
			},
		},
	}
}

// GetScreen returns the effective screen index, -1 meaning the active screen.
func (sc *ScratchpadConfig) GetScreen() int {
	if sc.Screen == nil {
		return -1
	}
	return *sc.Screen
}

// BuildAnchor validates the anchor fields and returns the resolved anchor.
// Unset axes default to center.
func (sc *ScratchpadConfig) BuildAnchor() (anchor.Anchor, error) {
	horizontal := anchor.Position(sc.Anchor.Horizontal)
	if sc.Anchor.Horizontal == "" {
		horizontal = anchor.Center
	}
	vertical := anchor.Position(sc.Anchor.Vertical)
	if sc.Anchor.Vertical == "" {
		vertical = anchor.Center
	}
	return anchor.New(horizontal, vertical, sc.Anchor.OffsetX, sc.Anchor.OffsetY)
}

// Validate checks the configuration for setup mistakes. These are fatal at
// startup: a bad anchor axis or an out-of-range fraction indicates a typo
// that should surface before a session starts, not be silently clamped.
func (c *Config) Validate() error {
	if len(c.Scratchpads) == 0 {
		return fmt.Errorf("no scratchpads configured")
	}

	names := make(map[string]struct{}, len(c.Scratchpads))
	hotkeys := make(map[string]string, len(c.Scratchpads))

	for i := range c.Scratchpads {
		sc := &c.Scratchpads[i]

		if sc.Name == "" {
			return fmt.Errorf("scratchpad #%d: name must not be empty", i)
		}
		if _, dup := names[sc.Name]; dup {
			return fmt.Errorf("scratchpad %q: duplicate name", sc.Name)
		}
		names[sc.Name] = struct{}{}

		if sc.Command == "" {
			return fmt.Errorf("scratchpad %q: command must not be empty", sc.Name)
		}
		if sc.Width < 0 || sc.Width > 1 {
			return fmt.Errorf("scratchpad %q: width %v must be between 0 and 1", sc.Name, sc.Width)
		}
		if sc.Height < 0 || sc.Height > 1 {
			return fmt.Errorf("scratchpad %q: height %v must be between 0 and 1", sc.Name, sc.Height)
		}
		if _, err := sc.BuildAnchor(); err != nil {
			return fmt.Errorf("scratchpad %q: %w", sc.Name, err)
		}
		if sc.Hotkey != "" {
			if other, dup := hotkeys[sc.Hotkey]; dup {
				return fmt.Errorf("scratchpad %q: hotkey %q already bound to %q", sc.Name, sc.Hotkey, other)
			}
			hotkeys[sc.Hotkey] = sc.Name
		}
	}

	return nil
}

// Scratchpad returns the configuration for a named scratchpad.
func (c *Config) Scratchpad(name string) (*ScratchpadConfig, bool) {
	for i := range c.Scratchpads {
		if c.Scratchpads[i].Name == name {
			return &c.Scratchpads[i], true
		}
	}
	return nil, false
}
