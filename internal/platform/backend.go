package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ActiveDisplay() (Display, error)
	MoveResize(windowID WindowID, bounds Rect) error
	Show(windowID WindowID) error
	Hide(windowID WindowID) error
	// MarkExternallyManaged flags a window so the desktop's normal
	// placement machinery leaves it alone (kept above, off the taskbar).
	MarkExternallyManaged(windowID WindowID) error
	WindowClass(windowID WindowID) string
	// Spawn launches a command fire-and-forget. There is no correlation
	// token; callers match the resulting window when it maps.
	Spawn(command string) error
}
