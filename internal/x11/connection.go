// Package x11 wraps the X protocol surface the daemon needs: one
// connection, monitor geometry, window show/hide/placement and the root
// window event hooks.
package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection holds the X server connection and the root window every
// subscription and placement request is issued against.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to the X server named by DISPLAY. The keybind
// subsystem is initialized up front so hotkey grabs can be registered at
// any point afterwards.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// EventLoop runs the X event loop until StopEventLoop is called. Blocking;
// all registered callbacks run on this goroutine.
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// StopEventLoop asks a running event loop to quit.
func (c *Connection) StopEventLoop() {
	xevent.Quit(c.XUtil)
}

// Close disconnects from the X server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
