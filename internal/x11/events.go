package x11

import (
	"fmt"
	"log"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowHooks receives window lifecycle notifications observed on the root
// window. Callbacks run on the X event loop goroutine, one at a time.
type WindowHooks struct {
	// Created fires when a top-level window is mapped. Override-redirect
	// windows (menus, tooltips) are filtered out.
	Created func(windowID xproto.Window)
	// Removed fires when a top-level window is destroyed.
	Removed func(windowID xproto.Window)
	// LayoutChanged fires when the window manager republishes its client
	// list or work area, which is the observable trace of a layout pass.
	LayoutChanged func()
}

// RegisterWindowHooks subscribes to SubstructureNotify and PropertyChange
// events on the root window and dispatches them to hooks.
func (c *Connection) RegisterWindowHooks(hooks WindowHooks) error {
	if err := xwindow.New(c.XUtil, c.Root).Listen(
		xproto.EventMaskSubstructureNotify | xproto.EventMaskPropertyChange,
	); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	clientList, err := xprop.Atm(c.XUtil, "_NET_CLIENT_LIST")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_CLIENT_LIST: %w", err)
	}
	workArea, err := xprop.Atm(c.XUtil, "_NET_WORKAREA")
	if err != nil {
		// Not every WM publishes a work area; client list changes alone
		// still cover layout passes.
		log.Printf("x11: _NET_WORKAREA unavailable: %v", err)
	}

	if hooks.Created != nil {
		xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
			if ev.OverrideRedirect {
				return
			}
			hooks.Created(ev.Window)
		}).Connect(c.XUtil, c.Root)
	}

	if hooks.Removed != nil {
		// DestroyNotify callbacks are keyed on the destroyed window, not
		// the window the event was delivered to, so a callback connected
		// to the root would never match a client window. An event hook
		// sees every event before keyed dispatch.
		xevent.HookFun(destroyNotifyHook(c.Root, hooks.Removed)).Connect(c.XUtil)
	}

	if hooks.LayoutChanged != nil {
		xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
			if ev.Atom == clientList || (workArea != 0 && ev.Atom == workArea) {
				hooks.LayoutChanged()
			}
		}).Connect(c.XUtil, c.Root)
	}

	return nil
}

// destroyNotifyHook forwards DestroyNotify events delivered to root via
// SubstructureNotify to removed. Every event passes through for normal
// dispatch regardless.
func destroyNotifyHook(root xproto.Window, removed func(xproto.Window)) func(xu *xgbutil.XUtil, event interface{}) bool {
	return func(xu *xgbutil.XUtil, event interface{}) bool {
		if ev, ok := event.(xproto.DestroyNotifyEvent); ok && ev.Event == root {
			removed(ev.Window)
		}
		return true
	}
}
