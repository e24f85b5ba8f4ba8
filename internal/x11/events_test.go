package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestDestroyNotifyHook_ForwardsChildDestroys(t *testing.T) {
	const root = xproto.Window(1)

	var removed []xproto.Window
	hook := destroyNotifyHook(root, func(w xproto.Window) {
		removed = append(removed, w)
	})

	// A client window destroy, delivered to root via SubstructureNotify:
	// Event is the root, Window is the destroyed client.
	if !hook(nil, xproto.DestroyNotifyEvent{Event: root, Window: 42}) {
		t.Fatal("hook must not swallow events")
	}
	if len(removed) != 1 || removed[0] != 42 {
		t.Fatalf("expected window 42 forwarded, got %v", removed)
	}
}

func TestDestroyNotifyHook_IgnoresOtherEvents(t *testing.T) {
	const root = xproto.Window(1)

	var removed []xproto.Window
	hook := destroyNotifyHook(root, func(w xproto.Window) {
		removed = append(removed, w)
	})

	// Delivered to some other window's StructureNotify subscription.
	if !hook(nil, xproto.DestroyNotifyEvent{Event: 7, Window: 42}) {
		t.Fatal("hook must not swallow events")
	}
	// Not a DestroyNotify at all.
	if !hook(nil, xproto.MapNotifyEvent{Event: root, Window: 42}) {
		t.Fatal("hook must not swallow events")
	}

	if len(removed) != 0 {
		t.Fatalf("expected no forwards, got %v", removed)
	}
}
