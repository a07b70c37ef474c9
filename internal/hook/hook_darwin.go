//go:build darwin && cgo

package hook

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation

#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>

extern CGEventRef hotkeydTapCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon);

static CFMachPortRef hotkeydCreateTap(void) {
    CGEventMask mask = CGEventMaskBit(kCGEventKeyDown) | CGEventMaskBit(kCGEventKeyUp) | CGEventMaskBit(kCGEventFlagsChanged);
    return CGEventTapCreate(kCGSessionEventTap, kCGHeadInsertEventTap, kCGEventTapOptionDefault, mask, hotkeydTapCallback, NULL);
}

static CFRunLoopRef hotkeydAttachTap(CFMachPortRef tap) {
    CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
    CFRunLoopRef loop = CFRunLoopGetCurrent();
    CFRunLoopAddSource(loop, source, kCFRunLoopCommonModes);
    CFRelease(source);
    CGEventTapEnable(tap, true);
    return loop;
}

static void hotkeydRunLoop(void) {
    CFRunLoopRun();
}

static void hotkeydStopLoop(CFRunLoopRef loop) {
    CFRunLoopStop(loop);
    CFRunLoopWakeUp(loop);
}

static void hotkeydEnableTap(CFMachPortRef tap) {
    CGEventTapEnable(tap, true);
}

static void hotkeydReleaseTap(CFMachPortRef tap) {
    CGEventTapEnable(tap, false);
    CFMachPortInvalidate(tap);
    CFRelease(tap);
}
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"

	"hotkeyd/internal/input"
)

// darwinSession is reached from the exported C callback through a global.
type darwinSession struct {
	handle Handler
	tap    C.CFMachPortRef
}

var darwinActive atomic.Pointer[darwinSession]

//export hotkeydTapCallback
func hotkeydTapCallback(proxy C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, refcon unsafe.Pointer) C.CGEventRef {
	s := darwinActive.Load()
	if s == nil {
		return event
	}

	var kind macEventKind
	switch eventType {
	case C.kCGEventTapDisabledByTimeout, C.kCGEventTapDisabledByUserInput:
		slog.Warn("[hook] event tap disabled by the system, re-enabling")
		C.hotkeydEnableTap(s.tap)
		return event
	case C.kCGEventKeyDown:
		kind = macKeyDown
	case C.kCGEventKeyUp:
		kind = macKeyUp
	case C.kCGEventFlagsChanged:
		kind = macFlagsChanged
	default:
		return event
	}

	keycode := uint16(C.CGEventGetIntegerValueField(event, C.kCGKeyboardEventKeycode))
	flags := uint64(C.CGEventGetFlags(event))
	repeat := C.CGEventGetIntegerValueField(event, C.kCGKeyboardEventAutorepeat) != 0

	return tapResult(event, s.handle(translateMac(kind, keycode, flags, repeat)))
}

// tapResult maps a decision to the tap's return value. CGEventRef is a
// uintptr under cgo, and a zero ref swallows the event.
func tapResult(event C.CGEventRef, d input.Decision) C.CGEventRef {
	if d == input.Block {
		return C.CGEventRef(0)
	}
	return event
}

type darwinHook struct{}

func newPlatformHook(Options) Hook {
	return darwinHook{}
}

type tapReady struct {
	loop C.CFRunLoopRef
	err  error
}

// Run installs a session event tap and runs its CFRunLoop on a locked
// thread. Without Accessibility permission the tap cannot be created and
// ErrPermissionDenied is returned.
func (darwinHook) Run(ctx context.Context, handle Handler) error {
	s := &darwinSession{handle: handle}
	if !darwinActive.CompareAndSwap(nil, s) {
		return ErrAlreadyRunning
	}
	defer darwinActive.Store(nil)

	readyCh := make(chan tapReady, 1)
	doneCh := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(doneCh)

		tap := C.hotkeydCreateTap()
		if tap == C.CFMachPortRef(0) {
			readyCh <- tapReady{err: fmt.Errorf("%w: CGEventTapCreate failed (grant Accessibility access)", ErrPermissionDenied)}
			return
		}
		s.tap = tap
		loop := C.hotkeydAttachTap(tap)
		readyCh <- tapReady{loop: loop}
		C.hotkeydRunLoop()
		C.hotkeydReleaseTap(tap)
	}()

	ready := <-readyCh
	if ready.err != nil {
		return ready.err
	}
	slog.Info("[hook] event tap installed")

	select {
	case <-doneCh:
		return errors.New("input hook: event tap run loop exited")
	case <-ctx.Done():
	}

	// The stop can race the loop start, so repeat it until the loop exits.
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(2 * time.Second)
	for {
		C.hotkeydStopLoop(ready.loop)
		select {
		case <-doneCh:
			return nil
		case <-deadline:
			slog.Warn("[hook] event tap run loop did not stop")
			return nil
		case <-ticker.C:
		}
	}
}
