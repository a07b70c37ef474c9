//go:build windows

package hook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"hotkeyd/internal/input"
)

var (
	user32DLL   = windows.NewLazySystemDLL("user32.dll")
	kernel32DLL = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookExW   = user32DLL.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32DLL.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32DLL.NewProc("CallNextHookEx")
	procGetMessageW         = user32DLL.NewProc("GetMessageW")
	procPeekMessageW        = user32DLL.NewProc("PeekMessageW")
	procPostThreadMessageW  = user32DLL.NewProc("PostThreadMessageW")
	procSendInput           = user32DLL.NewProc("SendInput")
	procGetModuleHandleW    = kernel32DLL.NewProc("GetModuleHandleW")
)

const (
	whKeyboardLL = 13
	hcAction     = 0
	wmQuit       = 0x0012
	pmNoRemove   = 0x0000

	inputKeyboard  = 1
	keyeventfKeyUp = 0x0002

	stopTimeout = 2 * time.Second
)

// kbdllHookStruct mirrors KBDLLHOOKSTRUCT.
type kbdllHookStruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

// keybdInput mirrors KEYBDINPUT.
type keybdInput struct {
	vk          uint16
	scan        uint16
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

// keyboardInput mirrors INPUT holding a KEYBDINPUT. The trailing pad brings
// it to the size of the union's largest member, MOUSEINPUT.
type keyboardInput struct {
	inputType uint32
	ki        keybdInput
	pad       uint64
}

type point struct {
	x int32
	y int32
}

// winMsg mirrors the Win32 MSG struct; the layout must match winuser.h.
type winMsg struct {
	hWnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}

type loopReady struct {
	threadID uint32
	err      error
}

// windowsSession is the state the hook callback reads. The callback is a
// process-wide C function pointer, so it finds the session through a global.
type windowsSession struct {
	handle     Handler
	translator *vkTranslator
	masker     winMasker
}

var (
	activeSession atomic.Pointer[windowsSession]

	callbackOnce sync.Once
	callbackPtr  uintptr
)

// lowLevelKeyboardProc runs on the message-loop thread for every keystroke.
func lowLevelKeyboardProc(nCode uintptr, wParam uintptr, lParam uintptr) uintptr {
	if int32(nCode) == hcAction {
		if s := activeSession.Load(); s != nil {
			kb := (*kbdllHookStruct)(unsafe.Pointer(lParam))
			ev := s.translator.translate(wParam, kb.vkCode)
			d := s.handle(ev)
			if s.masker.observe(ev, d) {
				sendMenuMask()
			}
			if d == input.Block {
				return 1
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return ret
}

// sendMenuMask injects a press and release of vkMenuMask so the pending Win
// release does not open the Start menu.
func sendMenuMask() {
	inputs := [2]keyboardInput{
		{inputType: inputKeyboard, ki: keybdInput{vk: vkMenuMask}},
		{inputType: inputKeyboard, ki: keybdInput{vk: vkMenuMask, flags: keyeventfKeyUp}},
	}
	n, _, err := procSendInput.Call(uintptr(len(inputs)), uintptr(unsafe.Pointer(&inputs[0])), unsafe.Sizeof(inputs[0]))
	if n != uintptr(len(inputs)) {
		slog.Warn("[hook] inject menu mask key failed", "error", err)
	}
}

type windowsHook struct{}

func newPlatformHook(Options) Hook {
	return windowsHook{}
}

// Run installs a WH_KEYBOARD_LL hook on a dedicated, locked OS thread and
// pumps its message queue until ctx is cancelled.
func (windowsHook) Run(ctx context.Context, handle Handler) error {
	if err := user32DLL.Load(); err != nil {
		return fmt.Errorf("input hook: user32.dll is unavailable: %w", err)
	}
	if err := kernel32DLL.Load(); err != nil {
		return fmt.Errorf("input hook: kernel32.dll is unavailable: %w", err)
	}

	s := &windowsSession{handle: handle, translator: newVKTranslator()}
	if !activeSession.CompareAndSwap(nil, s) {
		return ErrAlreadyRunning
	}
	defer activeSession.Store(nil)

	callbackOnce.Do(func() {
		callbackPtr = windows.NewCallback(lowLevelKeyboardProc)
	})

	readyCh := make(chan loopReady, 1)
	doneCh := make(chan error, 1)
	go runHookLoop(readyCh, doneCh)

	ready := <-readyCh
	if ready.err != nil {
		return ready.err
	}
	slog.Info("[hook] low-level keyboard hook installed", "threadID", ready.threadID)

	select {
	case err := <-doneCh:
		return err
	case <-ctx.Done():
	}

	if err := postQuit(ready.threadID); err != nil {
		slog.Warn("[hook] post WM_QUIT failed", "error", err)
	}
	timer := time.NewTimer(stopTimeout)
	defer timer.Stop()
	select {
	case err := <-doneCh:
		return err
	case <-timer.C:
		slog.Warn("[hook] message loop stop timed out, thread may leak", "threadID", ready.threadID)
		return nil
	}
}

func runHookLoop(readyCh chan<- loopReady, doneCh chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	threadID := windows.GetCurrentThreadId()

	// PeekMessageW creates the thread queue so PostThreadMessageW can reach it.
	var qmsg winMsg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&qmsg)), 0, 0, 0, pmNoRemove)

	module, _, _ := procGetModuleHandleW.Call(0)
	hook, _, err := procSetWindowsHookExW.Call(whKeyboardLL, callbackPtr, module, 0)
	if hook == 0 {
		readyCh <- loopReady{err: classifyHookError(err)}
		return
	}
	defer func() {
		if res, _, err := procUnhookWindowsHookEx.Call(hook); res == 0 {
			slog.Error("[hook] UnhookWindowsHookEx failed", "error", err)
		}
	}()

	readyCh <- loopReady{threadID: threadID}

	for {
		var msg winMsg
		ret, _, lastErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			doneCh <- fmt.Errorf("input hook: GetMessageW: %w", lastErr)
			return
		case 0:
			slog.Info("[hook] message loop received WM_QUIT")
			doneCh <- nil
			return
		}
	}
}

func classifyHookError(err error) error {
	if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
		return fmt.Errorf("%w: SetWindowsHookExW: %v", ErrPermissionDenied, err)
	}
	if err == nil || errors.Is(err, windows.Errno(0)) {
		return errors.New("input hook: SetWindowsHookExW failed")
	}
	return fmt.Errorf("input hook: SetWindowsHookExW: %w", err)
}

func postQuit(threadID uint32) error {
	if threadID == 0 {
		return errors.New("cannot post WM_QUIT: threadID is 0")
	}
	res, _, err := procPostThreadMessageW.Call(uintptr(threadID), wmQuit, 0, 0)
	if res != 0 {
		return nil
	}
	if errors.Is(err, windows.Errno(0)) {
		return errors.New("PostThreadMessageW failed")
	}
	return err
}
