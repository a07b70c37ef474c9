//go:build linux

package hook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"sync"

	"github.com/holoplot/go-evdev"

	"hotkeyd/internal/input"
)

// busVirtual is BUS_VIRTUAL from linux/input.h.
const busVirtual = 0x06

type linuxHook struct {
	opts Options
}

func newPlatformHook(opts Options) Hook {
	return &linuxHook{opts: opts}
}

type deviceEvent struct {
	device *evdev.InputDevice
	event  *evdev.InputEvent
	err    error
}

// Run grabs every keyboard exclusively and re-emits the events the handler
// passes through a uinput device. All devices feed one loop, so the handler
// sees a single ordered stream.
func (h *linuxHook) Run(ctx context.Context, handle Handler) error {
	devices, err := openKeyboards(h.opts.DevicePaths, h.opts.VirtualName)
	if err != nil {
		return err
	}
	defer closeDevices(devices)

	out, err := createVirtualKeyboard(h.opts.VirtualName, devices)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			slog.Warn("[hook] close virtual keyboard failed", "error", err)
		}
	}()

	for _, dev := range devices {
		if err := dev.Grab(); err != nil {
			return classifyOpenError(dev.Path(), fmt.Errorf("grab: %w", err))
		}
	}

	readCtx, stopReaders := context.WithCancel(ctx)
	events := make(chan deviceEvent, 64)
	var readers sync.WaitGroup
	for _, dev := range devices {
		readers.Go(func() { readDevice(readCtx, dev, events) })
	}
	defer func() {
		stopReaders()
		// Closing the devices releases the grabs and unblocks pending reads.
		closeDevices(devices)
		readers.Wait()
	}()

	slog.Info("[hook] capturing keyboards", "devices", len(devices), "virtual", h.opts.VirtualName)
	alive := len(devices)
	for {
		select {
		case <-ctx.Done():
			return nil
		case de := <-events:
			if de.err != nil {
				alive--
				slog.Warn("[hook] input device stopped", "device", de.device.Path(), "error", de.err)
				if alive == 0 {
					return errors.New("input hook: every input device stopped")
				}
				continue
			}
			if handle(translateEvdev(de.event)) == input.Block {
				continue
			}
			if err := out.WriteOne(de.event); err != nil {
				slog.Warn("[hook] re-emit event failed", "error", err)
			}
		}
	}
}

func readDevice(ctx context.Context, dev *evdev.InputDevice, events chan<- deviceEvent) {
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			select {
			case events <- deviceEvent{device: dev, err: err}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case events <- deviceEvent{device: dev, event: ev}:
		case <-ctx.Done():
			return
		}
	}
}

// openKeyboards opens the explicit paths, or every device that reports
// letter keys. The virtual output device is skipped so passed events are not
// captured twice.
func openKeyboards(paths []string, virtualName string) ([]*evdev.InputDevice, error) {
	if len(paths) == 0 {
		inputs, err := evdev.ListDevicePaths()
		if err != nil {
			return nil, fmt.Errorf("input hook: list devices: %w", err)
		}
		for _, in := range inputs {
			if in.Name == virtualName {
				continue
			}
			paths = append(paths, in.Path)
		}
	}

	var (
		devices   []*evdev.InputDevice
		permErrs  int
		firstErr  error
		openCount int
	)
	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				permErrs++
			}
			if firstErr == nil {
				firstErr = classifyOpenError(path, err)
			}
			continue
		}
		openCount++
		if !isKeyboard(dev) {
			_ = dev.Close()
			continue
		}
		name, _ := dev.Name()
		slog.Debug("[hook] keyboard found", "device", path, "name", name)
		devices = append(devices, dev)
	}

	if len(devices) > 0 {
		return devices, nil
	}
	if permErrs > 0 && openCount == 0 {
		return nil, firstErr
	}
	if firstErr != nil {
		return nil, fmt.Errorf("input hook: no keyboard could be opened: %w", firstErr)
	}
	return nil, errors.New("input hook: no keyboard devices found")
}

func isKeyboard(dev *evdev.InputDevice) bool {
	codes := dev.CapableEvents(evdev.EV_KEY)
	return slices.Contains(codes, evdev.EvCode(evdev.KEY_A)) &&
		slices.Contains(codes, evdev.EvCode(evdev.KEY_LEFTSHIFT))
}

// createVirtualKeyboard builds a uinput device able to emit every event any
// grabbed device can produce, so passed pointer and misc events survive the
// re-emit along with keys.
func createVirtualKeyboard(name string, devices []*evdev.InputDevice) (*evdev.InputDevice, error) {
	id := evdev.InputID{BusType: busVirtual, Vendor: 0x1, Product: 0x1, Version: 1}
	out, err := evdev.CreateDevice(name, id, mergeCapabilities(devices))
	if err != nil {
		return nil, classifyOpenError("/dev/uinput", fmt.Errorf("create virtual keyboard: %w", err))
	}
	return out, nil
}

// capabilitySource is the part of an input device its capabilities are read
// from.
type capabilitySource interface {
	CapableTypes() []evdev.EvType
	CapableEvents(t evdev.EvType) []evdev.EvCode
}

// mergeCapabilities unions the event types and codes of every source. EV_REP
// is left out so the kernel does not synthesize repeats on top of the
// forwarded ones, and EV_FF is left out because uinput would need effect
// upload handling for it.
func mergeCapabilities[S capabilitySource](sources []S) map[evdev.EvType][]evdev.EvCode {
	caps := make(map[evdev.EvType][]evdev.EvCode)
	for _, src := range sources {
		for _, t := range src.CapableTypes() {
			if t == evdev.EV_REP || t == evdev.EV_FF {
				continue
			}
			codes, ok := caps[t]
			if !ok {
				codes = []evdev.EvCode{}
			}
			for _, code := range src.CapableEvents(t) {
				if !slices.Contains(codes, code) {
					codes = append(codes, code)
				}
			}
			caps[t] = codes
		}
	}
	return caps
}

func classifyOpenError(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s: %v (run as root or join the input group)", ErrPermissionDenied, path, err)
	}
	return fmt.Errorf("input hook: %s: %w", path, err)
}

func closeDevices(devices []*evdev.InputDevice) {
	for _, dev := range devices {
		_ = dev.Close()
	}
}
