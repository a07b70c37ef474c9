//go:build darwin && cgo

package hook

import (
	"testing"

	"hotkeyd/internal/input"
)

func TestTapResult(t *testing.T) {
	const event = 0x1234
	if got := tapResult(event, input.Pass); got != event {
		t.Fatalf("tapResult(pass) = %#x, want the original event", got)
	}
	if got := tapResult(event, input.Block); got != 0 {
		t.Fatalf("tapResult(block) = %#x, want 0", got)
	}
}
