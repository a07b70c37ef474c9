package dispatch

import (
	"fmt"
	"strings"
)

// OverflowPolicy decides what Dispatch does when the queue stays full for
// the whole handoff timeout.
type OverflowPolicy string

const (
	// OverflowSpawn runs the action on its own goroutine.
	OverflowSpawn OverflowPolicy = "spawn"
	// OverflowInline runs the action on the caller, stalling the hook.
	OverflowInline OverflowPolicy = "inline"
	// OverflowDrop discards the action and logs it.
	OverflowDrop OverflowPolicy = "drop"
)

// ParseOverflowPolicy accepts "spawn", "inline" or "drop" in any case.
// An empty value selects OverflowSpawn.
func ParseOverflowPolicy(value string) (OverflowPolicy, error) {
	switch p := OverflowPolicy(strings.ToLower(strings.TrimSpace(value))); p {
	case "":
		return OverflowSpawn, nil
	case OverflowSpawn, OverflowInline, OverflowDrop:
		return p, nil
	default:
		return "", fmt.Errorf("unknown dispatch overflow policy %q (want spawn, inline or drop)", value)
	}
}
