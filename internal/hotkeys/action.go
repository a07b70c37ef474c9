package hotkeys

import (
	"fmt"
	"strings"
)

// ActionType is the config discriminator of an action ("type" field).
type ActionType string

const (
	// ActionCommand runs a shell command line.
	ActionCommand ActionType = "cmd"
)

// Action is what a bind triggers. The set of implementations is closed to
// this package; new variants are added here as new types.
type Action interface {
	Type() ActionType
	String() string
	isAction()
}

// Command runs Text through the shell.
type Command struct {
	Text string
}

func (Command) Type() ActionType { return ActionCommand }

func (c Command) String() string { return fmt.Sprintf("cmd(%q)", c.Text) }

func (Command) isAction() {}

// Spec is one raw entry of a binding file before validation.
type Spec struct {
	Combo   string
	Type    string
	Command string
}

// ParseAction validates the action half of spec.
func ParseAction(spec Spec) (Action, error) {
	typ := strings.TrimSpace(spec.Type)
	if typ == "" {
		return nil, fmt.Errorf("action for %q has no property `type`", spec.Combo)
	}
	switch ActionType(strings.ToLower(typ)) {
	case ActionCommand:
		if strings.TrimSpace(spec.Command) == "" {
			return nil, fmt.Errorf("cmd action for %q requires a non-empty `command`", spec.Combo)
		}
		return Command{Text: spec.Command}, nil
	default:
		return nil, fmt.Errorf("unsupported action type %q for %q", typ, spec.Combo)
	}
}
