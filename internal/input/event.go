package input

// EventKind classifies a raw OS input event.
type EventKind uint8

const (
	// EventOther covers pointer motion, scroll, buttons, sync frames and any
	// key the hook could not translate.
	EventOther EventKind = iota
	EventModifierDown
	EventModifierUp
	EventKeyDown
	EventKeyUp
)

func (k EventKind) String() string {
	switch k {
	case EventModifierDown:
		return "modifier-down"
	case EventModifierUp:
		return "modifier-up"
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	default:
		return "other"
	}
}

// Event is one translated OS input event. Exactly one of Modifier or Key is
// meaningful, depending on Kind.
type Event struct {
	Kind     EventKind
	Modifier Modifier
	Key      Key
	// Repeat marks OS auto-repeat of a held key. Repeats are treated as presses.
	Repeat bool
}

// ModifierDown builds a modifier press event.
func ModifierDown(m Modifier) Event { return Event{Kind: EventModifierDown, Modifier: m} }

// ModifierUp builds a modifier release event.
func ModifierUp(m Modifier) Event { return Event{Kind: EventModifierUp, Modifier: m} }

// KeyDown builds a key press event.
func KeyDown(k Key) Event { return Event{Kind: EventKeyDown, Key: k} }

// KeyUp builds a key release event.
func KeyUp(k Key) Event { return Event{Kind: EventKeyUp, Key: k} }

// Other builds an event the interceptor never inspects.
func Other() Event { return Event{Kind: EventOther} }

// Decision is the answer returned to the OS hook.
type Decision uint8

const (
	// Pass lets the OS deliver the event downstream.
	Pass Decision = iota
	// Block swallows the event.
	Block
)

func (d Decision) String() string {
	if d == Block {
		return "block"
	}
	return "pass"
}
