package hotkeys

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateBind is returned when two entries of one load resolve to the
// same Bind, e.g. "left-shift + left-ctrl + q" and "left-ctrl + left-shift + q".
var ErrDuplicateBind = errors.New("bind already exists")

// Table maps binds to actions for one configuration generation.
// A Table is never modified after BuildTable returns it.
type Table struct {
	binds map[Bind]Action
}

// Entry is one resolved row of a Table.
type Entry struct {
	Bind   Bind
	Action Action
}

// EmptyTable returns a table without binds.
func EmptyTable() *Table {
	return &Table{binds: map[Bind]Action{}}
}

// BuildTable validates specs and returns a new table. Any invalid entry
// rejects the whole generation; every problem found is reported.
func BuildTable(specs []Spec) (*Table, error) {
	binds := make(map[Bind]Action, len(specs))
	origin := make(map[Bind]string, len(specs))
	var errs []error

	for _, spec := range specs {
		bind, err := ParseBind(spec.Combo)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		action, err := ParseAction(spec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, exists := origin[bind]; exists {
			errs = append(errs, fmt.Errorf("%w: %q and %q both resolve to %s", ErrDuplicateBind, prev, spec.Combo, bind))
			continue
		}
		binds[bind] = action
		origin[bind] = spec.Combo
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Table{binds: binds}, nil
}

// Lookup returns the action bound to b. Safe for concurrent use.
func (t *Table) Lookup(b Bind) (Action, bool) {
	if t == nil {
		return nil, false
	}
	a, ok := t.binds[b]
	return a, ok
}

// Len returns the number of binds.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.binds)
}

// Entries returns all rows sorted by their canonical combination string.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.binds))
	for b, a := range t.binds {
		out = append(out, Entry{Bind: b, Action: a})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Bind.String() < out[j].Bind.String()
	})
	return out
}
