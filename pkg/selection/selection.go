// Package selection holds the user's multi-select facet state.
//
// A [State] keeps one label set per [facet.Dimension]. An empty set means the
// dimension is unrestricted ("All"). Every selected label is guaranteed to be
// a value of the facet index the state is bound to; unknown labels are
// rejected before anything changes.
//
// Each successful mutating call notifies subscribers exactly once, batch
// operations included, so a subscriber that re-renders on change performs
// one render per user action.
package selection

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/matzehuels/orbitdash/pkg/errors"
	"github.com/matzehuels/orbitdash/pkg/facet"
)

// ChangeKind identifies the mutation that produced a [Change].
type ChangeKind int

const (
	ChangeToggle ChangeKind = iota
	ChangeClear
	ChangeSelectAll
	ChangeSet
	ChangeReset
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeToggle:
		return "toggle"
	case ChangeClear:
		return "clear"
	case ChangeSelectAll:
		return "select-all"
	case ChangeSet:
		return "set"
	case ChangeReset:
		return "reset"
	}
	return "unknown"
}

// Change describes a completed mutation. Dimension is meaningless for
// ChangeReset, which affects every dimension.
type Change struct {
	Kind      ChangeKind
	Dimension facet.Dimension
	Labels    []string
}

func (c Change) String() string {
	if c.Kind == ChangeReset {
		return c.Kind.String()
	}
	return fmt.Sprintf("%s %s", c.Kind, c.Dimension)
}

// Listener receives changes. Listeners run synchronously on the mutating
// goroutine, after the state lock is released.
type Listener func(Change)

type set map[string]struct{}

// State is the selection for every dimension. It is safe for concurrent use.
type State struct {
	mu        sync.RWMutex
	idx       *facet.Index
	sets      map[facet.Dimension]set
	listeners map[int]Listener
	nextID    int
}

// New returns an unrestricted state bound to idx.
func New(idx *facet.Index) *State {
	s := &State{
		idx:       idx,
		sets:      make(map[facet.Dimension]set, 3),
		listeners: make(map[int]Listener),
	}
	for _, d := range facet.Dimensions() {
		s.sets[d] = set{}
	}
	return s
}

// Subscribe registers fn and returns a function that removes it.
func (s *State) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *State) validDim(dim facet.Dimension) error {
	if !dim.Valid() {
		return errors.New(errors.ErrCodeInvalidDimension, "unknown dimension %d", int(dim))
	}
	return nil
}

func (s *State) checkLabel(dim facet.Dimension, label string) error {
	if err := errors.ValidateLabel(label); err != nil {
		return err
	}
	if !s.idx.Contains(dim, label) {
		return errors.New(errors.ErrCodeUnknownLabel, "%q is not a known %s", label, dim)
	}
	return nil
}

// mutate applies fn under the write lock and notifies listeners once.
func (s *State) mutate(c Change, fn func()) {
	s.mu.Lock()
	fn()
	ls := make([]Listener, 0, len(s.listeners))
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		ls = append(ls, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(c)
	}
}

// Toggle adds label to dim's selection, or removes it if already selected.
func (s *State) Toggle(dim facet.Dimension, label string) error {
	if err := s.validDim(dim); err != nil {
		return err
	}
	if err := s.checkLabel(dim, label); err != nil {
		return err
	}
	s.mutate(Change{Kind: ChangeToggle, Dimension: dim, Labels: []string{label}}, func() {
		if _, ok := s.sets[dim][label]; ok {
			delete(s.sets[dim], label)
		} else {
			s.sets[dim][label] = struct{}{}
		}
	})
	return nil
}

// Clear empties dim's selection, making the dimension unrestricted.
// Clearing an unrestricted dimension still notifies.
func (s *State) Clear(dim facet.Dimension) error {
	if err := s.validDim(dim); err != nil {
		return err
	}
	s.mutate(Change{Kind: ChangeClear, Dimension: dim}, func() {
		s.sets[dim] = set{}
	})
	return nil
}

// SelectAll selects every label of dim in a single change.
func (s *State) SelectAll(dim facet.Dimension) error {
	if err := s.validDim(dim); err != nil {
		return err
	}
	all := s.idx.Values(dim)
	s.mutate(Change{Kind: ChangeSelectAll, Dimension: dim, Labels: all}, func() {
		next := make(set, len(all))
		for _, v := range all {
			next[v] = struct{}{}
		}
		s.sets[dim] = next
	})
	return nil
}

// Set replaces dim's selection with labels. Either every label is valid and
// the selection is replaced, or nothing changes.
func (s *State) Set(dim facet.Dimension, labels []string) error {
	if err := s.validDim(dim); err != nil {
		return err
	}
	for _, l := range labels {
		if err := s.checkLabel(dim, l); err != nil {
			return err
		}
	}
	labels = append([]string(nil), labels...)
	s.mutate(Change{Kind: ChangeSet, Dimension: dim, Labels: labels}, func() {
		next := make(set, len(labels))
		for _, v := range labels {
			next[v] = struct{}{}
		}
		s.sets[dim] = next
	})
	return nil
}

// Reset clears every dimension and then applies defaults, in one change.
// A nil map clears everything.
func (s *State) Reset(defaults map[facet.Dimension][]string) error {
	for dim, labels := range defaults {
		if err := s.validDim(dim); err != nil {
			return err
		}
		for _, l := range labels {
			if err := s.checkLabel(dim, l); err != nil {
				return err
			}
		}
	}
	s.mutate(Change{Kind: ChangeReset}, func() {
		for _, d := range facet.Dimensions() {
			next := set{}
			for _, v := range defaults[d] {
				next[v] = struct{}{}
			}
			s.sets[d] = next
		}
	})
	return nil
}

// IsRestricted reports whether dim has a non-empty selection.
func (s *State) IsRestricted(dim facet.Dimension) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets[dim]) > 0
}

// Has reports whether label is selected in dim.
func (s *State) Has(dim facet.Dimension, label string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sets[dim][label]
	return ok
}

// Values returns dim's selected labels, sorted.
func (s *State) Values(dim facet.Dimension) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.sets[dim])
}

// Summary returns the dropdown caption of dim.
func (s *State) Summary(dim facet.Dimension) string {
	return Caption(s.Values(dim))
}

// Snapshot returns an immutable copy of the current selection.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{sets: make(map[facet.Dimension]set, len(s.sets))}
	for d, m := range s.sets {
		if len(m) == 0 {
			continue
		}
		c := make(set, len(m))
		for v := range m {
			c[v] = struct{}{}
		}
		snap.sets[d] = c
	}
	return snap
}

// Caption formats selected labels the way dropdown summaries show them:
// "(All)" when empty, the labels themselves for up to three, otherwise a
// count.
func Caption(labels []string) string {
	switch n := len(labels); {
	case n == 0:
		return "(All)"
	case n <= 3:
		return "(" + strings.Join(labels, ", ") + ")"
	default:
		return fmt.Sprintf("(%d selected)", n)
	}
}

func sortedKeys(m set) []string {
	out := make([]string, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
