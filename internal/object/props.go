package object

import (
	"github.com/roach88/lisql/internal/ir"
)

// Props is an insertion-ordered field bag. Every write goes through Set,
// which stores the value and then notifies the observer.
//
// Props is not safe for concurrent use.
type Props struct {
	keys   []string
	values map[string]ir.Value
	check  func(key string, value ir.Value) (ir.Value, error)
	onSet  func(key string, value ir.Value)
}

// Watch returns an empty bag that calls onSet after every write.
// onSet may be nil.
func Watch(onSet func(key string, value ir.Value)) *Props {
	return WatchChecked(nil, onSet)
}

// WatchChecked is like Watch, but every write first passes through check,
// which may replace the value or reject the write. check may be nil.
func WatchChecked(check func(key string, value ir.Value) (ir.Value, error), onSet func(key string, value ir.Value)) *Props {
	return &Props{
		values: make(map[string]ir.Value),
		check:  check,
		onSet:  onSet,
	}
}

// Set stores value under key. A new key is appended to the key order;
// an existing key keeps its position. A rejected write leaves the bag
// unchanged and does not notify the observer.
func (p *Props) Set(key string, value ir.Value) error {
	if p.check != nil {
		v, err := p.check(key, value)
		if err != nil {
			return err
		}
		value = v
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	if p.onSet != nil {
		p.onSet(key, value)
	}
	return nil
}

// Get returns the value stored under key.
func (p *Props) Get(key string) (ir.Value, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key has been set.
func (p *Props) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Keys returns the keys in first-write order.
func (p *Props) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of keys.
func (p *Props) Len() int {
	return len(p.keys)
}

// touchedSet is an ordered, duplicate-free set of keys.
type touchedSet struct {
	order []string
	seen  map[string]struct{}
}

func (s *touchedSet) add(key string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, key)
}

// reset replaces the set with keys, dropping duplicates.
func (s *touchedSet) reset(keys []string) {
	s.order = nil
	s.seen = make(map[string]struct{}, len(keys))
	for _, k := range keys {
		s.add(k)
	}
}

func (s *touchedSet) list() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
