package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"screener/internal/cache"
	"screener/internal/registry"
)

// Sentinel values for the categorical dimensions meaning "no filter".
const (
	AnySector    = "All Sectors"
	AnyCrossover = "Any"
)

// Range is the current [min,max] of one numeric dimension.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// State is the live filter record for one option universe. The compiler only
// ever reads a State snapshot; it never touches the persistence surface.
type State struct {
	Type            OptionType       `json:"optionType"`
	Ranges          map[string]Range `json:"ranges"`
	Sector          string           `json:"sector"`
	Crossover       string           `json:"crossover"`
	Symbols         []string         `json:"symbols,omitempty"`
	ExcludedSymbols []string         `json:"excludedSymbols,omitempty"`
}

// NewState builds a State seeded with registry defaults for the given type.
func NewState(t OptionType) State {
	ranges := make(map[string]Range, len(registry.All()))
	for _, d := range registry.All() {
		ranges[d.Key] = Range{Min: d.DefaultMin, Max: d.DefaultMax}
	}
	return State{
		Type:      t,
		Ranges:    ranges,
		Sector:    AnySector,
		Crossover: AnyCrossover,
	}
}

// Range returns the current range for a dimension, falling back to the
// registry default when the dimension was never set.
func (s State) Range(key string) Range {
	if r, ok := s.Ranges[key]; ok {
		return r
	}
	if d, ok := registry.Get(key); ok {
		return Range{Min: d.DefaultMin, Max: d.DefaultMax}
	}
	return Range{}
}

// SetRange stores a range for a dimension, clamped to the registry bounds.
func (s *State) SetRange(key string, min, max float64) {
	d, ok := registry.Get(key)
	if !ok {
		return
	}
	if min < d.Min {
		min = d.Min
	}
	if max > d.Max {
		max = d.Max
	}
	if s.Ranges == nil {
		s.Ranges = map[string]Range{}
	}
	s.Ranges[key] = Range{Min: min, Max: max}
}

// Reset restores every dimension to its registry default.
func (s *State) Reset() {
	*s = NewState(s.Type)
}

func stateKey(t OptionType, dim string) string {
	return string(t) + "_" + dim
}

// Save flushes the state into the keyed persistence surface, one entry per
// dimension. Writes are last-write-wins; all of them originate from a single
// session.
func (s State) Save(ctx context.Context, store cache.Store) error {
	if store == nil {
		return nil
	}
	for _, d := range registry.All() {
		r := s.Range(d.Key)
		raw, err := json.Marshal([2]float64{r.Min, r.Max})
		if err != nil {
			return err
		}
		if err := store.Set(ctx, stateKey(s.Type, d.Key), raw, 0); err != nil {
			return err
		}
	}
	if err := store.Set(ctx, stateKey(s.Type, "sector"), []byte(s.Sector), 0); err != nil {
		return err
	}
	if err := store.Set(ctx, stateKey(s.Type, "crossover"), []byte(s.Crossover), 0); err != nil {
		return err
	}
	if err := store.Set(ctx, stateKey(s.Type, "symbols"), []byte(strings.Join(s.Symbols, ",")), 0); err != nil {
		return err
	}
	return store.Set(ctx, stateKey(s.Type, "excludedSymbols"), []byte(strings.Join(s.ExcludedSymbols, ",")), 0)
}

// Load restores a State from the persistence surface. Absent keys fall back
// to registry defaults (first run); a corrupted range entry fails the whole
// load so the caller can reset rather than partially trust the store.
func Load(ctx context.Context, store cache.Store, t OptionType) (State, error) {
	s := NewState(t)
	if store == nil {
		return s, nil
	}
	for _, d := range registry.All() {
		raw, found, err := store.Get(ctx, stateKey(t, d.Key))
		if err != nil {
			return NewState(t), err
		}
		if !found {
			continue
		}
		var pair [2]float64
		if err := json.Unmarshal(raw, &pair); err != nil {
			return NewState(t), fmt.Errorf("corrupt filter state for %s: %w", d.Key, err)
		}
		s.SetRange(d.Key, pair[0], pair[1])
	}
	if raw, found, err := store.Get(ctx, stateKey(t, "sector")); err != nil {
		return NewState(t), err
	} else if found && len(raw) > 0 {
		s.Sector = string(raw)
	}
	if raw, found, err := store.Get(ctx, stateKey(t, "crossover")); err != nil {
		return NewState(t), err
	} else if found && len(raw) > 0 {
		s.Crossover = string(raw)
	}
	if raw, found, err := store.Get(ctx, stateKey(t, "symbols")); err != nil {
		return NewState(t), err
	} else if found && len(raw) > 0 {
		s.Symbols = splitSymbols(string(raw))
	}
	if raw, found, err := store.Get(ctx, stateKey(t, "excludedSymbols")); err != nil {
		return NewState(t), err
	} else if found && len(raw) > 0 {
		s.ExcludedSymbols = splitSymbols(string(raw))
	}
	return s, nil
}

func splitSymbols(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
