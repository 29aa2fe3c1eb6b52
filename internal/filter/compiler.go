package filter

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"screener/internal/registry"
)

// ErrInvalidQuery reports compiler input that should have been rejected by
// validation before reaching it, e.g. a missing option type.
var ErrInvalidQuery = errors.New("invalid query")

const dateLayout = "2006-01-02"

var billion = decimal.NewFromInt(1_000_000_000)

// Compile turns a filter snapshot plus sort and strike mode into the ordered
// operation list for the remote query service. It is pure: same input, same
// output, byte for byte. Pagination travels as separate request fields, not
// as operations.
func Compile(s State, sort *Sort, mode StrikeMode) ([]Operation, error) {
	return CompileAt(time.Now().UTC(), s, sort, mode)
}

// CompileAt is Compile with an explicit clock, used wherever the
// expiration-date rules need to be pinned.
func CompileAt(now time.Time, s State, sort *Sort, mode StrikeMode) ([]Operation, error) {
	if !s.Type.Valid() {
		return nil, errors.Join(ErrInvalidQuery, errors.New("option type required"))
	}

	ops := make([]Operation, 0, 16)
	ops = append(ops, Operation{Operation: OpEq, Field: "type", Value: quote(string(s.Type))})

	// Symbol inclusion. Zero symbols means no filter; exclusion has no wire
	// operation and is applied locally after fetch.
	switch symbols := s.Symbols; len(symbols) {
	case 0:
	case 1:
		ops = append(ops, Operation{Operation: OpEq, Field: "symbol", Value: quote(symbols[0])})
	default:
		ops = append(ops, Operation{Operation: OpIn, Field: "symbol", Value: quote(strings.Join(symbols, ","))})
	}

	for _, key := range registry.RangeKeys() {
		dim, _ := registry.Get(key)
		r := s.Range(key)
		// Keep the query issuable after contradictory edits: pull min down.
		if r.Min > r.Max {
			r.Min = r.Max
		}
		if r.Min > dim.Min {
			ops = append(ops, Operation{Operation: OpGte, Field: dim.Field, Value: rangeValue(key, r.Min)})
		}
		if r.Max < dim.Max {
			ops = append(ops, Operation{Operation: OpLte, Field: dim.Field, Value: rangeValue(key, r.Max)})
		}
	}

	ops = append(ops, expirationOps(now, s)...)

	if op, ok := strikeFilterOp(s, mode); ok {
		ops = append(ops, op)
	}

	if s.Sector != "" && s.Sector != AnySector {
		ops = append(ops, Operation{Operation: OpEq, Field: "sector", Value: quote(s.Sector)})
	}
	if s.Crossover != "" && s.Crossover != AnyCrossover {
		ops = append(ops, Operation{Operation: OpEq, Field: "maCrossover", Value: quote(s.Crossover)})
	}

	if sort != nil && sort.Field != "" {
		dir := "asc"
		if sort.Desc {
			dir = "desc"
		}
		ops = append(ops, Operation{Operation: OpSort, Field: sort.Field, Value: dir})
	}

	return ops, nil
}

// expirationOps implements the service's expiration convention: no chosen
// ceiling compiles to expiration == today, not "all future dates".
func expirationOps(now time.Time, s State) []Operation {
	dim, _ := registry.Get(registry.KeyDTE)
	r := s.Range(registry.KeyDTE)
	if r.Min > r.Max {
		r.Min = r.Max
	}
	today := now.Format(dateLayout)
	if r.Max >= dim.Max {
		return []Operation{{Operation: OpEq, Field: dim.Field, Value: quote(today)}}
	}
	floor := today
	if r.Min > dim.Min {
		floor = now.AddDate(0, 0, int(r.Min)).Format(dateLayout)
	}
	ceiling := now.AddDate(0, 0, int(r.Max)).Format(dateLayout)
	return []Operation{
		{Operation: OpGte, Field: dim.Field, Value: quote(floor)},
		{Operation: OpLte, Field: dim.Field, Value: quote(ceiling)},
	}
}

// strikeFilterOp translates moneyness into the single strikeFilter operation.
// The legacy mode enum takes precedence when set; otherwise the moneyness
// lower bound is sent as a fraction. This is a distinct server-side operation
// and is independent of the plain strike-price range.
func strikeFilterOp(s State, mode StrikeMode) (Operation, bool) {
	op := Operation{Operation: OpStrikeFilter, Field: string(s.Type)}
	switch mode {
	case StrikeModeAll:
		return Operation{}, false
	case StrikeModeOneOut:
		op.Value = float64(0)
		return op, true
	case StrikeModeThreePercent:
		op.Value = 0.03
		return op, true
	}
	dim, _ := registry.Get(registry.KeyMoneyness)
	r := s.Range(registry.KeyMoneyness)
	if r.Min <= dim.Min {
		return Operation{}, false
	}
	op.Value = decimal.NewFromFloat(r.Min).Div(decimal.NewFromInt(100)).InexactFloat64()
	return op, true
}

// rangeValue converts a user-entered bound into its wire value. Market cap is
// entered in billions and transmitted absolute; everything else is sent as
// entered.
func rangeValue(key string, v float64) float64 {
	if key == registry.KeyMarketCap {
		return decimal.NewFromFloat(v).Mul(billion).InexactFloat64()
	}
	return v
}

// quote wraps a string literal for the service's literal-parsing convention.
func quote(v string) string {
	return `"` + v + `"`
}
