package filter

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"screener/internal/registry"
)

var testNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

func TestCompileDefaultsIsMinimal(t *testing.T) {
	s := NewState(Call)
	ops, err := CompileAt(testNow, s, nil, StrikeModeAll)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	want := []Operation{
		{Operation: OpEq, Field: "type", Value: `"call"`},
		{Operation: OpEq, Field: "expiration", Value: `"2025-03-10"`},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("got %#v, want %#v", ops, want)
	}
}

func TestCompileDeterministic(t *testing.T) {
	s := NewState(Put)
	s.SetRange(registry.KeyYield, 2, 80)
	s.SetRange(registry.KeyVolume, 100, 1000000)
	s.Sector = "Technology"
	s.Symbols = []string{"AAPL", "MSFT"}
	sort := &Sort{Field: "yieldPercent", Desc: true}

	a, err := CompileAt(testNow, s, sort, StrikeModeAll)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	b, err := CompileAt(testNow, s, sort, StrikeModeAll)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same input produced different output:\n%#v\n%#v", a, b)
	}
}

func TestCompileMissingType(t *testing.T) {
	s := NewState("")
	if _, err := CompileAt(testNow, s, nil, StrikeModeAll); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestCompileSymbolCardinality(t *testing.T) {
	s := NewState(Call)

	s.Symbols = nil
	ops, _ := CompileAt(testNow, s, nil, StrikeModeAll)
	if findOp(ops, "symbol") != nil {
		t.Fatalf("zero symbols should compile to no symbol operation")
	}

	s.Symbols = []string{"AAPL"}
	ops, _ = CompileAt(testNow, s, nil, StrikeModeAll)
	op := findOp(ops, "symbol")
	if op == nil || op.Operation != OpEq || op.Value != `"AAPL"` {
		t.Fatalf("single symbol: got %#v", op)
	}

	s.Symbols = []string{"AAPL", "MSFT", "NVDA"}
	ops, _ = CompileAt(testNow, s, nil, StrikeModeAll)
	op = findOp(ops, "symbol")
	if op == nil || op.Operation != OpIn || op.Value != `"AAPL,MSFT,NVDA"` {
		t.Fatalf("multi symbol: got %#v", op)
	}
}

func TestCompileRangeOmission(t *testing.T) {
	s := NewState(Call)
	s.SetRange(registry.KeyYield, 0, 50)
	ops, _ := CompileAt(testNow, s, nil, StrikeModeAll)

	var gte, lte *Operation
	for i := range ops {
		if ops[i].Field == "yieldPercent" {
			switch ops[i].Operation {
			case OpGte:
				gte = &ops[i]
			case OpLte:
				lte = &ops[i]
			}
		}
	}
	if gte != nil {
		t.Fatalf("min at bound should not emit gte, got %#v", gte)
	}
	if lte == nil || lte.Value != float64(50) {
		t.Fatalf("max below bound should emit lte 50, got %#v", lte)
	}
}

func TestCompileMarketCapScaling(t *testing.T) {
	s := NewState(Call)
	s.SetRange(registry.KeyMarketCap, 10, 500)
	ops, _ := CompileAt(testNow, s, nil, StrikeModeAll)

	for _, op := range ops {
		if op.Field != "marketCap" {
			continue
		}
		switch op.Operation {
		case OpGte:
			if op.Value != float64(10_000_000_000) {
				t.Fatalf("marketCap gte = %v, want 1e10", op.Value)
			}
		case OpLte:
			if op.Value != float64(500_000_000_000) {
				t.Fatalf("marketCap lte = %v, want 5e11", op.Value)
			}
		}
	}
}

func TestCompileClampsContradictoryRange(t *testing.T) {
	s := NewState(Call)
	s.Ranges[registry.KeyYield] = Range{Min: 60, Max: 40}
	ops, err := CompileAt(testNow, s, nil, StrikeModeAll)
	if err != nil {
		t.Fatalf("contradictory range must stay issuable: %v", err)
	}
	for _, op := range ops {
		if op.Field == "yieldPercent" && op.Operation == OpGte {
			if op.Value != float64(40) {
				t.Fatalf("min should clamp down to max, got %v", op.Value)
			}
		}
	}
}

func TestCompileExpirationWindow(t *testing.T) {
	s := NewState(Call)
	s.SetRange(registry.KeyDTE, 7, 45)
	ops, _ := CompileAt(testNow, s, nil, StrikeModeAll)

	var gte, lte, eq *Operation
	for i := range ops {
		if ops[i].Field == "expiration" {
			switch ops[i].Operation {
			case OpGte:
				gte = &ops[i]
			case OpLte:
				lte = &ops[i]
			case OpEq:
				eq = &ops[i]
			}
		}
	}
	if eq != nil {
		t.Fatalf("bounded window should not compile to eq today")
	}
	if gte == nil || gte.Value != `"2025-03-17"` {
		t.Fatalf("expiration gte = %#v, want 2025-03-17", gte)
	}
	if lte == nil || lte.Value != `"2025-04-24"` {
		t.Fatalf("expiration lte = %#v, want 2025-04-24", lte)
	}
}

func TestCompileStrikeFilter(t *testing.T) {
	s := NewState(Put)
	s.SetRange(registry.KeyMoneyness, 5, 100)

	ops, _ := CompileAt(testNow, s, nil, "")
	op := findOpKind(ops, OpStrikeFilter)
	if op == nil || op.Field != "put" || op.Value != 0.05 {
		t.Fatalf("moneyness 5%%: got %#v", op)
	}

	// Legacy modes override the moneyness range.
	ops, _ = CompileAt(testNow, s, nil, StrikeModeAll)
	if findOpKind(ops, OpStrikeFilter) != nil {
		t.Fatalf("ALL mode must omit strikeFilter")
	}
	ops, _ = CompileAt(testNow, s, nil, StrikeModeOneOut)
	if op = findOpKind(ops, OpStrikeFilter); op == nil || op.Value != float64(0) {
		t.Fatalf("ONE_OUT: got %#v", op)
	}
	ops, _ = CompileAt(testNow, s, nil, StrikeModeThreePercent)
	if op = findOpKind(ops, OpStrikeFilter); op == nil || op.Value != 0.03 {
		t.Fatalf("THREE_PERCENT: got %#v", op)
	}
}

func TestCompileStrikeFilterIndependentOfStrikeRange(t *testing.T) {
	s := NewState(Call)
	s.SetRange(registry.KeyStrike, 50, 200)
	ops, _ := CompileAt(testNow, s, nil, StrikeModeAll)

	if findOpKind(ops, OpStrikeFilter) != nil {
		t.Fatalf("strike range alone must not emit strikeFilter")
	}
	gte := false
	for _, op := range ops {
		if op.Field == "strike" && op.Operation == OpGte && op.Value == float64(50) {
			gte = true
		}
	}
	if !gte {
		t.Fatalf("strike range lower bound missing: %#v", ops)
	}
}

func TestCompileSectorCrossoverAndSort(t *testing.T) {
	s := NewState(Call)
	s.Sector = "Energy"
	s.Crossover = "Golden Cross"
	ops, _ := CompileAt(testNow, s, &Sort{Field: "premium", Desc: true}, StrikeModeAll)

	if op := findOp(ops, "sector"); op == nil || op.Value != `"Energy"` {
		t.Fatalf("sector: got %#v", op)
	}
	if op := findOp(ops, "maCrossover"); op == nil || op.Value != `"Golden Cross"` {
		t.Fatalf("crossover: got %#v", op)
	}
	last := ops[len(ops)-1]
	if last.Operation != OpSort || last.Field != "premium" || last.Value != "desc" {
		t.Fatalf("sort must be last: got %#v", last)
	}

	s.Sector = AnySector
	s.Crossover = AnyCrossover
	ops, _ = CompileAt(testNow, s, nil, StrikeModeAll)
	if findOp(ops, "sector") != nil || findOp(ops, "maCrossover") != nil {
		t.Fatalf("sentinel values must compile to nothing")
	}
}

func findOp(ops []Operation, field string) *Operation {
	for i := range ops {
		if ops[i].Field == field {
			return &ops[i]
		}
	}
	return nil
}

func findOpKind(ops []Operation, kind Op) *Operation {
	for i := range ops {
		if ops[i].Operation == kind {
			return &ops[i]
		}
	}
	return nil
}
