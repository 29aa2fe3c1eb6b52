package registry

import "testing"

func TestDefaultsAreNonRestrictive(t *testing.T) {
	for _, d := range All() {
		if d.DefaultMin != d.Min || d.DefaultMax != d.Max {
			t.Fatalf("dimension %s: defaults [%v,%v] differ from bounds [%v,%v]",
				d.Key, d.DefaultMin, d.DefaultMax, d.Min, d.Max)
		}
	}
}

func TestRangeKeysAreRegistered(t *testing.T) {
	for _, key := range RangeKeys() {
		d, ok := Get(key)
		if !ok {
			t.Fatalf("range key %s not registered", key)
		}
		if d.Field == "" {
			t.Fatalf("range key %s has no wire field", key)
		}
	}
}

func TestDTEAndMoneynessExcludedFromRangeKeys(t *testing.T) {
	for _, key := range RangeKeys() {
		if key == KeyDTE || key == KeyMoneyness {
			t.Fatalf("%s compiles through a dedicated rule, not the range loop", key)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].Max = -1
	if b := All(); b[0].Max == -1 {
		t.Fatalf("All must return a copy")
	}
}
