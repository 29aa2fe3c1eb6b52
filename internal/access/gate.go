package access

import "screener/internal/registry"

// CanAccessFeature is the single gating predicate consumed by every call
// site. Grace-period past_due resolves to StatusActive upstream, so it is
// covered here without a special case.
func CanAccessFeature(s Status) bool {
	return s == StatusActive || s == StatusTrialing
}

// gatedDimensions are usable only by entitled users. Price/strike,
// moneyness, DTE and volume stay open to everyone.
var gatedDimensions = map[string]bool{
	registry.KeyYield:            true,
	registry.KeyAnnualizedReturn: true,
	registry.KeyDelta:            true,
	registry.KeyIV:               true,
	registry.KeyProbability:      true,
	registry.KeyPERatio:          true,
	registry.KeyMarketCap:        true,
}

func DimensionGated(key string) bool {
	return gatedDimensions[key]
}

func DimensionEnabled(key string, s Status) bool {
	if !gatedDimensions[key] {
		return true
	}
	return CanAccessFeature(s)
}

// VisibleRows caps a page for non-entitled users to the preview window. The
// presentation layer blurs everything past the cap; this boolean pair is all
// it needs from the core.
func VisibleRows(s Status, rows, preview int) int {
	if CanAccessFeature(s) {
		return rows
	}
	if preview < 0 {
		preview = 0
	}
	if rows < preview {
		return rows
	}
	return preview
}
