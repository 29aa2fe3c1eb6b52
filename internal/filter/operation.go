package filter

// OptionType selects which option universe a query runs against.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// Op is the wire-level operation kind understood by the remote query service.
type Op string

const (
	OpEq           Op = "eq"
	OpGt           Op = "gt"
	OpGte          Op = "gte"
	OpLt           Op = "lt"
	OpLte          Op = "lte"
	OpIn           Op = "in"
	OpSort         Op = "sort"
	OpStrikeFilter Op = "strikeFilter"
)

// Operation is one element of a compiled query. Value is either a float64 or
// a string; string literals bound for exact/in matching are already
// quote-wrapped to match the service's literal-parsing convention.
type Operation struct {
	Operation Op     `json:"operation"`
	Field     string `json:"field"`
	Value     any    `json:"value"`
}

// Sort is an optional final ordering applied by the service.
type Sort struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// StrikeMode is the legacy mode-based moneyness selector kept as a thin
// adapter onto the strikeFilter fraction.
type StrikeMode string

const (
	StrikeModeAll          StrikeMode = "ALL"
	StrikeModeOneOut       StrikeMode = "ONE_OUT"
	StrikeModeThreePercent StrikeMode = "THREE_PERCENT"
)
