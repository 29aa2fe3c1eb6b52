package registry

import "fmt"

// Dimension keys. These double as the persistence-surface key suffix
// (<optionType>_<key>) for remembered filter values.
const (
	KeyYield            = "yieldPercent"
	KeyStrike           = "strike"
	KeyVolume           = "volume"
	KeyDelta            = "delta"
	KeyIV               = "impliedVolatility"
	KeyPERatio          = "peRatio"
	KeyMarketCap        = "marketCap"
	KeyAnnualizedReturn = "annualizedReturn"
	KeyProbability      = "probability"
	KeyDTE              = "dte"
	KeyMoneyness        = "moneyness"
)

// Dimension is the static descriptor for one numeric filter dimension.
// Bounds are the non-restrictive limits: a current value equal to Min/Max
// means "no filter" and compiles to nothing.
type Dimension struct {
	Key           string  `json:"key"`
	Field         string  `json:"field"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	DefaultMin    float64 `json:"defaultMin"`
	DefaultMax    float64 `json:"defaultMax"`
	Step          float64 `json:"step"`
	IsExponential bool    `json:"isExponential"`
	Exponent      float64 `json:"exponent,omitempty"`
	Tooltip       string  `json:"tooltip"`
}

var dimensions = []Dimension{
	{
		Key: KeyYield, Field: "yieldPercent",
		Min: 0, Max: 100, DefaultMin: 0, DefaultMax: 100, Step: 0.1,
		Tooltip: "Premium as a percentage of the strike price.",
	},
	{
		Key: KeyStrike, Field: "strike",
		Min: 0, Max: 5000, DefaultMin: 0, DefaultMax: 5000, Step: 1,
		IsExponential: true, Exponent: 2,
		Tooltip: "Option strike price in dollars.",
	},
	{
		Key: KeyVolume, Field: "volume",
		Min: 0, Max: 1000000, DefaultMin: 0, DefaultMax: 1000000, Step: 100,
		IsExponential: true, Exponent: 3,
		Tooltip: "Contracts traded today.",
	},
	{
		Key: KeyDelta, Field: "delta",
		Min: -1, Max: 1, DefaultMin: -1, DefaultMax: 1, Step: 0.01,
		Tooltip: "Sensitivity of the option price to a $1 move in the stock.",
	},
	{
		Key: KeyIV, Field: "impliedVolatility",
		Min: 0, Max: 500, DefaultMin: 0, DefaultMax: 500, Step: 1,
		Tooltip: "Implied volatility, annualized percent.",
	},
	{
		Key: KeyPERatio, Field: "peRatio",
		Min: 0, Max: 500, DefaultMin: 0, DefaultMax: 500, Step: 1,
		Tooltip: "Price-to-earnings ratio of the underlying.",
	},
	{
		Key: KeyMarketCap, Field: "marketCap",
		Min: 0, Max: 5000, DefaultMin: 0, DefaultMax: 5000, Step: 1,
		IsExponential: true, Exponent: 2,
		Tooltip: "Market capitalization of the underlying, in billions.",
	},
	{
		Key: KeyAnnualizedReturn, Field: "annualizedReturn",
		Min: 0, Max: 1000, DefaultMin: 0, DefaultMax: 1000, Step: 1,
		Tooltip: "Yield annualized over days to expiration.",
	},
	{
		Key: KeyProbability, Field: "probability",
		Min: 0, Max: 100, DefaultMin: 0, DefaultMax: 100, Step: 1,
		Tooltip: "Probability the option expires worthless.",
	},
	{
		Key: KeyDTE, Field: "expiration",
		Min: 0, Max: 365, DefaultMin: 0, DefaultMax: 365, Step: 1,
		Tooltip: "Days to expiration.",
	},
	{
		Key: KeyMoneyness, Field: "",
		Min: 0, Max: 100, DefaultMin: 0, DefaultMax: 100, Step: 1,
		Tooltip: "Minimum distance of the strike from the stock price, percent.",
	},
}

var byKey map[string]Dimension

func init() {
	byKey = make(map[string]Dimension, len(dimensions))
	for _, d := range dimensions {
		if !(d.Min <= d.DefaultMin && d.DefaultMin <= d.DefaultMax && d.DefaultMax <= d.Max) {
			panic(fmt.Sprintf("registry: dimension %q violates min<=defaultMin<=defaultMax<=max", d.Key))
		}
		if _, dup := byKey[d.Key]; dup {
			panic(fmt.Sprintf("registry: duplicate dimension %q", d.Key))
		}
		byKey[d.Key] = d
	}
}

// All returns every dimension in registration order. The returned slice is a
// copy; the registry itself is immutable after process start.
func All() []Dimension {
	out := make([]Dimension, len(dimensions))
	copy(out, dimensions)
	return out
}

func Get(key string) (Dimension, bool) {
	d, ok := byKey[key]
	return d, ok
}

// RangeKeys returns the dimension keys that compile into plain gte/lte range
// operations, in the fixed order the compiler emits them. DTE and moneyness
// are excluded: they compile through dedicated rules.
func RangeKeys() []string {
	return []string{
		KeyYield,
		KeyStrike,
		KeyVolume,
		KeyDelta,
		KeyIV,
		KeyPERatio,
		KeyMarketCap,
		KeyAnnualizedReturn,
		KeyProbability,
	}
}
