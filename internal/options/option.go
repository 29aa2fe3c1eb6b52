package options

// RawRow is one result row exactly as the remote screening service sends it.
// Numeric fields arrive as nullable JSON numbers; strings may be empty.
type RawRow struct {
	Symbol            string   `json:"symbol"`
	Type              string   `json:"type"`
	Expiration        string   `json:"expiration"`
	StockPrice        *float64 `json:"stockPrice"`
	Strike            *float64 `json:"strike"`
	BidPrice          *float64 `json:"bidPrice"`
	AskPrice          *float64 `json:"askPrice"`
	Delta             *float64 `json:"delta"`
	Volume            *float64 `json:"volume"`
	OpenInterest      *float64 `json:"openInterest"`
	YieldPercent      *float64 `json:"yieldPercent"`
	ImpliedVolatility *float64 `json:"impliedVolatility"`
	EarningsDate      string   `json:"earningsDate"`
	PERatio           *float64 `json:"peRatio"`
	MarketCap         *float64 `json:"marketCap"`
	Sector            string   `json:"sector"`
	Probability       *float64 `json:"probability"`
	AnnualizedReturn  *float64 `json:"annualizedReturn"`
	OptionKey         string   `json:"optionKey"`
}

// Option is the canonical result row. Premium is derived, never transmitted.
type Option struct {
	Symbol            string   `json:"symbol"`
	Type              string   `json:"type"`
	Expiration        string   `json:"expiration"`
	StockPrice        float64  `json:"stockPrice"`
	Strike            float64  `json:"strike"`
	BidPrice          float64  `json:"bidPrice"`
	AskPrice          float64  `json:"askPrice"`
	Premium           float64  `json:"premium"`
	Delta             *float64 `json:"delta"`
	Volume            float64  `json:"volume"`
	OpenInterest      float64  `json:"openInterest"`
	YieldPercent      float64  `json:"yieldPercent"`
	ImpliedVolatility float64  `json:"impliedVolatility"`
	EarningsDate      string   `json:"earningsDate"`
	PERatio           float64  `json:"peRatio"`
	MarketCap         float64  `json:"marketCap"`
	Sector            string   `json:"sector"`
	Probability       float64  `json:"probability"`
	AnnualizedReturn  float64  `json:"annualizedReturn"`
	OptionKey         string   `json:"optionKey"`
}
