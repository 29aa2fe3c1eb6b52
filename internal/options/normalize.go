package options

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var contractMultiplier = decimal.NewFromInt(100)

// Normalize maps a raw service row into the canonical Option. It must be
// applied exactly once per fetched row: the one-day expiration shift is not
// idempotent. The shift matches the service's known off-by-one and is kept
// for behavioral parity.
func Normalize(raw RawRow) Option {
	bid := num(raw.BidPrice)
	ask := num(raw.AskPrice)
	premium := decimal.NewFromFloat(ask).
		Add(decimal.NewFromFloat(bid)).
		Div(decimal.NewFromInt(2)).
		Mul(contractMultiplier).
		Round(2).
		InexactFloat64()

	return Option{
		Symbol:            raw.Symbol,
		Type:              raw.Type,
		Expiration:        shiftExpiration(raw.Expiration),
		StockPrice:        num(raw.StockPrice),
		Strike:            num(raw.Strike),
		BidPrice:          bid,
		AskPrice:          ask,
		Premium:           premium,
		Delta:             nullable(raw.Delta),
		Volume:            num(raw.Volume),
		OpenInterest:      num(raw.OpenInterest),
		YieldPercent:      num(raw.YieldPercent),
		ImpliedVolatility: num(raw.ImpliedVolatility),
		EarningsDate:      raw.EarningsDate,
		PERatio:           num(raw.PERatio),
		MarketCap:         num(raw.MarketCap),
		Sector:            raw.Sector,
		Probability:       num(raw.Probability),
		AnnualizedReturn:  num(raw.AnnualizedReturn),
		OptionKey:         raw.OptionKey,
	}
}

// NormalizeAll maps a full page of rows.
func NormalizeAll(rows []RawRow) []Option {
	out := make([]Option, 0, len(rows))
	for _, r := range rows {
		out = append(out, Normalize(r))
	}
	return out
}

// shiftExpiration moves the service date forward one day and reformats it.
// An unparseable date passes through untouched.
func shiftExpiration(v string) string {
	if v == "" {
		return v
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, v); err != nil {
			return v
		}
	}
	return t.AddDate(0, 0, 1).Format(dateLayout)
}

func num(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return *v
}

func nullable(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) {
		return nil
	}
	out := *v
	return &out
}
