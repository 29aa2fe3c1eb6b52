package optionsdata

import (
	"screener/internal/filter"
	"screener/internal/options"
)

// QueryRequest is the wire shape of the screening service's POST /query.
// Pagination travels as request fields, not as operations.
type QueryRequest struct {
	Filters  []filter.Operation `json:"filters"`
	Paging   bool               `json:"paging"`
	PageNo   int                `json:"pageNo"`
	PageSize int                `json:"pageSize"`
	UserID   string             `json:"userId,omitempty"`
}

type queryResponse struct {
	Options []options.RawRow `json:"options"`
	Count   int64            `json:"count"`
}

// QueryResult carries one raw page. Count is the authoritative total for
// pagination math.
type QueryResult struct {
	Rows  []options.RawRow
	Count int64
}
