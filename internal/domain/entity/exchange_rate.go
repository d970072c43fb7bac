package entity

import (
	"time"
)

// RateSnapshot is one set of rates fetched for a base currency.
// Rates keeps the values as decoded from the remote payload; non-numeric
// entries are dropped when the snapshot is merged into a RateTable.
type RateSnapshot struct {
	Base      string                 `json:"base"`
	Rates     map[string]interface{} `json:"rates"`
	FetchedAt time.Time              `json:"fetched_at"`
}
