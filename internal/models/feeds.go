package models

// PriceQuote represents a spot price with its 24-hour change
type PriceQuote struct {
	Price     float64 `json:"price"`      // fiat units per whole coin
	Change24h float64 `json:"change_24h"` // percent
}

// FeeEstimate represents recommended fee-rate tiers in sat/vB
type FeeEstimate struct {
	Fastest  int64 `json:"fastest"`
	HalfHour int64 `json:"half_hour"`
	Hour     int64 `json:"hour"`
}

// FetchResult is the payload of one successful per-address balance fetch
type FetchResult struct {
	BalanceSats int64  `json:"balance_sats"`
	LastTx      TxTime `json:"last_tx"`
}
