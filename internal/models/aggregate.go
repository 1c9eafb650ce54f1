package models

// AggregateRow is one row of a holdings breakdown. Key is a group name or
// an address depending on the view; Address and Label are carried only by
// the per-address view. FiatValue is rendered with two decimal places and
// omitted when no price is known.
type AggregateRow struct {
	Key        string  `json:"key"`
	Address    string  `json:"address,omitempty"`
	Label      string  `json:"label,omitempty"`
	AmountSats int64   `json:"amount_sats"`
	AmountBTC  float64 `json:"amount_btc"`
	FiatValue  string  `json:"fiat_value,omitempty"`
}
