package models

import "time"

// TxTimeState describes what is known about an address's most recent activity
type TxTimeState string

const (
	// TxTimeUnknown means no transaction has been observed for the address
	TxTimeUnknown TxTimeState = "unknown"
	// TxTimePending means the newest transaction is still in the mempool
	TxTimePending TxTimeState = "pending"
	// TxTimeConfirmed means the newest transaction is confirmed at Time
	TxTimeConfirmed TxTimeState = "confirmed"
)

// TxTime is the tri-state last-activity marker for an address.
// When State is TxTimeConfirmed, Time holds the block timestamp in unix seconds.
type TxTime struct {
	State TxTimeState `json:"state"`
	Time  int64       `json:"time,omitempty"`
}

// UnknownTxTime returns a TxTime with no observed activity
func UnknownTxTime() TxTime {
	return TxTime{State: TxTimeUnknown}
}

// PendingTxTime returns a TxTime for unconfirmed latest activity
func PendingTxTime() TxTime {
	return TxTime{State: TxTimePending}
}

// ConfirmedTxTime returns a TxTime confirmed at the given unix timestamp
func ConfirmedTxTime(unix int64) TxTime {
	return TxTime{State: TxTimeConfirmed, Time: unix}
}

// AddressRecord represents one tracked address
type AddressRecord struct {
	ID          string    `json:"id"`
	Address     string    `json:"address"`
	Label       string    `json:"label"`
	Group       string    `json:"group"`
	BalanceSats int64     `json:"balance_sats"` // confirmed + unconfirmed, in satoshis
	LastTx      TxTime    `json:"last_tx"`
	LastUpdated time.Time `json:"last_updated"`
}

// DefaultLabel is used when a record is created without a display name
const DefaultLabel = "Unnamed"

// DefaultGroup is used when a record is created without a category
const DefaultGroup = "General"
