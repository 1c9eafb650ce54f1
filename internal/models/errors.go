package models

import "errors"

// ErrInvalidAddress is returned when the ledger service cannot resolve a
// newly added address; the record is not created.
var ErrInvalidAddress = errors.New("invalid address")

// ErrInvalidFormat is returned when an import document fails structural
// validation; the store is left untouched.
var ErrInvalidFormat = errors.New("invalid import format")
