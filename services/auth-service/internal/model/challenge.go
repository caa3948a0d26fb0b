package model

import "time"

// Challenge is an issued one-time code awaiting verification. Only the code's hash is kept.
type Challenge struct {
	Phone     string
	CodeHash  string
	ExpiresAt time.Time
}
