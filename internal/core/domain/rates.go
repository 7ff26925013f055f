package domain

import (
	"fmt"
	"strings"
)

// RatePair is an ordered (from, to) currency tuple. Absence of a pair
// in the rate table means conversion in that direction is unsupported;
// USD->MXN says nothing about MXN->USD.
type RatePair struct {
	From string
	To   string
}

// Key renders the pair in the wire format used by the rates API,
// e.g. {USD, MXN} -> "USD_MXN".
func (p RatePair) Key() string {
	return p.From + "_" + p.To
}

// ParseRatePair parses a "FROM_TO" key into an ordered pair. Currency
// codes are normalized to uppercase.
func ParseRatePair(key string) (RatePair, error) {
	parts := strings.Split(key, "_")
	if len(parts) != 2 || len(parts[0]) != 3 || len(parts[1]) != 3 {
		return RatePair{}, fmt.Errorf("invalid rate pair %q: want FROM_TO with 3-letter codes", key)
	}
	return RatePair{
		From: strings.ToUpper(parts[0]),
		To:   strings.ToUpper(parts[1]),
	}, nil
}
