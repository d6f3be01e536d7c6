package domain

import (
	"fmt"
	"strings"
)

// PriceMethod selects which PriceStats value the hand classifier compares against.
type PriceMethod string

const (
	PriceMethodMean   PriceMethod = "mean"
	PriceMethodMedian PriceMethod = "median"
	PriceMethodFloor  PriceMethod = "floor"
)

// PriceMethods lists every supported method.
var PriceMethods = []PriceMethod{PriceMethodMean, PriceMethodMedian, PriceMethodFloor}

// String returns the string representation of PriceMethod.
func (m PriceMethod) String() string {
	return string(m)
}

// IsValid checks if the method is a supported value.
func (m PriceMethod) IsValid() bool {
	return m == PriceMethodMean || m == PriceMethodMedian || m == PriceMethodFloor
}

// ParsePriceMethod parses a case-insensitive method name.
func ParsePriceMethod(s string) (PriceMethod, error) {
	m := PriceMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPriceMethod, s)
	}
	return m, nil
}
