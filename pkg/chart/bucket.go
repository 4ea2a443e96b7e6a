package chart

import (
	"fmt"
	"strconv"
	"strings"
)

// Bucket is the colour class of a bar.
type Bucket string

const (
	BucketHigh   Bucket = "high"
	BucketMedium Bucket = "medium"
	BucketLow    Bucket = "low"
)

// Lower bounds, inclusive.
const (
	HighThreshold   = 90.0
	MediumThreshold = 75.0
)

// BucketFor maps a percentage to its bucket.
func BucketFor(rate float64) Bucket {
	switch {
	case rate >= HighThreshold:
		return BucketHigh
	case rate >= MediumThreshold:
		return BucketMedium
	default:
		return BucketLow
	}
}

// ParseRate reads a display rate such as "96%" into a number.
func ParseRate(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "%"))
	if trimmed == "" {
		return 0, fmt.Errorf("chart: empty rate %q", raw)
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("chart: parse rate %q: %w", raw, err)
	}
	return value, nil
}

// BucketForRate combines ParseRate and BucketFor. Malformed rates land in the
// low bucket.
func BucketForRate(raw string) Bucket {
	value, err := ParseRate(raw)
	if err != nil {
		return BucketLow
	}
	return BucketFor(value)
}
