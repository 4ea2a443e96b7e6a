package chart

import (
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette holds hex colours for each bucket.
type Palette struct {
	High   string `json:"high"`
	Medium string `json:"medium"`
	Low    string `json:"low"`
}

// DefaultPalette is green/orange/red.
func DefaultPalette() Palette {
	return Palette{
		High:   "#008000",
		Medium: "#FFA500",
		Low:    "#FF0000",
	}
}

// Hex returns the hex colour for bucket, empty for unknown buckets.
func (p Palette) Hex(bucket Bucket) string {
	switch bucket {
	case BucketHigh:
		return p.High
	case BucketMedium:
		return p.Medium
	case BucketLow:
		return p.Low
	default:
		return ""
	}
}

// Merge fills empty slots from fallback.
func (p Palette) Merge(fallback Palette) Palette {
	if strings.TrimSpace(p.High) == "" {
		p.High = fallback.High
	}
	if strings.TrimSpace(p.Medium) == "" {
		p.Medium = fallback.Medium
	}
	if strings.TrimSpace(p.Low) == "" {
		p.Low = fallback.Low
	}
	return p
}

func (p Palette) colors() (map[Bucket]drawing.Color, error) {
	out := make(map[Bucket]drawing.Color, 3)
	for _, bucket := range []Bucket{BucketHigh, BucketMedium, BucketLow} {
		c, err := ParseHex(p.Hex(bucket))
		if err != nil {
			return nil, fmt.Errorf("chart: %s colour: %w", bucket, err)
		}
		out[bucket] = c
	}
	return out, nil
}

// ParseHex parses #rgb or #rrggbb.
func ParseHex(raw string) (drawing.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(hex) != 3 && len(hex) != 6 {
		return drawing.Color{}, fmt.Errorf("invalid hex colour %q", raw)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return drawing.Color{}, fmt.Errorf("invalid hex colour %q", raw)
		}
	}
	return drawing.ColorFromHex(hex), nil
}
