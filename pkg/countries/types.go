package countries

import "strings"

// Region classifies an entry for filtering purposes.
type Region string

const (
	RegionSchengen Region = "schengen"
	RegionAsian    Region = "asian"
	RegionGCC      Region = "gcc"
	RegionAmerica  Region = "america"
	RegionAfrica   Region = "africa"
	RegionLatin    Region = "latin"
	RegionOther    Region = "other"

	// RegionAll selects every entry. It is a filter selector, never an entry tag.
	RegionAll Region = "all"
)

var regionOrder = []Region{
	RegionSchengen,
	RegionAsian,
	RegionGCC,
	RegionAmerica,
	RegionOther,
	RegionAfrica,
	RegionLatin,
}

var regionLabels = map[Region]string{
	RegionAll:      "All Regions",
	RegionSchengen: "Schengen",
	RegionAsian:    "Asian",
	RegionGCC:      "GCC",
	RegionAmerica:  "America",
	RegionAfrica:   "Africa",
	RegionLatin:    "Latin America",
	RegionOther:    "Other",
}

// Regions returns the enumerated region tags in the order the form lists them.
func Regions() []Region {
	return append([]Region{}, regionOrder...)
}

// ParseRegion normalises raw input. The second return reports whether the
// value is a known tag or the "all" selector.
func ParseRegion(raw string) (Region, bool) {
	region := Region(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := regionLabels[region]
	return region, ok
}

// Label returns the display label for the region, falling back to the raw tag.
func (r Region) Label() string {
	if label, ok := regionLabels[r]; ok {
		return label
	}
	return string(r)
}

func (r Region) String() string { return string(r) }

// Entry is a single country suggestion.
type Entry struct {
	Name        string `json:"name" yaml:"name"`
	VisaType    string `json:"type" yaml:"type"`
	SuccessRate string `json:"success_rate" yaml:"success_rate"`
	Region      Region `json:"region" yaml:"region"`
	Note        string `json:"note" yaml:"-"`
	Link        string `json:"link" yaml:"link"`
}

// EmbassyNote builds the note attached to every entry.
func EmbassyNote(name string) string {
	return "Visit the official embassy website of " + name + " for details."
}
