package submission

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Form field names.
const (
	FieldNationality = "nationality"
	FieldResidence   = "residence"
	FieldPurpose     = "purpose"
	FieldRegion      = "region"
)

var strictPolicy = bluemonday.StrictPolicy()

// Submission is one decoded query. Free text is trimmed and stripped of
// markup; Regions keeps submission order.
type Submission struct {
	Nationality string   `json:"nationality"`
	Residence   string   `json:"residence"`
	Purpose     string   `json:"purpose"`
	Regions     []string `json:"region"`
}

// FromValues decodes form values. A missing region key yields an empty,
// non-nil selection.
func FromValues(values url.Values) Submission {
	sub := Submission{
		Nationality: Sanitize(values.Get(FieldNationality)),
		Residence:   Sanitize(values.Get(FieldResidence)),
		Purpose:     Sanitize(values.Get(FieldPurpose)),
		Regions:     []string{},
	}

	seen := make(map[string]struct{})
	for _, raw := range values[FieldRegion] {
		region := strings.ToLower(strings.TrimSpace(raw))
		if region == "" {
			continue
		}
		if _, ok := seen[region]; ok {
			continue
		}
		seen[region] = struct{}{}
		sub.Regions = append(sub.Regions, region)
	}
	return sub
}

// maxSanitizePasses bounds how many layers of entity encoding are unwrapped.
const maxSanitizePasses = 4

// Sanitize strips all markup and surrounding whitespace. The result is plain
// text; escaping is left to the template engine. Entity-encoded markup is
// decoded and stripped again, so "&lt;b&gt;" never turns back into a tag.
func Sanitize(raw string) string {
	current := strings.TrimSpace(raw)
	for i := 0; i < maxSanitizePasses; i++ {
		next := strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(current)))
		if next == current {
			return next
		}
		current = next
	}
	// Still decoding: keep the policy's escaped form rather than raw markup.
	return strings.TrimSpace(strictPolicy.Sanitize(current))
}

// Selected reports whether region was part of the submission.
func (s Submission) Selected(region string) bool {
	region = strings.ToLower(strings.TrimSpace(region))
	for _, candidate := range s.Regions {
		if candidate == region {
			return true
		}
	}
	return false
}

// Values re-encodes the submission, useful for redirects and tests.
func (s Submission) Values() url.Values {
	values := url.Values{}
	values.Set(FieldNationality, s.Nationality)
	values.Set(FieldResidence, s.Residence)
	values.Set(FieldPurpose, s.Purpose)
	for _, region := range s.Regions {
		values.Add(FieldRegion, region)
	}
	return values
}

func (s Submission) document() map[string]any {
	regions := make([]any, 0, len(s.Regions))
	for _, region := range s.Regions {
		regions = append(regions, region)
	}
	return map[string]any{
		FieldNationality: s.Nationality,
		FieldResidence:   s.Residence,
		FieldPurpose:     s.Purpose,
		FieldRegion:      regions,
	}
}
