package submission

import (
	"strings"
)

// ErrorMapping splits validation failures into field-level and form-level
// messages.
type ErrorMapping struct {
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// Empty reports whether no messages were recorded.
func (m ErrorMapping) Empty() bool {
	return len(m.Fields) == 0 && len(m.Form) == 0
}

// Field returns the first message recorded for name.
func (m ErrorMapping) Field(name string) string {
	if messages := m.Fields[name]; len(messages) > 0 {
		return messages[0]
	}
	return ""
}

// Flatten returns field messages in the given field order followed by form
// messages.
func (m ErrorMapping) Flatten(order ...string) []string {
	var out []string
	for _, name := range order {
		out = append(out, m.Fields[name]...)
	}
	out = append(out, m.Form...)
	return normalizeMessages(out)
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload turns a pointer-keyed payload into an ErrorMapping. Keys
// that do not resolve to a known field become form-level messages.
func MapErrorPayload(fields []string, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}

	known := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		known[field] = struct{}{}
	}

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		field := fieldFromPath(rawPath)
		if _, ok := known[field]; !ok || field == "" {
			mapping.Form = MergeFormErrors(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[field] = normalizeMessages(append(mapping.Fields[field], normalized...))
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	return mapping
}

// fieldFromPath reduces "/body/nationality", "#/purpose" or "region[0]" to
// the top-level field name.
func fieldFromPath(path string) string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}
	if idx := strings.IndexAny(clean, "[./"); idx >= 0 {
		head := clean[:idx]
		if head == "body" {
			return fieldFromPath(clean[idx:])
		}
		clean = head
	}
	return strings.ToLower(clean)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
