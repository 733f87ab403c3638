package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// normalizeName lowercases a name and drops every rune that is not a letter or digit,
// so that "Sierra Leone", "sierra-leone" and "sierra_leone" compare equal.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ParseOrigin resolves a user-provided country name to a known Origin.
func ParseOrigin(s string) (Origin, error) {
	key := normalizeName(s)
	for _, o := range AllOrigins {
		if normalizeName(string(o)) == key {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown origin %q (expected one of %s)", s, JoinOrigins(AllOrigins, ", "))
}

// ParseOrigins resolves a comma-separated list of origins. Empty input yields nil.
func ParseOrigins(s string) ([]Origin, error) {
	var origins []Origin
	seen := make(map[Origin]struct{})
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		o, err := ParseOrigin(part)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		origins = append(origins, o)
	}
	return origins, nil
}

// ParseField resolves a field name case-insensitively.
func ParseField(s string) (Field, error) {
	key := normalizeName(s)
	for _, f := range AllFields {
		if normalizeName(string(f)) == key {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q (expected one of GHI, DNI, DHI, Tamb, RH, WS, BP)", s)
}

// FieldDisplayName returns the long label of a field, or the field name itself when unknown.
func FieldDisplayName(f Field) string {
	if name, ok := fieldDisplayNames[f]; ok {
		return name
	}
	return string(f)
}

// Slug returns a lowercase identifier for the origin, e.g. "sierra_leone".
func (o Origin) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(o)), " ", "_")
}

// JoinOrigins renders origins as a single string.
func JoinOrigins(origins []Origin, sep string) string {
	parts := make([]string, len(origins))
	for i, o := range origins {
		parts[i] = string(o)
	}
	return strings.Join(parts, sep)
}
