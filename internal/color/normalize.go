package color

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

var (
	separators    = strings.NewReplacer("#", "", ",", "")
	nonHexOrSpace = regexp.MustCompile(`[^\sA-Fa-f0-9]`)
	sixHexRun     = regexp.MustCompile(`([A-Fa-f0-9]{6})`)
)

// FormatInput cleans the multi-code text field as the user types. Full-width
// characters are folded to ASCII, '#' and ',' are dropped along with anything
// that is not a hex digit or whitespace, and a ',' is placed after every run
// of six hex digits.
func FormatInput(raw string) string {
	s := width.Narrow.String(raw)
	s = separators.Replace(s)
	s = nonHexOrSpace.ReplaceAllString(s, "")
	s = sixHexRun.ReplaceAllString(s, "$1,")
	return strings.TrimSuffix(s, ",")
}

// SplitCodes segments multi-code input into candidate tokens of at most six
// characters. Commas and whitespace both separate tokens.
func SplitCodes(raw string) []string {
	fields := strings.FieldsFunc(FormatInput(raw), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	for i, f := range fields {
		if len(f) > 6 {
			fields[i] = f[:6]
		}
	}
	return fields
}

// Normalize runs the multi-code pipeline and returns the valid colors in
// input order. Invalid candidates are dropped silently.
func Normalize(raw string) []Color {
	candidates := SplitCodes(raw)
	colors := make([]Color, 0, len(candidates))
	for _, code := range candidates {
		c, err := ParseHex(code)
		if err != nil {
			continue
		}
		colors = append(colors, c)
	}
	return colors
}

// NormalizeOne parses a single code from the single-code field.
func NormalizeOne(raw string) (Color, bool) {
	c, err := ParseHex(width.Narrow.String(strings.TrimSpace(raw)))
	if err != nil {
		return Color{}, false
	}
	return c, true
}
