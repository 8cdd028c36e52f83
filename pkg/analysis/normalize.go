package analysis

import (
	"regexp"
	"strings"
)

// NormalizedText is OCR output reduced to its meaningful lines.
// No line is blank and no line is a decorative separator rule.
type NormalizedText []string

// String joins the lines back into a single newline separated document.
func (t NormalizedText) String() string {
	return strings.Join(t, "\n")
}

// Tokens splits the text on whitespace.
func (t NormalizedText) Tokens() []string {
	var tokens []string
	for _, line := range t {
		tokens = append(tokens, strings.Fields(line)...)
	}
	return tokens
}

const (
	CheckedMarker   = "[X]"
	UncheckedMarker = "[ ]"
)

var (
	separatorPattern = regexp.MustCompile(`^[-=]{3,}$`)

	// lineBreak matches every Unicode line boundary, including bare CR and form feeds.
	lineBreak = regexp.MustCompile(`\r\n|[\n\r\v\f\x1c\x1d\x1e\x{85}\x{2028}\x{2029}]`)

	// Emoji presentation forms come first so the variation selector is consumed with its glyph.
	checkboxReplacer = strings.NewReplacer(
		"☑️", CheckedMarker,
		"✔️", CheckedMarker,
		"⬜️", UncheckedMarker,
		"■", CheckedMarker,
		"●", CheckedMarker,
		"☑", CheckedMarker,
		"✔", CheckedMarker,
		"□", UncheckedMarker,
		"⬜", UncheckedMarker,
		"☐", UncheckedMarker,
	)
)

// Normalize cleans raw OCR text into line based canonical form.
func Normalize(raw string) NormalizedText {
	lines := lineBreak.Split(raw, -1)

	cleaned := make(NormalizedText, 0, len(lines))
	for _, line := range lines {
		line = checkboxReplacer.Replace(line)
		line = strings.TrimSpace(line)
		if line == "" || separatorPattern.MatchString(line) {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return cleaned
}
