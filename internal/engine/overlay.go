package engine

import "strings"

// ParseStationList parses a newline-separated community list of station codes.
// A '#' introduces a trailing comment; whitespace is trimmed after the comment
// is stripped, and blank results are dropped. Codes are opaque strings (never
// coerced to numbers, so leading zeros survive) and duplicates collapse.
func ParseStationList(text string) map[string]bool {
	codes := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		codePart, _, _ := strings.Cut(line, "#")
		code := strings.TrimSpace(codePart)
		if code != "" {
			codes[code] = true
		}
	}
	return codes
}

// ParseLabelledList parses a directory-style list file into the given map,
// assigning every station code in the file the supplied label (derived from
// the source file's name). Line syntax matches ParseStationList.
func ParseLabelledList(text, label string, into map[string]string) {
	for code := range ParseStationList(text) {
		into[code] = label
	}
}
