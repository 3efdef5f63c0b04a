package htmlextract

import "strings"

// parseSrcset splits a srcset attribute value into its candidate URLs,
// discarding the width/density descriptor that may follow each one: split
// on comma, then on ASCII whitespace, keep the first token of each
// candidate.
func parseSrcset(s string) []string {
	var out []string
	for _, candidate := range strings.Split(s, ",") {
		url := firstASCIIField(candidate)
		if url != "" {
			out = append(out, url)
		}
	}
	return out
}

func firstASCIIField(s string) string {
	i := 0
	for i < len(s) && isASCIISpaceByte(s[i]) {
		i++
	}
	j := i
	for j < len(s) && !isASCIISpaceByte(s[j]) {
		j++
	}
	return s[i:j]
}

func isASCIISpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f':
		return true
	}
	return false
}
