// Package urlcanon reduces raw HTML href text to canonical, site-relative
// paths and classifies external schemes. It is the sole producer of
// canonical hrefs in this tool; two hrefs are considered equal iff their
// canonical forms are byte-equal.
package urlcanon

import (
	"strings"
)

// Canonicalize reduces rawHref (as found in an HTML attribute, already
// entity-decoded by the tokenizer) against documentHref (the canonical href
// of the document the link was found in) to a canonical, site-relative href.
//
// If rawHref is classified external, external is true and href is the
// trimmed raw text up to its first '?' or '#', otherwise unmodified —
// external hrefs are reported but never matched against definitions.
//
// nonUTF8Document should be true when the document this href was found in
// was sniffed as something other than UTF-8: percent-decoded bytes then skip
// the UTF-8 validity check and are accepted as-is, since rejecting a decode
// for failing a UTF-8 check makes no sense against a document that was never
// UTF-8 to begin with.
func Canonicalize(documentHref, rawHref string, preserveAnchor, nonUTF8Document bool) (href string, external bool) {
	raw := trimASCIISpace(rawHref)

	pathPart, anchorPart, hasAnchor := splitAnchor(raw)

	if isExternal(pathPart) {
		return pathPart, true
	}

	base := canonicalizePath(documentHref, pathPart, nonUTF8Document)

	if preserveAnchor && hasAnchor {
		fragment := percentDecode(anchorPart, nonUTF8Document)
		if fragment != "" {
			base += "#" + fragment
		}
	}

	return base, false
}

// CanonicalHref computes the canonical href of a document itself, given its
// site-relative path (no leading slash, '/' separated) and whether it is an
// index file. Index files contribute their parent directory's href.
func CanonicalHref(relPath string, isIndex bool) string {
	relPath = strings.Trim(relPath, "/")
	if !isIndex {
		return relPath
	}
	dir := relPath
	if i := strings.LastIndexByte(dir, '/'); i >= 0 {
		dir = dir[:i]
	} else {
		dir = ""
	}
	return dir
}

// IndexBase returns the base used for relative resolution inside an index
// document: its canonical href (as computed by CanonicalHref with
// isIndex=true, which never ends in a slash) with a trailing slash appended.
func IndexBase(documentHref string) string {
	return documentHref + "/"
}

func isExternal(raw string) bool {
	if strings.HasPrefix(raw, "//") {
		return true
	}
	i := strings.IndexByte(raw, ':')
	if i <= 0 {
		return false
	}
	scheme := raw[:i]
	if !isSchemeStart(scheme[0]) {
		return false
	}
	for j := 1; j < len(scheme); j++ {
		if !isSchemeChar(scheme[j]) {
			return false
		}
	}
	return true
}

func isSchemeStart(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isSchemeChar(b byte) bool {
	return isSchemeStart(b) || (b >= '0' && b <= '9') || b == '+' || b == '-' || b == '.'
}

// splitAnchor splits raw at the first '#' (if any) after removing any '?'
// query suffix from the path portion, and at the first '#' in the original
// string for the fragment portion. The path portion never includes a query
// string; the anchor, if present, is returned without its leading '#'.
func splitAnchor(raw string) (path string, anchor string, hasAnchor bool) {
	hashIdx := strings.IndexByte(raw, '#')
	pathAndQuery := raw
	if hashIdx >= 0 {
		pathAndQuery = raw[:hashIdx]
		anchor = raw[hashIdx+1:]
		hasAnchor = true
	}
	if qIdx := strings.IndexByte(pathAndQuery, '?'); qIdx >= 0 {
		pathAndQuery = pathAndQuery[:qIdx]
	}
	return pathAndQuery, anchor, hasAnchor
}

// canonicalizePath resolves path against base and normalizes the result:
// percent-decode, resolve relative segments, collapse duplicate slashes,
// strip a trailing index filename, and strip a trailing slash.
func canonicalizePath(base, path string, nonUTF8Document bool) string {
	decodedPath := percentDecode(path, nonUTF8Document)

	switch {
	case path == "":
		return strings.TrimSuffix(base, "/")
	case strings.HasPrefix(decodedPath, "/"):
		base = ""
	default:
		if i := strings.LastIndexByte(base, '/'); i >= 0 {
			base = base[:i]
		} else {
			base = ""
		}
	}

	components := strings.Split(decodedPath, "/")
	last := len(components) - 1
	for i, component := range components {
		switch component {
		case "", ".":
			continue
		case "index.html", "index.htm":
			if i == last {
				continue
			}
			base = appendComponent(base, component)
		case "..":
			if j := strings.LastIndexByte(base, '/'); j >= 0 {
				base = base[:j]
			} else {
				base = ""
			}
		default:
			base = appendComponent(base, component)
		}
	}
	return base
}

// appendComponent appends component to base with a '/' separator.
func appendComponent(base, component string) string {
	if base == "" {
		return component
	}
	return base + "/" + component
}

func trimASCIISpace(s string) string {
	start := 0
	for start < len(s) && isASCIISpace(s[start]) {
		start++
	}
	end := len(s)
	for end > start && isASCIISpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', '\v':
		return true
	}
	return false
}

// percentDecode best-effort percent-decodes s. Invalid escape sequences (not
// followed by two hex digits) leave the input unchanged for the affected
// run. Decoded output that isn't valid UTF-8 also leaves the input unchanged
// — unless passthrough is set, in which case the decoded bytes are accepted
// regardless, since the document they came from was never UTF-8 and
// rejecting the decode on that basis would just prefer the percent-escaped
// form for no reason.
func percentDecode(s string, passthrough bool) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+2 >= len(s) {
			if s[i] == '%' {
				b.WriteByte(s[i])
				continue
			}
			b.WriteByte(s[i])
			continue
		}
		hi, okHi := hexVal(s[i+1])
		lo, okLo := hexVal(s[i+2])
		if !okHi || !okLo {
			b.WriteByte(s[i])
			continue
		}
		b.WriteByte(byte(hi<<4 | lo))
		i += 2
	}
	decoded := b.String()
	if !passthrough && !isValidUTF8(decoded) {
		return s
	}
	return decoded
}

func hexVal(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}

func isValidUTF8(s string) bool {
	for i := 0; i < len(s); {
		r := s[i]
		if r < 0x80 {
			i++
			continue
		}
		n := utf8SeqLen(r)
		if n == 0 || i+n > len(s) {
			return false
		}
		for j := 1; j < n; j++ {
			if s[i+j]&0xC0 != 0x80 {
				return false
			}
		}
		i += n
	}
	return true
}

func utf8SeqLen(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	}
	return 0
}
