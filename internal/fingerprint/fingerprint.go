// Package fingerprint computes stable 256-bit digests of paragraph text so
// that the HTML and Markdown extractors can be correlated by content rather
// than by position. The normalization rule (drop ASCII whitespace, then hash)
// is the sole contract binding the two extractors; it must not drift between
// implementations of the Fingerprinter interface.
package fingerprint

import (
	"golang.org/x/text/unicode/norm"
	"lukechampine.com/blake3"
)

// Paragraph is a 256-bit digest of a paragraph's whitespace-stripped,
// NFC-normalized visible text.
type Paragraph [32]byte

// Fingerprinter accumulates the bytes of one logical paragraph and produces
// its digest. Update may be called any number of times before
// FinishParagraph; FinishParagraph resets internal state so the next
// paragraph starts clean.
type Fingerprinter interface {
	Update(p []byte)
	FinishParagraph() Paragraph
}

// Hasher is the production Fingerprinter, backed by BLAKE3.
type Hasher struct {
	h   *blake3.Hasher
	buf [256]byte
}

// NewHasher returns a ready-to-use Hasher.
func NewHasher() *Hasher {
	return &Hasher{h: blake3.New(32, nil)}
}

// Update feeds p into the in-progress paragraph, dropping ASCII whitespace
// and normalizing the remainder to NFC before hashing. Malformed UTF-8 is
// passed through unnormalized (best effort), matching the extractors'
// best-effort percent-decoding behavior.
func (hr *Hasher) Update(p []byte) {
	stripped := stripASCIIWhitespace(p, hr.buf[:0])
	if norm.NFC.IsNormal(stripped) {
		hr.h.Write(stripped)
		return
	}
	normalized := norm.NFC.AppendString(nil, string(stripped))
	hr.h.Write(normalized)
}

// FinishParagraph returns the digest of everything written since the last
// FinishParagraph call (or since construction) and resets the hasher.
func (hr *Hasher) FinishParagraph() Paragraph {
	var out Paragraph
	sum := hr.h.Sum(nil)
	copy(out[:], sum)
	hr.h.Reset()
	return out
}

// stripASCIIWhitespace appends the non-whitespace bytes of p to dst and
// returns the result. Whitespace is defined as space, tab, CR, LF — the exact
// ASCII set, not unicode.IsSpace's broader notion.
func stripASCIIWhitespace(p []byte, dst []byte) []byte {
	for _, b := range p {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			dst = append(dst, b)
		}
	}
	return dst
}
