package fingerprint

// Debug wraps a Hasher and additionally retains the concatenated,
// whitespace-stripped contents of each paragraph, for the `dump-paragraphs`
// development command. It implements the same Fingerprinter interface as
// Hasher, so callers never need to branch on which variant is active.
type Debug struct {
	h    *Hasher
	buf  []byte
	last string
}

// NewDebug returns a Fingerprinter that also records paragraph text.
func NewDebug() *Debug {
	return &Debug{h: NewHasher()}
}

func (d *Debug) Update(p []byte) {
	d.h.Update(p)
	d.buf = stripASCIIWhitespace(p, d.buf)
}

// FinishParagraph returns the digest and resets the hash state. The
// paragraph's text remains available through Text until the next
// FinishParagraph.
func (d *Debug) FinishParagraph() Paragraph {
	digest := d.h.FinishParagraph()
	d.last = string(d.buf)
	d.buf = d.buf[:0]
	return digest
}

// Text returns the whitespace-stripped text of the paragraph most recently
// finished.
func (d *Debug) Text() string {
	return d.last
}
