// Package htmlextract tokenizes one HTML document and emits the link uses,
// anchor/document definitions, and per-paragraph fingerprints found in it.
// The tokenizer is golang.org/x/net/html's, the same browser-compatible
// state machine goquery and other HTML-adjacent tools build on.
package htmlextract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/hreflint/hreflint/internal/fingerprint"
	"github.com/hreflint/hreflint/internal/linkmodel"
	"github.com/hreflint/hreflint/internal/urlcanon"
)

// Options configures what the Extractor looks for.
type Options struct {
	// CheckAnchors enables id=/name= Defines emission and anchor
	// preservation in canonicalized hrefs.
	CheckAnchors bool
	// TrackParagraphs enables paragraph-fingerprint bookkeeping. When
	// false, the Fingerprinter passed to Extract is never touched.
	TrackParagraphs bool
}

// Result is everything one document's extraction produces.
type Result struct {
	Links []linkmodel.Link
	// External holds every href classified external by urlcanon.Canonicalize
	// — reported for the dump-external-links command, but never fed to a
	// Broken collector: an external href would never happen to equal a
	// local canonical href, so ingesting it there would report it as a
	// false 404 and violate external-link exclusion.
	External []linkmodel.UsedLink
	// Charset is chardet's best guess at the document's encoding. The
	// tokenizer itself always operates byte-wise regardless of this value;
	// Charset is surfaced for callers that want to log it, and a non-UTF-8
	// guess also relaxes percent-decoding's UTF-8 validity check for every
	// href found in this document (see urlcanon.Canonicalize).
	Charset string
}

var paragraphTags = map[string]bool{"p": true, "li": true, "dt": true, "dd": true}

// Extract tokenizes data, the contents of one HTML document whose own
// canonical href is documentHref. relativeBase is the href relative hrefs in
// this document resolve against: equal to documentHref for an ordinary page,
// but urlcanon.IndexBase(documentHref) for an index page, since an index
// page's relative links resolve as if from inside the directory it
// represents. Extract returns the document's Links in tokenization order,
// with paragraph fingerprints backfilled onto any Uses link found between a
// paragraph tag's start and its matching end.
func Extract(data []byte, documentHref, relativeBase string, opts Options, fp fingerprint.Fingerprinter) Result {
	z := html.NewTokenizer(bytes.NewReader(data))

	charset := DetectCharset(data)
	nonUTF8 := !strings.EqualFold(charset, "utf-8")

	var links []linkmodel.Link
	var externals []linkmodel.UsedLink
	inParagraph := false
	paragraphStart := 0

	applyParagraph := func() {
		digest := fp.FinishParagraph()
		for i := paragraphStart; i < len(links); i++ {
			if links[i].Kind != linkmodel.KindUses {
				continue
			}
			links[i].Used.Paragraph = digest
			links[i].Used.HasParagraph = true
		}
	}

	emitUse := func(raw string) {
		href, external := urlcanon.Canonicalize(relativeBase, raw, opts.CheckAnchors, nonUTF8)
		if external {
			externals = append(externals, linkmodel.UsedLink{Href: href})
			return
		}
		links = append(links, linkmodel.Uses(linkmodel.UsedLink{Href: href}))
	}

	emitAnchorDefine := func(fragment string) {
		if !opts.CheckAnchors || fragment == "" {
			return
		}
		links = append(links, linkmodel.Defines(documentHref+"#"+fragment))
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.TextToken:
			if opts.TrackParagraphs && inParagraph {
				fp.Update(z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			tag := tok.Data

			if opts.TrackParagraphs && paragraphTags[tag] {
				if tt == html.SelfClosingTagToken {
					inParagraph = false
				} else {
					inParagraph = true
					paragraphStart = len(links)
					fp.FinishParagraph() // discard: resets accumulator state
				}
			}

			emitElementLinks(tag, tok, opts, emitUse, emitAnchorDefine)

		case html.EndTagToken:
			tok := z.Token()
			if opts.TrackParagraphs && paragraphTags[tok.Data] && inParagraph {
				applyParagraph()
				inParagraph = false
			}
		}
	}

	return Result{Links: links, External: externals, Charset: charset}
}

func emitElementLinks(tag string, tok html.Token, opts Options, emitUse func(string), emitAnchorDefine func(string)) {
	attr := func(key string) (string, bool) {
		for _, a := range tok.Attr {
			if a.Key == key {
				return a.Val, true
			}
		}
		return "", false
	}

	switch tag {
	case "a":
		if href, ok := attr("href"); ok {
			emitUse(href)
		}
		if name, ok := attr("name"); ok {
			emitAnchorDefine(name)
		}
	case "img":
		if src, ok := attr("src"); ok {
			emitUse(src)
		}
		if srcset, ok := attr("srcset"); ok {
			for _, candidate := range parseSrcset(srcset) {
				emitUse(candidate)
			}
		}
	case "link", "area":
		if href, ok := attr("href"); ok {
			emitUse(href)
		}
	case "script", "iframe":
		if src, ok := attr("src"); ok {
			emitUse(src)
		}
	case "object":
		if data, ok := attr("data"); ok {
			emitUse(data)
		}
	}

	if id, ok := attr("id"); ok {
		emitAnchorDefine(id)
	}
}
