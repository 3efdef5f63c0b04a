package htmlextract

import "github.com/saintfish/chardet"

var htmlDetector = chardet.NewHtmlDetector()

// DetectCharset returns chardet's best guess at data's encoding, or "utf-8"
// if detection fails outright. It never gates extraction: the tokenizer
// always runs byte-wise over data regardless of the result, but a
// non-UTF-8 guess is surfaced to callers that want to warn about it (the
// pipeline driver logs it once per document).
func DetectCharset(data []byte) string {
	sniffLen := len(data)
	if sniffLen > 4096 {
		sniffLen = 4096
	}
	result, err := htmlDetector.DetectBest(data[:sniffLen])
	if err != nil || result == nil {
		return "utf-8"
	}
	return result.Charset
}
