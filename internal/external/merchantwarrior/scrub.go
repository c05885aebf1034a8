package merchantwarrior

import "regexp"

const filtered = "[FILTERED]"

// Query-string values run to the next pair separator, quote, tag or line
// break. Attribute values end at the closing quote.
var scrubPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(&?paymentCardNumber=)[^&"'<\r\n]+`),
	regexp.MustCompile(`(?i)(CardNumber=)[^&"'<\r\n]+`),
	regexp.MustCompile(`(?i)(&?paymentCardCSC=)[^&"'<\r\n]+`),
	regexp.MustCompile(`(?i)(&?apiKey=)[^&"'<\r\n]+`),

	regexp.MustCompile(`(?i)(CardNumber\s*=\s*["'])[^"']*`),
	regexp.MustCompile(`(?i)(paymentCardCSC\s*=\s*["'])[^"']*`),
	regexp.MustCompile(`(?i)(apiKey\s*=\s*["'])[^"']*`),
}

// SupportsScrubbing reports that transcripts of this gateway can be redacted
// with Scrub.
func SupportsScrubbing() bool {
	return true
}

// Scrub masks card numbers, card security codes and API keys in a logged
// request/response transcript. Field names and surrounding text are kept.
func Scrub(transcript string) string {
	for _, re := range scrubPatterns {
		transcript = re.ReplaceAllString(transcript, "${1}"+filtered)
	}
	return transcript
}
