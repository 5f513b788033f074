package fetch

import "regexp"

// BlockDetector recognizes bot walls, CAPTCHAs and rate-limit pages so
// they are reported as fetch failures instead of being fed to the
// extractor. It never tries to get past them.
type BlockDetector struct {
	patterns map[string][]*regexp.Regexp
}

// NewBlockDetector creates a detector with the built-in pattern sets.
func NewBlockDetector() *BlockDetector {
	return &BlockDetector{
		patterns: map[string][]*regexp.Regexp{
			"captcha": {
				regexp.MustCompile(`(?i)captcha`),
				regexp.MustCompile(`(?i)verify you are human`),
				regexp.MustCompile(`(?i)checking your browser`),
			},
			"bot_wall": {
				regexp.MustCompile(`(?i)access denied`),
				regexp.MustCompile(`(?i)unfortunately we are unable`),
				regexp.MustCompile(`(?i)security check`),
				regexp.MustCompile(`(?i)ddos protection`),
			},
			"rate_limited": {
				regexp.MustCompile(`(?i)429 too many requests`),
				regexp.MustCompile(`(?i)too many requests`),
				regexp.MustCompile(`(?i)rate limit`),
			},
			"blocked": {
				regexp.MustCompile(`(?i)403 forbidden`),
				regexp.MustCompile(`(?i)503 service unavailable`),
				regexp.MustCompile(`(?i)site temporarily unavailable`),
			},
		},
	}
}

// Detect reports whether content looks like a block page and which kind.
// Very short responses are treated as blocked: real product pages are
// never nearly empty.
func (bd *BlockDetector) Detect(content string) (bool, string) {
	if len(content) < 50 {
		return true, "empty_page"
	}
	for _, kind := range []string{"captcha", "bot_wall", "rate_limited", "blocked"} {
		for _, re := range bd.patterns[kind] {
			if re.MatchString(content) {
				return true, kind
			}
		}
	}
	return false, ""
}
