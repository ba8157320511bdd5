package resolver

import (
	"strings"

	"github.com/jonathan/chart-agent/internal/types"
)

// Keyword vocabularies for context-based scheme detection. BNR wins on news
// and media vocabulary, FD on financial and business vocabulary.
var (
	bnrKeywords = []string{
		"bnr", "yellow", "news", "radio", "broadcast", "media",
		"entertainment", "lifestyle", "social",
	}
	fdKeywords = []string{
		"fd", "teal", "financieele dagblad", "financial", "finance",
		"market", "markets", "investment", "investments", "economy",
		"economic", "business", "corporate", "revenue", "revenues",
		"profit", "profits", "stocks", "bonds",
	}
)

// DetectScheme runs the keyword analysis over the message and returns the
// detected color scheme, or empty when the message gives no signal.
func DetectScheme(message string) types.ColorScheme {
	lower := strings.ToLower(message)
	for _, keyword := range bnrKeywords {
		if containsWord(lower, keyword) {
			return types.SchemeBNR
		}
	}
	for _, keyword := range fdKeywords {
		if containsWord(lower, keyword) {
			return types.SchemeFD
		}
	}
	return ""
}

// FinalizeScheme applies the scheme precedence chain: the resolver's own
// keyword decision, then the session's manual selection, then the persistent
// preference carried over from prior sessions, then the FD default. The
// result is always a concrete scheme.
func FinalizeScheme(detected, session, persistent types.ColorScheme) types.ColorScheme {
	for _, candidate := range []types.ColorScheme{detected, session, persistent} {
		if candidate == types.SchemeFD || candidate == types.SchemeBNR {
			return candidate
		}
	}
	return types.SchemeFD
}

// containsWord reports whether keyword occurs in text on word boundaries, so
// that "fd" doesn't match inside unrelated words.
func containsWord(text, keyword string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], keyword)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(keyword)
		startOK := start == 0 || !isWordChar(text[start-1])
		endOK := end == len(text) || !isWordChar(text[end])
		if startOK && endOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
