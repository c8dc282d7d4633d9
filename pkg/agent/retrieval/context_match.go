package retrieval

import (
	"strings"
	"unicode"
)

// ContextMatch measures how much of the final reply is grounded in the
// relevant chunks: the fraction of distinct reply tokens that also appear in
// the relevant chunk content. Always in [0,1]; zero when either side is empty.
func ContextMatch(relevantContent []string, response string) float64 {
	replyTokens := tokenize(response)
	if len(replyTokens) == 0 {
		return 0
	}

	contextTokens := make(map[string]bool)
	for _, content := range relevantContent {
		for token := range tokenize(content) {
			contextTokens[token] = true
		}
	}
	if len(contextTokens) == 0 {
		return 0
	}

	matched := 0
	for token := range replyTokens {
		if contextTokens[token] {
			matched++
		}
	}

	return clamp01(float64(matched) / float64(len(replyTokens)))
}

func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		tokens[w] = true
	}
	return tokens
}
