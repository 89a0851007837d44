package rank

import "strings"

// Score computes the Simple strategy's relevance score for one document.
//
// The content is lowercased and split into whitespace-delimited tokens with
// leading and trailing punctuation stripped. Each distinct query term whose
// first occurrence is at token position p contributes 1/(1+p); the score is
// the sum over all matching terms. Higher scores are more relevant, matching
// the direction of engine-provided scores. The formula is an internal
// contract: identical query and content always produce an identical score.
func Score(query, content string) float64 {
	terms := tokenize(query)
	if len(terms) == 0 {
		return 0
	}

	tokens := tokenize(content)
	positions := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		if _, seen := positions[tok]; !seen {
			positions[tok] = i
		}
	}

	var score float64
	matched := make(map[string]bool, len(terms))
	for _, term := range terms {
		if matched[term] {
			continue
		}
		matched[term] = true

		if p, ok := positions[term]; ok {
			score += 1 / float64(1+p)
		}
	}
	return score
}

const punctuation = `.,;:!?"'()[]{}`

func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := fields[:0]
	for _, f := range fields {
		if t := strings.Trim(f, punctuation); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
