package rag

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"that": true, "the": true, "to": true, "was": true, "were": true, "will": true,
	"with": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "can": true, "must": true, "shall": true, "do": true,
	"does": true, "did": true, "have": true, "had": true, "this": true,
	"these": true, "they": true, "them": true, "their": true, "his": true,
	"her": true, "she": true, "we": true, "you": true, "your": true,
	"our": true, "us": true, "me": true, "my": true, "i": true,
	"what": true, "which": true, "who": true, "how": true, "latest": true,
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

// keywordQuery strips stop words and stems what remains, producing a bare
// keyword query. Used when LLM refinement is unavailable.
func keywordQuery(question string) string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(question), " ")

	var keywords []string
	seen := make(map[string]bool)
	for _, word := range strings.Fields(cleaned) {
		if len(word) < 2 || stopWords[word] {
			continue
		}
		stemmed, err := snowball.Stem(word, "english", true)
		if err != nil || stemmed == "" {
			stemmed = word
		}
		if seen[stemmed] {
			continue
		}
		seen[stemmed] = true
		keywords = append(keywords, stemmed)
	}

	return strings.Join(keywords, " ")
}
