// Package segment splits bilingual tutoring replies into language-labeled
// spans for per-voice synthesis.
//
// Model output is expected to wrap explanation-language text in
// [EN]...[/EN] and target-language text in [TL]...[/TL]. Untagged text is
// classified with a function-word heuristic so a reply that ignores the
// tagging contract still produces speakable segments.
package segment

import (
	"regexp"
	"strings"
)

// Segment is a contiguous span of reply text in exactly one language.
type Segment struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Tags must close with the same tag that opened them; RE2 has no
// backreferences, so each pair gets its own alternative.
var tagPattern = regexp.MustCompile(`(?is)\[en\](.*?)\[/en\]|\[tl\](.*?)\[/tl\]`)

var stripPattern = regexp.MustCompile(`(?i)\[/?(?:en|tl)\]`)

var wordPattern = regexp.MustCompile(`[a-zA-Z]+`)

// explanationFunctionWords is a closed class of common English articles,
// pronouns, prepositions and auxiliaries used to classify untagged text.
var explanationFunctionWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"me": {}, "him": {}, "her": {}, "us": {}, "them": {},
	"my": {}, "your": {}, "his": {}, "its": {}, "our": {}, "their": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "at": {}, "by": {}, "for": {},
	"with": {}, "from": {}, "about": {}, "as": {}, "into": {}, "over": {},
	"and": {}, "or": {}, "but": {}, "not": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"do": {}, "does": {}, "did": {}, "have": {}, "has": {}, "had": {},
	"what": {}, "how": {}, "when": {}, "where": {}, "why": {}, "who": {},
}

// Split parses text into an ordered list of segments. Spans collapse
// interior whitespace to single spaces; empty spans are dropped.
func Split(text, targetLanguage, explanationLanguage string) []Segment {
	target := strings.ToLower(strings.TrimSpace(targetLanguage))
	explanation := strings.ToLower(strings.TrimSpace(explanationLanguage))
	if explanation == "" {
		explanation = "en"
	}

	var out []Segment
	appendSpan := func(raw, language string) {
		clean := collapseSpace(raw)
		if clean == "" {
			return
		}
		out = append(out, Segment{Text: clean, Language: language})
	}

	last := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(text, -1) {
		if gap := text[last:m[0]]; gap != "" {
			appendSpan(gap, classifyGap(gap, target, explanation))
		}
		// m[2:4] is the [EN] group, m[4:6] the [TL] group; exactly one matched.
		if m[2] >= 0 {
			appendSpan(text[m[2]:m[3]], explanation)
		} else {
			appendSpan(text[m[4]:m[5]], target)
		}
		last = m[1]
	}
	if gap := text[last:]; gap != "" {
		appendSpan(gap, classifyGap(gap, target, explanation))
	}
	return out
}

// classifyGap labels untagged text. It counts hits against the English
// function-word set and calls the gap explanation language when hits reach
// max(2, words/3) and the two languages differ; otherwise target language.
func classifyGap(gap, target, explanation string) string {
	if target == explanation {
		return target
	}
	words := wordPattern.FindAllString(gap, -1)
	hits := 0
	for _, w := range words {
		if _, ok := explanationFunctionWords[strings.ToLower(w)]; ok {
			hits++
		}
	}
	threshold := len(words) / 3
	if threshold < 2 {
		threshold = 2
	}
	if hits >= threshold {
		return explanation
	}
	return target
}

// StripTags removes every [EN]/[TL] marker irrespective of balance and
// collapses whitespace, producing the learner-facing display text.
// Unbalanced misuse can leave stray brackets behind; that is a known
// limitation of the textual tagging contract.
func StripTags(text string) string {
	return collapseSpace(stripPattern.ReplaceAllString(text, " "))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
