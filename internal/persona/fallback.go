package persona

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed data/lexicon.yaml
var lexiconPack []byte

type lexiconEntry struct {
	Polarity     float64 `yaml:"polarity"`
	Subjectivity float64 `yaml:"subjectivity"`
}

type sentimentLexicon struct {
	Words map[string]lexiconEntry `yaml:"words"`
}

var lexicon sentimentLexicon

func init() {
	if err := yaml.Unmarshal(lexiconPack, &lexicon); err != nil {
		panic("persona: invalid embedded lexicon: " + err.Error())
	}
	if len(lexicon.Words) == 0 {
		panic("persona: embedded lexicon is empty")
	}
}

// stopwords excluded from the topic frequency count.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "is": {}, "in": {}, "to": {}, "of": {}, "a": {},
	"for": {}, "on": {}, "it": {}, "with": {}, "this": {}, "that": {},
	"i": {}, "you": {}, "as": {}, "was": {}, "are": {}, "but": {},
	"they": {}, "be": {}, "or": {}, "not": {},
}

const topTopics = 5

// TopicCount pairs a word with how often the user wrote it.
type TopicCount struct {
	Word  string
	Count int
}

// Stats summarizes a user's combined history for the offline persona.
type Stats struct {
	Topics       []TopicCount
	Polarity     float64
	Subjectivity float64
	AvgSentence  float64
}

// BuildFallback produces the offline persona text from raw evidence.
func BuildFallback(posts, comments []Evidence) string {
	texts := make([]string, 0, len(posts)+len(comments))
	for _, e := range posts {
		texts = append(texts, e.Text)
	}
	for _, e := range comments {
		texts = append(texts, e.Text)
	}
	return renderFallback(Analyze(strings.Join(texts, " ")))
}

// Analyze computes topic frequencies, lexicon sentiment, and sentence
// length for a combined text corpus.
func Analyze(corpus string) Stats {
	words := tokenize(corpus)

	var s Stats
	s.Topics = topWords(words, topTopics)
	s.Polarity, s.Subjectivity = scoreSentiment(words)
	s.AvgSentence = avgSentenceLength(corpus)
	return s
}

// tokenize lowercases the alphabetic words of a text. Tokens with digits
// are dropped rather than split.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		alpha := true
		for _, r := range f {
			if !unicode.IsLetter(r) {
				alpha = false
				break
			}
		}
		if alpha {
			words = append(words, strings.ToLower(f))
		}
	}
	return words
}

// topWords returns the n most frequent non-stopword tokens. Ties keep
// first-appearance order.
func topWords(words []string, n int) []TopicCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, w := range words {
		if _, skip := stopwords[w]; skip {
			continue
		}
		if _, seen := counts[w]; !seen {
			firstSeen[w] = order
			order++
		}
		counts[w]++
	}

	topics := make([]TopicCount, 0, len(counts))
	for w, c := range counts {
		topics = append(topics, TopicCount{Word: w, Count: c})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return firstSeen[topics[i].Word] < firstSeen[topics[j].Word]
	})

	if len(topics) > n {
		topics = topics[:n]
	}
	return topics
}

// scoreSentiment averages lexicon polarity and subjectivity over the
// matched words. No matches means neutral (0, 0).
func scoreSentiment(words []string) (polarity, subjectivity float64) {
	matched := 0
	for _, w := range words {
		entry, ok := lexicon.Words[w]
		if !ok {
			continue
		}
		polarity += entry.Polarity
		subjectivity += entry.Subjectivity
		matched++
	}
	if matched == 0 {
		return 0, 0
	}
	polarity = clamp(polarity/float64(matched), -1, 1)
	subjectivity = clamp(subjectivity/float64(matched), 0, 1)
	return polarity, subjectivity
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// avgSentenceLength splits on sentence punctuation and averages the word
// count of non-empty sentences.
func avgSentenceLength(corpus string) float64 {
	segments := strings.FieldsFunc(corpus, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := 0
	totalWords := 0
	for _, seg := range segments {
		n := len(strings.FieldsFunc(seg, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if n == 0 {
			continue
		}
		sentences++
		totalWords += n
	}
	if sentences == 0 {
		return 0
	}
	return float64(totalWords) / float64(sentences)
}

// renderFallback writes the heuristic persona in its fixed shape.
func renderFallback(s Stats) string {
	tone := "neutral"
	switch {
	case s.Polarity > 0:
		tone = "positive"
	case s.Polarity < 0:
		tone = "negative"
	}

	lines := []string{"**Summary:**"}
	if len(s.Topics) > 0 {
		names := make([]string, 0, len(s.Topics))
		for _, tc := range s.Topics {
			names = append(names, tc.Word)
		}
		lines = append(lines, fmt.Sprintf(
			"User frequently discusses %s. Overall sentiment is %s.\n",
			strings.Join(names, ", "), tone))
	} else {
		lines = append(lines, "Not enough content to summarize interests.\n")
	}

	lines = append(lines, "**Key Interests/Topics:**")
	for _, tc := range s.Topics {
		lines = append(lines, fmt.Sprintf("- %s (mentioned %d times)", tc.Word, tc.Count))
	}

	lines = append(lines,
		"\n**Communication Style & Tone:**",
		fmt.Sprintf("- Sentiment polarity: %.2f, subjectivity: %.2f", s.Polarity, s.Subjectivity),
		fmt.Sprintf("- Average sentence length: %.1f words\n", s.AvgSentence),
	)

	return strings.Join(lines, "\n")
}
