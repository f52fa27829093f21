// internal/messaging/sentiment.go
// Sentence-level sentiment. The analyzer is a collaborator interface so a
// real model can replace the built-in lexicon without touching the chat
// pipeline; the pipeline only consumes one float per sentence.

package messaging

import (
    "strings"
)

// SentimentAnalyzer scores a single sentence in [-1, 1].
type SentimentAnalyzer interface {
    Sentence(text string) float64
}

// MessageSentiment is the per-message score: the mean of per-sentence
// scores. A message with no sentences scores 0.
func MessageSentiment(analyzer SentimentAnalyzer, text string) float64 {
    sentences := splitSentences(text)
    if len(sentences) == 0 {
        return 0
    }

    var sum float64
    for _, sentence := range sentences {
        sum += analyzer.Sentence(sentence)
    }
    return sum / float64(len(sentences))
}

func splitSentences(text string) []string {
    var sentences []string
    for _, raw := range strings.FieldsFunc(text, func(r rune) bool {
        return r == '.' || r == '!' || r == '?'
    }) {
        if s := strings.TrimSpace(raw); s != "" {
            sentences = append(sentences, s)
        }
    }
    return sentences
}

// LexiconAnalyzer is the default analyzer: a fixed word lexicon, scored as
// (positive hits - negative hits) / total hits. Deterministic and
// dependency-free, good enough to exercise taste learning end to end.
type LexiconAnalyzer struct {
    positive map[string]bool
    negative map[string]bool
}

func NewLexiconAnalyzer() *LexiconAnalyzer {
    return &LexiconAnalyzer{
        positive: wordSet(
            "love", "loved", "like", "liked", "great", "good", "amazing",
            "awesome", "wonderful", "fantastic", "beautiful", "perfect",
            "fun", "delicious", "cozy", "charming", "favorite", "best",
            "enjoy", "enjoyed", "nice", "excited", "happy", "yes",
        ),
        negative: wordSet(
            "hate", "hated", "dislike", "disliked", "bad", "awful",
            "terrible", "horrible", "gross", "boring", "worst", "ugly",
            "dirty", "rude", "disappointing", "overpriced", "no", "never",
            "mediocre", "bland", "crowded", "loud",
        ),
    }
}

func wordSet(words ...string) map[string]bool {
    set := make(map[string]bool, len(words))
    for _, w := range words {
        set[w] = true
    }
    return set
}

func (a *LexiconAnalyzer) Sentence(text string) float64 {
    positives, negatives := 0, 0
    for _, word := range tokenize(text) {
        if a.positive[word] {
            positives++
        }
        if a.negative[word] {
            negatives++
        }
    }

    hits := positives + negatives
    if hits == 0 {
        return 0
    }
    return float64(positives-negatives) / float64(hits)
}

// tokenize lower-cases and strips everything but letters and digits, so
// "Loved it!" and "loved" hit the same lexicon entry.
func tokenize(text string) []string {
    return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
        return !isWordRune(r)
    })
}

func isWordRune(r rune) bool {
    return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '\''
}
