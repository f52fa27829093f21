package messaging

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestLexiconAnalyzerScoresSentences(t *testing.T) {
    analyzer := NewLexiconAnalyzer()

    assert.Equal(t, 1.0, analyzer.Sentence("I loved it"))
    assert.Equal(t, -1.0, analyzer.Sentence("the service was awful"))
    assert.Equal(t, 0.0, analyzer.Sentence("good but crowded"))
    assert.Equal(t, 0.0, analyzer.Sentence("we met at seven"))
}

func TestLexiconAnalyzerIgnoresCaseAndPunctuation(t *testing.T) {
    analyzer := NewLexiconAnalyzer()

    assert.Equal(t, analyzer.Sentence("loved it"), analyzer.Sentence("LOVED it!!!"))
}

func TestMessageSentimentAveragesSentences(t *testing.T) {
    analyzer := NewLexiconAnalyzer()

    // One fully positive sentence, one fully negative.
    assert.InDelta(t, 0.0, MessageSentiment(analyzer, "Loved it! The service was awful."), 1e-9)

    // Two positive sentences.
    assert.InDelta(t, 1.0, MessageSentiment(analyzer, "Amazing food. Great view!"), 1e-9)

    // Neutral sentence dilutes a positive one.
    assert.InDelta(t, 0.5, MessageSentiment(analyzer, "Amazing food. We met at seven."), 1e-9)
}

func TestMessageSentimentEmptyText(t *testing.T) {
    analyzer := NewLexiconAnalyzer()

    assert.Equal(t, 0.0, MessageSentiment(analyzer, ""))
    assert.Equal(t, 0.0, MessageSentiment(analyzer, "..."))
}
