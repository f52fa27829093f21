package match

import (
    "fmt"
    "testing"

    "github.com/google/uuid"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/B-T-D/datespot-suggester-sub000/internal/taste"
    "github.com/B-T-D/datespot-suggester-sub000/internal/venue"
)

func newTestEngine() *Engine {
    return NewEngine(venue.NewScorer(venue.NewReferenceData()))
}

func newTestMatch() *Match {
    return &Match{
        ID:      DeriveID(uuid.New(), uuid.New()),
        User1ID: uuid.New(),
        User2ID: uuid.New(),
    }
}

func baselineCandidate(name string, baseline float64) venue.Candidate {
    return venue.Candidate{
        Datespot: &venue.Datespot{
            ID:                     uuid.New(),
            Name:                   name,
            Traits:                 map[string]venue.Trait{},
            PriceRange:             venue.PriceRangeUnknown,
            BaselineDateworthiness: baseline,
        },
    }
}

func TestRefreshSuggestionsOrdersByScoreDescending(t *testing.T) {
    engine := newTestEngine()
    m := newTestMatch()

    candidates := []venue.Candidate{
        baselineCandidate("Low", 0.2),
        baselineCandidate("High", 0.8),
        baselineCandidate("Mid", 0.5),
    }

    err := engine.RefreshSuggestions(m, candidates, taste.NewProfile(), taste.NewProfile())
    require.NoError(t, err)
    require.Len(t, m.Suggestions, 3)

    assert.Equal(t, "High", m.Suggestions[0].Datespot.Name)
    assert.Equal(t, "Mid", m.Suggestions[1].Datespot.Name)
    assert.Equal(t, "Low", m.Suggestions[2].Datespot.Name)

    for i := 1; i < len(m.Suggestions); i++ {
        assert.GreaterOrEqual(t, m.Suggestions[i-1].Score, m.Suggestions[i].Score)
    }
}

func TestRefreshSuggestionsAveragesBothUsers(t *testing.T) {
    engine := newTestEngine()
    m := newTestMatch()

    spot := baselineCandidate("Trattoria", 0.65)
    spot.Datespot.Traits = map[string]venue.Trait{
        "italian": {Value: 0.8, Datapoints: 4},
    }

    tastes1 := taste.NewProfile()
    require.NoError(t, tastes1.Update("italian", 0.5))
    tastes2 := taste.NewProfile()

    err := engine.RefreshSuggestions(m, []venue.Candidate{spot}, tastes1, tastes2)
    require.NoError(t, err)
    require.Len(t, m.Suggestions, 1)

    // User 1 scores 0.9167, user 2 falls back to the 0.65 baseline.
    assert.InDelta(t, 0.78335, m.Suggestions[0].Score, 1e-9)
}

func TestRefreshSuggestionsBreaksTiesByBaseline(t *testing.T) {
    engine := newTestEngine()
    m := newTestMatch()

    plain := baselineCandidate("Plain", 0.5)

    // Tastes lift this venue to the same 0.5 final score from a lower
    // baseline: (2*(0.4 + 0.3*0.5) + 0.4) / 3 = 0.5.
    lifted := baselineCandidate("Lifted", 0.4)
    lifted.Datespot.Traits = map[string]venue.Trait{
        "rooftop": {Value: 0.3, Datapoints: 2},
    }

    tastes1 := taste.NewProfile()
    require.NoError(t, tastes1.Update("rooftop", 0.5))
    tastes2 := taste.NewProfile()
    require.NoError(t, tastes2.Update("rooftop", 0.5))

    err := engine.RefreshSuggestions(m, []venue.Candidate{lifted, plain}, tastes1, tastes2)
    require.NoError(t, err)
    require.Len(t, m.Suggestions, 2)

    assert.InDelta(t, m.Suggestions[0].Score, m.Suggestions[1].Score, 1e-9)
    assert.Equal(t, "Plain", m.Suggestions[0].Datespot.Name)
    assert.Equal(t, "Lifted", m.Suggestions[1].Datespot.Name)
}

func TestRefreshSuggestionsTruncatesQueue(t *testing.T) {
    engine := newTestEngine()
    m := newTestMatch()

    candidates := make([]venue.Candidate, 0, MaxSuggestions+10)
    for i := 0; i < MaxSuggestions+10; i++ {
        candidates = append(candidates, baselineCandidate(fmt.Sprintf("Spot %d", i), float64(i)*0.01))
    }

    err := engine.RefreshSuggestions(m, candidates, taste.NewProfile(), taste.NewProfile())
    require.NoError(t, err)

    require.Len(t, m.Suggestions, MaxSuggestions)
    // The lowest-scoring venues are the ones cut.
    assert.Equal(t, fmt.Sprintf("Spot %d", MaxSuggestions+9), m.Suggestions[0].Datespot.Name)
    assert.Equal(t, "Spot 10", m.Suggestions[MaxSuggestions-1].Datespot.Name)
}

func TestRefreshSuggestionsReplacesPreviousQueue(t *testing.T) {
    engine := newTestEngine()
    m := newTestMatch()

    first := []venue.Candidate{baselineCandidate("First", 0.9)}
    require.NoError(t, engine.RefreshSuggestions(m, first, taste.NewProfile(), taste.NewProfile()))

    second := []venue.Candidate{baselineCandidate("Second", 0.1)}
    require.NoError(t, engine.RefreshSuggestions(m, second, taste.NewProfile(), taste.NewProfile()))

    require.Len(t, m.Suggestions, 1)
    assert.Equal(t, "Second", m.Suggestions[0].Datespot.Name)
}

func TestRefreshSuggestionsRejectsMalformedTrait(t *testing.T) {
    engine := newTestEngine()
    m := newTestMatch()

    bad := baselineCandidate("Broken", 0.5)
    bad.Datespot.Traits = map[string]venue.Trait{
        "romantic": {Value: 0.5, Datapoints: 0},
    }

    err := engine.RefreshSuggestions(m, []venue.Candidate{bad}, taste.NewProfile(), taste.NewProfile())
    assert.ErrorIs(t, err, venue.ErrMalformedTrait)
}

func TestPopSuggestionDrainsHighestFirst(t *testing.T) {
    engine := newTestEngine()
    m := newTestMatch()

    candidates := []venue.Candidate{
        baselineCandidate("Low", 0.1),
        baselineCandidate("High", 0.9),
    }
    require.NoError(t, engine.RefreshSuggestions(m, candidates, taste.NewProfile(), taste.NewProfile()))

    first, err := engine.PopSuggestion(m)
    require.NoError(t, err)
    assert.Equal(t, "High", first.Name)

    second, err := engine.PopSuggestion(m)
    require.NoError(t, err)
    assert.Equal(t, "Low", second.Name)

    _, err = engine.PopSuggestion(m)
    assert.ErrorIs(t, err, ErrEmptyQueue)
    assert.False(t, m.HasSuggestions())
}
