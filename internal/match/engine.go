// internal/match/engine.go
// Joint scoring and suggestion-queue maintenance. The engine is pure:
// persistence of the mutated match is the service's job.

package match

import (
    "fmt"
    "sort"

    "github.com/B-T-D/datespot-suggester-sub000/internal/taste"
    "github.com/B-T-D/datespot-suggester-sub000/internal/venue"
)

type Engine struct {
    scorer *venue.Scorer
}

func NewEngine(scorer *venue.Scorer) *Engine {
    return &Engine{scorer: scorer}
}

// RefreshSuggestions rescores the supplied candidate venues for both users
// and replaces the match's queue with the top results. Replacing instead
// of appending keeps the queue free of stale duplicates and bounded
// growth; ordering is score descending, ties broken by baseline
// dateworthiness, then by the candidates' incoming (stable) order.
func (e *Engine) RefreshSuggestions(m *Match, candidates []venue.Candidate, tastes1, tastes2 *taste.Profile) error {
    suggestions := make([]Suggestion, 0, len(candidates))

    for _, candidate := range candidates {
        score1, err := e.scorer.Score(candidate.Datespot, tastes1)
        if err != nil {
            return fmt.Errorf("failed to score %q for user %s: %w", candidate.Datespot.Name, m.User1ID, err)
        }
        score2, err := e.scorer.Score(candidate.Datespot, tastes2)
        if err != nil {
            return fmt.Errorf("failed to score %q for user %s: %w", candidate.Datespot.Name, m.User2ID, err)
        }

        joint := (score1 + score2) / 2
        ObserveJointScore(joint)

        suggestions = append(suggestions, Suggestion{
            Score:    joint,
            Datespot: candidate.Datespot,
        })
    }

    sort.SliceStable(suggestions, func(i, j int) bool {
        if suggestions[i].Score != suggestions[j].Score {
            return suggestions[i].Score > suggestions[j].Score
        }
        return suggestions[i].Datespot.BaselineDateworthiness > suggestions[j].Datespot.BaselineDateworthiness
    })

    if len(suggestions) > MaxSuggestions {
        suggestions = suggestions[:MaxSuggestions]
    }

    m.Suggestions = suggestions
    return nil
}

// PopSuggestion removes and returns the head of the queue, the highest
// remaining score. Callers should check HasSuggestions and refresh first.
func (e *Engine) PopSuggestion(m *Match) (*venue.Datespot, error) {
    if len(m.Suggestions) == 0 {
        return nil, fmt.Errorf("%w: match %s", ErrEmptyQueue, m.ID)
    }

    head := m.Suggestions[0]
    m.Suggestions = m.Suggestions[1:]
    return head.Datespot, nil
}
