// internal/venue/scoring.go
// User-specific affinity scoring. The baseline half of the score is fixed
// at construction time; Score itself is pure and deterministic for a given
// venue and taste profile.

package venue

import (
    "math"

    "github.com/B-T-D/datespot-suggester-sub000/internal/taste"
)

// scorePrecision is the number of decimal places in a final score.
const scorePrecision = 4

// Scorer computes a single user-specific affinity score for a venue.
type Scorer struct {
    ref *ReferenceData
}

func NewScorer(ref *ReferenceData) *Scorer {
    return &Scorer{ref: ref}
}

// Score blends the venue's baseline dateworthiness with the user's learned
// tastes. The user-specific signal is weighted twice as heavily as the
// baseline. Malformed trait entries surface as ErrMalformedTrait.
func (s *Scorer) Score(d *Datespot, profile *taste.Profile) (float64, error) {
    if err := ValidateTraits(d.Traits); err != nil {
        return 0, err
    }

    baseline := d.BaselineDateworthiness

    matchScore := baseline
    datapoints := 0
    for trait, entry := range d.Traits {
        if profile == nil || !profile.Has(trait) {
            continue
        }
        strength, err := profile.Strength(trait)
        if err != nil {
            return 0, err
        }
        matchScore += entry.Value * strength
        datapoints++
    }
    if datapoints > 0 {
        // Normalize back to the taste-strength scale.
        matchScore /= float64(datapoints)
    }

    score := (2*matchScore + baseline) / 3

    shift := math.Pow(10, scorePrecision)
    return math.Round(score*shift) / shift, nil
}
