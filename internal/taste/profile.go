// internal/taste/profile.go
// Per-user learned preference profile. Each trait carries a weighted-average
// strength and the number of datapoints that produced it.

package taste

import (
    "errors"
    "fmt"
    "math"
    "strings"
)

var (
    ErrTasteNotFound   = errors.New("taste not found in profile")
    ErrInvalidStrength = errors.New("taste strength must be in [-1, 1]")
    ErrEmptyTrait      = errors.New("trait name is empty")
)

// strengthPrecision is the number of decimal places exposed to callers.
const strengthPrecision = 6

// Taste is a single learned preference.
type Taste struct {
    Strength   float64 `json:"strength"`
    Datapoints int     `json:"datapoints"`
}

// Profile maps canonical trait names to learned tastes. The zero value is
// not usable; construct with NewProfile.
type Profile struct {
    Tastes map[string]Taste `json:"tastes"`
}

func NewProfile() *Profile {
    return &Profile{Tastes: make(map[string]Taste)}
}

// Canonicalize lower-cases and trims a trait name. Callers that bypass
// Update must apply this before any lookup.
func Canonicalize(trait string) string {
    return strings.ToLower(strings.TrimSpace(trait))
}

// Update folds a new observation into the profile. A first observation is
// stored as-is with one datapoint; later observations move the weighted
// average: (old*n + new) / (n+1).
func (p *Profile) Update(trait string, strength float64) error {
    key := Canonicalize(trait)
    if key == "" {
        return ErrEmptyTrait
    }
    if strength < -1 || strength > 1 {
        return fmt.Errorf("%w: got %v for %q", ErrInvalidStrength, strength, key)
    }

    if p.Tastes == nil {
        p.Tastes = make(map[string]Taste)
    }

    current, ok := p.Tastes[key]
    if !ok {
        p.Tastes[key] = Taste{Strength: strength, Datapoints: 1}
        return nil
    }

    n := float64(current.Datapoints)
    p.Tastes[key] = Taste{
        Strength:   (current.Strength*n + strength) / (n + 1),
        Datapoints: current.Datapoints + 1,
    }
    return nil
}

// Strength returns the current weighted strength for a trait, rounded for
// external consumption. Callers should check Has or Names first.
func (p *Profile) Strength(trait string) (float64, error) {
    key := Canonicalize(trait)
    taste, ok := p.Tastes[key]
    if !ok {
        return 0, fmt.Errorf("%w: %q", ErrTasteNotFound, key)
    }
    return round(taste.Strength, strengthPrecision), nil
}

// Has reports whether the profile has any datapoints for a trait.
func (p *Profile) Has(trait string) bool {
    _, ok := p.Tastes[Canonicalize(trait)]
    return ok
}

// Names returns a snapshot of the known trait keys.
func (p *Profile) Names() []string {
    names := make([]string, 0, len(p.Tastes))
    for name := range p.Tastes {
        names = append(names, name)
    }
    return names
}

func round(v float64, places int) float64 {
    shift := math.Pow(10, float64(places))
    return math.Round(v*shift) / shift
}
