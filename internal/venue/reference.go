// internal/venue/reference.go
// Process-wide reference tables: baseline trait weights and brand
// reputations. Loaded once at startup and treated as immutable; every
// accessor works on defensive copies taken at load time.

package venue

import (
    "encoding/json"
    "fmt"
    "os"
)

// ReferenceData holds the shared read-only scoring tables.
type ReferenceData struct {
    baselineWeights  map[string]float64
    brandReputations map[string][]string // reputation label -> tagged venue names
}

// referenceFile mirrors the on-disk JSON shape.
type referenceFile struct {
    BaselineTraitWeights map[string]float64  `json:"baseline_trait_weights"`
    BrandReputations     map[string][]string `json:"brand_reputations"`
}

// defaultBaselineWeights covers the trait vocabulary shipped with the
// prototype. Positive weights mark date-worthy traits, negative ones count
// against a venue.
var defaultBaselineWeights = map[string]float64{
    "romantic":        0.5,
    "fine dining":     0.4,
    "wine bar":        0.35,
    "cocktail bar":    0.35,
    "live music":      0.3,
    "outdoor seating": 0.25,
    "rooftop":         0.25,
    "coffee":          0.2,
    "dessert":         0.2,
    "italian":         0.15,
    "japanese":        0.15,
    "french":          0.15,
    "thai":            0.1,
    "mexican":         0.1,
    "vegetarian":      0.1,
    "sports bar":      -0.2,
    "fast food":       -0.4,
    "drive through":   -0.5,
}

var defaultBrandReputations = map[string][]string{
    "fast food": {
        "McDonald's",
        "Burger King",
        "Wendy's",
        "Taco Bell",
        "KFC",
    },
    "coffee": {
        "Starbucks",
        "Dunkin'",
    },
}

// NewReferenceData returns the embedded default tables.
func NewReferenceData() *ReferenceData {
    return newReferenceData(defaultBaselineWeights, defaultBrandReputations)
}

// LoadReferenceData reads the tables from a JSON file, falling back to the
// embedded defaults for any section the file omits.
func LoadReferenceData(path string) (*ReferenceData, error) {
    raw, err := os.ReadFile(path)
    if err != nil {
        return nil, fmt.Errorf("failed to read reference data: %w", err)
    }

    var file referenceFile
    if err := json.Unmarshal(raw, &file); err != nil {
        return nil, fmt.Errorf("failed to parse reference data: %w", err)
    }

    weights := file.BaselineTraitWeights
    if weights == nil {
        weights = defaultBaselineWeights
    }
    reputations := file.BrandReputations
    if reputations == nil {
        reputations = defaultBrandReputations
    }

    return newReferenceData(weights, reputations), nil
}

func newReferenceData(weights map[string]float64, reputations map[string][]string) *ReferenceData {
    ref := &ReferenceData{
        baselineWeights:  make(map[string]float64, len(weights)),
        brandReputations: make(map[string][]string, len(reputations)),
    }
    for trait, weight := range weights {
        ref.baselineWeights[trait] = weight
    }
    for label, names := range reputations {
        ref.brandReputations[label] = append([]string(nil), names...)
    }
    return ref
}

// ApplyBrandReputations ensures each reputation label whose tagged-name set
// contains this venue is present in the venue's traits. Setting a label
// that is already present is a no-op, so repeated application cannot
// double-count.
func (r *ReferenceData) ApplyBrandReputations(d *Datespot) {
    for label, names := range r.brandReputations {
        for _, name := range names {
            if name != d.Name {
                continue
            }
            if _, ok := d.Traits[label]; !ok {
                d.Traits[label] = Trait{Value: 1.0, Datapoints: 1, Discrete: true}
            }
            break
        }
    }
}

// BaselineDateworthiness sums the baseline weights of every trait present
// in the map, floored at zero. Each unique trait contributes exactly once.
func (r *ReferenceData) BaselineDateworthiness(traits map[string]Trait) float64 {
    total := 0.0
    for trait := range traits {
        if weight, ok := r.baselineWeights[trait]; ok {
            total += weight
        }
    }
    if total < 0 {
        return 0
    }
    return total
}

// BaselineWeight reports the reference weight for a single trait.
func (r *ReferenceData) BaselineWeight(trait string) (float64, bool) {
    weight, ok := r.baselineWeights[trait]
    return weight, ok
}

// TraitVocabulary returns a copy of the known baseline trait names. The
// messaging module scans chat text against this vocabulary.
func (r *ReferenceData) TraitVocabulary() []string {
    names := make([]string, 0, len(r.baselineWeights))
    for trait := range r.baselineWeights {
        names = append(names, trait)
    }
    return names
}
