// internal/venue/models.go

package venue

import (
    "errors"
    "fmt"
    "math"
    "time"

    "github.com/google/uuid"

    "github.com/B-T-D/datespot-suggester-sub000/internal/geo"
)

var (
    ErrDatespotNotFound = errors.New("datespot not found")
    ErrMalformedTrait   = errors.New("malformed trait entry")
    ErrInvalidLocation  = errors.New("invalid datespot location")
)

// datespotNamespace seeds the deterministic datespot ids. Never change it:
// every stored id depends on it.
var datespotNamespace = uuid.MustParse("9f2c1b4a-7d38-4e6b-a1c5-2f0e8d94b713")

const (
    // locationPrecision stabilizes identity against provider precision noise.
    locationPrecision = 6

    // PriceRangeUnknown marks venues whose provider reported no price tier.
    PriceRangeUnknown = -1
)

// Trait is one labeled attribute of a venue. Continuous traits carry a
// weighted value and a datapoint count; discrete traits are present/absent
// markers with Value fixed at 1.0 and Datapoints fixed at 1.
type Trait struct {
    Value      float64 `json:"value"`
    Datapoints int     `json:"datapoints"`
    Discrete   bool    `json:"discrete,omitempty"`
}

func (t Trait) validate(name string) error {
    if t.Datapoints < 1 {
        return fmt.Errorf("%w: %q has %d datapoints", ErrMalformedTrait, name, t.Datapoints)
    }
    if t.Discrete && t.Value != 1.0 {
        return fmt.Errorf("%w: discrete trait %q has value %v", ErrMalformedTrait, name, t.Value)
    }
    if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
        return fmt.Errorf("%w: %q has non-finite value", ErrMalformedTrait, name)
    }
    return nil
}

// Datespot is a candidate venue for a date suggestion. Instances are
// transient: hydrated to be scored or serialized, not long-lived state.
type Datespot struct {
    ID       uuid.UUID        `json:"id" db:"id"`
    Name     string           `json:"name" db:"name"`
    Location geo.Point        `json:"location"`
    Traits   map[string]Trait `json:"traits"`

    // PriceRange is 0..3, or PriceRangeUnknown.
    PriceRange int `json:"price_range" db:"price_range"`

    // BaselineDateworthiness is computed once at construction from the
    // reference tables and never mutated by scoring.
    BaselineDateworthiness float64 `json:"baseline_dateworthiness" db:"baseline_dateworthiness"`

    CreatedAt time.Time `json:"created_at" db:"created_at"`
    UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Config lists every optional Datespot field explicitly. Required fields
// are arguments to NewDatespot; everything here has a usable zero-ish
// default applied during construction.
type Config struct {
    Traits     map[string]Trait
    PriceRange *int
}

// NewDatespot builds a Datespot with its deterministic identity and its
// baseline dateworthiness resolved against ref. The same name and rounded
// location always produce the same id, across data sources.
func NewDatespot(name string, location geo.Point, cfg Config, ref *ReferenceData) (*Datespot, error) {
    if name == "" {
        return nil, errors.New("datespot name is empty")
    }
    if !geo.IsValidLatLon(location) {
        return nil, fmt.Errorf("%w: %+v", ErrInvalidLocation, location)
    }

    d := &Datespot{
        Name: name,
        Location: geo.Point{
            Lat: roundCoordinate(location.Lat),
            Lon: roundCoordinate(location.Lon),
        },
        Traits:     make(map[string]Trait, len(cfg.Traits)),
        PriceRange: PriceRangeUnknown,
    }

    for trait, entry := range cfg.Traits {
        if err := entry.validate(trait); err != nil {
            return nil, err
        }
        d.Traits[trait] = entry
    }

    if cfg.PriceRange != nil {
        if *cfg.PriceRange < 0 || *cfg.PriceRange > 3 {
            return nil, fmt.Errorf("price range %d outside [0, 3]", *cfg.PriceRange)
        }
        d.PriceRange = *cfg.PriceRange
    }

    d.ID = DeriveID(d.Name, d.Location)

    if ref != nil {
        ref.ApplyBrandReputations(d)
        d.BaselineDateworthiness = ref.BaselineDateworthiness(d.Traits)
    }

    return d, nil
}

// DeriveID computes the deterministic datespot identity from a name and an
// already-rounded location.
func DeriveID(name string, location geo.Point) uuid.UUID {
    seed := fmt.Sprintf("%s|%.6f|%.6f", name, location.Lat, location.Lon)
    return uuid.NewSHA1(datespotNamespace, []byte(seed))
}

// ValidateTraits surfaces data-integrity errors in a trait map, for rows
// hydrated from storage rather than built through NewDatespot.
func ValidateTraits(traits map[string]Trait) error {
    for name, entry := range traits {
        if err := entry.validate(name); err != nil {
            return err
        }
    }
    return nil
}

func roundCoordinate(v float64) float64 {
    shift := math.Pow(10, locationPrecision)
    return math.Round(v*shift) / shift
}
