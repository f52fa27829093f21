package venue

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/B-T-D/datespot-suggester-sub000/internal/geo"
    "github.com/B-T-D/datespot-suggester-sub000/internal/taste"
)

func testDatespot(t *testing.T, name string, traits map[string]Trait) *Datespot {
    t.Helper()
    d, err := NewDatespot(name, geo.Point{Lat: 40.7580, Lon: -73.9855}, Config{Traits: traits}, NewReferenceData())
    require.NoError(t, err)
    return d
}

func TestScoreBlendsTastesWithBaseline(t *testing.T) {
    d := testDatespot(t, "Trattoria Roma", map[string]Trait{
        "italian":  {Value: 0.8, Datapoints: 4},
        "romantic": {Value: 1.0, Datapoints: 1, Discrete: true},
    })
    // italian 0.15 + romantic 0.5
    require.InDelta(t, 0.65, d.BaselineDateworthiness, 1e-9)

    profile := taste.NewProfile()
    require.NoError(t, profile.Update("italian", 0.1))
    require.NoError(t, profile.Update("italian", 0.9))

    scorer := NewScorer(NewReferenceData())
    score, err := scorer.Score(d, profile)
    require.NoError(t, err)

    // match = 0.65 + 0.8*0.5 = 1.05; final = (2*1.05 + 0.65) / 3
    assert.Equal(t, 0.9167, score)
}

func TestScoreWithoutOverlappingTastes(t *testing.T) {
    d := testDatespot(t, "Trattoria Roma", map[string]Trait{
        "italian":  {Value: 0.8, Datapoints: 4},
        "romantic": {Value: 1.0, Datapoints: 1, Discrete: true},
    })

    scorer := NewScorer(NewReferenceData())
    score, err := scorer.Score(d, taste.NewProfile())
    require.NoError(t, err)

    // No user signal: the score collapses to the baseline.
    assert.Equal(t, 0.65, score)
}

func TestScoreDeterminism(t *testing.T) {
    d := testDatespot(t, "Le Petit Bistro", map[string]Trait{
        "french":          {Value: 0.9, Datapoints: 7},
        "wine bar":        {Value: 1.0, Datapoints: 1, Discrete: true},
        "outdoor seating": {Value: 0.6, Datapoints: 2},
    })

    profile := taste.NewProfile()
    require.NoError(t, profile.Update("french", 0.7))
    require.NoError(t, profile.Update("wine bar", -0.2))

    scorer := NewScorer(NewReferenceData())
    first, err := scorer.Score(d, profile)
    require.NoError(t, err)

    for i := 0; i < 10; i++ {
        again, err := scorer.Score(d, profile)
        require.NoError(t, err)
        assert.Equal(t, first, again)
    }
}

func TestScoreRepeatedCallsDoNotMutateBaseline(t *testing.T) {
    d := testDatespot(t, "Trattoria Roma", map[string]Trait{
        "italian": {Value: 0.8, Datapoints: 4},
    })
    baseline := d.BaselineDateworthiness

    scorer := NewScorer(NewReferenceData())
    for i := 0; i < 5; i++ {
        _, err := scorer.Score(d, taste.NewProfile())
        require.NoError(t, err)
    }

    assert.Equal(t, baseline, d.BaselineDateworthiness)
}

func TestScoreMalformedTrait(t *testing.T) {
    d := testDatespot(t, "Trattoria Roma", nil)
    d.Traits["broken"] = Trait{Value: 0.5, Datapoints: 0}

    scorer := NewScorer(NewReferenceData())
    _, err := scorer.Score(d, taste.NewProfile())
    assert.ErrorIs(t, err, ErrMalformedTrait)
}

func TestBrandReputationIdempotent(t *testing.T) {
    ref := NewReferenceData()
    d := testDatespot(t, "McDonald's", nil)

    entry, ok := d.Traits["fast food"]
    require.True(t, ok, "brand reputation should tag known fast food names")
    assert.Equal(t, Trait{Value: 1.0, Datapoints: 1, Discrete: true}, entry)

    // Re-applying must not change the trait set or the baseline.
    before := d.BaselineDateworthiness
    ref.ApplyBrandReputations(d)
    ref.ApplyBrandReputations(d)

    assert.Equal(t, Trait{Value: 1.0, Datapoints: 1, Discrete: true}, d.Traits["fast food"])
    assert.Equal(t, before, ref.BaselineDateworthiness(d.Traits))
}

func TestBaselineFlooredAtZero(t *testing.T) {
    ref := NewReferenceData()
    baseline := ref.BaselineDateworthiness(map[string]Trait{
        "fast food": {Value: 1.0, Datapoints: 1, Discrete: true},
    })
    assert.Equal(t, 0.0, baseline)
}

func TestDeterministicIdentity(t *testing.T) {
    a, err := NewDatespot("Blue Note", geo.Point{Lat: 40.7307647, Lon: -74.0003365}, Config{}, nil)
    require.NoError(t, err)

    // Precision noise beyond six places must not split identity.
    b, err := NewDatespot("Blue Note", geo.Point{Lat: 40.73076470001, Lon: -74.00033650002}, Config{}, nil)
    require.NoError(t, err)

    c, err := NewDatespot("Blue Note Annex", geo.Point{Lat: 40.7307647, Lon: -74.0003365}, Config{}, nil)
    require.NoError(t, err)

    assert.Equal(t, a.ID, b.ID)
    assert.NotEqual(t, a.ID, c.ID)
}

func TestNewDatespotRejectsBadInput(t *testing.T) {
    _, err := NewDatespot("Nowhere", geo.Point{Lat: 91, Lon: 0}, Config{}, nil)
    assert.ErrorIs(t, err, ErrInvalidLocation)

    _, err = NewDatespot("Bad Traits", geo.Point{}, Config{
        Traits: map[string]Trait{"x": {Value: 0.4, Datapoints: 1, Discrete: true}},
    }, nil)
    assert.ErrorIs(t, err, ErrMalformedTrait)

    four := 4
    _, err = NewDatespot("Pricey", geo.Point{}, Config{PriceRange: &four}, nil)
    assert.Error(t, err)
}
