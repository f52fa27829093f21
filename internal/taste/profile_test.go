package taste

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestUpdateFirstObservation(t *testing.T) {
    p := NewProfile()

    require.NoError(t, p.Update("italian", 0.1))

    got := p.Tastes["italian"]
    assert.Equal(t, 0.1, got.Strength)
    assert.Equal(t, 1, got.Datapoints)
}

func TestUpdateWeightedAverage(t *testing.T) {
    p := NewProfile()

    require.NoError(t, p.Update("italian", 0.1))
    require.NoError(t, p.Update("italian", 0.9))

    got := p.Tastes["italian"]
    assert.InDelta(t, 0.5, got.Strength, 1e-9)
    assert.Equal(t, 2, got.Datapoints)

    strength, err := p.Strength("italian")
    require.NoError(t, err)
    assert.Equal(t, 0.5, strength)
}

func TestUpdateCanonicalizesTraitNames(t *testing.T) {
    p := NewProfile()

    require.NoError(t, p.Update("  Thai ", 0.4))
    require.NoError(t, p.Update("THAI", 0.8))

    got := p.Tastes["thai"]
    assert.Equal(t, 2, got.Datapoints)
    assert.Len(t, p.Names(), 1)
}

func TestUpdateRejectsBadInput(t *testing.T) {
    p := NewProfile()

    assert.ErrorIs(t, p.Update("sushi", 1.5), ErrInvalidStrength)
    assert.ErrorIs(t, p.Update("sushi", -1.01), ErrInvalidStrength)
    assert.ErrorIs(t, p.Update("   ", 0.5), ErrEmptyTrait)
    assert.Empty(t, p.Tastes)
}

func TestStrengthUnknownTrait(t *testing.T) {
    p := NewProfile()

    _, err := p.Strength("vegan")
    assert.ErrorIs(t, err, ErrTasteNotFound)
}

func TestStrengthRounding(t *testing.T) {
    p := NewProfile()
    require.NoError(t, p.Update("wine bar", 0.1))
    require.NoError(t, p.Update("wine bar", 0.2))
    require.NoError(t, p.Update("wine bar", 0.2))

    strength, err := p.Strength("wine bar")
    require.NoError(t, err)
    // (0.1 + 0.2 + 0.2) / 3 rounded to six places
    assert.Equal(t, 0.166667, strength)
}

func TestNamesSnapshot(t *testing.T) {
    p := NewProfile()
    require.NoError(t, p.Update("italian", 0.3))
    require.NoError(t, p.Update("outdoor seating", 0.7))

    assert.ElementsMatch(t, []string{"italian", "outdoor seating"}, p.Names())
}
