package match

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/google/uuid"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/B-T-D/datespot-suggester-sub000/internal/geo"
    "github.com/B-T-D/datespot-suggester-sub000/internal/taste"
    "github.com/B-T-D/datespot-suggester-sub000/internal/venue"
)

type fakeRepository struct {
    matches map[uuid.UUID]*Match
}

func newFakeRepository() *fakeRepository {
    return &fakeRepository{matches: make(map[uuid.UUID]*Match)}
}

func (r *fakeRepository) snapshot(m *Match) *Match {
    clone := *m
    clone.Suggestions = append([]Suggestion{}, m.Suggestions...)
    return &clone
}

func (r *fakeRepository) Create(ctx context.Context, m *Match) error {
    r.matches[m.ID] = r.snapshot(m)
    return nil
}

func (r *fakeRepository) Get(ctx context.Context, id uuid.UUID) (*Match, error) {
    m, ok := r.matches[id]
    if !ok {
        return nil, ErrMatchNotFound
    }
    return r.snapshot(m), nil
}

func (r *fakeRepository) Save(ctx context.Context, m *Match) error {
    if _, ok := r.matches[m.ID]; !ok {
        return ErrMatchNotFound
    }
    r.matches[m.ID] = r.snapshot(m)
    return nil
}

func (r *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
    delete(r.matches, id)
    return nil
}

func (r *fakeRepository) ListWithEmptyQueues(ctx context.Context) ([]uuid.UUID, error) {
    var ids []uuid.UUID
    for id, m := range r.matches {
        if len(m.Suggestions) == 0 {
            ids = append(ids, id)
        }
    }
    return ids, nil
}

type fakeUsers struct {
    locations map[uuid.UUID]geo.Point
    tastes    map[uuid.UUID]*taste.Profile

    attached map[uuid.UUID]uuid.UUID // user -> match
    detached []uuid.UUID

    failAttachFor uuid.UUID
    failDetach    bool
}

func newFakeUsers() *fakeUsers {
    return &fakeUsers{
        locations: make(map[uuid.UUID]geo.Point),
        tastes:    make(map[uuid.UUID]*taste.Profile),
        attached:  make(map[uuid.UUID]uuid.UUID),
    }
}

func (f *fakeUsers) addUser(loc geo.Point) uuid.UUID {
    id := uuid.New()
    f.locations[id] = loc
    f.tastes[id] = taste.NewProfile()
    return id
}

func (f *fakeUsers) CurrentLocation(ctx context.Context, userID uuid.UUID) (geo.Point, error) {
    loc, ok := f.locations[userID]
    if !ok {
        return geo.Point{}, errors.New("user not found")
    }
    return loc, nil
}

func (f *fakeUsers) TasteProfile(ctx context.Context, userID uuid.UUID) (*taste.Profile, error) {
    p, ok := f.tastes[userID]
    if !ok {
        return nil, errors.New("user not found")
    }
    return p, nil
}

func (f *fakeUsers) AttachMatch(ctx context.Context, userID, matchID, partnerID uuid.UUID, ts time.Time) error {
    if userID == f.failAttachFor {
        return errors.New("attach refused")
    }
    f.attached[userID] = matchID
    return nil
}

func (f *fakeUsers) DetachMatch(ctx context.Context, userID, matchID uuid.UUID) error {
    if f.failDetach {
        return errors.New("detach refused")
    }
    delete(f.attached, userID)
    f.detached = append(f.detached, userID)
    return nil
}

type fakeVenues struct {
    candidates []venue.Candidate
    lastRadius float64
    lastCenter geo.Point
}

func (f *fakeVenues) QueryNear(ctx context.Context, center geo.Point, radiusMeters float64) ([]venue.Candidate, error) {
    f.lastCenter = center
    f.lastRadius = radiusMeters
    return f.candidates, nil
}

func newTestService() (Service, *fakeRepository, *fakeUsers, *fakeVenues) {
    repo := newFakeRepository()
    users := newFakeUsers()
    venues := &fakeVenues{}
    svc := NewService(repo, users, venues, newTestEngine())
    return svc, repo, users, venues
}

func TestCreateMatchDerivesGeometryAndAttachesBothSides(t *testing.T) {
    svc, _, users, venues := newTestService()
    ctx := context.Background()

    timesSquare := geo.Point{Lat: 40.758, Lon: -73.9855}
    brooklyn := geo.Point{Lat: 40.6782, Lon: -73.9442}
    a := users.addUser(timesSquare)
    b := users.addUser(brooklyn)

    venues.candidates = []venue.Candidate{baselineCandidate("Midway Bar", 0.6)}

    m, err := svc.Create(ctx, a, b)
    require.NoError(t, err)

    first, second := CanonicalPair(a, b)
    assert.Equal(t, first, m.User1ID)
    assert.Equal(t, second, m.User2ID)
    assert.Equal(t, DeriveID(a, b), m.ID)

    assert.InDelta(t, (timesSquare.Lat+brooklyn.Lat)/2, m.Midpoint.Lat, 1e-9)
    assert.InDelta(t, (timesSquare.Lon+brooklyn.Lon)/2, m.Midpoint.Lon, 1e-9)
    assert.InDelta(t, geo.Haversine(timesSquare, brooklyn), m.DistanceMeters, 1e-6)

    assert.Equal(t, m.ID, users.attached[a])
    assert.Equal(t, m.ID, users.attached[b])

    // Creation eagerly fills the suggestion queue.
    require.Len(t, m.Suggestions, 1)
    assert.Equal(t, "Midway Bar", m.Suggestions[0].Datespot.Name)
}

func TestCreateMatchRejectsSelf(t *testing.T) {
    svc, _, users, _ := newTestService()
    id := users.addUser(geo.Point{Lat: 1, Lon: 1})

    _, err := svc.Create(context.Background(), id, id)
    assert.ErrorIs(t, err, ErrSelfMatch)
}

func TestCreateMatchIsIdempotentOverPairOrder(t *testing.T) {
    svc, _, users, _ := newTestService()
    ctx := context.Background()

    a := users.addUser(geo.Point{Lat: 10, Lon: 10})
    b := users.addUser(geo.Point{Lat: 10.01, Lon: 10.01})

    _, err := svc.Create(ctx, a, b)
    require.NoError(t, err)

    _, err = svc.Create(ctx, a, b)
    assert.ErrorIs(t, err, ErrAlreadyMatched)

    // Swapped order resolves to the same deterministic match.
    _, err = svc.Create(ctx, b, a)
    assert.ErrorIs(t, err, ErrAlreadyMatched)
}

func TestCreateMatchRollsBackFirstSideOnSecondAttachFailure(t *testing.T) {
    svc, repo, users, _ := newTestService()
    ctx := context.Background()

    a := users.addUser(geo.Point{Lat: 10, Lon: 10})
    b := users.addUser(geo.Point{Lat: 10.01, Lon: 10.01})
    first, second := CanonicalPair(a, b)
    users.failAttachFor = second

    _, err := svc.Create(ctx, a, b)
    require.Error(t, err)

    var consistency *ConsistencyError
    assert.False(t, errors.As(err, &consistency), "clean rollback should not report inconsistency")

    // The first side was detached and the match row removed.
    assert.Contains(t, users.detached, first)
    assert.Empty(t, users.attached)
    _, err = repo.Get(ctx, DeriveID(a, b))
    assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestCreateMatchReportsConsistencyErrorWhenRollbackFails(t *testing.T) {
    svc, _, users, _ := newTestService()
    ctx := context.Background()

    a := users.addUser(geo.Point{Lat: 10, Lon: 10})
    b := users.addUser(geo.Point{Lat: 10.01, Lon: 10.01})
    _, second := CanonicalPair(a, b)
    users.failAttachFor = second
    users.failDetach = true

    _, err := svc.Create(ctx, a, b)
    require.Error(t, err)

    var consistency *ConsistencyError
    require.ErrorAs(t, err, &consistency)
    assert.Equal(t, DeriveID(a, b), consistency.MatchID)
}

func TestRefreshSuggestionsQueriesHalfTheSeparation(t *testing.T) {
    svc, _, users, venues := newTestService()
    ctx := context.Background()

    locA := geo.Point{Lat: 40.758, Lon: -73.9855}
    locB := geo.Point{Lat: 40.6782, Lon: -73.9442}
    a := users.addUser(locA)
    b := users.addUser(locB)

    m, err := svc.Create(ctx, a, b)
    require.NoError(t, err)

    venues.candidates = []venue.Candidate{baselineCandidate("Bistro", 0.4)}
    count, err := svc.RefreshSuggestions(ctx, m.ID)
    require.NoError(t, err)
    assert.Equal(t, 1, count)

    assert.InDelta(t, geo.Haversine(locA, locB)/2, venues.lastRadius, 1e-6)
    assert.InDelta(t, m.Midpoint.Lat, venues.lastCenter.Lat, 1e-9)
    assert.InDelta(t, m.Midpoint.Lon, venues.lastCenter.Lon, 1e-9)
}

func TestNextSuggestionRefillsEmptyQueue(t *testing.T) {
    svc, repo, users, venues := newTestService()
    ctx := context.Background()

    a := users.addUser(geo.Point{Lat: 10, Lon: 10})
    b := users.addUser(geo.Point{Lat: 10.01, Lon: 10.01})

    // No venues at creation time, so the initial queue is empty.
    m, err := svc.Create(ctx, a, b)
    require.NoError(t, err)
    assert.False(t, m.HasSuggestions())

    venues.candidates = []venue.Candidate{
        baselineCandidate("Low", 0.1),
        baselineCandidate("High", 0.9),
    }

    d, err := svc.NextSuggestion(ctx, m.ID)
    require.NoError(t, err)
    assert.Equal(t, "High", d.Name)

    // The pop was persisted.
    stored, err := repo.Get(ctx, m.ID)
    require.NoError(t, err)
    require.Len(t, stored.Suggestions, 1)
    assert.Equal(t, "Low", stored.Suggestions[0].Datespot.Name)
}

func TestNextSuggestionEmptyWorldSurfacesEmptyQueue(t *testing.T) {
    svc, _, users, _ := newTestService()
    ctx := context.Background()

    a := users.addUser(geo.Point{Lat: 10, Lon: 10})
    b := users.addUser(geo.Point{Lat: 10.01, Lon: 10.01})

    m, err := svc.Create(ctx, a, b)
    require.NoError(t, err)

    _, err = svc.NextSuggestion(ctx, m.ID)
    assert.ErrorIs(t, err, ErrEmptyQueue)
}

func TestNextSuggestionUnknownMatch(t *testing.T) {
    svc, _, _, _ := newTestService()

    _, err := svc.NextSuggestion(context.Background(), uuid.New())
    assert.ErrorIs(t, err, ErrMatchNotFound)
}
