// internal/match/models.go

package match

import (
    "errors"
    "fmt"
    "time"

    "github.com/google/uuid"

    "github.com/B-T-D/datespot-suggester-sub000/internal/geo"
    "github.com/B-T-D/datespot-suggester-sub000/internal/venue"
)

var (
    ErrMatchNotFound  = errors.New("match not found")
    ErrAlreadyMatched = errors.New("users are already matched")
    ErrEmptyQueue     = errors.New("suggestion queue is empty")
    ErrSelfMatch      = errors.New("cannot match a user with themself")
)

// matchNamespace seeds the deterministic match ids.
var matchNamespace = uuid.MustParse("c4a7e6d2-1f59-4b83-9e07-6a5d03c8f241")

// MaxSuggestions bounds the persisted suggestion queue. Overflow is
// truncated, never an error.
const MaxSuggestions = 50

// ConsistencyError reports a dual-sided update that could not be completed
// on both user records.
type ConsistencyError struct {
    Op      string
    MatchID uuid.UUID
    UserID  uuid.UUID
    Err     error
}

func (e *ConsistencyError) Error() string {
    return fmt.Sprintf("%s: inconsistent state for match %s at user %s: %v", e.Op, e.MatchID, e.UserID, e.Err)
}

func (e *ConsistencyError) Unwrap() error {
    return e.Err
}

// Suggestion is one scored venue in a match's queue.
type Suggestion struct {
    Score    float64         `json:"score"`
    Datespot *venue.Datespot `json:"datespot"`
}

// Match pairs two users. User ids are stored in canonical (lexicographic)
// order; the id is a deterministic function of the unordered pair, so
// matching A with B and B with A resolve to the same record.
type Match struct {
    ID      uuid.UUID `json:"id" db:"id"`
    User1ID uuid.UUID `json:"user1_id" db:"user1_id"`
    User2ID uuid.UUID `json:"user2_id" db:"user2_id"`

    // Timestamp is the creation time, immutable thereafter.
    Timestamp time.Time `json:"timestamp" db:"matched_at"`

    // Midpoint and DistanceMeters are derived from both users' current
    // locations at construction time. They are not recomputed when a
    // user moves; RefreshSuggestions keeps serving the original circle.
    Midpoint       geo.Point `json:"midpoint"`
    DistanceMeters float64   `json:"distance_meters" db:"distance_meters"`

    // Suggestions is kept sorted descending by score at the end of every
    // mutating operation, bounded at MaxSuggestions.
    Suggestions []Suggestion `json:"suggestions"`

    CreatedAt time.Time `json:"created_at" db:"created_at"`
    UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CanonicalPair orders two user ids lexicographically.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
    if a.String() > b.String() {
        return b, a
    }
    return a, b
}

// DeriveID computes the deterministic match identity for an unordered
// user pair.
func DeriveID(a, b uuid.UUID) uuid.UUID {
    first, second := CanonicalPair(a, b)
    return uuid.NewSHA1(matchNamespace, []byte(first.String()+"|"+second.String()))
}

// QueryRadiusMeters is the candidate-retrieval radius policy: half the
// distance between the users, a circle whose diameter spans both.
func (m *Match) QueryRadiusMeters() float64 {
    return m.DistanceMeters / 2
}

// HasSuggestions reports whether the queue still holds entries.
func (m *Match) HasSuggestions() bool {
    return len(m.Suggestions) > 0
}
