// internal/user/models.go

package user

import (
    "time"

    "github.com/google/uuid"

    "github.com/B-T-D/datespot-suggester-sub000/internal/geo"
    "github.com/B-T-D/datespot-suggester-sub000/internal/taste"
)

// MatchRef is one entry in a user's match list.
type MatchRef struct {
    MatchID   uuid.UUID `json:"match_id"`
    PartnerID uuid.UUID `json:"partner_id"`
    Timestamp time.Time `json:"timestamp"`
}

// User is the full record. It is loaded whole, mutated in memory, and
// written back whole; the caller guarantees at most one in-flight mutation
// per record (single-writer prototype, no internal locking).
type User struct {
    ID   uuid.UUID `json:"id" db:"id"`
    Name string    `json:"name" db:"name"`

    CurrentLocation geo.Point `json:"current_location"`

    // PredominantLocation is the derived home base; it defaults to the
    // current location until enough history establishes one independently.
    PredominantLocation geo.Point `json:"predominant_location"`

    Tastes *taste.Profile `json:"tastes"`

    // Candidates is a FIFO queue of swipe-eligible users, nearest at the
    // tail so the near end pops in O(1).
    Candidates []uuid.UUID `json:"candidates"`

    // PendingLikes holds one-directional accepts awaiting reciprocation.
    PendingLikes map[uuid.UUID]time.Time `json:"pending_likes"`

    // Matches is kept sorted descending by timestamp (most recent first).
    Matches []MatchRef `json:"matches"`

    // MatchBlacklist always contains the user's own id.
    MatchBlacklist map[uuid.UUID]time.Time `json:"match_blacklist"`

    CreatedAt time.Time `json:"created_at" db:"created_at"`
    UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CandidateView is the public projection of a User shown to a swiping
// partner. Exposing a view instead of the full record keeps candidate
// hydration from recursing through candidate-of-candidate chains.
type CandidateView struct {
    ID             uuid.UUID `json:"id"`
    Name           string    `json:"name"`
    DistanceMeters float64   `json:"distance_meters"`
}

// Blacklisted reports whether other is excluded from matching with u.
func (u *User) Blacklisted(other uuid.UUID) bool {
    _, ok := u.MatchBlacklist[other]
    return ok
}

// removeCandidate deletes the first occurrence of id from the candidate
// queue. Returns whether it was present.
func (u *User) removeCandidate(id uuid.UUID) bool {
    for i, candidate := range u.Candidates {
        if candidate == id {
            u.Candidates = append(u.Candidates[:i], u.Candidates[i+1:]...)
            return true
        }
    }
    return false
}

// attachMatch inserts a match reference keeping the list sorted descending
// by timestamp.
func (u *User) attachMatch(ref MatchRef) {
    for _, existing := range u.Matches {
        if existing.MatchID == ref.MatchID {
            return
        }
    }
    u.Matches = append(u.Matches, ref)
    for i := len(u.Matches) - 1; i > 0; i-- {
        if u.Matches[i].Timestamp.After(u.Matches[i-1].Timestamp) {
            u.Matches[i], u.Matches[i-1] = u.Matches[i-1], u.Matches[i]
        } else {
            break
        }
    }
}

// detachMatch removes a match reference, for rollback of a failed
// dual-sided registration.
func (u *User) detachMatch(matchID uuid.UUID) bool {
    for i, existing := range u.Matches {
        if existing.MatchID == matchID {
            u.Matches = append(u.Matches[:i], u.Matches[i+1:]...)
            return true
        }
    }
    return false
}
