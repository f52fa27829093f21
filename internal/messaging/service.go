// internal/messaging/service.go
// Chat lifecycle plus the taste-learning hook: every sent message is
// scored for sentiment, and vocabulary traits mentioned in the text feed
// the sender's taste profile at that sentiment strength.

package messaging

import (
    "context"
    "log"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/B-T-D/datespot-suggester-sub000/internal/taste"
)

// Users is the slice of the user module the chat pipeline needs.
type Users interface {
    UpdateTaste(ctx context.Context, id uuid.UUID, trait string, strength float64) error
}

// TraitSource supplies the known trait vocabulary. Satisfied by
// venue.ReferenceData.
type TraitSource interface {
    TraitVocabulary() []string
}

type Service interface {
    CreateChat(ctx context.Context, user1ID, user2ID uuid.UUID) (*Chat, error)
    GetChat(ctx context.Context, id uuid.UUID) (*Chat, error)
    SendMessage(ctx context.Context, chatID, senderID uuid.UUID, text string) (*Message, error)
    Messages(ctx context.Context, chatID uuid.UUID) ([]*Message, error)
}

type service struct {
    repo     Repository
    users    Users
    traits   TraitSource
    analyzer SentimentAnalyzer
}

func NewService(repo Repository, users Users, traits TraitSource, analyzer SentimentAnalyzer) Service {
    if analyzer == nil {
        analyzer = NewLexiconAnalyzer()
    }
    return &service{
        repo:     repo,
        users:    users,
        traits:   traits,
        analyzer: analyzer,
    }
}

func (s *service) CreateChat(ctx context.Context, user1ID, user2ID uuid.UUID) (*Chat, error) {
    if user1ID == user2ID {
        return nil, ErrSelfChat
    }

    c := &Chat{
        ID:         uuid.New(),
        User1ID:    user1ID,
        User2ID:    user2ID,
        MessageIDs: []uuid.UUID{},
    }
    if err := s.repo.CreateChat(ctx, c); err != nil {
        return nil, err
    }
    return c, nil
}

func (s *service) GetChat(ctx context.Context, id uuid.UUID) (*Chat, error) {
    return s.repo.GetChat(ctx, id)
}

// SendMessage stores the message with its sentiment fixed at construction
// time, then applies taste learning for the sender. Taste updates are best
// effort: a failed update is logged, never a failed send.
func (s *service) SendMessage(ctx context.Context, chatID, senderID uuid.UUID, text string) (*Message, error) {
    if strings.TrimSpace(text) == "" {
        return nil, ErrEmptyMessage
    }

    c, err := s.repo.GetChat(ctx, chatID)
    if err != nil {
        return nil, err
    }
    if !c.HasParticipant(senderID) {
        return nil, ErrNotParticipant
    }

    m := &Message{
        ID:        uuid.New(),
        ChatID:    chatID,
        SenderID:  senderID,
        Text:      text,
        Sentiment: MessageSentiment(s.analyzer, text),
        SentAt:    time.Now().UTC(),
    }

    if err := s.repo.CreateMessage(ctx, m); err != nil {
        return nil, err
    }

    s.learnTastes(ctx, m)
    return m, nil
}

func (s *service) Messages(ctx context.Context, chatID uuid.UUID) ([]*Message, error) {
    if _, err := s.repo.GetChat(ctx, chatID); err != nil {
        return nil, err
    }
    return s.repo.ListMessages(ctx, chatID)
}

// learnTastes feeds the sender's taste profile: each known vocabulary
// trait mentioned in the message gets the message's sentiment as a new
// observation.
func (s *service) learnTastes(ctx context.Context, m *Message) {
    if s.users == nil || s.traits == nil {
        return
    }

    normalized := " " + strings.Join(tokenize(m.Text), " ") + " "
    for _, trait := range s.traits.TraitVocabulary() {
        words := tokenize(taste.Canonicalize(trait))
        if len(words) == 0 {
            continue
        }
        term := " " + strings.Join(words, " ") + " "
        if !strings.Contains(normalized, term) {
            continue
        }
        if err := s.users.UpdateTaste(ctx, m.SenderID, trait, m.Sentiment); err != nil {
            log.Printf("Taste update for user %s trait %q failed: %v", m.SenderID, trait, err)
        }
    }
}
