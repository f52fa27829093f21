// internal/messaging/models.go

package messaging

import (
    "errors"
    "time"

    "github.com/google/uuid"
)

var (
    ErrChatNotFound   = errors.New("chat not found")
    ErrNotParticipant = errors.New("sender is not a participant in this chat")
    ErrSelfChat       = errors.New("cannot open a chat with yourself")
    ErrEmptyMessage   = errors.New("message text is empty")
)

// Chat is a conversation between two matched users. MessageIDs are kept
// ascending by send time; AggregateSentiment is the mean sentiment of the
// chat's messages, 0 for an empty chat.
type Chat struct {
    ID      uuid.UUID `json:"id" db:"id"`
    User1ID uuid.UUID `json:"user1_id" db:"user1_id"`
    User2ID uuid.UUID `json:"user2_id" db:"user2_id"`

    MessageIDs         []uuid.UUID `json:"message_ids"`
    AggregateSentiment float64     `json:"aggregate_sentiment"`

    CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasParticipant reports whether the user is one of the chat's two sides.
func (c *Chat) HasParticipant(userID uuid.UUID) bool {
    return userID == c.User1ID || userID == c.User2ID
}

// Message is a single chat message. Sentiment is computed once when the
// message is constructed and never revised.
type Message struct {
    ID        uuid.UUID `json:"id" db:"id"`
    ChatID    uuid.UUID `json:"chat_id" db:"chat_id"`
    SenderID  uuid.UUID `json:"sender_id" db:"sender_id"`
    Text      string    `json:"text" db:"text"`
    Sentiment float64   `json:"sentiment" db:"sentiment"`
    SentAt    time.Time `json:"sent_at" db:"sent_at"`
}
