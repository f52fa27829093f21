package messaging

import (
    "context"
    "database/sql"

    "github.com/google/uuid"
    "github.com/jmoiron/sqlx"
)

type Repository interface {
    CreateChat(ctx context.Context, c *Chat) error
    GetChat(ctx context.Context, id uuid.UUID) (*Chat, error)
    CreateMessage(ctx context.Context, m *Message) error
    ListMessages(ctx context.Context, chatID uuid.UUID) ([]*Message, error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateChat(ctx context.Context, c *Chat) error {
    query := `
        INSERT INTO chats (id, user1_id, user2_id)
        VALUES ($1, $2, $3)
        RETURNING created_at
    `
    return r.db.QueryRowxContext(ctx, query, c.ID, c.User1ID, c.User2ID).Scan(&c.CreatedAt)
}

// GetChat loads the chat row plus its derived fields: message ids in send
// order and the mean message sentiment.
func (r *postgresRepository) GetChat(ctx context.Context, id uuid.UUID) (*Chat, error) {
    var c Chat
    err := r.db.QueryRowxContext(ctx, `
        SELECT id, user1_id, user2_id, created_at
        FROM chats
        WHERE id = $1
    `, id).Scan(&c.ID, &c.User1ID, &c.User2ID, &c.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrChatNotFound
    }
    if err != nil {
        return nil, err
    }

    rows, err := r.db.QueryxContext(ctx, `
        SELECT id FROM messages
        WHERE chat_id = $1
        ORDER BY sent_at ASC, id ASC
    `, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    c.MessageIDs = []uuid.UUID{}
    for rows.Next() {
        var messageID uuid.UUID
        if err := rows.Scan(&messageID); err != nil {
            return nil, err
        }
        c.MessageIDs = append(c.MessageIDs, messageID)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }

    err = r.db.QueryRowxContext(ctx, `
        SELECT COALESCE(AVG(sentiment), 0) FROM messages WHERE chat_id = $1
    `, id).Scan(&c.AggregateSentiment)
    if err != nil {
        return nil, err
    }

    return &c, nil
}

func (r *postgresRepository) CreateMessage(ctx context.Context, m *Message) error {
    query := `
        INSERT INTO messages (id, chat_id, sender_id, text, sentiment, sent_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
    _, err := r.db.ExecContext(ctx, query, m.ID, m.ChatID, m.SenderID, m.Text, m.Sentiment, m.SentAt)
    return err
}

func (r *postgresRepository) ListMessages(ctx context.Context, chatID uuid.UUID) ([]*Message, error) {
    rows, err := r.db.QueryxContext(ctx, `
        SELECT id, chat_id, sender_id, text, sentiment, sent_at
        FROM messages
        WHERE chat_id = $1
        ORDER BY sent_at ASC, id ASC
    `, chatID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    messages := []*Message{}
    for rows.Next() {
        var m Message
        if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Text, &m.Sentiment, &m.SentAt); err != nil {
            return nil, err
        }
        messages = append(messages, &m)
    }
    return messages, rows.Err()
}
