package messaging

// CreateChatDTO opens a conversation between two users.
type CreateChatDTO struct {
    User1ID string `json:"user1_id" validate:"required,uuid"`
    User2ID string `json:"user2_id" validate:"required,uuid"`
}

// SendMessageDTO posts one message into a chat.
type SendMessageDTO struct {
    SenderID string `json:"sender_id" validate:"required,uuid"`
    Text     string `json:"text" validate:"required,max=4000"`
}
