package match

// CreateMatchDTO pairs two existing users.
type CreateMatchDTO struct {
    User1ID string `json:"user1_id" validate:"required,uuid"`
    User2ID string `json:"user2_id" validate:"required,uuid"`
}

// RefreshResponseDTO reports the rebuilt queue size.
type RefreshResponseDTO struct {
    SuggestionCount int `json:"suggestion_count"`
}
