// internal/user/dto.go
package user

// DTOs for API requests/responses

type RegisterUserDTO struct {
    Name string  `json:"name" validate:"required,max=100"`
    Lat  float64 `json:"lat" validate:"min=-90,max=90"`
    Lon  float64 `json:"lon" validate:"min=-180,max=180"`
}

type UpdateLocationDTO struct {
    Lat float64 `json:"lat" validate:"min=-90,max=90"`
    Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type SwipeDTO struct {
    CandidateID string `json:"candidate_id" validate:"required,uuid"`
    Decision    string `json:"decision" validate:"required,oneof=accept reject defer"`
}

type UpdateTasteDTO struct {
    Trait    string  `json:"trait" validate:"required,max=100"`
    Strength float64 `json:"strength" validate:"min=-1,max=1"`
}
