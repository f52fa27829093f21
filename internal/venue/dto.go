// internal/venue/dto.go
package venue

// DTOs for API requests/responses

type CreateDatespotDTO struct {
    Name       string           `json:"name" validate:"required,max=200"`
    Lat        float64          `json:"lat" validate:"min=-90,max=90"`
    Lon        float64          `json:"lon" validate:"min=-180,max=180"`
    Traits     map[string]Trait `json:"traits,omitempty"`
    PriceRange *int             `json:"price_range,omitempty" validate:"omitempty,min=0,max=3"`
}

type IngestDatespotsDTO struct {
    Datespots []CreateDatespotDTO `json:"datespots" validate:"required,min=1,dive"`
}

type IngestResultDTO struct {
    Received int `json:"received"`
    Written  int `json:"written"`
}
