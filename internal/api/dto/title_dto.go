package dto

import "reviewhub/internal/api/models"

// CreateTitleDTO references taxonomy by slug, the way write payloads do on
// the titles endpoint.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Genre       []string `json:"genre,omitempty"`
}

// UpdateTitleDTO for partial updates; nil fields are left untouched.
// Genre nil means "keep", an empty slice clears the set.
type UpdateTitleDTO struct {
	Name        *string   `json:"name,omitempty"`
	Year        *int      `json:"year,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Genre       *[]string `json:"genre,omitempty"`
}

// TitleResponse is the read representation with the derived rating and
// embedded taxonomy.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description,omitempty"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func FromModelToTitleResponse(t models.Title) TitleResponse {
	genres := make([]GenreResponse, 0, len(t.Genres))
	for _, g := range t.Genres {
		genres = append(genres, GenreFromModel(g))
	}
	var category *CategoryResponse
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		category = &c
	}
	return TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       genres,
		Category:    category,
	}
}

// PaginatedTitleResponse for returning paginated titles
type PaginatedTitleResponse struct {
	Data       []TitleResponse `json:"data"`
	Pagination Pagination      `json:"pagination"`
}
