package dto

import "reviewhub/internal/api/models"

// CreateCategoryDTO for creating a category
type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

// CategoryResponse mirrors the category representation embedded in titles
type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryFromModel(c models.Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Slug: c.Slug}
}

// CreateGenreDTO for creating a genre
type CreateGenreDTO struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreFromModel(g models.Genre) GenreResponse {
	return GenreResponse{Name: g.Name, Slug: g.Slug}
}

// PaginatedCategoryResponse for returning paginated categories
type PaginatedCategoryResponse struct {
	Data       []CategoryResponse `json:"data"`
	Pagination Pagination         `json:"pagination"`
}

// PaginatedGenreResponse for returning paginated genres
type PaginatedGenreResponse struct {
	Data       []GenreResponse `json:"data"`
	Pagination Pagination      `json:"pagination"`
}
