package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

var ErrGenreNotFound = apperr.New(apperr.KindNotFound, "genre not found")

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedGenreResponse, error)
	Create(ctx context.Context, in dto.CreateGenreDTO) (*dto.GenreResponse, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreService struct {
	genreRepo *repository.GenreRepo
}

func NewGenreService(genreRepo *repository.GenreRepo) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedGenreResponse, error) {
	list, total, err := s.genreRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		resp = append(resp, dto.GenreFromModel(g))
	}
	return &dto.PaginatedGenreResponse{
		Data:       resp,
		Pagination: dto.NewPagination(total, page, pageSize),
	}, nil
}

func (s *genreService) Create(ctx context.Context, in dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	genre := models.Genre{Name: in.Name, Slug: in.Slug}
	if err := s.genreRepo.Create(ctx, &genre); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugInUse
		}
		return nil, err
	}
	resp := dto.GenreFromModel(genre)
	return &resp, nil
}

func (s *genreService) DeleteBySlug(ctx context.Context, slug string) error {
	err := s.genreRepo.DeleteBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrGenreNotFound
	}
	return err
}
