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

var (
	ErrCategoryNotFound = apperr.New(apperr.KindNotFound, "category not found")
	ErrSlugInUse        = apperr.New(apperr.KindConflict, "slug already in use")
)

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedCategoryResponse, error)
	Create(ctx context.Context, in dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo *repository.CategoryRepo
}

func NewCategoryService(categoryRepo *repository.CategoryRepo) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedCategoryResponse, error) {
	list, total, err := s.categoryRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, dto.CategoryFromModel(c))
	}
	return &dto.PaginatedCategoryResponse{
		Data:       resp,
		Pagination: dto.NewPagination(total, page, pageSize),
	}, nil
}

func (s *categoryService) Create(ctx context.Context, in dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	category := models.Category{Name: in.Name, Slug: in.Slug}
	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugInUse
		}
		return nil, err
	}
	resp := dto.CategoryFromModel(category)
	return &resp, nil
}

// DeleteBySlug removes the category; its titles are detached, not deleted.
func (s *categoryService) DeleteBySlug(ctx context.Context, slug string) error {
	err := s.categoryRepo.DeleteBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	return err
}
