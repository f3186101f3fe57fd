package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/cache"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrYearInFuture    = apperr.New(apperr.KindValidation, "release year must not exceed the current year")
	ErrUnknownCategory = apperr.New(apperr.KindValidation, "unknown category slug")
	ErrUnknownGenre    = apperr.New(apperr.KindValidation, "unknown genre slug")
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	reviewRepo   repository.ReviewRepository
	categoryRepo *repository.CategoryRepo
	genreRepo    *repository.GenreRepo
	ratings      *cache.RatingCache
}

// NewTitleService wires the title CRUD with slug-based taxonomy resolution.
// ratings may be nil when no cache is configured.
func NewTitleService(
	titleRepo repository.TitleRepository,
	reviewRepo repository.ReviewRepository,
	categoryRepo *repository.CategoryRepo,
	genreRepo *repository.GenreRepo,
	ratings *cache.RatingCache,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		reviewRepo:   reviewRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		ratings:      ratings,
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TitleResponse, 0, len(titles))
	for _, t := range titles {
		resp = append(resp, dto.FromModelToTitleResponse(t))
	}
	return &dto.PaginatedTitleResponse{
		Data:       resp,
		Pagination: dto.NewPagination(total, page, pageSize),
	}, nil
}

func (s *titleService) GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	rating, err := s.titleRating(ctx, id)
	if err != nil {
		return nil, err
	}
	title.Rating = rating

	resp := dto.FromModelToTitleResponse(*title)
	return &resp, nil
}

// titleRating returns the derived rating, consulting the cache first when
// one is configured. Cache write failures are ignored.
func (s *titleService) titleRating(ctx context.Context, titleID int64) (*float64, error) {
	if s.ratings != nil {
		if rating, hit := s.ratings.Get(ctx, titleID); hit {
			return rating, nil
		}
	}
	rating, err := s.reviewRepo.AverageScore(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("average score: %w", err)
	}
	if s.ratings != nil {
		_ = s.ratings.Set(ctx, titleID, rating)
	}
	return rating, nil
}

func (s *titleService) Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	if in.Year > time.Now().Year() {
		return nil, ErrYearInFuture
	}

	title := &models.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
	}

	if in.Category != nil {
		category, err := s.categoryRepo.GetBySlug(ctx, *in.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownCategory
			}
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	genres, err := s.resolveGenres(ctx, in.Genre)
	if err != nil {
		return nil, err
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}
	if len(genres) > 0 {
		if err := s.titleRepo.ReplaceGenres(ctx, title.ID, genres); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		title.Name = *in.Name
	}
	if in.Year != nil {
		if *in.Year > time.Now().Year() {
			return nil, ErrYearInFuture
		}
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = in.Description
	}
	if in.Category != nil {
		category, err := s.categoryRepo.GetBySlug(ctx, *in.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownCategory
			}
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	// Save without the association set; genres are replaced explicitly.
	title.Genres = nil
	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	if in.Genre != nil {
		genres, err := s.resolveGenres(ctx, *in.Genre)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, id, genres); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	err := s.titleRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTitleNotFound
	}
	return err
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	genres, err := s.genreRepo.GetBySlugs(ctx, slugs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownGenre
		}
		return nil, err
	}
	return genres, nil
}
