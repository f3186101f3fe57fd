package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/api/models"

	"gorm.io/gorm"
)

// TitleFilter holds the optional list filters exposed on the titles
// collection endpoint.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

type TitleRepository interface {
	List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, t *models.Title) error
	Update(ctx context.Context, t *models.Title) error
	Delete(ctx context.Context, id int64) error
	ReplaceGenres(ctx context.Context, titleID int64, genres []models.Genre) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) filtered(ctx context.Context, f TitleFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Title{})
	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.GenreSlug != "" {
		q = q.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", f.GenreSlug)
	}
	if f.Name != "" {
		q = q.Where("titles.name ILIKE ?", "%"+f.Name+"%")
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}
	return q
}

// List returns a page of titles with the derived rating filled from an
// aggregate over reviews. Rating stays nil for titles with no reviews.
func (r *titleRepository) List(ctx context.Context, f TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	if err := r.filtered(ctx, f).Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.filtered(ctx, f).
		Select("titles.*, AVG(reviews.score) AS rating").
		Joins("LEFT JOIN reviews ON reviews.title_id = titles.id").
		Group("titles.id").
		Preload("Genres").
		Preload("Category").
		Order("titles.id asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	return list, total, nil
}

// GetByID loads the title without the derived rating; the service fills it
// from the cache or the review aggregate.
func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Preload("Category").
		First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *titleRepository) Create(ctx context.Context, t *models.Title) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create title: %w", err)
	}
	return nil
}

func (r *titleRepository) Update(ctx context.Context, t *models.Title) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	return nil
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceGenres swaps the full genre set of a title inside a transaction.
func (r *titleRepository) ReplaceGenres(ctx context.Context, titleID int64, genres []models.Genre) error {
	tx := r.db.WithContext(ctx).Begin()
	var t models.Title
	if err := tx.First(&t, titleID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("title not found: %w", err)
	}
	if err := tx.Model(&t).Association("Genres").Replace(genres); err != nil {
		tx.Rollback()
		return fmt.Errorf("replace genres: %w", err)
	}
	return tx.Commit().Error
}
