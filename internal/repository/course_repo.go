package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/siuroma-kids/admin-api/internal/models"
)

// CourseFilter narrows course listings to a category/round bucket. Empty
// fields match everything.
type CourseFilter struct {
	Category string
	Round    string
}

// CourseRepository provides access to course records.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]models.Course, error)
	GetByKey(ctx context.Context, category, round, name string) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, category, round, name string) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Round != "" {
		query = query.Where("round = ?", filter.Round)
	}

	var courses []models.Course
	if err := query.Order("name ASC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) GetByKey(ctx context.Context, category, round, name string) (models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Where("category = ? AND round = ? AND name = ?", category, round, name).
		First(&course).Error
	if err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) Delete(ctx context.Context, category, round, name string) error {
	result := r.db.WithContext(ctx).
		Where("category = ? AND round = ? AND name = ?", category, round, name).
		Delete(&models.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
