package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/siuroma-kids/admin-api/internal/models"
)

// SyncRepository is the single authoritative write path for paired roster
// mutations: a student record and the course records changed alongside it are
// persisted in one database transaction, so both copies of roster truth move
// together or not at all.
type SyncRepository interface {
	SaveStudentAndCourses(ctx context.Context, student *models.Student, courses ...*models.Course) error
}

type syncRepository struct {
	db *gorm.DB
}

// NewSyncRepository constructs the paired-write repository.
func NewSyncRepository(db *gorm.DB) SyncRepository {
	return &syncRepository{db: db}
}

func (r *syncRepository) SaveStudentAndCourses(ctx context.Context, student *models.Student, courses ...*models.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if student != nil {
			if err := tx.Save(student).Error; err != nil {
				return err
			}
		}

		for _, course := range courses {
			if course == nil {
				continue
			}
			if err := tx.Save(course).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
