package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/siuroma-kids/admin-api/internal/dto"
	"github.com/siuroma-kids/admin-api/internal/repository"
)

// StudentService serves the student roster and profile updates.
type StudentService interface {
	List(ctx context.Context, payload dto.StudentListRequest) (dto.StudentListResponse, error)
	Get(ctx context.Context, id string) (dto.StudentResponse, error)
	Update(ctx context.Context, id string, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
}

type studentService struct {
	students  repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(students repository.StudentRepository, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		validator: validator.New(),
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, payload dto.StudentListRequest) (dto.StudentListResponse, error) {
	page := payload.Page
	if page < 1 {
		page = 1
	}
	pageSize := payload.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	students, total, err := s.students.List(ctx, repository.StudentFilter{
		Search:   payload.Search,
		Level:    payload.Level,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.StudentListResponse{}, fmt.Errorf("failed to list students: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return dto.StudentListResponse{
		Items: dto.NewStudentResponseSlice(students),
		Pagination: dto.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *studentService) Get(ctx context.Context, id string) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, fmt.Errorf("failed to load student: %w", err)
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id string, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, fmt.Errorf("failed to load student: %w", err)
	}

	clean := func(value *string) string {
		return sanitizeText(s.sanitizer, *value)
	}
	if payload.Name != nil {
		student.Name = clean(payload.Name)
	}
	if payload.ChineseName != nil {
		student.ChineseName = clean(payload.ChineseName)
	}
	if payload.Sex != nil {
		student.Sex = *payload.Sex
	}
	if payload.Level != nil {
		student.Level = *payload.Level
	}
	if payload.PreferredLanguage != nil {
		student.PreferredLanguage = clean(payload.PreferredLanguage)
	}
	if payload.Allergies != nil {
		student.Allergies = clean(payload.Allergies)
	}
	if payload.Condition != nil {
		student.Condition = clean(payload.Condition)
	}
	if payload.ComfortMethod != nil {
		student.ComfortMethod = clean(payload.ComfortMethod)
	}
	if payload.ParentName != nil {
		student.ParentName = clean(payload.ParentName)
	}
	if payload.ParentContact != nil {
		student.ParentContact = clean(payload.ParentContact)
	}
	if payload.FavCharacter != nil {
		student.FavCharacter = clean(payload.FavCharacter)
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, fmt.Errorf("failed to update student: %w", err)
	}

	s.logger.Info().Str("student", id).Msg("student profile updated")

	return dto.NewStudentResponse(student), nil
}
