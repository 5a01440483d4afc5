package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/siuroma-kids/admin-api/internal/config"
	"github.com/siuroma-kids/admin-api/internal/dto"
	"github.com/siuroma-kids/admin-api/internal/models"
	"github.com/siuroma-kids/admin-api/internal/repository"
	"github.com/siuroma-kids/admin-api/internal/schedule"
)

// CourseService manages course offerings and their lesson schedules.
type CourseService interface {
	List(ctx context.Context, category, round string) ([]dto.CourseResponse, error)
	Get(ctx context.Context, category, round, name string) (dto.CourseResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, category, round, name string) error
	ToggleCompletion(ctx context.Context, category, round, name string, lessonID int) (dto.CourseResponse, error)
	ShiftDates(ctx context.Context, category, round, name string, payload dto.ShiftDatesRequest) (dto.CourseResponse, error)
}

type courseService struct {
	courses   repository.CourseRepository
	cfg       config.Config
	events    ScheduleEventPublisher
	timetable TimetableInvalidator
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(
	courses repository.CourseRepository,
	cfg config.Config,
	events ScheduleEventPublisher,
	timetable TimetableInvalidator,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courses:   courses,
		cfg:       cfg,
		events:    events,
		timetable: timetable,
		validator: validator.New(),
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

// NormalizeRound canonicalises a round identifier into the "round_NNN" bucket
// label. Bare numbers are zero-padded to three digits; already-canonical
// labels pass through unchanged.
func NormalizeRound(round string) (string, error) {
	round = strings.TrimSpace(round)
	if strings.HasPrefix(round, "round_") {
		suffix := strings.TrimPrefix(round, "round_")
		if n, err := strconv.Atoi(suffix); err == nil && n > 0 {
			return fmt.Sprintf("round_%03d", n), nil
		}
		return "", ErrInvalidRound
	}

	n, err := strconv.Atoi(round)
	if err != nil || n <= 0 {
		return "", ErrInvalidRound
	}

	return fmt.Sprintf("round_%03d", n), nil
}

func (s *courseService) List(ctx context.Context, category, round string) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx, repository.CourseFilter{Category: category, Round: round})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, category, round, name string) (dto.CourseResponse, error) {
	course, err := s.courses.GetByKey(ctx, category, round, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, fmt.Errorf("failed to load course: %w", err)
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	category, ok := s.cfg.CategoryFor(payload.Name)
	if !ok {
		return dto.CourseResponse{}, ErrUnknownCategory
	}

	round, err := NormalizeRound(payload.Round)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	if _, err := s.courses.GetByKey(ctx, category, round, payload.Name); err == nil {
		return dto.CourseResponse{}, ErrCourseExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CourseResponse{}, fmt.Errorf("failed to check existing course: %w", err)
	}

	lessons := make([]models.Lesson, 0, schedule.LessonCount)
	for i := 0; i < schedule.LessonCount; i++ {
		dateStr, err := schedule.AddDays(payload.StartDate, i*schedule.WeekDays)
		if err != nil {
			return dto.CourseResponse{}, fmt.Errorf("failed to derive lesson date: %w", err)
		}
		lessons = append(lessons, models.Lesson{
			ID:       i + 1,
			Name:     schedule.LessonName(i + 1),
			DateStr:  dateStr,
			Students: []string{},
		})
	}

	course := models.Course{
		Name:     payload.Name,
		Category: category,
		Round:    round,
		TimeSlot: payload.TimeSlot,
	}
	course.SetLessons(lessons)

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info().Str("course", course.Name).Str("round", round).Msg("course created")
	s.afterMutation(ctx, ScheduleEvent{
		Type:       EventCourseCreated,
		Category:   category,
		Round:      round,
		CourseName: course.Name,
	})

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, category, round, name string) error {
	if err := s.courses.Delete(ctx, category, round, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.logger.Info().Str("course", name).Str("round", round).Msg("course deleted")
	s.afterMutation(ctx, ScheduleEvent{
		Type:       EventCourseDeleted,
		Category:   category,
		Round:      round,
		CourseName: name,
	})

	return nil
}

func (s *courseService) ToggleCompletion(ctx context.Context, category, round, name string, lessonID int) (dto.CourseResponse, error) {
	course, err := s.courses.GetByKey(ctx, category, round, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, fmt.Errorf("failed to load course: %w", err)
	}

	lessons := course.LessonList()
	found := false
	for idx := range lessons {
		if lessons[idx].ID == lessonID {
			lessons[idx].Completed = !lessons[idx].Completed
			found = true
			break
		}
	}
	if !found {
		return dto.CourseResponse{}, ErrLessonNotFound
	}

	course.SetLessons(lessons)
	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, fmt.Errorf("failed to update course: %w", err)
	}

	s.afterMutation(ctx, ScheduleEvent{
		Type:       EventCompletionToggled,
		Category:   category,
		Round:      round,
		CourseName: name,
		LessonID:   lessonID,
	})

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) ShiftDates(ctx context.Context, category, round, name string, payload dto.ShiftDatesRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByKey(ctx, category, round, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, fmt.Errorf("failed to load course: %w", err)
	}

	lessons := course.LessonList()
	found := false
	for idx := range lessons {
		if lessons[idx].ID < payload.StartLessonID {
			continue
		}
		found = true
		shifted, err := schedule.AddDays(lessons[idx].DateStr, payload.Direction*schedule.WeekDays)
		if err != nil {
			return dto.CourseResponse{}, fmt.Errorf("failed to shift lesson %d: %w", lessons[idx].ID, err)
		}
		lessons[idx].DateStr = shifted
	}
	if !found {
		return dto.CourseResponse{}, ErrLessonNotFound
	}

	course.SetLessons(lessons)
	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, fmt.Errorf("failed to update course: %w", err)
	}

	s.logger.Info().
		Str("course", name).
		Int("from_lesson", payload.StartLessonID).
		Int("direction", payload.Direction).
		Msg("lesson dates shifted")
	s.afterMutation(ctx, ScheduleEvent{
		Type:       EventDatesShifted,
		Category:   category,
		Round:      round,
		CourseName: name,
		LessonID:   payload.StartLessonID,
	})

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) afterMutation(ctx context.Context, event ScheduleEvent) {
	if s.events != nil {
		s.events.Publish(ctx, event)
	}
	if s.timetable != nil {
		s.timetable.Invalidate(ctx, event.Category, event.Round)
	}
}
