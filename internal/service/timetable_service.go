package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/siuroma-kids/admin-api/internal/dto"
	"github.com/siuroma-kids/admin-api/internal/models"
	"github.com/siuroma-kids/admin-api/internal/repository"
	"github.com/siuroma-kids/admin-api/internal/schedule"
)

// TimetableInvalidator drops cached timetable grids for one bucket. Course
// and roster mutations call it so stale grids never outlive a change.
type TimetableInvalidator interface {
	Invalidate(ctx context.Context, category, round string)
}

// TimetableService aggregates the courses of one category/round bucket into
// a lesson-by-course grid.
type TimetableService interface {
	TimetableInvalidator
	GetTimetable(ctx context.Context, category, round string) (dto.TimetableResponse, error)
}

type timetableService struct {
	courses repository.CourseRepository
	cache   *redis.Client
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewTimetableService constructs the timetable service. The cache client may
// be nil; grids are then rebuilt on every request.
func NewTimetableService(courses repository.CourseRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) TimetableService {
	return &timetableService{
		courses: courses,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With().Str("component", "timetable_service").Logger(),
	}
}

func timetableCacheKey(category, round string) string {
	return fmt.Sprintf("timetable:%s:%s", category, round)
}

func (s *timetableService) GetTimetable(ctx context.Context, category, round string) (dto.TimetableResponse, error) {
	key := timetableCacheKey(category, round)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var response dto.TimetableResponse
			if err := json.Unmarshal(cached, &response); err == nil {
				response.CacheHit = true
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("timetable cache read failed")
		}
	}

	courses, err := s.courses.List(ctx, repository.CourseFilter{Category: category, Round: round})
	if err != nil {
		return dto.TimetableResponse{}, fmt.Errorf("failed to list courses: %w", err)
	}

	response := buildTimetable(category, round, courses)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("timetable cache write failed")
			}
		}
	}

	return response, nil
}

func (s *timetableService) Invalidate(ctx context.Context, category, round string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, timetableCacheKey(category, round)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("category", category).Str("round", round).Msg("timetable cache invalidation failed")
	}
}

func buildTimetable(category, round string, courses []models.Course) dto.TimetableResponse {
	columns := make([]dto.TimetableColumn, 0, len(courses))
	for _, course := range courses {
		columns = append(columns, dto.TimetableColumn{
			CourseName: course.Name,
			TimeSlot:   course.TimeSlot,
		})
	}

	rows := make([]dto.TimetableRow, 0, schedule.LessonCount)
	for lessonID := 1; lessonID <= schedule.LessonCount; lessonID++ {
		row := dto.TimetableRow{
			LessonID:    lessonID,
			Name:        schedule.LessonName(lessonID),
			Description: schedule.LessonDescription(lessonID),
			Cells:       make([]dto.TimetableCell, 0, len(courses)),
		}
		for _, course := range courses {
			lesson, ok := course.Lesson(lessonID)
			if !ok {
				row.Cells = append(row.Cells, dto.TimetableCell{CourseName: course.Name})
				continue
			}
			students := lesson.Students
			if students == nil {
				students = []string{}
			}
			row.Cells = append(row.Cells, dto.TimetableCell{
				CourseName:  course.Name,
				DateStr:     lesson.DateStr,
				DisplayDate: schedule.FormatDisplay(lesson.DateStr),
				Completed:   lesson.Completed,
				Students:    students,
				Count:       len(students),
				Full:        len(students) >= schedule.MaxStudents,
			})
		}
		rows = append(rows, row)
	}

	return dto.TimetableResponse{
		Category: category,
		Round:    round,
		Columns:  columns,
		Rows:     rows,
	}
}
