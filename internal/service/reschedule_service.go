package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/siuroma-kids/admin-api/internal/config"
	"github.com/siuroma-kids/admin-api/internal/dto"
	"github.com/siuroma-kids/admin-api/internal/models"
	"github.com/siuroma-kids/admin-api/internal/repository"
	"github.com/siuroma-kids/admin-api/internal/schedule"
)

// RescheduleService moves single lesson occurrences between courses that
// share the same lesson sequence number.
type RescheduleService interface {
	Options(ctx context.Context, lessonID int) ([]dto.RescheduleOption, error)
	Confirm(ctx context.Context, studentID string, payload dto.RescheduleRequest) (dto.StudentResponse, error)
}

type rescheduleService struct {
	courses   repository.CourseRepository
	students  repository.StudentRepository
	sync      repository.SyncRepository
	cfg       config.Config
	events    ScheduleEventPublisher
	timetable TimetableInvalidator
	validator *validator.Validate
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewRescheduleService constructs the reschedule service.
func NewRescheduleService(
	courses repository.CourseRepository,
	students repository.StudentRepository,
	syncRepo repository.SyncRepository,
	cfg config.Config,
	events ScheduleEventPublisher,
	timetable TimetableInvalidator,
	logger zerolog.Logger,
) RescheduleService {
	return &rescheduleService{
		courses:   courses,
		students:  students,
		sync:      syncRepo,
		cfg:       cfg,
		events:    events,
		timetable: timetable,
		validator: validator.New(),
		tracer:    otel.Tracer("reschedule-service"),
		logger:    logger.With().Str("component", "reschedule_service").Logger(),
	}
}

// RoundLabel renders a bucket label like "round_001" as "Round 001".
func RoundLabel(round string) string {
	if strings.HasPrefix(round, "round_") {
		return "Round " + strings.TrimPrefix(round, "round_")
	}
	return round
}

// Options lists every course session matching the given lesson sequence
// number, sorted by date. The student's current course is included so the
// caller can render the origin alongside the alternatives.
func (s *rescheduleService) Options(ctx context.Context, lessonID int) ([]dto.RescheduleOption, error) {
	if lessonID < 1 || lessonID > schedule.LessonCount {
		return nil, ErrLessonNotFound
	}

	courses, err := s.courses.List(ctx, repository.CourseFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	options := make([]dto.RescheduleOption, 0, len(courses))
	for _, course := range courses {
		lesson, ok := course.Lesson(lessonID)
		if !ok {
			continue
		}
		options = append(options, dto.RescheduleOption{
			CourseName:  course.Name,
			Round:       course.Round,
			LessonID:    lesson.ID,
			Name:        lesson.Name,
			DateStr:     lesson.DateStr,
			DisplayDate: schedule.FormatDisplay(lesson.DateStr),
			TimeSlot:    course.TimeSlot,
			Label:       fmt.Sprintf("%s (%s)", course.Name, RoundLabel(course.Round)),
		})
	}

	sort.Slice(options, func(i, j int) bool {
		if options[i].DateStr != options[j].DateStr {
			return options[i].DateStr < options[j].DateStr
		}
		return options[i].CourseName < options[j].CourseName
	})

	return options, nil
}

// Confirm moves one lesson occurrence of the student's enrollment to the
// target course. The enrollment copy always takes the target's date, time
// slot and course tag; rosters move only when the target differs from the
// origin. Seat capacity and slot conflicts are not re-checked here, the
// admin confirming the move owns that judgement.
func (s *rescheduleService) Confirm(ctx context.Context, studentID string, payload dto.RescheduleRequest) (dto.StudentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "reschedule.confirm", trace.WithAttributes(
		attribute.String("student.id", studentID),
		attribute.String("course.name", payload.CourseName),
		attribute.String("target.course", payload.TargetCourse),
		attribute.Int("lesson.id", payload.LessonID),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		span.RecordError(err)
		return dto.StudentResponse{}, fmt.Errorf("failed to load student: %w", err)
	}

	records := student.EnrollmentList()
	recordIdx := student.EnrollmentIndex(payload.CourseName, payload.Round)
	if recordIdx == -1 {
		return dto.StudentResponse{}, ErrEnrollmentNotFound
	}

	copyIdx := -1
	for idx, copy := range records[recordIdx].Lessons {
		if copy.ID == payload.LessonID {
			copyIdx = idx
			break
		}
	}
	if copyIdx == -1 {
		return dto.StudentResponse{}, ErrLessonNotFound
	}

	targetCategory, ok := s.cfg.CategoryFor(payload.TargetCourse)
	if !ok {
		return dto.StudentResponse{}, ErrUnknownCategory
	}
	target, err := s.courses.GetByKey(ctx, targetCategory, payload.TargetRound, payload.TargetCourse)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrTargetNotFound
		}
		span.RecordError(err)
		return dto.StudentResponse{}, fmt.Errorf("failed to load target course: %w", err)
	}
	targetLesson, ok := target.Lesson(payload.LessonID)
	if !ok {
		return dto.StudentResponse{}, ErrLessonNotFound
	}

	records[recordIdx].Lessons[copyIdx].DateStr = targetLesson.DateStr
	records[recordIdx].Lessons[copyIdx].TimeSlot = target.TimeSlot
	records[recordIdx].Lessons[copyIdx].ActualCourseID = target.Name
	student.SetEnrollment(records)

	sameCourse := payload.TargetCourse == payload.CourseName && payload.TargetRound == payload.Round
	if sameCourse {
		if err := s.students.Update(ctx, &student); err != nil {
			span.RecordError(err)
			return dto.StudentResponse{}, fmt.Errorf("failed to save reschedule: %w", err)
		}
	} else {
		targetLessons := target.LessonList()
		for idx := range targetLessons {
			if targetLessons[idx].ID == payload.LessonID && !targetLessons[idx].HasStudent(studentID) {
				targetLessons[idx].Students = append(targetLessons[idx].Students, studentID)
			}
		}
		target.SetLessons(targetLessons)

		mutated := []*models.Course{&target}
		originCategory, ok := s.cfg.CategoryFor(payload.CourseName)
		if ok {
			origin, err := s.courses.GetByKey(ctx, originCategory, payload.Round, payload.CourseName)
			switch {
			case err == nil:
				originLessons := origin.LessonList()
				for idx := range originLessons {
					if originLessons[idx].ID != payload.LessonID {
						continue
					}
					kept := originLessons[idx].Students[:0]
					for _, id := range originLessons[idx].Students {
						if id != studentID {
							kept = append(kept, id)
						}
					}
					originLessons[idx].Students = kept
				}
				origin.SetLessons(originLessons)
				mutated = append(mutated, &origin)
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Origin course already deleted; the copy still moves.
			default:
				span.RecordError(err)
				return dto.StudentResponse{}, fmt.Errorf("failed to load origin course: %w", err)
			}
		}

		if err := s.sync.SaveStudentAndCourses(ctx, &student, mutated...); err != nil {
			span.RecordError(err)
			return dto.StudentResponse{}, fmt.Errorf("failed to save reschedule: %w", err)
		}
	}

	s.logger.Info().
		Str("student", studentID).
		Str("from", payload.CourseName).
		Str("to", payload.TargetCourse).
		Int("lesson", payload.LessonID).
		Msg("lesson rescheduled")

	event := ScheduleEvent{
		Type:       EventLessonRescheduled,
		Category:   targetCategory,
		Round:      payload.TargetRound,
		CourseName: payload.TargetCourse,
		LessonID:   payload.LessonID,
		StudentID:  studentID,
	}
	if s.events != nil {
		s.events.Publish(ctx, event)
	}
	if s.timetable != nil {
		s.timetable.Invalidate(ctx, targetCategory, payload.TargetRound)
		if originCategory, ok := s.cfg.CategoryFor(payload.CourseName); ok && !sameCourse {
			s.timetable.Invalidate(ctx, originCategory, payload.Round)
		}
	}

	return dto.NewStudentResponse(student), nil
}
