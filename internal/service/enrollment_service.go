package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/siuroma-kids/admin-api/internal/config"
	"github.com/siuroma-kids/admin-api/internal/dto"
	"github.com/siuroma-kids/admin-api/internal/models"
	"github.com/siuroma-kids/admin-api/internal/observability"
	"github.com/siuroma-kids/admin-api/internal/repository"
	"github.com/siuroma-kids/admin-api/internal/schedule"
)

// EnrollmentService manages course membership: bulk enrollment into a full
// course and single-lesson roster changes.
type EnrollmentService interface {
	Enroll(ctx context.Context, payload dto.EnrollmentCreateRequest) (dto.StudentResponse, error)
	AddStudentToLesson(ctx context.Context, category, round, courseName string, lessonID int, studentID string) (dto.CourseResponse, error)
	RemoveStudentFromLesson(ctx context.Context, category, round, courseName string, lessonID int, studentID string) (dto.CourseResponse, error)
}

type enrollmentService struct {
	courses   repository.CourseRepository
	students  repository.StudentRepository
	sync      repository.SyncRepository
	cfg       config.Config
	events    ScheduleEventPublisher
	timetable TimetableInvalidator
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(
	courses repository.CourseRepository,
	students repository.StudentRepository,
	syncRepo repository.SyncRepository,
	cfg config.Config,
	events ScheduleEventPublisher,
	timetable TimetableInvalidator,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		courses:   courses,
		students:  students,
		sync:      syncRepo,
		cfg:       cfg,
		events:    events,
		timetable: timetable,
		validator: validator.New(),
		sanitizer: bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("enrollment-service"),
		logger:    logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func sanitizeText(policy *bluemonday.Policy, value string) string {
	return strings.TrimSpace(policy.Sanitize(value))
}

func applyPersonalInfo(student *models.Student, info dto.PersonalInfo, policy *bluemonday.Policy) {
	student.Name = sanitizeText(policy, info.Name)
	student.ChineseName = sanitizeText(policy, info.ChineseName)
	student.Sex = info.Sex
	student.Level = info.Level
	student.PreferredLanguage = sanitizeText(policy, info.PreferredLanguage)
	student.Allergies = sanitizeText(policy, info.Allergies)
	student.Condition = sanitizeText(policy, info.Condition)
	student.ComfortMethod = sanitizeText(policy, info.ComfortMethod)
	student.ParentName = sanitizeText(policy, info.ParentName)
	student.ParentContact = sanitizeText(policy, info.ParentContact)
	student.FavCharacter = sanitizeText(policy, info.FavCharacter)
}

// Enroll places a student into every lesson of one course+round in a single
// step, creating the student record on first contact. Unlike single-lesson
// placement, bulk enrollment does not scan other courses for slot conflicts;
// intake staff resolve timetable clashes before confirming a full course.
func (s *enrollmentService) Enroll(ctx context.Context, payload dto.EnrollmentCreateRequest) (dto.StudentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "enrollment.enroll", trace.WithAttributes(
		attribute.String("student.id", payload.StudentID),
		attribute.String("course.name", payload.CourseName),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	category, ok := s.cfg.CategoryFor(payload.CourseName)
	if !ok {
		return dto.StudentResponse{}, ErrUnknownCategory
	}

	round, err := NormalizeRound(payload.Round)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	course, err := s.courses.GetByKey(ctx, category, round, payload.CourseName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrCourseNotFound
		}
		span.RecordError(err)
		return dto.StudentResponse{}, fmt.Errorf("failed to load course: %w", err)
	}

	student, err := s.students.GetByID(ctx, payload.StudentID)
	isNew := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			return dto.StudentResponse{}, fmt.Errorf("failed to load student: %w", err)
		}
		isNew = true
		student = models.Student{ID: payload.StudentID}
	}
	applyPersonalInfo(&student, payload.PersonalInfo, s.sanitizer)

	if student.EnrollmentIndex(course.Name, round) != -1 {
		observability.EnrollmentRejects().WithLabelValues("round_enrolled").Inc()
		return dto.StudentResponse{}, ErrRoundEnrolled
	}

	lessons := course.LessonList()
	copies := make([]models.LessonCopy, 0, len(lessons))
	for idx := range lessons {
		copies = append(copies, models.LessonCopy{
			ID:         lessons[idx].ID,
			Name:       lessons[idx].Name,
			DateStr:    lessons[idx].DateStr,
			TimeSlot:   course.TimeSlot,
			CourseName: course.Name,
		})
		if !lessons[idx].HasStudent(student.ID) {
			lessons[idx].Students = append(lessons[idx].Students, student.ID)
		}
	}

	records := append(student.EnrollmentList(), models.EnrollmentRecord{
		CourseName: course.Name,
		Round:      round,
		Lessons:    copies,
	})
	student.SetEnrollment(records)
	course.SetLessons(lessons)

	if isNew {
		if err := s.students.Create(ctx, &student); err != nil {
			span.RecordError(err)
			return dto.StudentResponse{}, fmt.Errorf("failed to create student: %w", err)
		}
	}
	if err := s.sync.SaveStudentAndCourses(ctx, &student, &course); err != nil {
		span.RecordError(err)
		return dto.StudentResponse{}, fmt.Errorf("failed to save enrollment: %w", err)
	}

	s.logger.Info().
		Str("student", student.ID).
		Str("course", course.Name).
		Str("round", round).
		Bool("new_student", isNew).
		Msg("student enrolled")
	s.afterMutation(ctx, ScheduleEvent{
		Type:       EventRosterChanged,
		Category:   category,
		Round:      round,
		CourseName: course.Name,
		StudentID:  student.ID,
	})

	return dto.NewStudentResponse(student), nil
}

// AddStudentToLesson places a student on one lesson roster. Checks run in a
// fixed order before any write: course, lesson and student must exist, the
// lesson must have a free seat, the student must not already hold it, and no
// other course may already book the student for the same sequence number.
func (s *enrollmentService) AddStudentToLesson(ctx context.Context, category, round, courseName string, lessonID int, studentID string) (dto.CourseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "enrollment.add_to_lesson", trace.WithAttributes(
		attribute.String("student.id", studentID),
		attribute.String("course.name", courseName),
		attribute.Int("lesson.id", lessonID),
	))
	defer span.End()

	course, err := s.courses.GetByKey(ctx, category, round, courseName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		span.RecordError(err)
		return dto.CourseResponse{}, fmt.Errorf("failed to load course: %w", err)
	}

	lesson, ok := course.Lesson(lessonID)
	if !ok {
		return dto.CourseResponse{}, ErrLessonNotFound
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrStudentNotFound
		}
		span.RecordError(err)
		return dto.CourseResponse{}, fmt.Errorf("failed to load student: %w", err)
	}

	if len(lesson.Students) >= schedule.MaxStudents {
		observability.EnrollmentRejects().WithLabelValues("capacity").Inc()
		return dto.CourseResponse{}, ErrCapacityExceeded
	}
	if lesson.HasStudent(studentID) {
		observability.EnrollmentRejects().WithLabelValues("duplicate").Inc()
		return dto.CourseResponse{}, ErrAlreadyEnrolled
	}

	others, err := s.courses.List(ctx, repository.CourseFilter{})
	if err != nil {
		span.RecordError(err)
		return dto.CourseResponse{}, fmt.Errorf("failed to scan for conflicts: %w", err)
	}
	for _, other := range others {
		if other.Name == course.Name && other.Round == course.Round && other.Category == course.Category {
			continue
		}
		if otherLesson, ok := other.Lesson(lessonID); ok && otherLesson.HasStudent(studentID) {
			observability.EnrollmentRejects().WithLabelValues("slot_conflict").Inc()
			return dto.CourseResponse{}, fmt.Errorf("%w: lesson %d already booked in %s (%s)",
				ErrSlotConflict, lessonID, other.Name, other.Round)
		}
	}

	lessons := course.LessonList()
	for idx := range lessons {
		if lessons[idx].ID == lessonID {
			lessons[idx].Students = append(lessons[idx].Students, studentID)
		}
	}
	course.SetLessons(lessons)

	records := student.EnrollmentList()
	recordIdx := student.EnrollmentIndex(course.Name, course.Round)
	if recordIdx == -1 {
		records = append(records, models.EnrollmentRecord{
			CourseName: course.Name,
			Round:      course.Round,
		})
		recordIdx = len(records) - 1
	}
	hasCopy := false
	for _, copy := range records[recordIdx].Lessons {
		if copy.ID == lessonID {
			hasCopy = true
			break
		}
	}
	if !hasCopy {
		records[recordIdx].Lessons = append(records[recordIdx].Lessons, models.LessonCopy{
			ID:         lessonID,
			Name:       lesson.Name,
			DateStr:    lesson.DateStr,
			TimeSlot:   course.TimeSlot,
			CourseName: course.Name,
			Completed:  lesson.Completed,
		})
	}
	student.SetEnrollment(records)

	if err := s.sync.SaveStudentAndCourses(ctx, &student, &course); err != nil {
		span.RecordError(err)
		return dto.CourseResponse{}, fmt.Errorf("failed to save placement: %w", err)
	}

	s.logger.Info().
		Str("student", studentID).
		Str("course", courseName).
		Int("lesson", lessonID).
		Msg("student added to lesson")
	s.afterMutation(ctx, ScheduleEvent{
		Type:       EventRosterChanged,
		Category:   category,
		Round:      round,
		CourseName: courseName,
		LessonID:   lessonID,
		StudentID:  studentID,
	})

	return dto.NewCourseResponse(course), nil
}

// RemoveStudentFromLesson drops a student from one lesson roster and removes
// the matching enrollment copy. Removal is idempotent: dropping a student who
// is not on the roster succeeds without change.
func (s *enrollmentService) RemoveStudentFromLesson(ctx context.Context, category, round, courseName string, lessonID int, studentID string) (dto.CourseResponse, error) {
	course, err := s.courses.GetByKey(ctx, category, round, courseName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, fmt.Errorf("failed to load course: %w", err)
	}

	if _, ok := course.Lesson(lessonID); !ok {
		return dto.CourseResponse{}, ErrLessonNotFound
	}

	lessons := course.LessonList()
	for idx := range lessons {
		if lessons[idx].ID != lessonID {
			continue
		}
		filtered := lessons[idx].Students[:0]
		for _, id := range lessons[idx].Students {
			if id != studentID {
				filtered = append(filtered, id)
			}
		}
		lessons[idx].Students = filtered
	}
	course.SetLessons(lessons)

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, fmt.Errorf("failed to load student: %w", err)
		}
		if err := s.courses.Update(ctx, &course); err != nil {
			return dto.CourseResponse{}, fmt.Errorf("failed to save roster: %w", err)
		}
		return dto.NewCourseResponse(course), nil
	}

	records := student.EnrollmentList()
	if recordIdx := student.EnrollmentIndex(course.Name, course.Round); recordIdx != -1 {
		kept := records[recordIdx].Lessons[:0]
		for _, copy := range records[recordIdx].Lessons {
			if copy.ID != lessonID {
				kept = append(kept, copy)
			}
		}
		records[recordIdx].Lessons = kept
	}
	student.SetEnrollment(records)

	if err := s.sync.SaveStudentAndCourses(ctx, &student, &course); err != nil {
		return dto.CourseResponse{}, fmt.Errorf("failed to save removal: %w", err)
	}

	s.logger.Info().
		Str("student", studentID).
		Str("course", courseName).
		Int("lesson", lessonID).
		Msg("student removed from lesson")
	s.afterMutation(ctx, ScheduleEvent{
		Type:       EventRosterChanged,
		Category:   category,
		Round:      round,
		CourseName: courseName,
		LessonID:   lessonID,
		StudentID:  studentID,
	})

	return dto.NewCourseResponse(course), nil
}

func (s *enrollmentService) afterMutation(ctx context.Context, event ScheduleEvent) {
	if s.events != nil {
		s.events.Publish(ctx, event)
	}
	if s.timetable != nil {
		s.timetable.Invalidate(ctx, event.Category, event.Round)
	}
}
