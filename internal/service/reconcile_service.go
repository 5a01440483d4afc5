package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/siuroma-kids/admin-api/internal/dto"
	"github.com/siuroma-kids/admin-api/internal/models"
	"github.com/siuroma-kids/admin-api/internal/repository"
)

// Divergence types reported by a reconciliation pass.
const (
	IssueUnknownStudent     = "unknown_student"
	IssueMissingStudentCopy = "missing_student_copy"
	IssueMissingRosterEntry = "missing_roster_entry"
	IssueOrphanedCopy       = "orphaned_copy"
	IssueDateDrift          = "date_drift"
)

// ReconcileService cross-checks course rosters against student enrollment
// copies. Roster truth lives in two places; this pass reports every spot
// where the two disagree without mutating either side.
type ReconcileService interface {
	Run(ctx context.Context) (dto.ReconcileReport, error)
}

type reconcileService struct {
	courses  repository.CourseRepository
	students repository.StudentRepository
	logger   zerolog.Logger
}

// NewReconcileService constructs the reconcile service.
func NewReconcileService(courses repository.CourseRepository, students repository.StudentRepository, logger zerolog.Logger) ReconcileService {
	return &reconcileService{
		courses:  courses,
		students: students,
		logger:   logger.With().Str("component", "reconcile_service").Logger(),
	}
}

func (s *reconcileService) Run(ctx context.Context) (dto.ReconcileReport, error) {
	courses, err := s.courses.List(ctx, repository.CourseFilter{})
	if err != nil {
		return dto.ReconcileReport{}, fmt.Errorf("failed to list courses: %w", err)
	}

	students, _, err := s.students.List(ctx, repository.StudentFilter{})
	if err != nil {
		return dto.ReconcileReport{}, fmt.Errorf("failed to list students: %w", err)
	}

	studentsByID := make(map[string]models.Student, len(students))
	for _, student := range students {
		studentsByID[student.ID] = student
	}

	report := dto.ReconcileReport{
		CheckedCourses:  len(courses),
		CheckedStudents: len(students),
		Issues:          []dto.ReconcileIssue{},
	}

	for _, course := range courses {
		for _, lesson := range course.LessonList() {
			for _, studentID := range lesson.Students {
				student, ok := studentsByID[studentID]
				if !ok {
					report.Issues = append(report.Issues, dto.ReconcileIssue{
						Type:       IssueUnknownStudent,
						StudentID:  studentID,
						CourseName: course.Name,
						Round:      course.Round,
						LessonID:   lesson.ID,
						Detail:     "roster references a student record that does not exist",
					})
					continue
				}

				copy, ok := findLessonCopy(student, course, lesson.ID)
				if !ok {
					report.Issues = append(report.Issues, dto.ReconcileIssue{
						Type:       IssueMissingStudentCopy,
						StudentID:  studentID,
						CourseName: course.Name,
						Round:      course.Round,
						LessonID:   lesson.ID,
						Detail:     "student holds no enrollment copy for this roster entry",
					})
					continue
				}

				if copy.DateStr != lesson.DateStr {
					report.Issues = append(report.Issues, dto.ReconcileIssue{
						Type:       IssueDateDrift,
						StudentID:  studentID,
						CourseName: course.Name,
						Round:      course.Round,
						LessonID:   lesson.ID,
						Detail:     fmt.Sprintf("copy date %s differs from course date %s", copy.DateStr, lesson.DateStr),
					})
				}
			}
		}
	}

	for _, student := range students {
		for _, record := range student.EnrollmentList() {
			for _, copy := range record.Lessons {
				attending := record.CourseName
				if copy.ActualCourseID != "" {
					attending = copy.ActualCourseID
				}

				course, ok := findCourse(courses, attending, record.Round)
				if !ok {
					report.Issues = append(report.Issues, dto.ReconcileIssue{
						Type:       IssueOrphanedCopy,
						StudentID:  student.ID,
						CourseName: attending,
						Round:      record.Round,
						LessonID:   copy.ID,
						Detail:     "enrollment copy points at a course that does not exist",
					})
					continue
				}

				lesson, ok := course.Lesson(copy.ID)
				if !ok || !lesson.HasStudent(student.ID) {
					report.Issues = append(report.Issues, dto.ReconcileIssue{
						Type:       IssueMissingRosterEntry,
						StudentID:  student.ID,
						CourseName: course.Name,
						Round:      course.Round,
						LessonID:   copy.ID,
						Detail:     "enrollment copy has no matching roster entry",
					})
				}
			}
		}
	}

	s.logger.Info().
		Int("courses", report.CheckedCourses).
		Int("students", report.CheckedStudents).
		Int("issues", len(report.Issues)).
		Msg("reconciliation pass completed")

	return report, nil
}

// findLessonCopy locates the enrollment copy backing one roster entry. A
// copy matches when its record belongs to the course and the lesson has not
// been moved away, or when any record's copy has been rescheduled into this
// course for the same sequence number.
func findLessonCopy(student models.Student, course models.Course, lessonID int) (models.LessonCopy, bool) {
	for _, record := range student.EnrollmentList() {
		for _, copy := range record.Lessons {
			if copy.ID != lessonID {
				continue
			}
			if copy.ActualCourseID == course.Name {
				return copy, true
			}
			if copy.ActualCourseID == "" && record.CourseName == course.Name && record.Round == course.Round {
				return copy, true
			}
		}
	}
	return models.LessonCopy{}, false
}

// findCourse resolves a course by name, preferring an exact round match. A
// rescheduled copy keeps only the target's name, so a name-only fallback
// covers moves across rounds.
func findCourse(courses []models.Course, name, round string) (models.Course, bool) {
	for _, course := range courses {
		if course.Name == name && course.Round == round {
			return course, true
		}
	}
	for _, course := range courses {
		if course.Name == name {
			return course, true
		}
	}
	return models.Course{}, false
}
