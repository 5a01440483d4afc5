package dto

import (
	"time"

	"github.com/siuroma-kids/admin-api/internal/models"
	"github.com/siuroma-kids/admin-api/internal/schedule"
)

// CourseCreateRequest captures the fields required to open a new course.
// Round accepts either a bare number ("1", "001") or the full bucket label
// ("round_001").
type CourseCreateRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=64"`
	TimeSlot  string `json:"time_slot" validate:"required,min=1,max=64"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	Round     string `json:"round" validate:"required,min=1,max=32"`
}

// ShiftDatesRequest moves every lesson from the given sequence number onward
// by one week in the requested direction.
type ShiftDatesRequest struct {
	StartLessonID int `json:"start_lesson_id" validate:"required,min=1,max=12"`
	Direction     int `json:"direction" validate:"required,oneof=-1 1"`
}

// PlacementRequest adds a single student to one lesson occurrence.
type PlacementRequest struct {
	StudentID string `json:"student_id" validate:"required,min=1,max=32"`
}

// LessonResponse serializes one lesson occurrence with its roster.
type LessonResponse struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	DateStr     string   `json:"date"`
	DisplayDate string   `json:"display_date"`
	Completed   bool     `json:"completed"`
	Students    []string `json:"students"`
	Count       int      `json:"count"`
	Full        bool     `json:"full"`
}

// CourseResponse serializes a course with its twelve lessons.
type CourseResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	Round     string           `json:"round"`
	TimeSlot  string           `json:"time_slot"`
	Lessons   []LessonResponse `json:"lessons"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewLessonResponse converts a lesson model into its response form.
func NewLessonResponse(lesson models.Lesson) LessonResponse {
	students := lesson.Students
	if students == nil {
		students = []string{}
	}

	return LessonResponse{
		ID:          lesson.ID,
		Name:        lesson.Name,
		DateStr:     lesson.DateStr,
		DisplayDate: schedule.FormatDisplay(lesson.DateStr),
		Completed:   lesson.Completed,
		Students:    students,
		Count:       len(students),
		Full:        len(students) >= schedule.MaxStudents,
	}
}

// NewCourseResponse converts a course model into its response form.
func NewCourseResponse(course models.Course) CourseResponse {
	lessons := course.LessonList()
	responses := make([]LessonResponse, 0, len(lessons))
	for _, lesson := range lessons {
		responses = append(responses, NewLessonResponse(lesson))
	}

	return CourseResponse{
		ID:        course.ID,
		Name:      course.Name,
		Category:  course.Category,
		Round:     course.Round,
		TimeSlot:  course.TimeSlot,
		Lessons:   responses,
		CreatedAt: course.CreatedAt,
		UpdatedAt: course.UpdatedAt,
	}
}

// NewCourseResponseSlice converts a slice of course models.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}
	return responses
}
