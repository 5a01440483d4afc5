package dto

import (
	"time"

	"github.com/siuroma-kids/admin-api/internal/models"
	"github.com/siuroma-kids/admin-api/internal/schedule"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// PersonalInfo is the biographical and medical profile attached to a student.
type PersonalInfo struct {
	Name              string `json:"name" validate:"required,min=1,max=255"`
	ChineseName       string `json:"chinese_name" validate:"max=255"`
	Sex               string `json:"sex" validate:"omitempty,oneof=M F"`
	Level             string `json:"level" validate:"omitempty,oneof=K1 K2 K3"`
	PreferredLanguage string `json:"preferred_language" validate:"max=32"`
	Allergies         string `json:"allergies" validate:"max=255"`
	Condition         string `json:"condition" validate:"max=255"`
	ComfortMethod     string `json:"comfort_method" validate:"max=255"`
	ParentName        string `json:"parent_name" validate:"max=255"`
	ParentContact     string `json:"parent_contact" validate:"max=255"`
	FavCharacter      string `json:"fav_character" validate:"max=255"`
}

// StudentListRequest defines filters for listing students.
type StudentListRequest struct {
	Page     int
	PageSize int
	Search   string
	Level    string
}

// LessonCopyResponse serializes one denormalized lesson entry from a
// student's enrollment record.
type LessonCopyResponse struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	DateStr        string `json:"date"`
	DisplayDate    string `json:"display_date"`
	TimeSlot       string `json:"time_slot"`
	CourseName     string `json:"course_name"`
	Completed      bool   `json:"completed"`
	ActualCourseID string `json:"actual_course_id,omitempty"`
}

// EnrollmentResponse serializes one course+round membership.
type EnrollmentResponse struct {
	CourseName string               `json:"course_name"`
	Round      string               `json:"round"`
	Lessons    []LessonCopyResponse `json:"lessons"`
}

// StudentResponse serializes a student with profile and enrollment history.
type StudentResponse struct {
	ID           string               `json:"id"`
	PersonalInfo PersonalInfo         `json:"personal_info"`
	Enrollment   []EnrollmentResponse `json:"enrollment"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// StudentListResponse wraps a paginated student listing.
type StudentListResponse struct {
	Items      []StudentResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// StudentUpdateRequest captures partial personal-info updates.
type StudentUpdateRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=255"`
	ChineseName       *string `json:"chinese_name" validate:"omitempty,max=255"`
	Sex               *string `json:"sex" validate:"omitempty,oneof=M F"`
	Level             *string `json:"level" validate:"omitempty,oneof=K1 K2 K3"`
	PreferredLanguage *string `json:"preferred_language" validate:"omitempty,max=32"`
	Allergies         *string `json:"allergies" validate:"omitempty,max=255"`
	Condition         *string `json:"condition" validate:"omitempty,max=255"`
	ComfortMethod     *string `json:"comfort_method" validate:"omitempty,max=255"`
	ParentName        *string `json:"parent_name" validate:"omitempty,max=255"`
	ParentContact     *string `json:"parent_contact" validate:"omitempty,max=255"`
	FavCharacter      *string `json:"fav_character" validate:"omitempty,max=255"`
}

// NewPersonalInfo extracts the profile fields from a student model.
func NewPersonalInfo(student models.Student) PersonalInfo {
	return PersonalInfo{
		Name:              student.Name,
		ChineseName:       student.ChineseName,
		Sex:               student.Sex,
		Level:             student.Level,
		PreferredLanguage: student.PreferredLanguage,
		Allergies:         student.Allergies,
		Condition:         student.Condition,
		ComfortMethod:     student.ComfortMethod,
		ParentName:        student.ParentName,
		ParentContact:     student.ParentContact,
		FavCharacter:      student.FavCharacter,
	}
}

// NewStudentResponse converts a student model into its response form.
func NewStudentResponse(student models.Student) StudentResponse {
	records := student.EnrollmentList()
	enrollment := make([]EnrollmentResponse, 0, len(records))
	for _, record := range records {
		lessons := make([]LessonCopyResponse, 0, len(record.Lessons))
		for _, copy := range record.Lessons {
			lessons = append(lessons, LessonCopyResponse{
				ID:             copy.ID,
				Name:           copy.Name,
				DateStr:        copy.DateStr,
				DisplayDate:    schedule.FormatDisplay(copy.DateStr),
				TimeSlot:       copy.TimeSlot,
				CourseName:     copy.CourseName,
				Completed:      copy.Completed,
				ActualCourseID: copy.ActualCourseID,
			})
		}
		enrollment = append(enrollment, EnrollmentResponse{
			CourseName: record.CourseName,
			Round:      record.Round,
			Lessons:    lessons,
		})
	}

	return StudentResponse{
		ID:           student.ID,
		PersonalInfo: NewPersonalInfo(student),
		Enrollment:   enrollment,
		CreatedAt:    student.CreatedAt,
		UpdatedAt:    student.UpdatedAt,
	}
}

// NewStudentResponseSlice converts a slice of student models.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
