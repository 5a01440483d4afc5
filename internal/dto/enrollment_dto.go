package dto

// EnrollmentCreateRequest enrolls a student into every lesson of one
// course+round. The student record is created on first enrollment; an
// existing student's profile is refreshed from PersonalInfo.
type EnrollmentCreateRequest struct {
	StudentID    string       `json:"student_id" validate:"required,min=1,max=32"`
	PersonalInfo PersonalInfo `json:"personal_info" validate:"required"`
	CourseName   string       `json:"course_name" validate:"required,min=1,max=64"`
	Round        string       `json:"round" validate:"required,min=1,max=32"`
}

// RescheduleOption is one candidate session for moving a lesson occurrence.
// The option list always includes the student's current course.
type RescheduleOption struct {
	CourseName  string `json:"course_name"`
	Round       string `json:"round"`
	LessonID    int    `json:"lesson_id"`
	Name        string `json:"name"`
	DateStr     string `json:"date"`
	DisplayDate string `json:"display_date"`
	TimeSlot    string `json:"time_slot"`
	Label       string `json:"label"`
}

// RescheduleRequest moves one lesson occurrence of an existing enrollment to
// a target course offering the same lesson sequence number.
type RescheduleRequest struct {
	CourseName   string `json:"course_name" validate:"required,min=1,max=64"`
	Round        string `json:"round" validate:"required,min=1,max=32"`
	LessonID     int    `json:"lesson_id" validate:"required,min=1,max=12"`
	TargetCourse string `json:"target_course" validate:"required,min=1,max=64"`
	TargetRound  string `json:"target_round" validate:"required,min=1,max=32"`
}
