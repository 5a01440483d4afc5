package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// LessonCopy is the denormalized view of one lesson a student attends,
// embedded inside an enrollment record. ActualCourseID is set only when the
// lesson has been rescheduled into a different course than the one the
// enrollment belongs to; empty means attending at the originally enrolled
// course.
type LessonCopy struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	DateStr        string `json:"dateStr"`
	TimeSlot       string `json:"timeSlot"`
	CourseName     string `json:"courseName"`
	Completed      bool   `json:"completed"`
	ActualCourseID string `json:"actualCourseId,omitempty"`
}

// EnrollmentRecord captures a student's membership in one course+round,
// holding per-lesson copies that the enrollment and reschedule services keep
// in sync with the course rosters.
type EnrollmentRecord struct {
	CourseName string       `json:"courseName"`
	Round      string       `json:"round"`
	Lessons    []LessonCopy `json:"lessons"`
}

// Student is a roster member identified by a human-assigned string code.
type Student struct {
	ID                string         `gorm:"primaryKey;size:32" json:"id"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	ChineseName       string         `gorm:"size:255" json:"chinese_name"`
	Sex               string         `gorm:"size:8" json:"sex"`
	Level             string         `gorm:"size:16" json:"level"`
	PreferredLanguage string         `gorm:"size:32" json:"preferred_language"`
	Allergies         string         `gorm:"size:255" json:"allergies"`
	Condition         string         `gorm:"size:255" json:"condition"`
	ComfortMethod     string         `gorm:"size:255" json:"comfort_method"`
	ParentName        string         `gorm:"size:255" json:"parent_name"`
	ParentContact     string         `gorm:"size:255" json:"parent_contact"`
	FavCharacter      string         `gorm:"size:255" json:"fav_character"`
	Enrollment        datatypes.JSON `gorm:"type:json" json:"-"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// SetEnrollment serializes the enrollment records into the JSON storage column.
func (s *Student) SetEnrollment(records []EnrollmentRecord) {
	data, err := json.Marshal(records)
	if err != nil {
		s.Enrollment = datatypes.JSON([]byte("[]"))
		return
	}
	s.Enrollment = datatypes.JSON(data)
}

// EnrollmentList deserializes the stored enrollment records.
func (s Student) EnrollmentList() []EnrollmentRecord {
	if len(s.Enrollment) == 0 {
		return nil
	}

	var records []EnrollmentRecord
	if err := json.Unmarshal(s.Enrollment, &records); err != nil {
		return nil
	}

	return records
}

// EnrollmentIndex returns the position of the enrollment record matching the
// given course+round, or -1 when the student has not joined that offering.
func (s Student) EnrollmentIndex(courseName, round string) int {
	for idx, record := range s.EnrollmentList() {
		if record.CourseName == courseName && record.Round == round {
			return idx
		}
	}
	return -1
}
