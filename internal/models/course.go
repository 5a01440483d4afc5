package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Lesson is one of the twelve occurrences inside a course. The sequence
// number is stable for the life of the course and acts as the cross-course
// join key for conflict checks and rescheduling.
type Lesson struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	DateStr   string   `json:"dateStr"`
	Completed bool     `json:"completed"`
	Students  []string `json:"students"`
}

// HasStudent reports whether the given student id is on this lesson's roster.
func (l Lesson) HasStudent(studentID string) bool {
	for _, id := range l.Students {
		if id == studentID {
			return true
		}
	}
	return false
}

// Course is a 12-lesson offering grouped under a (category, round) bucket.
// The name doubles as its human-assigned identifier within that bucket.
type Course struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:64;not null;uniqueIndex:idx_courses_bucket" json:"name"`
	Category  string         `gorm:"size:16;not null;uniqueIndex:idx_courses_bucket" json:"category"`
	Round     string         `gorm:"size:32;not null;uniqueIndex:idx_courses_bucket" json:"round"`
	TimeSlot  string         `gorm:"size:64" json:"time_slot"`
	Lessons   datatypes.JSON `gorm:"type:json" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SetLessons serializes the lesson slice into the JSON storage column.
func (c *Course) SetLessons(lessons []Lesson) {
	data, err := json.Marshal(lessons)
	if err != nil {
		c.Lessons = datatypes.JSON([]byte("[]"))
		return
	}
	c.Lessons = datatypes.JSON(data)
}

// LessonList deserializes the stored lessons into a Go slice.
func (c Course) LessonList() []Lesson {
	if len(c.Lessons) == 0 {
		return nil
	}

	var lessons []Lesson
	if err := json.Unmarshal(c.Lessons, &lessons); err != nil {
		return nil
	}

	return lessons
}

// Lesson looks up a lesson by sequence number.
func (c Course) Lesson(id int) (Lesson, bool) {
	for _, lesson := range c.LessonList() {
		if lesson.ID == id {
			return lesson, true
		}
	}
	return Lesson{}, false
}
