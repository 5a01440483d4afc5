package service

import "errors"

// Sentinel errors returned by the admin services. Handlers map these onto
// HTTP status codes; anything else surfaces as an internal error.
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseExists       = errors.New("course already exists in this round")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrTargetNotFound     = errors.New("target course not found")
	ErrUnknownCategory    = errors.New("course name does not match any configured category prefix")
	ErrInvalidRound       = errors.New("invalid round identifier")
	ErrCapacityExceeded   = errors.New("lesson is at full capacity")
	ErrAlreadyEnrolled    = errors.New("student is already in this lesson")
	ErrRoundEnrolled      = errors.New("student is already enrolled in this course and round")
	ErrSlotConflict       = errors.New("lesson slot conflict")
)
