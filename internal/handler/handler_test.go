package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/siuroma-kids/admin-api/internal/dto"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeResponse(t *testing.T, resp *http.Response, out interface{}) apiEnvelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var envelope apiEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	if out != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}

	return envelope
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")

	return req
}

type mockCourseService struct {
	listFn   func(ctx context.Context, category, round string) ([]dto.CourseResponse, error)
	getFn    func(ctx context.Context, category, round, name string) (dto.CourseResponse, error)
	createFn func(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	deleteFn func(ctx context.Context, category, round, name string) error
	toggleFn func(ctx context.Context, category, round, name string, lessonID int) (dto.CourseResponse, error)
	shiftFn  func(ctx context.Context, category, round, name string, payload dto.ShiftDatesRequest) (dto.CourseResponse, error)
}

func (m *mockCourseService) List(ctx context.Context, category, round string) ([]dto.CourseResponse, error) {
	return m.listFn(ctx, category, round)
}

func (m *mockCourseService) Get(ctx context.Context, category, round, name string) (dto.CourseResponse, error) {
	return m.getFn(ctx, category, round, name)
}

func (m *mockCourseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	return m.createFn(ctx, payload)
}

func (m *mockCourseService) Delete(ctx context.Context, category, round, name string) error {
	return m.deleteFn(ctx, category, round, name)
}

func (m *mockCourseService) ToggleCompletion(ctx context.Context, category, round, name string, lessonID int) (dto.CourseResponse, error) {
	return m.toggleFn(ctx, category, round, name, lessonID)
}

func (m *mockCourseService) ShiftDates(ctx context.Context, category, round, name string, payload dto.ShiftDatesRequest) (dto.CourseResponse, error) {
	return m.shiftFn(ctx, category, round, name, payload)
}

type mockEnrollmentService struct {
	enrollFn func(ctx context.Context, payload dto.EnrollmentCreateRequest) (dto.StudentResponse, error)
	addFn    func(ctx context.Context, category, round, courseName string, lessonID int, studentID string) (dto.CourseResponse, error)
	removeFn func(ctx context.Context, category, round, courseName string, lessonID int, studentID string) (dto.CourseResponse, error)
}

func (m *mockEnrollmentService) Enroll(ctx context.Context, payload dto.EnrollmentCreateRequest) (dto.StudentResponse, error) {
	return m.enrollFn(ctx, payload)
}

func (m *mockEnrollmentService) AddStudentToLesson(ctx context.Context, category, round, courseName string, lessonID int, studentID string) (dto.CourseResponse, error) {
	return m.addFn(ctx, category, round, courseName, lessonID, studentID)
}

func (m *mockEnrollmentService) RemoveStudentFromLesson(ctx context.Context, category, round, courseName string, lessonID int, studentID string) (dto.CourseResponse, error) {
	return m.removeFn(ctx, category, round, courseName, lessonID, studentID)
}

type mockStudentService struct {
	listFn   func(ctx context.Context, payload dto.StudentListRequest) (dto.StudentListResponse, error)
	getFn    func(ctx context.Context, id string) (dto.StudentResponse, error)
	updateFn func(ctx context.Context, id string, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
}

func (m *mockStudentService) List(ctx context.Context, payload dto.StudentListRequest) (dto.StudentListResponse, error) {
	return m.listFn(ctx, payload)
}

func (m *mockStudentService) Get(ctx context.Context, id string) (dto.StudentResponse, error) {
	return m.getFn(ctx, id)
}

func (m *mockStudentService) Update(ctx context.Context, id string, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	return m.updateFn(ctx, id, payload)
}

type mockRescheduleService struct {
	optionsFn func(ctx context.Context, lessonID int) ([]dto.RescheduleOption, error)
	confirmFn func(ctx context.Context, studentID string, payload dto.RescheduleRequest) (dto.StudentResponse, error)
}

func (m *mockRescheduleService) Options(ctx context.Context, lessonID int) ([]dto.RescheduleOption, error) {
	return m.optionsFn(ctx, lessonID)
}

func (m *mockRescheduleService) Confirm(ctx context.Context, studentID string, payload dto.RescheduleRequest) (dto.StudentResponse, error) {
	return m.confirmFn(ctx, studentID, payload)
}
