package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/siuroma-kids/admin-api/internal/dto"
	"github.com/siuroma-kids/admin-api/internal/handler"
)

type mockTimetableService struct {
	getFn func(ctx context.Context, category, round string) (dto.TimetableResponse, error)
}

func (m *mockTimetableService) GetTimetable(ctx context.Context, category, round string) (dto.TimetableResponse, error) {
	return m.getFn(ctx, category, round)
}

func (m *mockTimetableService) Invalidate(context.Context, string, string) {}

type mockReconcileService struct {
	report dto.ReconcileReport
	err    error
}

func (m *mockReconcileService) Run(context.Context) (dto.ReconcileReport, error) {
	return m.report, m.err
}

func TestTimetableHandler_Get(t *testing.T) {
	timetable := &mockTimetableService{
		getFn: func(_ context.Context, category, round string) (dto.TimetableResponse, error) {
			require.Equal(t, "SPEC", category)
			require.Equal(t, "round_001", round)
			return dto.TimetableResponse{Category: category, Round: round}, nil
		},
	}
	app := fiber.New()
	handler.NewTimetableHandler(timetable, testLogger()).Register(app.Group("/api/admin/timetable"))

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/admin/timetable?category=SPEC&round=round_001", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var data dto.TimetableResponse
	decodeResponse(t, resp, &data)
	require.Equal(t, "SPEC", data.Category)
}

func TestTimetableHandler_RequiresBucket(t *testing.T) {
	app := fiber.New()
	handler.NewTimetableHandler(&mockTimetableService{}, testLogger()).Register(app.Group("/api/admin/timetable"))

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/admin/timetable?category=SPEC", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReconcileHandler_Run(t *testing.T) {
	reconcile := &mockReconcileService{
		report: dto.ReconcileReport{
			CheckedCourses:  2,
			CheckedStudents: 5,
			Issues:          []dto.ReconcileIssue{{Type: "date_drift", StudentID: "ST001"}},
		},
	}
	app := fiber.New()
	handler.NewReconcileHandler(reconcile, testLogger()).Register(app.Group("/api/admin/reconcile"))

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/reconcile", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var data dto.ReconcileReport
	decodeResponse(t, resp, &data)
	require.Equal(t, 2, data.CheckedCourses)
	require.Len(t, data.Issues, 1)
}
