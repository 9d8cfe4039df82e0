package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusforge/gradplan/internal/catalogload"
	"github.com/campusforge/gradplan/internal/httpapi"
	"github.com/campusforge/gradplan/pkg/cache"
	"github.com/campusforge/gradplan/pkg/config"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	reg, err := catalogload.NewRegistry(context.Background(), nil, []string{"computer-science"})
	require.NoError(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)

	solveCache, err := cache.New(cfg.Redis, cfg.Solver.PlannerTimeLimit)
	require.NoError(t, err)

	metrics := httpapi.NewMetrics(prometheus.NewRegistry())
	return httpapi.NewRouter(reg, zap.NewNop(), cfg, metrics, solveCache)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestPlannerGenerateUnknownCatalogMiss(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/planner-generate", map[string]any{
		"course_map": "nonexistent-program",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlannerGenerateHappyPath(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/planner-generate", map[string]any{
		"course_map": "computer-science",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data httpapi.PlannerGenerateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Contains(t, []string{"FEASIBLE", "INFEASIBLE"}, envelope.Data.Status)
}

func TestGraduationVerificationRepeatedCourse(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/graduation-verification", map[string]any{
		"course_map": "computer-science",
		"taken_in": []map[string]any{
			{"code": "csci3070u", "semester": 5},
			{"code": "csci3070u", "semester": 6},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data httpapi.GraduationVerificationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Violations)
	assert.Equal(t, "Course Repeated", envelope.Data.Violations[0].Category)
}

func TestTimeTableNoOverlap(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/time-table", map[string]any{
		"sections": []map[string]any{
			{
				"crn": "10001", "course_code": "csci1030u", "subject": "csci", "type": "Lecture",
				"meeting_times": []map[string]any{{"begin_minute": 900, "end_minute": 1000, "weekdays": []int{1}}},
			},
			{
				"crn": "10002", "course_code": "csci1060u", "subject": "csci", "type": "Lecture",
				"meeting_times": []map[string]any{{"begin_minute": 930, "end_minute": 1030, "weekdays": []int{1}}},
			},
		},
		"filter_constraints": []map[string]any{
			{"name": "csci", "subjects": []string{"csci"}},
		},
		"optimization_target": "CoursesTaken",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data httpapi.TimeTableResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	if envelope.Data.Schedule != nil {
		assert.LessOrEqual(t, len(envelope.Data.Schedule.Sections), 1, "overlapping 0900 and 0930 lectures cannot both be taken")
	}
}
