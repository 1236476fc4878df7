package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gate-tutor-backend/internal/logger"
	"gate-tutor-backend/internal/models"
	"gate-tutor-backend/internal/repository"
	"gate-tutor-backend/internal/services"
)

func newScheduleHandler(store repository.StudyPlanStore) *ScheduleHandler {
	return NewScheduleHandler(services.NewStudyPlanService(store), logger.Nop())
}

func listSchedule(t *testing.T, h *ScheduleHandler) []map[string]interface{} {
	t.Helper()
	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/schedule", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var plans []map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&plans))
	return plans
}

func createSchedule(h *ScheduleHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/schedule", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Create(rr, req)
	return rr
}

func TestScheduleHandler_EmptyListIsArray(t *testing.T) {
	h := newScheduleHandler(repository.NewMemoryStudyPlanRepo())

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/schedule", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestScheduleHandler_CreateThenList(t *testing.T) {
	h := newScheduleHandler(repository.NewMemoryStudyPlanRepo())
	before := listSchedule(t, h)

	rr := createSchedule(h, `{"topic":"Pipelining hazards"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var ack models.MessageResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&ack))
	assert.Equal(t, "Schedule updated", ack.Message)

	after := listSchedule(t, h)
	require.Len(t, after, len(before)+1)

	created := after[len(after)-1]
	assert.Equal(t, "Pipelining hazards", created["topic"])
	assert.Equal(t, "Pending", created["status"])
	assert.NotEmpty(t, created["_id"])
	assert.NotEmpty(t, created["scheduledDate"])
}

func TestScheduleHandler_ScheduledDateRoundTrips(t *testing.T) {
	h := newScheduleHandler(repository.NewMemoryStudyPlanRepo())

	rr := createSchedule(h, `{"topic":"Linear algebra","status":"In progress","scheduledDate":"2025-03-14T09:26:53.589Z"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	plans := listSchedule(t, h)
	require.Len(t, plans, 1)
	assert.Equal(t, "2025-03-14T09:26:53.589Z", plans[0]["scheduledDate"])
	assert.Equal(t, "In progress", plans[0]["status"])
}

func TestScheduleHandler_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"not json", `topic=x`, ""},
		{"unknown field", `{"topic":"x","priority":1}`, ""},
		{"bad date", `{"topic":"x","scheduledDate":"tomorrow"}`, ""},
		{"topic wrong type", `{"topic":42}`, ""},
		{"missing topic", `{"status":"Pending"}`, "topic"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := repository.NewMemoryStudyPlanRepo()
			h := newScheduleHandler(store)

			rr := createSchedule(h, tc.body)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, "VALIDATION_ERROR", resp.Code)
			if tc.wantField != "" {
				assert.Contains(t, resp.Fields, tc.wantField)
			}

			plans, _ := store.ListAll(context.Background())
			assert.Empty(t, plans)
		})
	}
}

func TestScheduleHandler_StoreFailures(t *testing.T) {
	h := newScheduleHandler(&repository.UnavailableStudyPlanRepo{Err: errors.New("no reachable servers")})

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/schedule", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var listErr models.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&listErr))
	assert.Equal(t, "Failed to fetch schedule", listErr.Error)

	rr = createSchedule(h, `{"topic":"x"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var createErr models.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&createErr))
	assert.Equal(t, "Failed to save schedule", createErr.Error)
}
