package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"ferryops-backend/internal/services"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

// requestWithID builds a request carrying a chi {id} URL param, the way the
// router would hand it to the handler
func requestWithID(method, target, id string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type fakeBroadcaster struct {
	messages []interface{}
}

func (f *fakeBroadcaster) SendToUser(userID string, data interface{})      { f.messages = append(f.messages, data) }
func (f *fakeBroadcaster) BroadcastToRole(role string, data interface{})   { f.messages = append(f.messages, data) }
func (f *fakeBroadcaster) BroadcastAll(data interface{})                   { f.messages = append(f.messages, data) }

func tripRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "route_id", "vessel_id", "departure_time", "arrival_time", "status", "created_at", "updated_at",
	})
}

func TestUpdateTripStatusRejectsInvalidTransition(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM trips WHERE id =").
		WithArgs("trip1").
		WillReturnRows(tripRows().AddRow("trip1", "route1", "vessel1", int64(1700000000), nil, "scheduled", int64(1), int64(1)))

	body, _ := json.Marshal(map[string]string{"status": "completed"})
	req := requestWithID(http.MethodPost, "/api/trips/trip1/status", "trip1", body)
	rec := httptest.NewRecorder()

	UpdateTripStatus(db, nil)(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTripStatusAppliesTransitionAndBroadcasts(t *testing.T) {
	db, mock := newMockDB(t)
	hub := &fakeBroadcaster{}

	mock.ExpectQuery("SELECT \\* FROM trips WHERE id =").
		WithArgs("trip1").
		WillReturnRows(tripRows().AddRow("trip1", "route1", "vessel1", int64(1700000000), nil, "scheduled", int64(1), int64(1)))
	mock.ExpectExec("UPDATE trips SET status =").
		WithArgs("boarding", sqlmock.AnyArg(), "trip1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	body, _ := json.Marshal(map[string]string{"status": "boarding"})
	req := requestWithID(http.MethodPost, "/api/trips/trip1/status", "trip1", body)
	rec := httptest.NewRecorder()

	UpdateTripStatus(db, hub)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(hub.messages) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(hub.messages))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveRouteFaresReportsEveryViolationWithoutWriting(t *testing.T) {
	db, mock := newMockDB(t)

	stopRows := sqlmock.NewRows([]string{
		"id", "route_id", "island_id", "sequence", "stop_type", "travel_time_from_previous", "created_at",
	}).
		AddRow("stop-a", "route1", "isl-a", 1, "dropoff", nil, int64(1)).
		AddRow("stop-b", "route1", "isl-b", 2, "both", 30, int64(1)).
		AddRow("stop-c", "route1", "isl-c", 3, "pickup", 45, int64(1))

	mock.ExpectQuery("SELECT \\* FROM route_stops").
		WithArgs("route1").
		WillReturnRows(stopRows)

	// A dropoff-only first stop and a pickup-only last stop are both
	// reported in one response; nothing reaches the database
	body, _ := json.Marshal(map[string]interface{}{"fares": []interface{}{}})
	req := requestWithID(http.MethodPut, "/api/routes/route1/fares", "route1", body)
	rec := httptest.NewRecorder()

	SaveRouteFares(db)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}

	var result services.ValidationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Valid {
		t.Fatal("expected an invalid result")
	}
	if len(result.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %+v", len(result.Violations), result.Violations)
	}
	for _, v := range result.Violations {
		if v.Code != services.ViolationInvalidStopType {
			t.Fatalf("unexpected violation code %q", v.Code)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
