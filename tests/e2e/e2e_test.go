package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salas/internal/database"
	"salas/internal/domain"
	"salas/internal/middleware"
	"salas/internal/modules/rooms"
	"salas/internal/modules/schedule"
	jwtsvc "salas/internal/pkg/jwt"
	"salas/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service

	adminToken string
	userToken  string
	otherToken string
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	// a pooled second connection to :memory: would see an empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Room{}, &domain.Booking{}))

	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	roomService := rooms.NewService(roomRepo)
	roomHandler := rooms.NewHandler(roomService)

	scheduleService := schedule.NewService(bookingRepo, roomRepo, 4*time.Hour, 3*time.Second, nil)
	scheduleHandler := schedule.NewHandler(scheduleService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	protected := v1.Group("/")
	protected.Use(middleware.Identity(jwtService))

	adminGroup := protected.Group("/")
	adminGroup.Use(middleware.RequireRole(middleware.RoleAdmin))

	roomHandler.RegisterRoutes(protected, adminGroup)
	scheduleHandler.RegisterRoutes(protected)

	s := &E2ETestSuite{
		router:     r,
		db:         db,
		jwtService: jwtService,
	}
	s.adminToken = s.token(t, 1, middleware.RoleAdmin)
	s.userToken = s.token(t, 42, middleware.RoleUser)
	s.otherToken = s.token(t, 77, middleware.RoleUser)
	return s
}

func (s *E2ETestSuite) token(t *testing.T, userID int64, role string) string {
	tok, err := s.jwtService.GenerateToken(userID, role)
	require.NoError(t, err)
	return tok
}

func (s *E2ETestSuite) makeRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp),
		"unparseable response, status %d: %s", w.Code, w.Body.String())
	return &resp
}

// nextMonday returns the first Monday strictly after today, midnight UTC.
// Bookings built on top of it are always in the future.
func nextMonday() time.Time {
	now := time.Now().UTC()
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func (s *E2ETestSuite) createRoom(t *testing.T, name, status string) int64 {
	body := map[string]interface{}{
		"name":           name,
		"capacity":       12,
		"available_from": "08:00",
		"available_to":   "20:00",
		"days_of_week":   []int{1, 2, 3, 4, 5},
	}
	if status != "" {
		body["status"] = status
	}
	w := s.makeRequest(t, http.MethodPost, "/api/v1/rooms", body, s.adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := parseResponse(t, w)
	require.True(t, resp.Success)
	return int64(resp.Data["id"].(float64))
}

func bookingBody(roomID int64, title string, start, end time.Time) map[string]interface{} {
	return map[string]interface{}{
		"room_id":    roomID,
		"title":      title,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}
}

func TestBookingLifecycle(t *testing.T) {
	s := setupTestSuite(t)
	roomID := s.createRoom(t, "Sala 101", "")
	monday := nextMonday()

	// user books 09:00-10:00
	w := s.makeRequest(t, http.MethodPost, "/api/v1/bookings",
		bookingBody(roomID, "Weekly sync", monday.Add(9*time.Hour), monday.Add(10*time.Hour)), s.userToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := parseResponse(t, w)
	bookingID := int64(resp.Data["id"].(float64))
	assert.Equal(t, "pending", resp.Data["status"])

	// admin approves
	w = s.makeRequest(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/status", bookingID),
		map[string]string{"status": "approved"}, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "approved", parseResponse(t, w).Data["status"])

	// an overlapping request loses
	w = s.makeRequest(t, http.MethodPost, "/api/v1/bookings",
		bookingBody(roomID, "Overlap", monday.Add(9*time.Hour+30*time.Minute), monday.Add(10*time.Hour+30*time.Minute)), s.otherToken)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "SCHEDULE_CONFLICT", parseResponse(t, w).Error.Code)

	// back-to-back is not a conflict
	w = s.makeRequest(t, http.MethodPost, "/api/v1/bookings",
		bookingBody(roomID, "Next slot", monday.Add(10*time.Hour), monday.Add(11*time.Hour)), s.otherToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	secondID := int64(parseResponse(t, w).Data["id"].(float64))

	// moving a booking over its own slot excludes itself from the check
	w = s.makeRequest(t, http.MethodPut, fmt.Sprintf("/api/v1/bookings/%d", secondID),
		bookingBody(roomID, "Next slot", monday.Add(10*time.Hour+30*time.Minute), monday.Add(11*time.Hour+30*time.Minute)), s.otherToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// a stranger cannot cancel someone else's booking
	w = s.makeRequest(t, http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, s.otherToken)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// the owner can
	w = s.makeRequest(t, http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, s.userToken)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// and the freed slot is bookable again
	w = s.makeRequest(t, http.MethodPost, "/api/v1/bookings",
		bookingBody(roomID, "Reclaimed", monday.Add(9*time.Hour), monday.Add(10*time.Hour)), s.otherToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestMaintenanceRoomRejectsBookings(t *testing.T) {
	s := setupTestSuite(t)
	roomID := s.createRoom(t, "Sala 102", "maintenance")
	monday := nextMonday()

	w := s.makeRequest(t, http.MethodPost, "/api/v1/bookings",
		bookingBody(roomID, "Hopeful", monday.Add(9*time.Hour), monday.Add(10*time.Hour)), s.userToken)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "ROOM_UNAVAILABLE", parseResponse(t, w).Error.Code)
}

func TestBookingValidationErrors(t *testing.T) {
	s := setupTestSuite(t)
	roomID := s.createRoom(t, "Sala 103", "")
	monday := nextMonday()

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"past start", time.Now().UTC().Add(-24 * time.Hour), time.Now().UTC().Add(-23 * time.Hour)},
		{"inverted range", monday.Add(10 * time.Hour), monday.Add(9 * time.Hour)},
		{"too long", monday.Add(9 * time.Hour), monday.Add(14 * time.Hour)},
		{"outside window", monday.Add(6 * time.Hour), monday.Add(7 * time.Hour)},
		{"closed saturday", monday.Add(5*24*time.Hour + 9*time.Hour), monday.Add(5*24*time.Hour + 10*time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.makeRequest(t, http.MethodPost, "/api/v1/bookings",
				bookingBody(roomID, "Invalid", tc.start, tc.end), s.userToken)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, "VALIDATION_ERROR", parseResponse(t, w).Error.Code)
		})
	}
}

func TestRoomAvailabilityEndpoint(t *testing.T) {
	s := setupTestSuite(t)
	roomID := s.createRoom(t, "Sala 104", "")
	monday := nextMonday()

	w := s.makeRequest(t, http.MethodPost, "/api/v1/bookings",
		bookingBody(roomID, "Morning", monday.Add(9*time.Hour), monday.Add(10*time.Hour)), s.userToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	day := monday.Format("2006-01-02")
	w = s.makeRequest(t, http.MethodGet,
		fmt.Sprintf("/api/v1/rooms/%d/availability?from=%s&to=%s", roomID, day, day), nil, s.userToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := parseResponse(t, w)
	days := resp.Data["days"].([]interface{})
	require.Len(t, days, 1)

	dayInfo := days[0].(map[string]interface{})
	assert.Equal(t, true, dayInfo["open"])
	// the 09:00-10:00 booking splits the window in two
	assert.Len(t, dayInfo["free_slots"].([]interface{}), 2)
	assert.Len(t, dayInfo["busy_slots"].([]interface{}), 1)

	// the advisory pre-check agrees with the calendar
	check := func(start, end time.Time) bool {
		w := s.makeRequest(t, http.MethodGet,
			fmt.Sprintf("/api/v1/rooms/%d/availability/check?start=%s&end=%s",
				roomID, start.Format(time.RFC3339), end.Format(time.RFC3339)), nil, s.userToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return parseResponse(t, w).Data["available"].(bool)
	}
	assert.False(t, check(monday.Add(9*time.Hour+30*time.Minute), monday.Add(10*time.Hour+30*time.Minute)))
	assert.True(t, check(monday.Add(10*time.Hour), monday.Add(11*time.Hour)))
}

func TestRoomManagementRequiresAdmin(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest(t, http.MethodPost, "/api/v1/rooms", map[string]interface{}{
		"name": "Sala 105", "capacity": 5, "available_from": "08:00", "available_to": "20:00",
	}, s.userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// reads stay open to any authenticated user
	w = s.makeRequest(t, http.MethodGet, "/api/v1/rooms", nil, s.userToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestsRequireToken(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest(t, http.MethodGet, "/api/v1/bookings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.makeRequest(t, http.MethodGet, "/api/v1/bookings", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoomStatusTransitions(t *testing.T) {
	s := setupTestSuite(t)
	roomID := s.createRoom(t, "Sala 106", "")

	w := s.makeRequest(t, http.MethodPatch, fmt.Sprintf("/api/v1/rooms/%d/status", roomID),
		map[string]string{"status": "maintenance"}, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "maintenance", parseResponse(t, w).Data["status"])

	// no-op transition is refused
	w = s.makeRequest(t, http.MethodPatch, fmt.Sprintf("/api/v1/rooms/%d/status", roomID),
		map[string]string{"status": "maintenance"}, s.adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.makeRequest(t, http.MethodPatch, fmt.Sprintf("/api/v1/rooms/%d/status", roomID),
		map[string]string{"status": "available"}, s.adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoomDeleteCascadesBookings(t *testing.T) {
	s := setupTestSuite(t)
	roomID := s.createRoom(t, "Sala 107", "")
	monday := nextMonday()

	w := s.makeRequest(t, http.MethodPost, "/api/v1/bookings",
		bookingBody(roomID, "Doomed", monday.Add(9*time.Hour), monday.Add(10*time.Hour)), s.userToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bookingID := int64(parseResponse(t, w).Data["id"].(float64))

	w = s.makeRequest(t, http.MethodDelete, fmt.Sprintf("/api/v1/rooms/%d", roomID), nil, s.adminToken)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = s.makeRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, s.userToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
