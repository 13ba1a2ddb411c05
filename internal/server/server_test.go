package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farellandr/civic-events/internal/lib/jwt"
	"github.com/farellandr/civic-events/internal/lib/logger/slogdiscard"
	"github.com/farellandr/civic-events/internal/metrics"
	"github.com/farellandr/civic-events/internal/models"
	"github.com/farellandr/civic-events/internal/storage/storagetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	secret string
}

type envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := storagetest.Open(t)
	secret := gofakeit.LetterN(32)

	return &testAPI{
		t:      t,
		router: NewRouter(slogdiscard.NewDiscardLogger(), db, metrics.New(), secret),
		db:     db,
		secret: secret,
	}
}

func (a *testAPI) token(userID uuid.UUID, role string) string {
	a.t.Helper()

	tok, err := jwt.NewToken(userID, role, a.secret, time.Hour)
	require.NoError(a.t, err)
	return tok
}

func (a *testAPI) userToken() (uuid.UUID, string) {
	id := uuid.New()
	return id, a.token(id, models.RoleUser)
}

func (a *testAPI) adminToken() string {
	return a.token(uuid.New(), models.RoleAdmin)
}

func (a *testAPI) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") != "image/png" && rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (a *testAPI) createEvent(published bool) models.Event {
	a.t.Helper()

	rec, env := a.do(http.MethodPost, "/api/events", a.adminToken(), map[string]any{
		"title":     gofakeit.Sentence(4),
		"location":  gofakeit.City(),
		"published": published,
		"metadata":  map[string]any{"image_url": gofakeit.URL()},
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var event models.Event
	require.NoError(a.t, json.Unmarshal(env.Data, &event))
	return event
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestRegistrationFlow(t *testing.T) {
	api := newTestAPI(t)
	event := api.createEvent(true)
	_, token := api.userToken()
	body := map[string]any{"event_id": event.ID}
	statusPath := "/api/event-registrations/status/" + event.ID.String()

	rec, env := api.do(http.MethodGet, statusPath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "none", decode[map[string]string](t, env.Data)["status"])

	rec, env = api.do(http.MethodPost, "/api/event-registrations/cancel", token, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Conflict", env.Error)

	rec, env = api.do(http.MethodPost, "/api/event-registrations/register", token, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.StatusCreated, env.Status)
	assert.Equal(t, models.RegistrationRegistered, decode[models.Registration](t, env.Data).Status)

	rec, _ = api.do(http.MethodPost, "/api/event-registrations/register", token, body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = api.do(http.MethodPost, "/api/event-registrations/cancel", token, body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RegistrationCancelled, decode[models.Registration](t, env.Data).Status)

	rec, _ = api.do(http.MethodPost, "/api/event-registrations/register", token, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = api.do(http.MethodGet, statusPath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "registered", decode[map[string]string](t, env.Data)["status"])

	rec, env = api.do(http.MethodGet, "/api/event-registrations/my-registrations", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Registration](t, env.Data), 1)
}

func TestRegister_Validation(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.userToken()

	rec, _ := api.do(http.MethodPost, "/api/event-registrations/register", "", map[string]any{"event_id": uuid.New()})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := api.do(http.MethodPost, "/api/event-registrations/register", token, map[string]any{"event_id": "nope"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "event_id", env.Errors[0].Field)

	rec, _ = api.do(http.MethodPost, "/api/event-registrations/register", token, map[string]any{"event_id": uuid.New()})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	draft := api.createEvent(false)
	rec, _ = api.do(http.MethodPost, "/api/event-registrations/register", token, map[string]any{"event_id": draft.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegistrationPass(t *testing.T) {
	api := newTestAPI(t)
	event := api.createEvent(true)
	userID, token := api.userToken()
	passPath := "/api/event-registrations/pass/" + event.ID.String()

	rec, _ := api.do(http.MethodGet, passPath, token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = api.do(http.MethodPost, "/api/event-registrations/register", token, map[string]any{"event_id": event.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = api.do(http.MethodGet, passPath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec, _ = api.do(http.MethodPost, "/api/event-registrations/pass/verify", token, map[string]any{"pass_data": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do(http.MethodPost, "/api/event-registrations/pass/verify", api.adminToken(), map[string]any{"pass_data": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := api.do(http.MethodGet, "/api/event-registrations/event/"+event.ID.String(), api.adminToken(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	attendees := decode[[]models.Attendee](t, env.Data)
	require.Len(t, attendees, 1)
	assert.Equal(t, userID, attendees[0].UserID)
}

func TestFeedbackFlow(t *testing.T) {
	api := newTestAPI(t)
	event := api.createEvent(true)
	listPath := "/api/event-feedback/event/" + event.ID.String()

	rec, env := api.do(http.MethodGet, listPath+"/summary", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Aggregate{}, decode[models.Aggregate](t, env.Data))

	for _, rating := range []any{0, 6, 3.5, "abc", nil} {
		_, token := api.userToken()
		rec, env := api.do(http.MethodPost, "/api/event-feedback", token, map[string]any{
			"event_id": event.ID,
			"rating":   rating,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, "rating %v", rating)
		require.Len(t, env.Errors, 1)
		assert.Equal(t, "rating", env.Errors[0].Field)
	}

	for _, rating := range []int{4, 5, 3} {
		_, token := api.userToken()
		rec, _ := api.do(http.MethodPost, "/api/event-feedback", token, map[string]any{
			"event_id": event.ID,
			"rating":   rating,
			"comment":  gofakeit.Sentence(5),
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env = api.do(http.MethodGet, listPath, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Feedback []models.Feedback `json:"feedback"`
		Average  float64           `json:"average"`
		Count    int64             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Feedback, 3)
	assert.Equal(t, 4.0, data.Average)
	assert.EqualValues(t, 3, data.Count)

	rec, _ = api.do(http.MethodGet, "/api/event-feedback/event/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedbackReads_DraftEventVisibleToAdminOnly(t *testing.T) {
	api := newTestAPI(t)
	draft := api.createEvent(false)
	listPath := "/api/event-feedback/event/" + draft.ID.String()
	_, userToken := api.userToken()

	for _, path := range []string{listPath, listPath + "/summary"} {
		rec, _ := api.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "anonymous %s", path)

		rec, _ = api.do(http.MethodGet, path, userToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "user %s", path)

		rec, _ = api.do(http.MethodGet, path, api.adminToken(), nil)
		assert.Equal(t, http.StatusOK, rec.Code, "admin %s", path)
	}
}

func TestEvents_AdminOnlyWritesAndDrafts(t *testing.T) {
	api := newTestAPI(t)
	_, userToken := api.userToken()
	published := api.createEvent(true)
	draft := api.createEvent(false)

	rec, _ := api.do(http.MethodPost, "/api/events", userToken, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := api.do(http.MethodPost, "/api/events", api.adminToken(), map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "title", env.Errors[0].Field)

	rec, _ = api.do(http.MethodPost, "/api/events", api.adminToken(), map[string]any{
		"title":     "x",
		"starts_at": time.Now().Add(2 * time.Hour),
		"ends_at":   time.Now(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = api.do(http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[[]models.Event](t, env.Data)
	require.Len(t, events, 1)
	assert.Equal(t, published.ID, events[0].ID)
	assert.Equal(t, int64(1), decode[map[string]int64](t, env.Meta)["total"])

	rec, env = api.do(http.MethodGet, "/api/events", api.adminToken(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Event](t, env.Data), 2)

	rec, _ = api.do(http.MethodGet, "/api/events/"+draft.ID.String(), userToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = api.do(http.MethodPut, "/api/events/"+draft.ID.String(), api.adminToken(), map[string]any{
		"title":     "Renamed",
		"published": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Event](t, env.Data)
	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.Published)

	rec, _ = api.do(http.MethodGet, "/api/events/"+draft.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteEvent_RemovesRegistrationsAndFeedback(t *testing.T) {
	api := newTestAPI(t)
	event := api.createEvent(true)
	_, token := api.userToken()

	rec, _ := api.do(http.MethodPost, "/api/event-registrations/register", token, map[string]any{"event_id": event.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = api.do(http.MethodPost, "/api/event-feedback", token, map[string]any{"event_id": event.ID, "rating": 5})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = api.do(http.MethodDelete, "/api/events/"+event.ID.String(), api.adminToken(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var registrations, feedback int64
	require.NoError(t, api.db.Model(&models.Registration{}).Count(&registrations).Error)
	require.NoError(t, api.db.Model(&models.Feedback{}).Count(&feedback).Error)
	assert.Zero(t, registrations)
	assert.Zero(t, feedback)

	rec, _ = api.do(http.MethodDelete, "/api/events/"+event.ID.String(), api.adminToken(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotifications(t *testing.T) {
	api := newTestAPI(t)
	ownerID, ownerToken := api.userToken()
	_, otherToken := api.userToken()

	rec, _ := api.do(http.MethodPost, "/api/notifications", ownerToken, map[string]any{
		"user_id": ownerID, "title": "t", "message": "m",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := api.do(http.MethodPost, "/api/notifications", api.adminToken(), map[string]any{
		"user_id": ownerID,
		"title":   gofakeit.Sentence(3),
		"message": gofakeit.Sentence(8),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	notification := decode[models.Notification](t, env.Data)

	rec, env = api.do(http.MethodGet, "/api/notifications", otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Notification](t, env.Data))

	readPath := "/api/notifications/" + notification.ID.String() + "/read"
	rec, _ = api.do(http.MethodPatch, readPath, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = api.do(http.MethodPatch, readPath, ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.Notification](t, env.Data).Read)

	rec, _ = api.do(http.MethodPatch, "/api/notifications/"+uuid.NewString()+"/read", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnnouncementsAndPromos(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken()

	rec, env := api.do(http.MethodPost, "/api/announcements", admin, map[string]any{
		"title":     gofakeit.Sentence(3),
		"audio_url": "not a url",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "audio_url", env.Errors[0].Field)

	rec, env = api.do(http.MethodPost, "/api/announcements", admin, map[string]any{
		"title":     gofakeit.Sentence(3),
		"audio_url": gofakeit.URL(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	announcement := decode[models.Announcement](t, env.Data)
	assert.True(t, announcement.Published)

	rec, _ = api.do(http.MethodPost, "/api/promos", admin, map[string]any{
		"title":     gofakeit.Sentence(3),
		"published": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = api.do(http.MethodGet, "/api/promos", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Promo](t, env.Data))

	rec, env = api.do(http.MethodGet, "/api/promos", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Promo](t, env.Data), 1)

	rec, _ = api.do(http.MethodDelete, "/api/announcements/"+announcement.ID.String(), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = api.do(http.MethodGet, "/api/announcements/"+announcement.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "civic_events_http_requests_total")
}

func TestProfile(t *testing.T) {
	api := newTestAPI(t)
	user := storagetest.User(t, api.db, models.RoleUser)
	token := api.token(user.ID, user.Role)
	event := api.createEvent(true)

	rec, _ := api.do(http.MethodPost, "/api/event-registrations/register", token, map[string]any{"event_id": event.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := api.do(http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile struct {
		FullName            string `json:"full_name"`
		ActiveRegistrations int64  `json:"active_registrations"`
		FeedbackCount       int64  `json:"feedback_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, user.FullName, profile.FullName)
	assert.EqualValues(t, 1, profile.ActiveRegistrations)
	assert.Zero(t, profile.FeedbackCount)

	_, unknown := api.userToken()
	rec, _ = api.do(http.MethodGet, "/api/profile", unknown, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
