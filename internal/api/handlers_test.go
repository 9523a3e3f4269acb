package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/notes-api/internal/api"
	"github.com/phrazzld/notes-api/internal/api/shared"
	"github.com/phrazzld/notes-api/internal/config"
	"github.com/phrazzld/notes-api/internal/platform/logger"
	"github.com/phrazzld/notes-api/internal/platform/memory"
	"github.com/phrazzld/notes-api/internal/service"
	"github.com/phrazzld/notes-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	tokens, err := auth.NewTokenService(config.AuthConfig{
		TokenSecret:          "api-test-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 60,
		BcryptCost:           bcrypt.MinCost,
	})
	require.NoError(t, err)

	svc := service.NewAccountService(
		memory.NewAccountStore(auth.NewBcryptHasher(bcrypt.MinCost), tokens, log),
		memory.NewDocumentStore(log),
		log,
		service.WithClock(func() time.Time { return testNow }),
	)
	return &testServer{t: t, handler: api.NewRouter(svc, log)}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(email, password, name string) api.UserResponse {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/register",
		`{"email":"`+email+`","password":"`+password+`","name":"`+name+`"}`)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp api.RegisterResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User
}

func (s *testServer) listNotes(uid string) []api.NoteResponse {
	s.t.Helper()
	rec := s.do(http.MethodGet, "/notes/"+uid, "")
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var notes []api.NoteResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &notes))
	return notes
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body shared.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Message
}

func TestRegisterEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/register", `{"email":"ada@example.com","password":"secret1","name":"Ada"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp api.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, api.MsgUserRegistered, resp.Message)
	assert.NotEmpty(t, resp.User.UID)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "Ada", resp.User.Name)

	assert.Empty(t, s.listNotes(resp.User.UID), "a new account has no notes")

	t.Run("duplicate email is a 500 with the backend message", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/register", `{"email":"ada@example.com","password":"secret2","name":"Other"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, message(t, rec), "email already in use")
	})
}

func TestRegisterEndpointMissingFields(t *testing.T) {
	bodies := map[string]string{
		"missing email":    `{"password":"secret1","name":"Ada"}`,
		"missing password": `{"email":"ada@example.com","name":"Ada"}`,
		"missing name":     `{"email":"ada@example.com","password":"secret1"}`,
		"empty strings":    `{"email":"","password":"","name":""}`,
		"empty body":       ``,
		"malformed json":   `{"email":`,
		"wrong types":      `{"email":"ada@example.com","password":123456,"name":"Ada"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(http.MethodPost, "/register", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, service.MsgRegisterFieldsRequired, message(t, rec))
		})
	}
}

func TestEditEndpoint(t *testing.T) {
	s := newTestServer(t)
	ada := s.register("ada@example.com", "secret1", "Ada")
	s.register("bob@example.com", "secret1", "Bob")

	rec := s.do(http.MethodPut, "/edit/"+ada.UID, `{"name":"Ada Lovelace"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.MsgUserUpdated, message(t, rec))

	rec = s.do(http.MethodPut, "/edit/"+ada.UID, `{"email":"bob@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, service.MsgEmailExistsInIdentity, message(t, rec))

	// Ada can still delete with the original email and password.
	rec = s.do(http.MethodDelete, "/delete/"+ada.UID, `{"password":"secret1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	t.Run("unknown uid is a 500", func(t *testing.T) {
		rec := s.do(http.MethodPut, "/edit/ghost", `{"name":"Ghost"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotEmpty(t, message(t, rec))
	})
}

func TestEditEndpointMistypedField(t *testing.T) {
	s := newTestServer(t)
	ada := s.register("ada@example.com", "secret1", "Ada")

	rec := s.do(http.MethodPut, "/edit/"+ada.UID, `{"email":"new@example.com","name":5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.MsgUserUpdated, message(t, rec))

	rec = s.do(http.MethodPost, "/register", `{"email":"new@example.com","password":"secret2","name":"Other"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "the well-typed email was applied")
	assert.Contains(t, message(t, rec), "email already in use")

	rec = s.do(http.MethodPost, "/register", `{"email":"ada@example.com","password":"secret2","name":"Other"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, "the old email is free again")

	t.Run("malformed json is a no-op", func(t *testing.T) {
		rec := s.do(http.MethodPut, "/edit/"+ada.UID, `{"email":`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestNotesEndpoints(t *testing.T) {
	s := newTestServer(t)
	ada := s.register("ada@example.com", "secret1", "Ada")

	rec := s.do(http.MethodPost, "/notes/save",
		`{"uid":"`+ada.UID+`","title":"Engine","content":"Notes","timestamp":"1999-01-01T00:00:00.000Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var saved api.SaveNoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, api.MsgNoteSaved, saved.Message)
	assert.NotEmpty(t, saved.ID)

	rec = s.do(http.MethodPost, "/notes/save", `{"uid":"`+ada.UID+`","title":"Second","content":"More"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	notes := s.listNotes(ada.UID)
	require.Len(t, notes, 2)
	titles := []string{notes[0].Title, notes[1].Title}
	assert.ElementsMatch(t, []string{"Engine", "Second"}, titles)
	for _, n := range notes {
		assert.Equal(t, ada.UID, n.UID)
		assert.Equal(t, "2025-06-01T08:30:00.000Z", n.Timestamp, "client timestamps are ignored")
	}

	t.Run("unknown owner", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/notes/save", `{"uid":"ghost","title":"t","content":"c"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, service.MsgUserNotFound, message(t, rec))
		assert.Empty(t, s.listNotes("ghost"))
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/notes/save", `{"uid":"`+ada.UID+`","title":"t"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, service.MsgNoteFieldsRequired, message(t, rec))
	})

	t.Run("list body is a json array when empty", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/notes/nobody", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestDeleteEndpoint(t *testing.T) {
	s := newTestServer(t)
	ada := s.register("ada@example.com", "secret1", "Ada")
	rec := s.do(http.MethodPost, "/notes/save", `{"uid":"`+ada.UID+`","title":"t","content":"c"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodDelete, "/delete/"+ada.UID, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgDeleteFieldsRequired, message(t, rec))

	rec = s.do(http.MethodDelete, "/delete/"+ada.UID, `{"password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.MsgCredentialMismatch, message(t, rec))
	assert.Len(t, s.listNotes(ada.UID), 1, "failed delete keeps notes")

	rec = s.do(http.MethodDelete, "/delete/"+ada.UID, `{"password":"secret1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.MsgUserDeleted, message(t, rec))
	assert.Empty(t, s.listNotes(ada.UID))

	rec = s.do(http.MethodDelete, "/delete/"+ada.UID, `{"password":"secret1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code, "delete is not idempotent")
	assert.Equal(t, service.MsgUserNotFound, message(t, rec))

	rec = s.do(http.MethodPost, "/notes/save", `{"uid":"`+ada.UID+`","title":"t","content":"c"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddlewareHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(shared.TraceIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/register", nil)
		req.Header.Set("Origin", "https://notes.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthCheckFailure(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	tokens, err := auth.NewTokenService(config.AuthConfig{
		TokenSecret:          "api-test-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	svc := service.NewAccountService(
		memory.NewAccountStore(auth.NewBcryptHasher(bcrypt.MinCost), tokens, log),
		memory.NewDocumentStore(log),
		log,
	)

	handler := api.NewRouter(svc, log, func(*http.Request) error {
		return errors.New("database is down")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "UNAVAILABLE"))
}
