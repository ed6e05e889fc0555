package inscriptions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/forumdeeptech/inscriptions/internal/models"
	"github.com/forumdeeptech/inscriptions/internal/notify"
)

type fakeStore struct {
	insertErr error
	inserted  []*models.Inscription
	rows      []models.Inscription
	listErr   error
}

func (f *fakeStore) Insert(_ context.Context, ins *models.Inscription) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	ins.ID = uuid.New()
	f.inserted = append(f.inserted, ins)
	return nil
}

func (f *fakeStore) List(_ context.Context) ([]models.Inscription, error) {
	return f.rows, f.listErr
}

type fakeSender struct {
	err   error
	calls []notify.Confirmation
}

func (f *fakeSender) Send(_ context.Context, conf notify.Confirmation) error {
	f.calls = append(f.calls, conf)
	return f.err
}

type fakeRecorder struct {
	logs []*models.EmailLog
	err  error
}

func (f *fakeRecorder) Record(_ context.Context, log *models.EmailLog) error {
	f.logs = append(f.logs, log)
	return f.err
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/inscriptions", h.Create)
	r.GET("/api/inscriptions", h.List)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/inscriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"nom":"Dupont","prenom":"Marie","email":"marie@x.com","telephone":"0600000000","poste":"CEO","startup":"Acme","ateliers":["Go to market"]}`

func TestCreate_Success(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	recorder := &fakeRecorder{}
	r := newTestRouter(NewHandler(store, sender, recorder, nil))

	rec := postJSON(t, r, validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool               `json:"success"`
		Data    models.Inscription `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.Equal(t, "Dupont", envelope.Data.LastName)
	require.Equal(t, "Marie", envelope.Data.FirstName)
	require.Equal(t, "Go to market", envelope.Data.Workshops)
	require.False(t, envelope.Data.CreatedAt.IsZero(), "created_at is stamped server-side")

	require.Len(t, store.inserted, 1)
	require.Equal(t, "Go to market", store.inserted[0].Workshops)

	require.Len(t, sender.calls, 1)
	require.Equal(t, "marie@x.com", sender.calls[0].To)
	require.Equal(t, "Marie Dupont", sender.calls[0].Name)
	require.Equal(t, "Go to market", sender.calls[0].Workshops)
}

func TestCreate_JoinsMultipleWorkshops(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(NewHandler(store, &fakeSender{}, nil, nil))

	body := `{"nom":"Dupont","prenom":"Marie","email":"marie@x.com","telephone":"0600000000","ateliers":["Réussir son appel à projet Européen","Go to market : vendre à ses premiers clients"]}`
	rec := postJSON(t, r, body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Réussir son appel à projet Européen, Go to market : vendre à ses premiers clients", store.inserted[0].Workshops)
}

func TestCreate_MalformedJSON(t *testing.T) {
	r := newTestRouter(NewHandler(&fakeStore{}, &fakeSender{}, nil, nil))

	rec := postJSON(t, r, `{"nom":`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var errBody struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	require.Equal(t, "Erreur serveur", errBody.Error)
	require.NotEmpty(t, errBody.Details)
}

func TestCreate_StorageFailure(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("duplicate key")}
	sender := &fakeSender{}
	r := newTestRouter(NewHandler(store, sender, nil, nil))

	rec := postJSON(t, r, validBody)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var errBody struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	require.Equal(t, "Erreur lors de la sauvegarde", errBody.Error)
	require.Equal(t, "duplicate key", errBody.Details)

	// Notification is never attempted when the insert fails.
	require.Empty(t, sender.calls)
}

func TestCreate_NotificationFailureStillSucceeds(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{err: &notify.Error{Provider: "emailjs", Detail: "status 403: blocked"}}
	recorder := &fakeRecorder{}
	r := newTestRouter(NewHandler(store, sender, recorder, nil))

	rec := postJSON(t, r, validBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"success":true`)

	require.Len(t, recorder.logs, 1)
	require.Equal(t, models.EmailLogStatusFailed, recorder.logs[0].Status)
	require.Contains(t, recorder.logs[0].ErrorMessage, "status 403: blocked")
	require.Nil(t, recorder.logs[0].SentAt)
}

func TestCreate_NotificationSuccessRecorded(t *testing.T) {
	recorder := &fakeRecorder{}
	r := newTestRouter(NewHandler(&fakeStore{}, &fakeSender{}, recorder, nil))

	rec := postJSON(t, r, validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, recorder.logs, 1)
	require.Equal(t, models.EmailLogStatusSent, recorder.logs[0].Status)
	require.NotNil(t, recorder.logs[0].SentAt)
	require.Equal(t, notify.Subject, recorder.logs[0].Subject)
}

func TestCreate_EmailLogFailureIgnored(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("log table missing")}
	r := newTestRouter(NewHandler(&fakeStore{}, &fakeSender{}, recorder, nil))

	rec := postJSON(t, r, validBody)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestList(t *testing.T) {
	store := &fakeStore{rows: []models.Inscription{
		{LastName: "Dupont", FirstName: "Marie", Workshops: "Go to market"},
	}}
	r := newTestRouter(NewHandler(store, &fakeSender{}, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/inscriptions", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"nom":"Dupont"`)
}

func TestList_StoreFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection refused")}
	r := newTestRouter(NewHandler(store, &fakeSender{}, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/inscriptions", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "connection refused")
}
