package wizard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIClient_Submit(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/inscriptions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"6b1e0a1e-0000-4000-8000-000000000000","nom":"Dupont","prenom":"Marie","email":"marie@x.com","telephone":"0600000000","poste":"CEO","startup":"Acme","ateliers":"Go to market","created_at":"2026-01-10T09:00:00Z"}}`))
	}))
	t.Cleanup(srv.Close)

	ins, err := NewAPIClient(srv.URL).Submit(context.Background(), validDraft())
	require.NoError(t, err)
	require.Equal(t, "Dupont", ins.LastName)
	require.Equal(t, "Go to market", ins.Workshops)
	require.False(t, ins.CreatedAt.IsZero())

	// The draft travels with ateliers still as an array; the server joins.
	require.Equal(t, []interface{}{"Go to market"}, gotBody["ateliers"])
	require.Equal(t, "Dupont", gotBody["nom"])
}

func TestAPIClient_SubmitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Erreur lors de la sauvegarde","details":"duplicate key"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewAPIClient(srv.URL).Submit(context.Background(), validDraft())
	require.Error(t, err)
	require.Equal(t, "duplicate key", err.Error())
}

func TestAPIClient_SubmitServerErrorWithoutDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := NewAPIClient(srv.URL).Submit(context.Background(), validDraft())
	require.Error(t, err)
	require.Equal(t, "Erreur sauvegarde", err.Error())
}

func TestRelayClient_Forward(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	d := validDraft()
	d.Ateliers = []string{Workshops[0], Workshops[1]}
	require.NoError(t, NewRelayClient(srv.URL).Forward(context.Background(), d))

	// The relay receives the selection already joined, plus routing fields.
	require.Equal(t, Workshops[0]+", "+Workshops[1], gotBody["ateliers"])
	require.Equal(t, "🎉 Nouvelle inscription - Ateliers Startups", gotBody["_subject"])
	require.Equal(t, "marie@x.com", gotBody["_replyto"])
}

func TestRelayClient_ForwardNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	err := NewRelayClient(srv.URL).Forward(context.Background(), validDraft())
	require.Error(t, err)
}

func TestSubmit_EndToEndAgainstHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"nom":"Dupont","prenom":"Marie","email":"marie@x.com","telephone":"0600000000","poste":"CEO","startup":"Acme","ateliers":"Go to market","created_at":"2026-01-10T09:00:00Z"}}`))
	}))
	t.Cleanup(srv.Close)

	w := wizardAt(t, StepWorkshops, validDraft()).
		Submit(context.Background(), NewAPIClient(srv.URL), nil)

	require.Equal(t, StepConfirmation, w.Step)
	require.NotNil(t, w.Submitted)
	require.Equal(t, "Marie Dupont", w.Submitted.DisplayName())
}
