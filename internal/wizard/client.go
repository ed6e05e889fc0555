package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/forumdeeptech/inscriptions/internal/models"
)

// APIClient submits drafts to the registration endpoint.
type APIClient struct {
	BaseURL string
	Client  *http.Client
}

// NewAPIClient creates a client for the given server base URL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Submit POSTs the draft to /api/inscriptions and returns the persisted
// row. A non-success status is a hard failure carrying the server's
// details text when present.
func (c *APIClient) Submit(ctx context.Context, d Draft) (*models.Inscription, error) {
	body, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/inscriptions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if derr := json.NewDecoder(resp.Body).Decode(&errBody); derr == nil && errBody.Details != "" {
			return nil, errors.New(errBody.Details)
		}
		return nil, errors.New("Erreur sauvegarde")
	}

	var envelope struct {
		Success bool               `json:"success"`
		Data    models.Inscription `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// RelayClient posts a copy of the submission to a Formspree-style mail
// relay. It is the optional second call of the submission sequence.
type RelayClient struct {
	Endpoint string
	Client   *http.Client
}

// NewRelayClient creates a relay client for the given endpoint.
func NewRelayClient(endpoint string) *RelayClient {
	return &RelayClient{
		Endpoint: strings.TrimSpace(endpoint),
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type relayPayload struct {
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Poste     string `json:"poste,omitempty"`
	Startup   string `json:"startup,omitempty"`
	Pays      string `json:"pays,omitempty"`
	Adresse   string `json:"adresse,omitempty"`
	Ateliers  string `json:"ateliers"`
	Subject   string `json:"_subject"`
	ReplyTo   string `json:"_replyto"`
}

// Forward sends the draft to the relay endpoint with the workshops joined.
func (c *RelayClient) Forward(ctx context.Context, d Draft) error {
	payload := relayPayload{
		Nom:       d.Nom,
		Prenom:    d.Prenom,
		Email:     d.Email,
		Telephone: d.Telephone,
		Poste:     d.Poste,
		Startup:   d.Startup,
		Pays:      d.Pays,
		Adresse:   d.Adresse,
		Ateliers:  strings.Join(d.Ateliers, ", "),
		Subject:   "🎉 Nouvelle inscription - Ateliers Startups",
		ReplyTo:   d.Email,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mail relay status %d", resp.StatusCode)
	}
	return nil
}
