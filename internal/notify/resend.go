package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"
)

const defaultResendURL = "https://api.resend.com/emails"

// Resend sends the confirmation through the Resend REST API with an
// HTML body composed locally.
type Resend struct {
	APIKey string
	From   string // "Name <addr>"
	URL    string
	Client *http.Client
}

// NewResend creates a Resend sender.
func NewResend(apiKey, fromName, fromAddress string) *Resend {
	return &Resend{
		APIKey: apiKey,
		From:   fmt.Sprintf("%s <%s>", fromName, fromAddress),
		URL:    defaultResendURL,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type resendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
}

// Send posts the confirmation to the Resend API.
func (s *Resend) Send(ctx context.Context, conf Confirmation) error {
	payload := resendRequest{
		From:    s.From,
		To:      conf.To,
		Subject: Subject,
		HTML: fmt.Sprintf(
			"<p>Bonjour %s,</p><p>Votre inscription aux ateliers suivants est confirmée : <strong>%s</strong>.</p><p>À bientôt !</p>",
			html.EscapeString(conf.Name), html.EscapeString(conf.Workshops),
		),
		Text: fmt.Sprintf("Bonjour %s, votre inscription aux ateliers suivants est confirmée : %s.", conf.Name, conf.Workshops),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Provider: "resend", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return &Error{Provider: "resend", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return &Error{Provider: "resend", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{
			Provider: "resend",
			Detail:   fmt.Sprintf("status %d: %s", resp.StatusCode, bytes.TrimSpace(detail)),
		}
	}
	return nil
}
