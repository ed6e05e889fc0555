package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultEmailJSURL = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJS sends the confirmation through the EmailJS REST API. The
// template referenced by TemplateID renders the actual email; we only
// supply template_params.
type EmailJS struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	Origin     string // EmailJS rejects requests without a whitelisted Origin
	URL        string
	Client     *http.Client
}

// NewEmailJS creates an EmailJS sender.
func NewEmailJS(serviceID, templateID, publicKey, origin string) *EmailJS {
	return &EmailJS{
		ServiceID:  serviceID,
		TemplateID: templateID,
		PublicKey:  publicKey,
		Origin:     origin,
		URL:        defaultEmailJSURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send posts the confirmation to the EmailJS API.
func (s *EmailJS) Send(ctx context.Context, conf Confirmation) error {
	payload := emailJSRequest{
		ServiceID:  s.ServiceID,
		TemplateID: s.TemplateID,
		UserID:     s.PublicKey,
		TemplateParams: map[string]string{
			"to_email": conf.To,
			"to_name":  conf.Name,
			"prenom":   conf.FirstName,
			"nom":      conf.LastName,
			"email":    conf.To,
			"poste":    conf.Role,
			"startup":  conf.Startup,
			"ateliers": conf.Workshops,
			"name":     conf.Name,
			"title":    Subject,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Provider: "emailjs", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return &Error{Provider: "emailjs", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Origin != "" {
		req.Header.Set("Origin", s.Origin)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return &Error{Provider: "emailjs", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{
			Provider: "emailjs",
			Detail:   fmt.Sprintf("status %d: %s", resp.StatusCode, bytes.TrimSpace(detail)),
		}
	}
	return nil
}
