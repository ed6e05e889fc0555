// Package notify sends the registration confirmation email through one
// configured provider. Providers are interchangeable behind Sender; the
// choice is made once at startup, never per request. Delivery is
// best-effort everywhere in the system: callers log a failed Send and
// move on, they never fail the request over it.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Subject used by every provider for the confirmation email.
const Subject = "Confirmation inscription"

// Confirmation carries everything a provider needs to compose the email.
// Workshops is the selection already joined with ", ".
type Confirmation struct {
	To        string
	Name      string // "prenom nom"
	FirstName string
	LastName  string
	Role      string
	Startup   string
	Country   string
	Address   string
	Workshops string
}

// Sender dispatches one confirmation email.
type Sender interface {
	Send(ctx context.Context, conf Confirmation) error
}

// Error wraps a provider failure with the provider's detail message.
type Error struct {
	Provider string
	Detail   string
	Err      error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Disabled is the Sender used when no provider is configured. It logs the
// would-be email so local runs stay observable.
type Disabled struct {
	logger *zap.Logger
}

// NewDisabled creates a no-op sender.
func NewDisabled(logger *zap.Logger) *Disabled {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Disabled{logger: logger}
}

// Send logs the confirmation and succeeds.
func (d *Disabled) Send(_ context.Context, conf Confirmation) error {
	d.logger.Info("email provider disabled, confirmation not sent",
		zap.String("to", conf.To),
		zap.String("name", conf.Name),
		zap.String("ateliers", conf.Workshops),
	)
	return nil
}
