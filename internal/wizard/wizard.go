// Package wizard implements the four-step registration form: an intro
// screen, personal info with field validation, workshop selection, and a
// confirmation screen. State is a value passed through pure transition
// functions; there is no shared mutable form singleton.
package wizard

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/forumdeeptech/inscriptions/config"
	"github.com/forumdeeptech/inscriptions/internal/models"
)

// Steps. Step 4 is terminal.
const (
	StepIntro        = 1
	StepPersonalInfo = 2
	StepWorkshops    = 3
	StepConfirmation = 4
)

// Workshops offered. Two fixed entries; the selection must be non-empty
// at submission time.
var Workshops = []string{
	"Réussir son appel à projet Européen",
	"Go to market : vendre à ses premiers clients",
}

// ErrFieldForm is the error-map key for form-level submission failures,
// displayed as a banner rather than inline.
const ErrFieldForm = "form"

var emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

// Draft is the in-progress registration, owned by the form until a
// successful submission hands it to the store.
type Draft struct {
	Nom       string   `json:"nom"`
	Prenom    string   `json:"prenom"`
	Email     string   `json:"email"`
	Telephone string   `json:"telephone"`
	Poste     string   `json:"poste,omitempty"`
	Startup   string   `json:"startup,omitempty"`
	Pays      string   `json:"pays,omitempty"`
	Adresse   string   `json:"adresse,omitempty"`
	Ateliers  []string `json:"ateliers"`
}

// Submitter sends the draft to the registration endpoint and returns the
// persisted row.
type Submitter interface {
	Submit(ctx context.Context, d Draft) (*models.Inscription, error)
}

// Relay forwards the draft to the optional secondary mail-relay endpoint.
// Forward failures never block the form.
type Relay interface {
	Forward(ctx context.Context, d Draft) error
}

// Wizard is the form state. Zero value is not usable; call New.
type Wizard struct {
	Step       int
	Draft      Draft
	Errors     map[string]string
	Submitting bool

	// Submitted holds the server-returned row for the confirmation
	// screen after a successful submission.
	Submitted *models.Inscription

	variant string
	logger  *zap.Logger
}

// New creates a wizard on the intro step for the given form variant
// (config.VariantStartup or config.VariantAdresse).
func New(variant string, logger *zap.Logger) Wizard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Wizard{
		Step:    StepIntro,
		Errors:  map[string]string{},
		variant: variant,
		logger:  logger,
	}
}

// SetField updates a text field and clears its pending error, like typing
// into the input does.
func (w Wizard) SetField(name, value string) Wizard {
	switch name {
	case "nom":
		w.Draft.Nom = value
	case "prenom":
		w.Draft.Prenom = value
	case "email":
		w.Draft.Email = value
	case "telephone":
		w.Draft.Telephone = value
	case "poste":
		w.Draft.Poste = value
	case "startup":
		w.Draft.Startup = value
	case "pays":
		w.Draft.Pays = value
	case "adresse":
		w.Draft.Adresse = value
	default:
		return w
	}
	if _, ok := w.Errors[name]; ok {
		w.Errors = copyErrors(w.Errors)
		delete(w.Errors, name)
	}
	return w
}

// ToggleWorkshop adds or removes a workshop from the selection.
func (w Wizard) ToggleWorkshop(label string) Wizard {
	for i, a := range w.Draft.Ateliers {
		if a == label {
			w.Draft.Ateliers = append(append([]string(nil), w.Draft.Ateliers[:i]...), w.Draft.Ateliers[i+1:]...)
			return w
		}
	}
	w.Draft.Ateliers = append(append([]string(nil), w.Draft.Ateliers...), label)
	return w
}

// Next advances one step. Leaving step 2 requires field validation;
// step 3 only advances through Submit. The step never exceeds 4.
func (w Wizard) Next() Wizard {
	switch w.Step {
	case StepPersonalInfo:
		errs := validatePersonalInfo(w.Draft, w.variant)
		w.Errors = errs
		if len(errs) > 0 {
			return w
		}
		w.Draft = trimmed(w.Draft)
	case StepWorkshops:
		// Forward from 3 happens via Submit only.
		w.Errors = validateWorkshops(w.Draft)
		return w
	case StepConfirmation:
		return w
	}
	w.Step = clampStep(w.Step + 1)
	return w
}

// Prev goes back one step and clears all errors. Going back is refused
// while a submission is in flight and from the terminal step.
func (w Wizard) Prev() Wizard {
	if w.Submitting || w.Step == StepIntro || w.Step == StepConfirmation {
		return w
	}
	w.Step = clampStep(w.Step - 1)
	w.Errors = map[string]string{}
	return w
}

// Progress reports completion percent for the progress bar (0 at the
// intro, 100 once confirmed).
func (w Wizard) Progress() int {
	return (w.Step - 1) * 100 / (StepConfirmation - 1)
}

// Submit runs the submission sequence from step 3: re-validate the
// selection, POST the draft, then fire the best-effort relay. Storage
// failure leaves the form on step 3 with a banner error; relay failure is
// only logged. relay may be nil.
func (w Wizard) Submit(ctx context.Context, api Submitter, relay Relay) Wizard {
	if w.Submitting || w.Step != StepWorkshops {
		return w
	}
	if errs := validateWorkshops(w.Draft); len(errs) > 0 {
		w.Errors = errs
		return w
	}

	w.Submitting = true
	w.Errors = map[string]string{}

	ins, err := api.Submit(ctx, w.Draft)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "Impossible d'envoyer le formulaire."
		}
		w.Errors = map[string]string{ErrFieldForm: msg}
		w.Submitting = false
		return w
	}

	if relay != nil {
		if rerr := relay.Forward(ctx, w.Draft); rerr != nil {
			w.logger.Warn("mail relay failed", zap.Error(rerr))
		}
	}

	w.Submitted = ins
	w.Submitting = false
	w.Step = StepConfirmation
	return w
}

func validatePersonalInfo(d Draft, variant string) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(d.Nom) == "" {
		errs["nom"] = "Le nom est requis"
	}
	if strings.TrimSpace(d.Prenom) == "" {
		errs["prenom"] = "Le prénom est requis"
	}
	if strings.TrimSpace(d.Email) == "" {
		errs["email"] = "L'email est requis"
	} else if !emailRe.MatchString(d.Email) {
		errs["email"] = "Email invalide"
	}
	if strings.TrimSpace(d.Telephone) == "" {
		errs["telephone"] = "Le téléphone est requis"
	}
	switch variant {
	case config.VariantAdresse:
		if strings.TrimSpace(d.Pays) == "" {
			errs["pays"] = "Le pays est requis"
		}
		if strings.TrimSpace(d.Adresse) == "" {
			errs["adresse"] = "L'adresse est requise"
		}
	default:
		if strings.TrimSpace(d.Poste) == "" {
			errs["poste"] = "Le poste est requis"
		}
		if strings.TrimSpace(d.Startup) == "" {
			errs["startup"] = "Le nom de la startup est requis"
		}
	}
	return errs
}

func validateWorkshops(d Draft) map[string]string {
	if len(d.Ateliers) == 0 {
		return map[string]string{"ateliers": "Veuillez sélectionner au moins un atelier"}
	}
	return map[string]string{}
}

func trimmed(d Draft) Draft {
	d.Nom = strings.TrimSpace(d.Nom)
	d.Prenom = strings.TrimSpace(d.Prenom)
	d.Email = strings.TrimSpace(d.Email)
	d.Telephone = strings.TrimSpace(d.Telephone)
	d.Poste = strings.TrimSpace(d.Poste)
	d.Startup = strings.TrimSpace(d.Startup)
	d.Pays = strings.TrimSpace(d.Pays)
	d.Adresse = strings.TrimSpace(d.Adresse)
	return d
}

func clampStep(s int) int {
	if s < StepIntro {
		return StepIntro
	}
	if s > StepConfirmation {
		return StepConfirmation
	}
	return s
}

func copyErrors(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
