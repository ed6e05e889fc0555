// Package countries serves the country picker of the adresse form
// variant. Names come from a public REST lookup; any failure falls back
// to a static list. Either way the result is ordered with a French
// collator so accented names land where a French reader expects them.
package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/forumdeeptech/inscriptions/pkg/response"
)

// Fallback list used when the lookup endpoint is unreachable.
var fallback = []string{
	"France",
	"Belgique",
	"Suisse",
	"Luxembourg",
	"Allemagne",
	"Espagne",
	"Italie",
	"Portugal",
	"Royaume-Uni",
	"Pays-Bas",
	"Maroc",
	"Tunisie",
	"Algérie",
	"Sénégal",
	"Côte d'Ivoire",
	"Canada",
}

// Service fetches and orders country names.
type Service struct {
	url      string
	client   *http.Client
	collator *collate.Collator
	logger   *zap.Logger
}

// NewService creates a countries service.
func NewService(lookupURL string, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		url:      lookupURL,
		client:   &http.Client{Timeout: timeout},
		collator: collate.New(language.French),
		logger:   logger,
	}
}

// Names returns the country list, collator-sorted. It never fails: on any
// lookup error the static fallback is returned instead.
func (s *Service) Names(ctx context.Context) []string {
	names, err := s.fetch(ctx)
	if err != nil || len(names) == 0 {
		s.logger.Warn("country lookup failed, using fallback", zap.Error(err))
		names = append([]string(nil), fallback...)
	}
	s.collator.SortStrings(names)
	return names
}

// restcountries v3.1 shape, fields=translations.
type country struct {
	Translations struct {
		Fra struct {
			Common string `json:"common"`
		} `json:"fra"`
	} `json:"translations"`
}

func (s *Service) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("country lookup status %d", resp.StatusCode)
	}

	var list []country
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&list); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list))
	for _, c := range list {
		if c.Translations.Fra.Common != "" {
			names = append(names, c.Translations.Fra.Common)
		}
	}
	return names, nil
}

// Handler serves GET /api/countries.
func (s *Service) Handler(c *gin.Context) {
	response.OK(c, s.Names(c.Request.Context()))
}
