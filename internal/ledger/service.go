// Package ledger implements the monthly ledger engine: materializing
// recurring templates into per-month occurrences, the occurrence lifecycle
// operations, payoff bills, claim-derived virtual entries and the leftover
// calculation. All operations are whole-document read-modify-write cycles
// against the storage.Store; a failed validation never persists anything.
package ledger

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/registry"
	"github.com/homeledger/backend/internal/storage"
	"github.com/homeledger/backend/internal/types"
)

// ClaimSource provides the claims whose service dates fall in a month, for
// the virtual entry projection. It is an interface so that the engine can
// be tested without the claims service.
type ClaimSource interface {
	ClaimsForMonth(month types.Month) ([]models.Claim, error)
}

// Service is the monthly ledger engine. Storage and collaborators are
// injected, there is no package-level state.
type Service struct {
	store    storage.Store
	registry *registry.Registry
	claims   ClaimSource
	log      zerolog.Logger
}

// New returns a ledger Service. claims may be nil, in which case no
// virtual entries are projected.
func New(store storage.Store, reg *registry.Registry, claims ClaimSource, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		registry: reg,
		claims:   claims,
		log:      log,
	}
}

func monthKey(month types.Month) string {
	return "months/" + month.String()
}

// load reads and normalizes the persisted month document: legacy shapes
// are migrated, leaked virtual entries stripped. Both repairs are written
// back opportunistically and logged, never surfaced as errors.
func (s *Service) load(month types.Month) (models.MonthLedger, error) {
	raw, err := s.store.ReadRaw(monthKey(month))
	if errors.Is(err, storage.ErrNotFound) {
		return models.MonthLedger{}, models.ErrMonthNotFound
	}
	if err != nil {
		return models.MonthLedger{}, err
	}

	ledger, migrated, err := models.MigrateMonth(raw)
	if err != nil {
		return models.MonthLedger{}, fmt.Errorf("month %s is not readable: %w", month, err)
	}

	stripped := ledger.StripVirtual()

	if migrated || stripped {
		s.log.Info().
			Str("month", month.String()).
			Bool("migrated", migrated).
			Bool("strippedVirtual", stripped).
			Msg("month document repaired on read")

		if err := s.store.Write(monthKey(month), ledger); err != nil {
			// The in-memory shape is fine, persisting the repair can
			// wait for the next mutation.
			s.log.Warn().Err(err).Str("month", month.String()).Msg("failed to persist repaired month")
		}
	}

	return ledger, nil
}

// save persists the month document. Virtual entries are stripped once more
// at the write boundary; one slipping through would be a projection bug.
func (s *Service) save(ledger *models.MonthLedger) error {
	if ledger.StripVirtual() {
		s.log.Error().Str("month", ledger.Month.String()).Msg("virtual instance reached the write boundary, stripped")
	}

	ledger.Touch()
	return s.store.Write(monthKey(ledger.Month), *ledger)
}

// mutate runs one read-modify-write cycle: load, apply, save. The month
// must exist and not be read-only. If apply returns an error nothing is
// persisted.
func (s *Service) mutate(month types.Month, apply func(*models.MonthLedger) error) (models.MonthLedger, error) {
	ledger, err := s.load(month)
	if err != nil {
		return models.MonthLedger{}, err
	}

	if ledger.ReadOnly {
		return models.MonthLedger{}, models.ErrMonthReadOnly
	}

	if err := apply(&ledger); err != nil {
		return models.MonthLedger{}, err
	}

	if err := s.save(&ledger); err != nil {
		return models.MonthLedger{}, err
	}

	return ledger, nil
}
