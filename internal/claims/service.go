// Package claims implements insurance claim tracking: the claim lifecycle
// from expected expense to closed claim, and the submission waterfall that
// activates the next insurer in the chain once the previous one resolves.
package claims

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/registry"
	"github.com/homeledger/backend/internal/storage"
	"github.com/homeledger/backend/internal/types"
)

const key = "claims/claims"

// document is the persisted claims collection. LastNumber backs the
// auto-incrementing claim number; number 0 stays reserved for claims that
// are still expected.
type document struct {
	LastNumber int            `json:"lastNumber"`
	Claims     []models.Claim `json:"claims"`
}

// Service provides claim operations. Like the ledger engine it works in
// whole-document read-modify-write cycles.
type Service struct {
	store    storage.Store
	registry *registry.Registry
	log      zerolog.Logger
}

// New returns a claims Service.
func New(store storage.Store, reg *registry.Registry, log zerolog.Logger) *Service {
	return &Service{store: store, registry: reg, log: log}
}

func (s *Service) load() (document, error) {
	var doc document
	err := s.store.Read(key, &doc)
	if errors.Is(err, storage.ErrNotFound) {
		return document{}, nil
	}
	if err != nil {
		return document{}, err
	}

	return doc, nil
}

// mutate runs one read-modify-write cycle over the claims collection.
func (s *Service) mutate(apply func(*document) error) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	if err := apply(&doc); err != nil {
		return err
	}

	return s.store.Write(key, doc)
}

// Claims returns all claims, optionally filtered by a glob search over
// the family member and category names.
func (s *Service) Claims(search string) ([]models.Claim, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if search == "" {
		return doc.Claims, nil
	}

	matches := make([]models.Claim, 0)
	for _, claim := range doc.Claims {
		if registry.MatchesSearch(search, claim.FamilyMemberName) ||
			registry.MatchesSearch(search, claim.CategoryName) {
			matches = append(matches, claim)
		}
	}

	return matches, nil
}

// Claim returns one claim.
func (s *Service) Claim(id uuid.UUID) (models.Claim, error) {
	doc, err := s.load()
	if err != nil {
		return models.Claim{}, err
	}

	for _, claim := range doc.Claims {
		if claim.ID == id {
			return claim, nil
		}
	}

	return models.Claim{}, models.ErrClaimNotFound
}

// ClaimsForMonth returns all claims whose service date, or scheduled
// appointment date for expected claims, falls in the month. The ledger
// engine projects these into virtual month entries.
func (s *Service) ClaimsForMonth(month types.Month) ([]models.Claim, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	matches := make([]models.Claim, 0)
	for _, claim := range doc.Claims {
		date := claim.ServiceDate
		if claim.IsExpected() && claim.Expected != nil && claim.Expected.AppointmentDate != nil {
			date = *claim.Expected.AppointmentDate
		}
		if month.ContainsDate(date) {
			matches = append(matches, claim)
		}
	}

	return matches, nil
}

// CreateInput carries the fields of a new claim.
type CreateInput struct {
	FamilyMemberID uuid.UUID
	CategoryID     uuid.UUID
	ServiceDate    types.Date
	TotalAmount    models.Amount
	Expected       *models.ExpectedExpense
}

// Create stores a new claim. Unless the claim is an expected expense it
// receives the next claim number and one submission per plan of the
// family member, in priority order: the first submission starts as a
// draft carrying the full claim amount, every later one waits for the
// previous insurer with nothing claimed yet.
func (s *Service) Create(input CreateInput) (models.Claim, error) {
	member, err := s.registry.FamilyMember(input.FamilyMemberID)
	if err != nil {
		return models.Claim{}, err
	}

	category, err := s.registry.Category(input.CategoryID)
	if err != nil {
		return models.Claim{}, err
	}

	expected := input.Expected != nil
	if !expected && input.TotalAmount <= 0 {
		return models.Claim{}, models.ErrAmountNotPositive
	}

	claim := models.Claim{
		FamilyMemberID:   member.ID,
		FamilyMemberName: member.Name,
		CategoryID:       category.ID,
		CategoryName:     category.Name,
		ServiceDate:      input.ServiceDate,
		TotalAmount:      input.TotalAmount,
		Expected:         input.Expected,
	}
	claim.Init()

	err = s.mutate(func(doc *document) error {
		if !expected {
			doc.LastNumber++
			claim.Number = doc.LastNumber

			submissions, err := s.buildWaterfall(member, claim.TotalAmount)
			if err != nil {
				return err
			}
			claim.Submissions = submissions
		}

		doc.Claims = append(doc.Claims, claim)
		return nil
	})
	if err != nil {
		return models.Claim{}, err
	}

	s.log.Info().
		Str("claim", claim.ID.String()).
		Int("number", claim.Number).
		Str("member", claim.FamilyMemberName).
		Msg("claim created")

	return claim, nil
}

// Convert turns an expected claim into an actual one: it receives the
// next claim number, its real total amount and the submission waterfall.
func (s *Service) Convert(id uuid.UUID, serviceDate types.Date, total models.Amount) (models.Claim, error) {
	if total <= 0 {
		return models.Claim{}, models.ErrAmountNotPositive
	}

	var converted models.Claim
	err := s.mutate(func(doc *document) error {
		claim := findClaim(doc, id)
		if claim == nil {
			return models.ErrClaimNotFound
		}
		if !claim.IsExpected() {
			return models.ErrClaimNotExpected
		}

		member, err := s.registry.FamilyMember(claim.FamilyMemberID)
		if err != nil {
			return err
		}

		doc.LastNumber++
		claim.Number = doc.LastNumber
		claim.ServiceDate = serviceDate
		claim.TotalAmount = total
		claim.Touch()

		submissions, err := s.buildWaterfall(member, total)
		if err != nil {
			return err
		}
		claim.Submissions = submissions

		converted = *claim
		return nil
	})
	if err != nil {
		return models.Claim{}, err
	}

	return converted, nil
}

// Delete removes a claim.
func (s *Service) Delete(id uuid.UUID) error {
	return s.mutate(func(doc *document) error {
		for idx := range doc.Claims {
			if doc.Claims[idx].ID == id {
				doc.Claims = append(doc.Claims[:idx], doc.Claims[idx+1:]...)
				return nil
			}
		}
		return models.ErrClaimNotFound
	})
}

// MarkBillPaid records that the provider's bill behind the claim was
// paid.
func (s *Service) MarkBillPaid(id uuid.UUID, date types.Date) (models.Claim, error) {
	var updated models.Claim
	err := s.mutate(func(doc *document) error {
		claim := findClaim(doc, id)
		if claim == nil {
			return models.ErrClaimNotFound
		}

		claim.BillPaid = true
		claim.BillPaidDate = &date
		claim.Touch()
		updated = *claim
		return nil
	})
	if err != nil {
		return models.Claim{}, err
	}

	return updated, nil
}

// AddDocument attaches a document to a claim.
func (s *Service) AddDocument(id uuid.UUID, name, note string) (models.Claim, error) {
	if strings.TrimSpace(name) == "" {
		return models.Claim{}, models.ErrNameRequired
	}

	var updated models.Claim
	err := s.mutate(func(doc *document) error {
		claim := findClaim(doc, id)
		if claim == nil {
			return models.ErrClaimNotFound
		}

		claim.Documents = append(claim.Documents, models.Document{
			ID:      uuid.New(),
			Name:    name,
			Note:    note,
			AddedAt: time.Now().UTC(),
		})
		claim.Touch()
		updated = *claim
		return nil
	})
	if err != nil {
		return models.Claim{}, err
	}

	return updated, nil
}

// RemoveDocument detaches a document from a claim and from any submission
// linking it.
func (s *Service) RemoveDocument(id, documentID uuid.UUID) (models.Claim, error) {
	var updated models.Claim
	err := s.mutate(func(doc *document) error {
		claim := findClaim(doc, id)
		if claim == nil {
			return models.ErrClaimNotFound
		}

		found := false
		for idx := range claim.Documents {
			if claim.Documents[idx].ID == documentID {
				claim.Documents = append(claim.Documents[:idx], claim.Documents[idx+1:]...)
				found = true
				break
			}
		}
		if !found {
			return models.ErrResourceNotFound
		}

		for idx := range claim.Submissions {
			ids := claim.Submissions[idx].DocumentIDs[:0]
			for _, docID := range claim.Submissions[idx].DocumentIDs {
				if docID != documentID {
					ids = append(ids, docID)
				}
			}
			claim.Submissions[idx].DocumentIDs = ids
		}

		claim.Touch()
		updated = *claim
		return nil
	})
	if err != nil {
		return models.Claim{}, err
	}

	return updated, nil
}

// buildWaterfall creates the initial submission chain for a claim from
// the member's plans in priority order.
func (s *Service) buildWaterfall(member models.FamilyMember, total models.Amount) ([]models.Submission, error) {
	plans, err := s.registry.PlansForMember(member.ID)
	if err != nil {
		return nil, err
	}

	submissions := make([]models.Submission, 0, len(plans))
	for idx, plan := range plans {
		submission := models.Submission{
			ID:     uuid.New(),
			PlanID: plan.ID,
			Plan:   plan.Snapshot(),
			Status: models.SubmissionAwaitingPrevious,
		}
		submission.Touch()
		submission.CreatedAt = submission.UpdatedAt

		if idx == 0 {
			submission.Status = models.SubmissionDraft
			submission.AmountClaimed = total
		}

		submissions = append(submissions, submission)
	}

	return submissions, nil
}

func findClaim(doc *document, id uuid.UUID) *models.Claim {
	for idx := range doc.Claims {
		if doc.Claims[idx].ID == id {
			return &doc.Claims[idx]
		}
	}

	return nil
}
