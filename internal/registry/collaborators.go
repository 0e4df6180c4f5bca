package registry

import (
	"strings"

	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/models"
)

// Categories returns all categories.
func (r *Registry) Categories() ([]models.Category, error) {
	return load[models.Category](r.store, keyCategories)
}

// Category returns one category.
func (r *Registry) Category(id uuid.UUID) (models.Category, error) {
	return get[models.Category](r.store, keyCategories, id, models.ErrCategoryNotFound)
}

// CreateCategory assigns an ID and stores the category.
func (r *Registry) CreateCategory(category *models.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return models.ErrNameRequired
	}

	category.Init()
	return put(r.store, keyCategories, *category)
}

// SaveCategory replaces an existing category.
func (r *Registry) SaveCategory(category models.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return models.ErrNameRequired
	}

	if _, err := r.Category(category.ID); err != nil {
		return err
	}

	category.Touch()
	return put(r.store, keyCategories, category)
}

// DeleteCategory removes a category.
func (r *Registry) DeleteCategory(id uuid.UUID) error {
	return remove[models.Category](r.store, keyCategories, id, models.ErrCategoryNotFound)
}

// EnsureCategory returns the category with the given name, creating it as a
// builtin if missing. Payoff bills and claim projections rely on this
// auto-provisioning.
func (r *Registry) EnsureCategory(name string) (models.Category, error) {
	categories, err := r.Categories()
	if err != nil {
		return models.Category{}, err
	}

	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}

	category := models.Category{Name: name, Builtin: true}
	if err := r.CreateCategory(&category); err != nil {
		return models.Category{}, err
	}

	return category, nil
}

// PaymentSources returns all payment sources.
func (r *Registry) PaymentSources() ([]models.PaymentSource, error) {
	return load[models.PaymentSource](r.store, keySources)
}

// PaymentSource returns one payment source.
func (r *Registry) PaymentSource(id uuid.UUID) (models.PaymentSource, error) {
	return get[models.PaymentSource](r.store, keySources, id, models.ErrSourceNotFound)
}

// CreatePaymentSource assigns an ID and stores the payment source.
func (r *Registry) CreatePaymentSource(source *models.PaymentSource) error {
	if strings.TrimSpace(source.Name) == "" {
		return models.ErrNameRequired
	}

	source.Init()
	return put(r.store, keySources, *source)
}

// SavePaymentSource replaces an existing payment source.
func (r *Registry) SavePaymentSource(source models.PaymentSource) error {
	if strings.TrimSpace(source.Name) == "" {
		return models.ErrNameRequired
	}

	if _, err := r.PaymentSource(source.ID); err != nil {
		return err
	}

	source.Touch()
	return put(r.store, keySources, source)
}

// DeletePaymentSource removes a payment source.
func (r *Registry) DeletePaymentSource(id uuid.UUID) error {
	return remove[models.PaymentSource](r.store, keySources, id, models.ErrSourceNotFound)
}

// FamilyMembers returns all family members.
func (r *Registry) FamilyMembers() ([]models.FamilyMember, error) {
	return load[models.FamilyMember](r.store, keyFamilyMembers)
}

// FamilyMember returns one family member.
func (r *Registry) FamilyMember(id uuid.UUID) (models.FamilyMember, error) {
	return get[models.FamilyMember](r.store, keyFamilyMembers, id, models.ErrFamilyMemberNotFound)
}

// CreateFamilyMember assigns an ID and stores the family member.
func (r *Registry) CreateFamilyMember(member *models.FamilyMember) error {
	if strings.TrimSpace(member.Name) == "" {
		return models.ErrNameRequired
	}

	member.Init()
	return put(r.store, keyFamilyMembers, *member)
}

// SaveFamilyMember replaces an existing family member.
func (r *Registry) SaveFamilyMember(member models.FamilyMember) error {
	if strings.TrimSpace(member.Name) == "" {
		return models.ErrNameRequired
	}

	if _, err := r.FamilyMember(member.ID); err != nil {
		return err
	}

	member.Touch()
	return put(r.store, keyFamilyMembers, member)
}

// DeleteFamilyMember removes a family member.
func (r *Registry) DeleteFamilyMember(id uuid.UUID) error {
	return remove[models.FamilyMember](r.store, keyFamilyMembers, id, models.ErrFamilyMemberNotFound)
}

// InsurancePlans returns all insurance plans.
func (r *Registry) InsurancePlans() ([]models.InsurancePlan, error) {
	return load[models.InsurancePlan](r.store, keyPlans)
}

// InsurancePlan returns one insurance plan.
func (r *Registry) InsurancePlan(id uuid.UUID) (models.InsurancePlan, error) {
	return get[models.InsurancePlan](r.store, keyPlans, id, models.ErrPlanNotFound)
}

// CreateInsurancePlan assigns an ID and stores the plan.
func (r *Registry) CreateInsurancePlan(plan *models.InsurancePlan) error {
	if strings.TrimSpace(plan.Name) == "" {
		return models.ErrNameRequired
	}

	plan.Init()
	return put(r.store, keyPlans, *plan)
}

// SaveInsurancePlan replaces an existing plan.
func (r *Registry) SaveInsurancePlan(plan models.InsurancePlan) error {
	if strings.TrimSpace(plan.Name) == "" {
		return models.ErrNameRequired
	}

	if _, err := r.InsurancePlan(plan.ID); err != nil {
		return err
	}

	plan.Touch()
	return put(r.store, keyPlans, plan)
}

// DeleteInsurancePlan removes a plan.
func (r *Registry) DeleteInsurancePlan(id uuid.UUID) error {
	return remove[models.InsurancePlan](r.store, keyPlans, id, models.ErrPlanNotFound)
}

// PlansForMember returns the member's plans in priority order. Unknown plan
// IDs are skipped, matching the read-accessor behavior of returning empty
// results for missing children.
func (r *Registry) PlansForMember(memberID uuid.UUID) ([]models.InsurancePlan, error) {
	member, err := r.FamilyMember(memberID)
	if err != nil {
		return nil, err
	}

	plans := make([]models.InsurancePlan, 0, len(member.PlanIDs))
	for _, planID := range member.PlanIDs {
		plan, err := r.InsurancePlan(planID)
		if err != nil {
			continue
		}
		plans = append(plans, plan)
	}

	return plans, nil
}
