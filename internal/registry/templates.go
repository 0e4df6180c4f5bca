package registry

import (
	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/models"
)

// Bills returns all bill templates.
func (r *Registry) Bills() ([]models.Bill, error) {
	return load[models.Bill](r.store, keyBills)
}

// ActiveBills returns all active bill templates.
func (r *Registry) ActiveBills() ([]models.Bill, error) {
	bills, err := r.Bills()
	if err != nil {
		return nil, err
	}

	active := bills[:0]
	for _, b := range bills {
		if b.Active {
			active = append(active, b)
		}
	}

	return active, nil
}

// Bill returns one bill template.
func (r *Registry) Bill(id uuid.UUID) (models.Bill, error) {
	return get[models.Bill](r.store, keyBills, id, models.ErrTemplateNotFound)
}

// CreateBill validates the bill, assigns an ID and stores it.
func (r *Registry) CreateBill(bill *models.Bill) error {
	if err := bill.Validate(); err != nil {
		return err
	}

	bill.Init()
	return put(r.store, keyBills, *bill)
}

// SaveBill validates and replaces an existing bill template.
func (r *Registry) SaveBill(bill models.Bill) error {
	if err := bill.Validate(); err != nil {
		return err
	}

	if _, err := r.Bill(bill.ID); err != nil {
		return err
	}

	bill.Touch()
	return put(r.store, keyBills, bill)
}

// DeleteBill removes a bill template. Months already generated from it are
// not touched.
func (r *Registry) DeleteBill(id uuid.UUID) error {
	return remove[models.Bill](r.store, keyBills, id, models.ErrTemplateNotFound)
}

// Incomes returns all income templates.
func (r *Registry) Incomes() ([]models.Income, error) {
	return load[models.Income](r.store, keyIncomes)
}

// ActiveIncomes returns all active income templates.
func (r *Registry) ActiveIncomes() ([]models.Income, error) {
	incomes, err := r.Incomes()
	if err != nil {
		return nil, err
	}

	active := incomes[:0]
	for _, i := range incomes {
		if i.Active {
			active = append(active, i)
		}
	}

	return active, nil
}

// Income returns one income template.
func (r *Registry) Income(id uuid.UUID) (models.Income, error) {
	return get[models.Income](r.store, keyIncomes, id, models.ErrTemplateNotFound)
}

// CreateIncome validates the income, assigns an ID and stores it.
func (r *Registry) CreateIncome(income *models.Income) error {
	if err := income.Validate(); err != nil {
		return err
	}

	income.Init()
	return put(r.store, keyIncomes, *income)
}

// SaveIncome validates and replaces an existing income template.
func (r *Registry) SaveIncome(income models.Income) error {
	if err := income.Validate(); err != nil {
		return err
	}

	if _, err := r.Income(income.ID); err != nil {
		return err
	}

	income.Touch()
	return put(r.store, keyIncomes, income)
}

// DeleteIncome removes an income template.
func (r *Registry) DeleteIncome(id uuid.UUID) error {
	return remove[models.Income](r.store, keyIncomes, id, models.ErrTemplateNotFound)
}
