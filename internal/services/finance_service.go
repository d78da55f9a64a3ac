package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"picxury_api/internal/models"
)

// FinanceService keeps the photographer ledger
type FinanceService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewFinanceService(db *gorm.DB) *FinanceService {
	return &FinanceService{db: db, now: time.Now}
}

// PeriodSummary is income and expenses over a trailing window
type PeriodSummary struct {
	Label    string
	Days     int
	Income   float64
	Expenses float64
}

// Balance is income minus expenses
func (p PeriodSummary) Balance() float64 {
	return p.Income - p.Expenses
}

// Debtor is a client owing money for active unpaid sessions
type Debtor struct {
	Client    models.Client
	TotalDebt float64
}

// FinanceOverview is the full ledger report of a photographer
type FinanceOverview struct {
	Income        []models.FinancialMovement
	Expenses      []models.FinancialMovement
	TotalIncome   float64
	TotalExpenses float64
	Periods       []PeriodSummary
	Debtors       []Debtor
	TotalDebt     float64
}

// Balance is total income minus total expenses
func (f FinanceOverview) Balance() float64 {
	return f.TotalIncome - f.TotalExpenses
}

var summaryPeriods = []struct {
	label string
	days  int
}{
	{label: "week", days: 7},
	{label: "month", days: 30},
	{label: "year", days: 365},
}

// MovementInput is a manual ledger entry
type MovementInput struct {
	Type     models.MovementType
	Category string
	Amount   float64
	Detail   string
}

// Overview lists movements and computes totals, trailing summaries and
// debtor clients
func (s *FinanceService) Overview(ctx context.Context, photographerID uint) (*FinanceOverview, error) {
	db := s.db.WithContext(ctx)

	var movements []models.FinancialMovement
	err := db.Where("photographer_id = ?", photographerID).
		Order("created_at desc").
		Order("id desc").
		Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}

	now := s.now()
	out := &FinanceOverview{
		Income:   []models.FinancialMovement{},
		Expenses: []models.FinancialMovement{},
		Periods:  make([]PeriodSummary, len(summaryPeriods)),
	}
	for i, p := range summaryPeriods {
		out.Periods[i] = PeriodSummary{Label: p.label, Days: p.days}
	}

	for _, m := range movements {
		income := m.Type == models.MovementTypeIncome
		if income {
			out.Income = append(out.Income, m)
			out.TotalIncome += m.Amount
		} else {
			out.Expenses = append(out.Expenses, m)
			out.TotalExpenses += m.Amount
		}

		for i := range out.Periods {
			if m.CreatedAt.Before(now.AddDate(0, 0, -out.Periods[i].Days)) {
				continue
			}
			if income {
				out.Periods[i].Income += m.Amount
			} else {
				out.Periods[i].Expenses += m.Amount
			}
		}
	}

	debtors, err := s.debtors(db, photographerID)
	if err != nil {
		return nil, err
	}
	out.Debtors = debtors
	for _, d := range debtors {
		out.TotalDebt += d.TotalDebt
	}
	return out, nil
}

func (s *FinanceService) debtors(db *gorm.DB, photographerID uint) ([]Debtor, error) {
	var sessions []models.PhotoSession
	err := db.Preload("Client", unscoped).
		Where("photographer_id = ? AND payment_status = ? AND status IN ?",
			photographerID, models.PaymentStatusPending, models.UpdatableSessionStatuses).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("unpaid sessions: %w", err)
	}

	byClient := make(map[uint]*Debtor)
	var order []uint
	for _, session := range sessions {
		d, ok := byClient[session.ClientID]
		if !ok {
			d = &Debtor{}
			if session.Client != nil {
				d.Client = *session.Client
			}
			byClient[session.ClientID] = d
			order = append(order, session.ClientID)
		}
		d.TotalDebt += session.TotalPrice
	}

	debtors := make([]Debtor, 0, len(order))
	for _, id := range order {
		debtors = append(debtors, *byClient[id])
	}
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].TotalDebt > debtors[j].TotalDebt
	})
	return debtors, nil
}

// Create records a manual movement. An empty detail is stored as "Ninguno".
func (s *FinanceService) Create(ctx context.Context, photographerID uint, in MovementInput) (*models.FinancialMovement, error) {
	verr := &ValidationError{}
	if in.Type != models.MovementTypeIncome && in.Type != models.MovementTypeExpense {
		verr.Add("type", "El tipo debe ser ingreso o gasto.")
	}
	if strings.TrimSpace(in.Category) == "" {
		verr.Add("category", "La categoría es obligatoria.")
	}
	if in.Amount < 0 {
		verr.Add("amount", "El monto no puede ser negativo.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	detail := strings.TrimSpace(in.Detail)
	if detail == "" {
		detail = "Ninguno"
	}

	movement := models.FinancialMovement{
		PhotographerID: photographerID,
		Type:           in.Type,
		Category:       in.Category,
		Amount:         in.Amount,
		Detail:         detail,
	}
	if err := s.db.WithContext(ctx).Create(&movement).Error; err != nil {
		return nil, fmt.Errorf("create movement: %w", err)
	}
	return &movement, nil
}

// Delete removes one of the photographer's movements
func (s *FinanceService) Delete(ctx context.Context, photographerID, movementID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND photographer_id = ?", movementID, photographerID).
		Delete(&models.FinancialMovement{})
	if res.Error != nil {
		return fmt.Errorf("delete movement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("financial movement: %w", ErrNotFound)
	}
	return nil
}
