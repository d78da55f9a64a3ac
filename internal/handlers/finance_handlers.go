package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"picxury_api/internal/format"
	"picxury_api/internal/models"
	"picxury_api/internal/services"
)

const movementNotFound = "Movimiento financiero no encontrado."

// FinanceHandler serves the photographer ledger
type FinanceHandler struct {
	finance *services.FinanceService
}

func NewFinanceHandler(finance *services.FinanceService) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

type movementView struct {
	models.FinancialMovement
	CreatedAtFormatted string `json:"created_at_formatted"`
	AmountFormatted    string `json:"amount_formatted"`
	CategoryFormatted  string `json:"category_formatted"`
}

func newMovementViews(movements []models.FinancialMovement) []movementView {
	out := make([]movementView, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementView{
			FinancialMovement:  m,
			CreatedAtFormatted: format.Date(m.CreatedAt),
			AmountFormatted:    format.MoneyCOP(m.Amount),
			CategoryFormatted:  format.Category(m.Category),
		})
	}
	return out
}

var periodNames = map[string]string{
	"week":  "Last 7 days",
	"month": "Last 30 days",
	"year":  "Last 365 days",
}

// Overview returns income, expenses, trailing summaries and debtor clients
func (h *FinanceHandler) Overview(c echo.Context) error {
	overview, err := h.finance.Overview(c.Request().Context(), photographerID(c))
	if err != nil {
		return err
	}

	periods := make(map[string]interface{}, len(overview.Periods))
	for _, p := range overview.Periods {
		periods[p.Label] = map[string]interface{}{
			"income":   newMoneyView(p.Income),
			"expenses": newMoneyView(p.Expenses),
			"balance":  newMoneyView(p.Balance()),
			"period":   periodNames[p.Label],
		}
	}

	debtors := make([]map[string]interface{}, 0, len(overview.Debtors))
	for _, d := range overview.Debtors {
		debtors = append(debtors, map[string]interface{}{
			"client":     d.Client,
			"total_debt": newMoneyView(d.TotalDebt),
		})
	}

	return ok(c, http.StatusOK, "", map[string]interface{}{
		"income":   newMovementViews(overview.Income),
		"expenses": newMovementViews(overview.Expenses),
		"summary": map[string]interface{}{
			"total_income":   newMoneyView(overview.TotalIncome),
			"total_expenses": newMoneyView(overview.TotalExpenses),
			"balance":        newMoneyView(overview.Balance()),
		},
		"period_summary": periods,
		"debtor_clients": map[string]interface{}{
			"clients": debtors,
			"summary": map[string]interface{}{
				"total_debt_amount":    newMoneyView(overview.TotalDebt),
				"total_debtor_clients": len(overview.Debtors),
			},
		},
	})
}

type movementRequest struct {
	Type     string   `json:"type" validate:"required,oneof=ingreso gasto"`
	Category string   `json:"category" validate:"required,max=100"`
	Amount   *float64 `json:"amount" validate:"required,gte=0"`
	Detail   string   `json:"detail" validate:"max=255"`
}

// Create adds a manual ledger entry
func (h *FinanceHandler) Create(c echo.Context) error {
	var req movementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	movement, err := h.finance.Create(c.Request().Context(), photographerID(c), services.MovementInput{
		Type:     models.MovementType(req.Type),
		Category: req.Category,
		Amount:   *req.Amount,
		Detail:   req.Detail,
	})
	if err != nil {
		return apiError(err, movementNotFound)
	}

	return ok(c, http.StatusCreated, "Movimiento financiero creado exitosamente.", newMovementViews([]models.FinancialMovement{*movement})[0])
}

// Delete removes a ledger entry
func (h *FinanceHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "movementId", movementNotFound)
	if err != nil {
		return err
	}

	if err := h.finance.Delete(c.Request().Context(), photographerID(c), id); err != nil {
		return apiError(err, movementNotFound)
	}
	return ok(c, http.StatusOK, "Movimiento financiero eliminado exitosamente.", nil)
}
