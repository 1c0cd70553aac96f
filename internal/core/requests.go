package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Request bodies for the backend's write endpoints. Update shapes use
// pointers so a PATCH carries only the fields that were set.
type (
	AccountCreate struct {
		ID       string           `json:"id"` // SimpleFin account ID
		Name     string           `json:"name"`
		Type     AccountType      `json:"type,omitempty"`
		Currency string           `json:"currency,omitempty"`
		Balance  *decimal.Decimal `json:"balance,omitempty"`
		OrgName  string           `json:"org_name,omitempty"`
		URL      string           `json:"url,omitempty"`
	}

	AccountUpdate struct {
		Name     *string          `json:"name,omitempty"`
		Type     *AccountType     `json:"type,omitempty"`
		Currency *string          `json:"currency,omitempty"`
		Balance  *decimal.Decimal `json:"balance,omitempty"`
		OrgName  *string          `json:"org_name,omitempty"`
		URL      *string          `json:"url,omitempty"`
	}

	TransactionCreate struct {
		ID          string          `json:"id"` // SimpleFin transaction ID
		AccountID   string          `json:"account_id"`
		PostedDate  string          `json:"posted_date"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description,omitempty"`
		Memo        string          `json:"memo,omitempty"`
		Payee       string          `json:"payee,omitempty"`
		Pending     *bool           `json:"pending,omitempty"`
	}

	TransactionUpdate struct {
		ID          string           `json:"id"`
		AccountID   *string          `json:"account_id,omitempty"`
		PostedDate  *string          `json:"posted_date,omitempty"`
		Amount      *decimal.Decimal `json:"amount,omitempty"`
		Description *string          `json:"description,omitempty"`
		Memo        *string          `json:"memo,omitempty"`
		Payee       *string          `json:"payee,omitempty"`
		Pending     *bool            `json:"pending,omitempty"`
	}

	BudgetCategoryCreate struct {
		Name         string          `json:"name"`
		MonthlyLimit decimal.Decimal `json:"monthly_limit"`
	}

	BudgetCategoryUpdate struct {
		Name         *string          `json:"name,omitempty"`
		MonthlyLimit *decimal.Decimal `json:"monthly_limit,omitempty"`
	}

	SavingsBucketCreate struct {
		Name          string           `json:"name"`
		TargetAmount  decimal.Decimal  `json:"target_amount"`
		CurrentAmount *decimal.Decimal `json:"current_amount,omitempty"`
		GoalDate      string           `json:"goal_date,omitempty"`
	}

	SavingsBucketUpdate struct {
		Name          *string          `json:"name,omitempty"`
		TargetAmount  *decimal.Decimal `json:"target_amount,omitempty"`
		CurrentAmount *decimal.Decimal `json:"current_amount,omitempty"`
		GoalDate      *string          `json:"goal_date,omitempty"`
	}
)

func (a AccountCreate) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (t TransactionCreate) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrEmptyAccountID
	}
	if strings.TrimSpace(t.PostedDate) == "" {
		return ErrEmptyDate
	}
	return nil
}

func (t TransactionUpdate) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if t.AccountID != nil && strings.TrimSpace(*t.AccountID) == "" {
		return ErrEmptyAccountID
	}
	return nil
}

func (b BudgetCategoryCreate) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if b.MonthlyLimit.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (s SavingsBucketCreate) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if !s.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
