package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "USD"

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountLoan       AccountType = "loan"
	AccountInvestment AccountType = "investment"
	AccountOther      AccountType = "other"
)

const (
	StatusPending   TransactionStatus = "pending"
	StatusPosted    TransactionStatus = "posted"
	StatusCancelled TransactionStatus = "cancelled"
)

type (
	AccountType       string
	TransactionStatus string

	// ID is a backend-defined identifier. The backend may send it as a JSON
	// string or a JSON number; it is always held and re-sent as a string.
	ID string

	Account struct {
		ID       ID               `json:"id"`
		Name     string           `json:"name"`
		Type     AccountType      `json:"type,omitempty"`
		Currency string           `json:"currency,omitempty"`
		Balance  *decimal.Decimal `json:"balance,omitempty"`
		OrgName  string           `json:"org_name,omitempty"`
		URL      string           `json:"url,omitempty"`
		Last4    string           `json:"account_number_last4,omitempty"`
	}

	Transaction struct {
		ID          ID              `json:"id"`
		AccountID   ID              `json:"account_id"`
		PostedDate  string          `json:"posted_date"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description,omitempty"`
		Memo        string          `json:"memo,omitempty"`
		Payee       string          `json:"payee,omitempty"`
		Pending     bool            `json:"pending,omitempty"`
		Currency    string          `json:"currency,omitempty"`
		Account     *Account        `json:"account,omitempty"`
	}

	BudgetCategory struct {
		ID           int64           `json:"id"`
		Name         string          `json:"name"`
		MonthlyLimit decimal.Decimal `json:"monthly_limit"`
		CreatedAt    string          `json:"created_at,omitempty"`
	}

	SavingsBucket struct {
		ID            int64            `json:"id"`
		Name          string           `json:"name"`
		TargetAmount  decimal.Decimal  `json:"target_amount"`
		CurrentAmount *decimal.Decimal `json:"current_amount,omitempty"`
		GoalDate      string           `json:"goal_date,omitempty"`
		CreatedAt     string           `json:"created_at,omitempty"`
	}
)

var (
	ErrEmptyID        = errors.New("empty id")
	ErrEmptyName      = errors.New("empty name")
	ErrEmptyAccountID = errors.New("empty account id")
	ErrEmptyDate      = errors.New("empty posted date")
	ErrInvalidAmount  = errors.New("invalid amount")
)

func init() {
	// The backend reads amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts `"abc"`, `42` and `null`.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// CurrencyCode returns the account's ISO currency, USD when unset.
func (a Account) CurrencyCode() string {
	return normalizeCurrency(a.Currency)
}

// BalanceOrZero treats a missing balance as zero.
func (a Account) BalanceOrZero() decimal.Decimal {
	if a.Balance == nil {
		return decimal.Zero
	}
	return *a.Balance
}

// MaskedNumber renders the last four digits of the account number, falling
// back to the tail of the identifier when the backend omits them.
func (a Account) MaskedNumber() string {
	last4 := strings.TrimSpace(a.Last4)
	if last4 == "" {
		id := []rune(string(a.ID))
		if len(id) > 4 {
			id = id[len(id)-4:]
		}
		last4 = string(id)
	}
	return "xxxx" + last4
}

// CurrencyCode resolves the currency for display: the transaction's own
// currency, then the embedded account's, then USD.
func (t Transaction) CurrencyCode() string {
	if c := strings.TrimSpace(t.Currency); c != "" {
		return normalizeCurrency(c)
	}
	if t.Account != nil {
		return t.Account.CurrencyCode()
	}
	return DefaultCurrency
}

// IsDebit reports whether the amount is negative.
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// Status maps the pending flag onto the backend status vocabulary.
func (t Transaction) Status() TransactionStatus {
	if t.Pending {
		return StatusPending
	}
	return StatusPosted
}

// Progress returns current/target as a percentage clamped to [0, 100].
func (b SavingsBucket) Progress() int {
	if b.CurrentAmount == nil || !b.TargetAmount.IsPositive() {
		return 0
	}
	pct := b.CurrentAmount.Div(b.TargetAmount).Mul(decimal.NewFromInt(100)).IntPart()
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return int(pct)
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}
