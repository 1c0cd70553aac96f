package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"finboard/internal/core"
)

// ListOptions filters list operations. Zero values are omitted.
type ListOptions struct {
	AccountID string
	Sort      string
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.AccountID != "" {
		q.Set("account_id", o.AccountID)
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	return q
}

// Service exposes one typed call per backend resource operation. It adds no
// retries or caching; errors come back as returned by the Client.
type Service struct {
	client *Client
}

// NewService wraps client.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

// Client returns the underlying client.
func (s *Service) Client() *Client { return s.client }

// Accounts

func (s *Service) ListAccounts(ctx context.Context, opts ListOptions) ([]core.Account, error) {
	var out []core.Account
	if err := s.client.Get(ctx, Accounts.List(), opts.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetAccount(ctx context.Context, id string) (core.Account, error) {
	var out core.Account
	err := s.client.Get(ctx, Accounts.Get(id), nil, &out)
	return out, err
}

func (s *Service) CreateAccount(ctx context.Context, in core.AccountCreate) (core.Account, error) {
	var out core.Account
	if err := in.Validate(); err != nil {
		return out, fmt.Errorf("create account: %w", err)
	}
	err := s.client.Post(ctx, Accounts.Create(), in, &out)
	return out, err
}

func (s *Service) UpdateAccount(ctx context.Context, id string, in core.AccountUpdate) (core.Account, error) {
	var out core.Account
	err := s.client.Patch(ctx, Accounts.Update(id), in, &out)
	return out, err
}

func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	return s.client.Delete(ctx, Accounts.Delete(id))
}

// ListAccountTransactions returns the transactions of one account, in the
// order the backend sends them.
func (s *Service) ListAccountTransactions(ctx context.Context, accountID string) ([]core.Transaction, error) {
	var out []core.Transaction
	if err := s.client.Get(ctx, AccountTransactions(accountID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Transactions

func (s *Service) ListTransactions(ctx context.Context, opts ListOptions) ([]core.Transaction, error) {
	var out []core.Transaction
	if err := s.client.Get(ctx, Transactions.List(), opts.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var out core.Transaction
	err := s.client.Get(ctx, Transactions.Get(id), nil, &out)
	return out, err
}

func (s *Service) CreateTransaction(ctx context.Context, in core.TransactionCreate) (core.Transaction, error) {
	var out core.Transaction
	if err := in.Validate(); err != nil {
		return out, fmt.Errorf("create transaction: %w", err)
	}
	err := s.client.Post(ctx, Transactions.Create(), in, &out)
	return out, err
}

// UpdateTransaction patches the transaction named by in.ID.
func (s *Service) UpdateTransaction(ctx context.Context, in core.TransactionUpdate) (core.Transaction, error) {
	var out core.Transaction
	if err := in.Validate(); err != nil {
		return out, fmt.Errorf("update transaction: %w", err)
	}
	err := s.client.Patch(ctx, Transactions.Update(in.ID), in, &out)
	return out, err
}

func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	return s.client.Delete(ctx, Transactions.Delete(id))
}

// Budget categories

func (s *Service) ListBudgetCategories(ctx context.Context) ([]core.BudgetCategory, error) {
	var out []core.BudgetCategory
	if err := s.client.Get(ctx, BudgetCategories.List(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetBudgetCategory(ctx context.Context, id int64) (core.BudgetCategory, error) {
	var out core.BudgetCategory
	err := s.client.Get(ctx, BudgetCategories.Get(itoa(id)), nil, &out)
	return out, err
}

func (s *Service) CreateBudgetCategory(ctx context.Context, in core.BudgetCategoryCreate) (core.BudgetCategory, error) {
	var out core.BudgetCategory
	if err := in.Validate(); err != nil {
		return out, fmt.Errorf("create budget category: %w", err)
	}
	err := s.client.Post(ctx, BudgetCategories.Create(), in, &out)
	return out, err
}

func (s *Service) UpdateBudgetCategory(ctx context.Context, id int64, in core.BudgetCategoryUpdate) (core.BudgetCategory, error) {
	var out core.BudgetCategory
	err := s.client.Patch(ctx, BudgetCategories.Update(itoa(id)), in, &out)
	return out, err
}

func (s *Service) DeleteBudgetCategory(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, BudgetCategories.Delete(itoa(id)))
}

// Savings buckets

func (s *Service) ListSavingsBuckets(ctx context.Context) ([]core.SavingsBucket, error) {
	var out []core.SavingsBucket
	if err := s.client.Get(ctx, SavingsBuckets.List(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetSavingsBucket(ctx context.Context, id int64) (core.SavingsBucket, error) {
	var out core.SavingsBucket
	err := s.client.Get(ctx, SavingsBuckets.Get(itoa(id)), nil, &out)
	return out, err
}

func (s *Service) CreateSavingsBucket(ctx context.Context, in core.SavingsBucketCreate) (core.SavingsBucket, error) {
	var out core.SavingsBucket
	if err := in.Validate(); err != nil {
		return out, fmt.Errorf("create savings bucket: %w", err)
	}
	err := s.client.Post(ctx, SavingsBuckets.Create(), in, &out)
	return out, err
}

func (s *Service) UpdateSavingsBucket(ctx context.Context, id int64, in core.SavingsBucketUpdate) (core.SavingsBucket, error) {
	var out core.SavingsBucket
	err := s.client.Patch(ctx, SavingsBuckets.Update(itoa(id)), in, &out)
	return out, err
}

func (s *Service) DeleteSavingsBucket(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, SavingsBuckets.Delete(itoa(id)))
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
