package dashboard

import (
	"context"

	"finboard/internal/core"
	"finboard/internal/log"
)

const (
	MsgSelectAccount       = "Select an account to view transactions"
	MsgTransactionsLoading = "Loading transactions..."
	MsgTransactionsFailed  = "Failed to load transactions. Please try again later."
	MsgNoTransactions      = "No transactions found for this account."
	NoDescription          = "No description"
)

// ListState is the transactions list lifecycle.
type ListState int

const (
	ListIdle ListState = iota
	ListLoading
	ListReady
	ListFailed
)

func (s ListState) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListReady:
		return "ready"
	case ListFailed:
		return "failed"
	}
	return "idle"
}

// TransactionsSource lists one account's transactions.
type TransactionsSource interface {
	ListAccountTransactions(ctx context.Context, accountID string) ([]core.Transaction, error)
}

// Ticket identifies one fetch. Only the newest ticket may change the list.
type Ticket struct {
	Seq       uint64
	AccountID core.ID
}

// TransactionsResult is the outcome of the fetch issued for Ticket.
type TransactionsResult struct {
	Ticket       Ticket
	Transactions []core.Transaction
	Err          error
}

// TransactionsList shows the selected account's transactions, newest first.
// A selection change supersedes any fetch in flight: its context is
// cancelled and its result, should it still arrive, is dropped.
type TransactionsList struct {
	source    TransactionsSource
	logger    *log.Logger
	state     ListState
	accountID core.ID
	items     []core.Transaction
	seq       uint64
	cancel    context.CancelFunc
}

// NewTransactionsList returns an idle list.
func NewTransactionsList(source TransactionsSource, logger *log.Logger) *TransactionsList {
	if logger == nil {
		logger = log.Discard()
	}
	return &TransactionsList{
		source: source,
		logger: logger.WithComponent(log.ComponentDashboard),
	}
}

// Begin switches the list to accountID. It returns the context and ticket
// for the fetch to run, and false when there is nothing to fetch: the id
// is empty (the list goes idle) or already the current one.
func (l *TransactionsList) Begin(ctx context.Context, accountID core.ID) (context.Context, Ticket, bool) {
	if accountID == l.accountID {
		return nil, Ticket{}, false
	}
	return l.restart(ctx, accountID)
}

// Refresh re-fetches the current account under a new ticket.
func (l *TransactionsList) Refresh(ctx context.Context) (context.Context, Ticket, bool) {
	return l.restart(ctx, l.accountID)
}

func (l *TransactionsList) restart(ctx context.Context, accountID core.ID) (context.Context, Ticket, bool) {
	l.seq++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.accountID = accountID
	l.items = nil

	if accountID == "" {
		l.state = ListIdle
		return nil, Ticket{}, false
	}

	l.state = ListLoading
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	return fetchCtx, Ticket{Seq: l.seq, AccountID: accountID}, true
}

// Fetch queries the source for t. It does not touch list state.
func (l *TransactionsList) Fetch(ctx context.Context, t Ticket) TransactionsResult {
	txs, err := l.source.ListAccountTransactions(ctx, t.AccountID.String())
	return TransactionsResult{Ticket: t, Transactions: txs, Err: err}
}

// Apply stores res if its ticket is still current and reports whether it
// did. Stale results are discarded.
func (l *TransactionsList) Apply(res TransactionsResult) bool {
	if res.Ticket.AccountID == "" || res.Ticket != l.current() {
		l.logger.Debug("Discarding superseded transactions response",
			log.FieldTicket, res.Ticket.Seq,
			log.FieldAccountID, res.Ticket.AccountID.String())
		return false
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	if res.Err != nil {
		l.state = ListFailed
		l.items = nil
		l.logger.Error("Failed to load transactions",
			log.NewFields().
				WithOperation(log.OpList).
				WithAccount(res.Ticket.AccountID.String()).
				WithError(res.Err).
				ToSlice()...)
		return true
	}

	l.state = ListReady
	l.items = core.SortByPostedDesc(res.Transactions)
	l.logger.Debug("Transactions loaded",
		log.FieldAccountID, res.Ticket.AccountID.String(),
		log.FieldTxCount, len(l.items))
	return true
}

// Load switches to accountID and settles the fetch synchronously.
func (l *TransactionsList) Load(ctx context.Context, accountID core.ID) {
	fetchCtx, t, ok := l.Begin(ctx, accountID)
	if !ok {
		return
	}
	l.Apply(l.Fetch(fetchCtx, t))
}

// Close cancels any fetch in flight.
func (l *TransactionsList) Close() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *TransactionsList) current() Ticket {
	return Ticket{Seq: l.seq, AccountID: l.accountID}
}

func (l *TransactionsList) State() ListState                 { return l.state }
func (l *TransactionsList) AccountID() core.ID               { return l.accountID }
func (l *TransactionsList) Transactions() []core.Transaction { return l.items }

// TransactionRow is one rendered transaction.
type TransactionRow struct {
	ID          core.ID
	Description string
	Date        string
	Payee       string
	Memo        string
	Amount      string
	Debit       bool
	Pending     bool
}

// ListView is what a front-end renders for the list.
type ListView struct {
	State   ListState
	Message string
	Rows    []TransactionRow
}

// View renders the current state.
func (l *TransactionsList) View() ListView {
	switch l.state {
	case ListIdle:
		return ListView{State: l.state, Message: MsgSelectAccount}
	case ListLoading:
		return ListView{State: l.state, Message: MsgTransactionsLoading}
	case ListFailed:
		return ListView{State: l.state, Message: MsgTransactionsFailed}
	}
	if len(l.items) == 0 {
		return ListView{State: l.state, Message: MsgNoTransactions}
	}

	rows := make([]TransactionRow, len(l.items))
	for i, tx := range l.items {
		desc := tx.Description
		if desc == "" {
			desc = NoDescription
		}
		rows[i] = TransactionRow{
			ID:          tx.ID,
			Description: desc,
			Date:        core.FormatDate(tx.PostedDate),
			Payee:       tx.Payee,
			Memo:        tx.Memo,
			Amount:      core.FormatMoney(tx.Amount, tx.CurrencyCode()),
			Debit:       tx.IsDebit(),
			Pending:     tx.Pending,
		}
	}
	return ListView{State: l.state, Rows: rows}
}
