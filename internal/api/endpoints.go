package api

import (
	"net/url"
)

// Resource maps the standard operations of one backend collection to paths.
type Resource struct {
	base string
}

var (
	Accounts         = Resource{base: "/accounts/"}
	Transactions     = Resource{base: "/transactions/"}
	BudgetCategories = Resource{base: "/budget-categories/"}
	SavingsBuckets   = Resource{base: "/savings-buckets/"}
)

// List returns the collection path.
func (r Resource) List() string { return r.base }

// Create returns the path new items are POSTed to.
func (r Resource) Create() string { return r.base }

// Get returns the item path for id.
func (r Resource) Get(id string) string { return r.item(id) }

// Update returns the item path PATCHed for id.
func (r Resource) Update(id string) string { return r.item(id) }

// Delete returns the item path for id.
func (r Resource) Delete(id string) string { return r.item(id) }

func (r Resource) item(id string) string {
	return r.base + url.PathEscape(id) + "/"
}

// AccountTransactions returns the per-account transactions path.
func AccountTransactions(accountID string) string {
	return Accounts.item(accountID) + "transactions/"
}
