package core

import "github.com/shopspring/decimal"

// NetWorth sums the balances of all accounts; a missing balance counts as
// zero. Currencies are not converted.
func NetWorth(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.BalanceOrZero())
	}
	return total
}
