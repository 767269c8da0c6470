package model

import "github.com/shopspring/decimal"

// TransactionStatus is the per-field validation result of a draft, shown to
// the user before signing. Errors block signing, warnings do not.
type TransactionStatus struct {
	Errors        map[string]error
	Warnings      map[string]error
	EstimatedFees decimal.Decimal
	Amount        decimal.Decimal
	TotalSpent    decimal.Decimal
}
