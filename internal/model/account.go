package model

import "github.com/shopspring/decimal"

// Account is a wallet account for one currency. The bridge only reads it;
// ownership stays with the wallet's account store.
type Account struct {
	ID              string
	FreshAddress    string
	OperationsCount int
	Currency        Currency

	// Synced state. Zero values until the first successful sync.
	Balance     decimal.Decimal
	BlockHeight uint64
}
