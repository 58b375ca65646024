package domain

import "time"

// Product is the catalog entry the stock reconciliation mutates. QuantityAvailable
// never goes negative; the only write path is the repository's conditional decrement.
type Product struct {
	ID                int
	Name              string
	QuantityAvailable int
	CategoryID        int
	SupplierID        int
	CreatedAt         time.Time
}
