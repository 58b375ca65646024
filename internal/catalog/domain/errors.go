package domain

import "fmt"

// ValidationError reports a structurally invalid request. Cases are distinguished
// by message only.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// NotFoundError reports a sale line referencing a product the catalog does not have.
type NotFoundError struct {
	ProductID int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("there is no product for ID %d", e.ProductID)
}

// InsufficientStockError reports a sale line requesting more than is available.
type InsufficientStockError struct {
	ProductID int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("the product %d is out of stock", e.ProductID)
}

// DispatchError wraps a failed confirmation send. Unlike the data errors above it
// is surfaced to the consuming layer instead of being converted into a rejection.
type DispatchError struct {
	Err error
}

func (e DispatchError) Error() string { return "sales confirmation dispatch failed: " + e.Err.Error() }

func (e DispatchError) Unwrap() error { return e.Err }
