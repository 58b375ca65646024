package domain

type SalesStatus string

const (
	StatusApproved SalesStatus = "APPROVED"
	StatusRejected SalesStatus = "REJECTED"
)

// ProductQuantity is one sale line item. Duplicate product ids in a request are
// legal and applied independently, in list order.
type ProductQuantity struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// StockUpdateRequest is the message the ordering system publishes when a sale is
// created. TransactionID is correlation data only; it is not a dedup key, so a
// redelivered sale is processed again.
type StockUpdateRequest struct {
	SalesID       string            `json:"salesId"`
	Products      []ProductQuantity `json:"products"`
	TransactionID string            `json:"transactionid"`
}

// SalesConfirmation is the terminal outcome reported back to the ordering system.
// Exactly one is produced per consumed stock update.
type SalesConfirmation struct {
	SalesID       string      `json:"salesId"`
	Status        SalesStatus `json:"status"`
	TransactionID string      `json:"transactionid"`
}
