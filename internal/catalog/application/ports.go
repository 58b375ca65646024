package application

import (
	"context"

	"github.com/ecomflow/catalog-service/internal/catalog/domain"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id int) (domain.Product, error)
	// DecrementStock applies every line as a conditional decrement
	// (quantity_available >= requested) inside one transaction. Any failing line
	// rolls the whole batch back; no partial fulfillment ever reaches storage.
	DecrementStock(ctx context.Context, items []domain.ProductQuantity) ([]domain.Product, error)
}

type ConfirmationSender interface {
	Send(ctx context.Context, c domain.SalesConfirmation) error
}

type SalesClient interface {
	FindSalesByProductID(ctx context.Context, productID int) ([]string, error)
}
