package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecomflow/catalog-service/internal/catalog/domain"
	"github.com/ecomflow/catalog-service/pkg/correlation"
	"github.com/ecomflow/catalog-service/pkg/logging"
)

type Service struct {
	log    *slog.Logger
	repo   ProductRepository
	sender ConfirmationSender
	sales  SalesClient
}

func NewService(log *slog.Logger, repo ProductRepository, sender ConfirmationSender, sales SalesClient) *Service {
	return &Service{log: log, repo: repo, sender: sender, sales: sales}
}

// UpdateStock reconciles one sale against the stock ledger and reports exactly one
// confirmation back to the ordering system. Data problems (malformed request,
// unknown product, insufficient stock, storage failure mid-batch) end as a REJECTED
// confirmation so the sale owner can roll back; only a missing correlation scope or
// a failed confirmation send escape to the caller.
func (s *Service) UpdateStock(ctx context.Context, req domain.StockUpdateRequest) error {
	corr, err := correlation.From(ctx)
	if err != nil {
		return err
	}
	log := logging.WithCorrelation(s.log, corr)

	if err := validateStockUpdate(req); err != nil {
		return s.reject(ctx, log, req, err)
	}

	updated, err := s.repo.DecrementStock(ctx, req.Products)
	if err != nil {
		return s.reject(ctx, log, req, err)
	}
	if len(updated) == 0 {
		// Nothing was decremented, nothing to confirm.
		return nil
	}

	confirmation := domain.SalesConfirmation{
		SalesID:       req.SalesID,
		Status:        domain.StatusApproved,
		TransactionID: req.TransactionID,
	}
	if err := s.sender.Send(ctx, confirmation); err != nil {
		log.Error("approved confirmation dispatch failed", "sales_id", req.SalesID, "err", err)
		return err
	}
	log.Info("stock update approved", "sales_id", req.SalesID, "products", len(updated))
	return nil
}

func (s *Service) reject(ctx context.Context, log *slog.Logger, req domain.StockUpdateRequest, cause error) error {
	log.Error("stock update rejected", "sales_id", req.SalesID, "err", cause)

	confirmation := domain.SalesConfirmation{
		SalesID:       req.SalesID,
		Status:        domain.StatusRejected,
		TransactionID: req.TransactionID,
	}
	if err := s.sender.Send(ctx, confirmation); err != nil {
		log.Error("rejected confirmation dispatch failed", "sales_id", req.SalesID, "err", err)
		return err
	}
	return nil
}

func validateStockUpdate(req domain.StockUpdateRequest) error {
	if req.SalesID == "" {
		return domain.ValidationError{Message: "the request data and sales id must be informed"}
	}
	if len(req.Products) == 0 {
		return domain.ValidationError{Message: "the sale products must be informed"}
	}
	for _, p := range req.Products {
		if p.ProductID <= 0 || p.Quantity <= 0 {
			return domain.ValidationError{Message: "the product id and the quantity must be informed"}
		}
	}
	return nil
}

// FindProductByID serves the catalog lookup surface.
func (s *Service) FindProductByID(ctx context.Context, id int) (domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// CheckStock verifies, without mutating anything, that every line could currently be
// fulfilled. All failures are reported as validation problems.
func (s *Service) CheckStock(ctx context.Context, items []domain.ProductQuantity) error {
	if len(items) == 0 {
		return domain.ValidationError{Message: "the request data and products must be informed"}
	}
	for _, it := range items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return domain.ValidationError{Message: "the product id and the quantity must be informed"}
		}
		product, err := s.repo.FindByID(ctx, it.ProductID)
		if err != nil {
			var notFound domain.NotFoundError
			if errors.As(err, &notFound) {
				return domain.ValidationError{Message: notFound.Error()}
			}
			return err
		}
		if it.Quantity > product.QuantityAvailable {
			return domain.ValidationError{Message: domain.InsufficientStockError{ProductID: product.ID}.Error()}
		}
	}
	return nil
}

// ProductSales pairs a product with the sales referencing it, as reported by the
// ordering system.
type ProductSales struct {
	Product  domain.Product
	SalesIDs []string
}

// FindProductSales enriches a product with its sale ids via a synchronous call to
// the ordering system. A client timeout or error is a processing failure for the
// caller, never an empty success.
func (s *Service) FindProductSales(ctx context.Context, id int) (ProductSales, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ProductSales{}, err
	}
	salesIDs, err := s.sales.FindSalesByProductID(ctx, product.ID)
	if err != nil {
		return ProductSales{}, fmt.Errorf("fetch sales for product %d: %w", product.ID, err)
	}
	return ProductSales{Product: product, SalesIDs: salesIDs}, nil
}
