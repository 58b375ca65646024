package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecomflow/catalog-service/internal/catalog/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{
		log:  log,
		pool: pool,
	}
}

func (r *Repository) Init(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		quantity_available INTEGER NOT NULL CHECK (quantity_available >= 0),
		category_id INTEGER NOT NULL,
		supplier_id INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	return err
}

func (r *Repository) FindByID(ctx context.Context, id int) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `SELECT id, name, quantity_available, category_id, supplier_id, created_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.QuantityAvailable, &p.CategoryID, &p.SupplierID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.NotFoundError{ProductID: id}
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// DecrementStock applies every sale line inside one transaction. Each line is a
// single conditional UPDATE guarded by quantity_available >= requested, so two
// concurrent sales cannot both pass the check and drive a quantity negative; the
// losing transaction sees the already-decremented row and fails the guard. Any
// failing line rolls back every line before it.
func (r *Repository) DecrementStock(ctx context.Context, items []domain.ProductQuantity) ([]domain.Product, error) {
	if len(items) == 0 {
		return nil, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	updated := make([]domain.Product, 0, len(items))
	for _, it := range items {
		var p domain.Product
		err := tx.QueryRow(ctx, `UPDATE products
			SET quantity_available = quantity_available - $2
			WHERE id = $1 AND quantity_available >= $2
			RETURNING id, name, quantity_available, category_id, supplier_id, created_at`,
			it.ProductID, it.Quantity).
			Scan(&p.ID, &p.Name, &p.QuantityAvailable, &p.CategoryID, &p.SupplierID, &p.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyFailedLine(ctx, tx, it.ProductID)
		}
		if err != nil {
			return nil, err
		}
		updated = append(updated, p)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// classifyFailedLine tells a missing product apart from an out-of-stock one after
// the guarded UPDATE matched no row.
func (r *Repository) classifyFailedLine(ctx context.Context, tx pgx.Tx, productID int) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id=$1)`, productID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.NotFoundError{ProductID: productID}
	}
	return domain.InsufficientStockError{ProductID: productID}
}

// SaveProduct seeds or replaces a catalog entry. Stock reconciliation never goes
// through here; it only uses the conditional decrement.
func (r *Repository) SaveProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO products (name, quantity_available, category_id, supplier_id)
		VALUES ($1,$2,$3,$4)
		RETURNING id, name, quantity_available, category_id, supplier_id, created_at`,
		p.Name, p.QuantityAvailable, p.CategoryID, p.SupplierID).
		Scan(&p.ID, &p.Name, &p.QuantityAvailable, &p.CategoryID, &p.SupplierID, &p.CreatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
