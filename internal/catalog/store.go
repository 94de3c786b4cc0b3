package catalog

import (
	"context"
	"errors"

	"github.com/emiliohtp1/tienda-backend/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// StockOutcome describes what happened to a product's stock during checkout.
type StockOutcome string

const (
	// StockUpdated means stock was decremented and the product remains.
	StockUpdated StockOutcome = "updated"
	// StockDeleted means the decrement would have driven stock to zero or
	// below, so the product was removed from the catalog entirely.
	StockDeleted StockOutcome = "deleted"
)

type StockResult struct {
	ProductID string       `json:"product_id"`
	Outcome   StockOutcome `json:"outcome"`
	NewStock  int          `json:"new_stock,omitempty"`
}

// Store defines the catalog operations the cart subsystem depends on.
// Consumers define this interface, not the MongoDB implementation.
type Store interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error

	// DecrementStock reduces the product's stock by qty as a single
	// conditional update at the store layer. When the remaining stock would
	// be zero or negative the product is deleted instead and the result
	// reports StockDeleted. Returns ErrProductNotFound when the product no
	// longer exists.
	DecrementStock(ctx context.Context, productID string, qty int) (*StockResult, error)
}
