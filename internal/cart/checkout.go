package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emiliohtp1/tienda-backend/internal/cache"
	"github.com/emiliohtp1/tienda-backend/internal/catalog"
	"github.com/emiliohtp1/tienda-backend/internal/events"
)

// LineStatus is the per-line outcome of a checkout.
type LineStatus string

const (
	// LineUpdated means stock was decremented and the product remains in
	// the catalog.
	LineUpdated LineStatus = "updated"
	// LineDeleted means the decrement exhausted the stock and the product
	// was removed from the catalog.
	LineDeleted LineStatus = "deleted"
	// LineFailed means the stock decrement failed locally, e.g. the
	// product was deleted out-of-band. The failure is recorded and the
	// remaining lines are still processed.
	LineFailed LineStatus = "failed"
)

type LineResult struct {
	ProductID string     `json:"product_id"`
	Size      string     `json:"size"`
	Quantity  int        `json:"quantity"`
	Status    LineStatus `json:"status"`
	NewStock  int        `json:"new_stock,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type CheckoutResult struct {
	CheckoutID  string       `json:"checkout_id"`
	Success     bool         `json:"success"`
	Lines       []LineResult `json:"lines"`
	CartCleared bool         `json:"cart_cleared"`
	TotalPrice  float64      `json:"total_price"`
}

// CheckoutService commits the current cart against live catalog stock. It is
// best-effort by design: per-line failures are recorded in the result rather
// than aborting the remaining lines, the cart is cleared unconditionally once
// every line has been processed, and nothing is rolled back. There is no
// reservation step, so concurrent checkouts over overlapping stock can still
// oversell across products; the per-product decrement itself is atomic at the
// store layer.
type CheckoutService struct {
	repo      Repository
	catalog   catalog.Store
	cache     cache.CartCache
	publisher events.Publisher
	log       *zap.Logger
}

func NewCheckoutService(repo Repository, store catalog.Store, cartCache cache.CartCache, publisher events.Publisher, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		repo:      repo,
		catalog:   store,
		cache:     cartCache,
		publisher: publisher,
		log:       log,
	}
}

// Checkout processes every line of the user's cart in order and reports the
// aggregate result. It fails outright only when there is nothing to commit
// (ErrCartNotFound) or the cart cannot be loaded at all.
func (s *CheckoutService) Checkout(ctx context.Context, userID string) (*CheckoutResult, error) {
	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{
		CheckoutID: uuid.NewString(),
		Success:    true,
		Lines:      make([]LineResult, 0, len(c.Lines)),
		TotalPrice: c.TotalPrice,
	}

	for _, line := range c.Lines {
		lr := LineResult{
			ProductID: line.ProductID,
			Size:      line.Size,
			Quantity:  line.Quantity,
		}

		stock, errDec := s.catalog.DecrementStock(ctx, line.ProductID, line.Quantity)
		switch {
		case errDec == nil && stock.Outcome == catalog.StockDeleted:
			lr.Status = LineDeleted
		case errDec == nil:
			lr.Status = LineUpdated
			lr.NewStock = stock.NewStock
		default:
			// Recorded, not fatal: keep going with the remaining lines.
			lr.Status = LineFailed
			lr.Error = errDec.Error()
			s.log.Warn("stock decrement failed",
				zap.String("user_id", userID),
				zap.String("product_id", line.ProductID),
				zap.Error(errDec))
		}

		result.Lines = append(result.Lines, lr)
	}

	// The cart is cleared whatever the outcome mix was.
	errClear := s.repo.Delete(ctx, userID)
	result.CartCleared = errClear == nil || errors.Is(errClear, ErrCartNotFound)
	if !result.CartCleared {
		s.log.Error("failed to clear cart after checkout",
			zap.String("user_id", userID), zap.Error(errClear))
	}

	if errCache := s.cache.Delete(ctx, userID); errCache != nil {
		s.log.Warn("cache invalidate failed after checkout",
			zap.String("user_id", userID), zap.Error(errCache))
	}

	if errPub := s.publisher.PublishCheckout(ctx, events.CheckoutEvent{
		CheckoutID:  result.CheckoutID,
		UserID:      userID,
		Items:       c.Lines,
		TotalPrice:  c.TotalPrice,
		CompletedAt: time.Now(),
	}); errPub != nil {
		s.log.Warn("failed to publish checkout event",
			zap.String("checkout_id", result.CheckoutID), zap.Error(errPub))
	}

	return result, nil
}
