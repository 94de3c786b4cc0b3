package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/emiliohtp1/tienda-backend/internal/cache"
	"github.com/emiliohtp1/tienda-backend/internal/catalog"
	"github.com/emiliohtp1/tienda-backend/internal/domain"
)

// Service applies mutations to the per-user cart aggregate. Every mutation is
// a read-modify-write of the whole document, serialised per user by an
// in-process mutex: the backing store only guarantees single-document
// atomicity, so without the lock two concurrent mutations for the same user
// would both read the same prior state and the later write would silently
// discard the earlier one.
type Service struct {
	repo    Repository
	catalog catalog.Store
	cache   cache.CartCache
	log     *zap.Logger
	sfg     singleflight.Group // Prevents cache stampede

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-user mutation locks
}

func NewService(repo Repository, store catalog.Store, cartCache cache.CartCache, log *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: store,
		cache:   cartCache,
		log:     log,
		locks:   make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutation lock for userID. Locks are kept for the
// process lifetime; the map grows with the number of distinct users seen,
// which is acceptable for a single-process deployment.
func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// GetCart never fails with ErrCartNotFound: an absent cart is a valid state
// and comes back as the empty, zero-total representation.
func (s *Service) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		c, err := s.cache.Get(ctx, userID)
		if err == nil {
			return c, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("cache get failed", zap.String("user_id", userID), zap.Error(err))
		}

		c, errGet := s.repo.Get(ctx, userID)
		if errors.Is(errGet, ErrCartNotFound) {
			return domain.EmptyCart(userID), nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			cacheCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := s.cache.Set(cacheCtx, userID, c); errSet != nil {
				s.log.Warn("cache set failed", zap.String("user_id", userID), zap.Error(errSet))
			}
		}()

		return c, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem puts quantity units of (productID, size) into the user's cart,
// snapshotting the product's current name and price onto the new line. Adding
// to an existing (productID, size) line increments its quantity instead of
// duplicating it.
func (s *Service) AddItem(ctx context.Context, userID, productID, size string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if size == "" {
		size = domain.DefaultSize
	}

	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	// Validate the product before touching the cart so a miss leaves any
	// existing cart unmodified.
	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		c = domain.EmptyCart(userID)
	} else if err != nil {
		return nil, err
	}

	c.MergeLine(domain.CartLine{
		ProductID: productID,
		Size:      size,
		Quantity:  quantity,
		UnitPrice: product.Price,
		Name:      product.Name,
		AddedAt:   time.Now(),
	})
	c.Recompute()

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.invalidateCache(userID)
	return c, nil
}

// SetItemQuantity replaces (not increments) the quantity of an existing line.
// A quantity of zero or less removes the line, exactly as RemoveItem would.
func (s *Service) SetItemQuantity(ctx context.Context, userID, productID, size string, quantity int) (*domain.Cart, error) {
	if size == "" {
		size = domain.DefaultSize
	}

	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.FindLine(productID, size)
	if i < 0 {
		return nil, ErrLineNotFound
	}

	if quantity <= 0 {
		c.RemoveLine(i)
	} else {
		c.Lines[i].Quantity = quantity
	}

	return s.persist(ctx, c)
}

// RemoveItem removes exactly one (productID, size) line.
func (s *Service) RemoveItem(ctx context.Context, userID, productID, size string) (*domain.Cart, error) {
	if size == "" {
		size = domain.DefaultSize
	}

	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.FindLine(productID, size)
	if i < 0 {
		return nil, ErrLineNotFound
	}
	c.RemoveLine(i)

	return s.persist(ctx, c)
}

// Clear deletes the cart record outright. A second Clear for the same user
// fails with ErrCartNotFound; idempotent callers may treat that as success.
func (s *Service) Clear(ctx context.Context, userID string) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.invalidateCache(userID)
	return nil
}

// persist recomputes totals and writes the cart back, deleting the record
// instead when the last line is gone: empty carts are never stored.
func (s *Service) persist(ctx context.Context, c *domain.Cart) (*domain.Cart, error) {
	c.Recompute()

	if c.IsEmpty() {
		if err := s.repo.Delete(ctx, c.UserID); err != nil && !errors.Is(err, ErrCartNotFound) {
			return nil, err
		}
		s.invalidateCache(c.UserID)
		return domain.EmptyCart(c.UserID), nil
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.invalidateCache(c.UserID)
	return c, nil
}

func (s *Service) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.log.Warn("cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}
