package storefront

import (
	"context"
	"fmt"

	"qkart/storefront/internal/cart"
	"qkart/storefront/internal/domain"

	log "github.com/sirupsen/logrus"
)

const (
	MsgLoginToAdd    = "Login to add an item to the Cart"
	MsgAlreadyInCart = "Item already in cart. Use the cart sidebar to update quantity or remove item."
)

// LoadCart fetches the cart of the logged in user. Without a session the cart is empty.
func (s *Store) LoadCart(ctx context.Context) error {
	token, ok := s.token()
	if !ok {
		s.setCart([]domain.CartReference{})
		return nil
	}

	refs, err := s.backend.GetCart(ctx, token)
	if err != nil {
		s.notifyBackendError(err, MsgBackendFailed)
		return fmt.Errorf("failed to load cart: %w", err)
	}

	s.setCart(refs)
	log.Debugf("Loaded cart with %d lines", len(refs))
	return nil
}

// AddToCart adds qty of a product. It reports whether an update was sent.
// With preventDuplicate a product already in the cart is left alone.
func (s *Store) AddToCart(productID string, qty int, preventDuplicate bool) bool {
	if !s.LoggedIn() {
		s.notify(domain.NotificationWarning, MsgLoginToAdd)
		return false
	}

	if preventDuplicate && cart.Contains(s.Cart(), productID) {
		s.notify(domain.NotificationWarning, MsgAlreadyInCart)
		return false
	}

	s.UpdateQuantity(productID, qty)
	return true
}

// UpdateQuantity sends the new quantity of a cart line without waiting for
// the result. Qty 0 removes the line. Failures are logged, not shown, and
// nothing is retried or rolled back.
func (s *Store) UpdateQuantity(productID string, qty int) {
	if qty < 0 {
		qty = 0
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if err := s.SetQuantity(s.ctx, productID, qty); err != nil {
			log.Warnf("⚠️ Cart update for %s (qty %d) failed: %v", productID, qty, err)
		}
	}()
}

// SetQuantity is the synchronous form of UpdateQuantity. The cart returned
// by the backend replaces the local one.
func (s *Store) SetQuantity(ctx context.Context, productID string, qty int) error {
	token, ok := s.token()
	if !ok {
		return ErrNotLoggedIn
	}

	refs, err := s.backend.UpdateCart(ctx, token, domain.CartReference{ProductID: productID, Qty: qty})
	if err != nil {
		return err
	}

	s.setCart(refs)
	return nil
}

func (s *Store) setCart(refs []domain.CartReference) {
	s.mu.Lock()
	s.cartRefs = refs
	s.mu.Unlock()

	s.emit(Event{Kind: EventCart})
}
