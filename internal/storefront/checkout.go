package storefront

import (
	"context"
	"fmt"
	"strings"
	"time"

	"qkart/storefront/internal/cart"
	"qkart/storefront/internal/domain"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	MsgEmptyCart           = "Your cart is empty"
	MsgInsufficientBalance = "You do not have enough balance in your wallet for this purchase"
	MsgSelectAddress       = "Please select one shipping address to proceed."
	MsgOrderPlaced         = "Order placed successfully"
	MsgEmptyAddress        = "Address cannot be empty"
)

// Addresses lists the shipping addresses of the logged in user
func (s *Store) Addresses(ctx context.Context) ([]domain.Address, error) {
	token, ok := s.token()
	if !ok {
		return nil, ErrNotLoggedIn
	}

	addresses, err := s.backend.ListAddresses(ctx, token)
	if err != nil {
		s.notifyBackendError(err, MsgBackendFailed)
		return nil, err
	}
	return addresses, nil
}

// AddAddress saves a new shipping address and returns the updated list
func (s *Store) AddAddress(ctx context.Context, address string) ([]domain.Address, error) {
	token, ok := s.token()
	if !ok {
		return nil, ErrNotLoggedIn
	}

	address = strings.TrimSpace(address)
	if address == "" {
		s.notify(domain.NotificationWarning, MsgEmptyAddress)
		return nil, &ValidationError{Message: MsgEmptyAddress}
	}

	addresses, err := s.backend.AddAddress(ctx, token, address)
	if err != nil {
		s.notifyBackendError(err, MsgBackendFailed)
		return nil, err
	}
	return addresses, nil
}

// DeleteAddress removes a shipping address and returns the updated list
func (s *Store) DeleteAddress(ctx context.Context, addressID string) ([]domain.Address, error) {
	token, ok := s.token()
	if !ok {
		return nil, ErrNotLoggedIn
	}

	addresses, err := s.backend.DeleteAddress(ctx, token, addressID)
	if err != nil {
		s.notifyBackendError(err, MsgBackendFailed)
		return nil, err
	}
	return addresses, nil
}

func validateCheckout(items []domain.CartItem, balance float64, addressID string) error {
	switch {
	case len(items) == 0:
		return &ValidationError{Message: MsgEmptyCart}
	case cart.TotalValue(items) > balance:
		return &ValidationError{Message: MsgInsufficientBalance}
	case addressID == "":
		return &ValidationError{Message: MsgSelectAddress}
	}
	return nil
}

// Checkout places the order for the current cart, shipped to addressID.
// On success the wallet balance is reduced by the cart total, the order is
// added to the order history and the cart is emptied.
func (s *Store) Checkout(ctx context.Context, addressID string) (*domain.Order, error) {
	session := s.Session()
	if session == nil {
		s.notify(domain.NotificationWarning, "Login to checkout")
		return nil, ErrNotLoggedIn
	}

	items := s.Cart()
	if err := validateCheckout(items, session.Balance, addressID); err != nil {
		level := domain.NotificationWarning
		if err.Error() == MsgInsufficientBalance {
			level = domain.NotificationError
		}
		s.notify(level, err.Error())
		return nil, err
	}

	if err := s.backend.Checkout(ctx, session.Token, addressID); err != nil {
		log.Warnf("⚠️ Checkout failed: %v", err)
		s.notifyBackendError(err, MsgBackendFailed)
		return nil, err
	}

	total := cart.TotalValue(items)
	order := &domain.Order{
		ID:        uuid.NewString(),
		Username:  session.Username,
		AddressID: addressID,
		Items:     items,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}

	session.Balance -= total
	if err := s.sessions.SetSession(ctx, session); err != nil {
		log.Warnf("⚠️ Failed to persist balance after checkout: %v", err)
	}
	s.setSession(session)
	s.setCart([]domain.CartReference{})

	if err := s.orders.SaveOrder(ctx, order); err != nil {
		log.Warnf("⚠️ Failed to record order %s: %v", order.ID, err)
	}

	log.Infof("✅ Order %s placed: %d items, total %.2f", order.ID, len(items), total)
	s.notify(domain.NotificationSuccess, MsgOrderPlaced)
	s.emit(Event{Kind: EventOrderPlaced, Order: order})
	return order, nil
}

// Orders lists the order history of the logged in user, newest first
func (s *Store) Orders(ctx context.Context) ([]domain.Order, error) {
	session := s.Session()
	if session == nil {
		return nil, ErrNotLoggedIn
	}

	orders, err := s.orders.ListOrders(ctx, session.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
