// Package storefront holds the client state of the shop: the catalog, the
// search results, the cart and the logged in user. It talks to the backend,
// reports outcomes as notifications and tells subscribers when state changes.
package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"qkart/storefront/internal/cart"
	"qkart/storefront/internal/client"
	"qkart/storefront/internal/debounce"
	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/repository"
	"qkart/storefront/internal/state"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	MsgFetchFailed   = "Could not fetch products. Check that the backend is running, reachable and returns valid JSON."
	MsgBackendFailed = "Something went wrong. Check that the backend is running, reachable and returns valid JSON."
)

// ErrNotLoggedIn is returned by operations that need a session
var ErrNotLoggedIn = errors.New("not logged in")

// ValidationError is a user input problem caught before calling the backend
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type EventKind int

const (
	EventLoading EventKind = iota
	EventCatalog
	EventProducts
	EventCart
	EventSession
	EventNotification
	EventOrderPlaced
)

func (k EventKind) String() string {
	switch k {
	case EventLoading:
		return "loading"
	case EventCatalog:
		return "catalog"
	case EventProducts:
		return "products"
	case EventCart:
		return "cart"
	case EventSession:
		return "session"
	case EventNotification:
		return "notification"
	case EventOrderPlaced:
		return "order_placed"
	default:
		return "unknown"
	}
}

// Event tells a subscriber which part of the state changed
type Event struct {
	Kind         EventKind
	Notification domain.Notification
	Order        *domain.Order
}

// Store is safe for concurrent use. Debounced searches and cart updates run
// on their own goroutines.
type Store struct {
	backend   client.Backend
	sessions  state.SessionStore
	orders    repository.OrderRepository
	debouncer *debounce.Debouncer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.RWMutex
	catalog   []domain.Product
	products  []domain.Product
	loading   bool
	cartRefs  []domain.CartReference
	session   *domain.Session
	listeners []func(Event)
}

func NewStore(
	backend client.Backend,
	sessions state.SessionStore,
	orders repository.OrderRepository,
	searchDebounce time.Duration,
) *Store {
	if searchDebounce <= 0 {
		searchDebounce = debounce.DefaultSearchInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Store{
		backend:   backend,
		sessions:  sessions,
		orders:    orders,
		debouncer: debounce.NewDebouncer(searchDebounce),
		ctx:       ctx,
		cancel:    cancel,
		catalog:   []domain.Product{},
		products:  []domain.Product{},
		cartRefs:  []domain.CartReference{},
	}
}

// Subscribe registers fn to be called after every state change.
// fn runs on the goroutine that changed the state and must not block.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load runs on start: it fetches the catalog while restoring the saved
// session, then fetches the cart of that session. A session that cannot be
// restored leaves the user logged out; it does not touch the catalog fetch.
func (s *Store) Load(ctx context.Context) error {
	errGroup := new(errgroup.Group)

	errGroup.Go(func() error {
		// Failures are reported as notifications and leave the catalog empty.
		_ = s.LoadCatalog(ctx)
		return nil
	})

	errGroup.Go(func() error {
		if err := s.restoreSession(ctx); err != nil {
			log.Warnf("⚠️ Continuing logged out: %v", err)
		}
		return nil
	})

	_ = errGroup.Wait()

	if !s.LoggedIn() {
		return nil
	}

	if err := s.LoadCart(ctx); err != nil {
		log.Warnf("⚠️ Failed to load cart: %v", err)
	}
	return nil
}

// Wait blocks until all fire-and-forget cart updates have finished
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close cancels a pending search, waits for cart updates and stops background work
func (s *Store) Close() {
	s.debouncer.Cancel()
	s.wg.Wait()
	s.cancel()
}

// Catalog returns every product known to the client
func (s *Store) Catalog() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product{}, s.catalog...)
}

// Products returns the products currently displayed (the search results)
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product{}, s.products...)
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Cart returns the cart references joined with the catalog
func (s *Store) Cart() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cart.Materialize(s.cartRefs, s.catalog)
}

func (s *Store) CartTotal() float64 {
	return cart.TotalValue(s.Cart())
}

// Session returns a copy of the logged in user, or nil
func (s *Store) Session() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	session := *s.session
	return &session
}

func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil
}

func (s *Store) token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return "", false
	}
	return s.session.Token, true
}

func (s *Store) emit(ev Event) {
	s.mu.RLock()
	listeners := append([]func(Event){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

func (s *Store) notify(level domain.NotificationLevel, message string) {
	s.emit(Event{
		Kind:         EventNotification,
		Notification: domain.Notification{Level: level, Message: message},
	})
}

// notifyBackendError reports err the way every flow does: the backend message
// for 4xx/5xx responses that carry one, fallback otherwise.
func (s *Store) notifyBackendError(err error, fallback string) {
	if msg := client.Message(err); msg != "" && (client.IsBadRequest(err) || client.IsServerFault(err)) {
		s.notify(domain.NotificationError, msg)
		return
	}
	s.notify(domain.NotificationError, fallback)
}
