package storefront

import (
	"context"
	"net/http"

	"qkart/storefront/internal/client"
	"qkart/storefront/internal/domain"

	log "github.com/sirupsen/logrus"
)

// LoadCatalog fetches the full catalog. On success the catalog and the
// displayed products both hold the response. On failure the catalog stays
// empty and a notification explains why.
func (s *Store) LoadCatalog(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		log.Errorf("❌ Failed to load catalog: %v", err)
		if client.StatusCode(err) == http.StatusInternalServerError {
			s.notify(domain.NotificationError, client.Message(err))
		} else {
			s.notify(domain.NotificationError, MsgFetchFailed)
		}
		return err
	}

	s.mu.Lock()
	s.catalog = products
	s.products = append([]domain.Product{}, products...)
	s.mu.Unlock()

	log.Infof("✅ Loaded %d products", len(products))
	s.emit(Event{Kind: EventCatalog})
	s.emit(Event{Kind: EventProducts})
	s.emit(Event{Kind: EventCart})
	return nil
}

// Query is called on every keystroke of the search box. The search runs once
// the input has been quiet for the debounce interval; earlier pending
// searches are dropped.
func (s *Store) Query(text string) {
	s.debouncer.Debounce(func() {
		_ = s.Search(s.ctx, text)
	})
}

// Search asks the backend for products matching text and displays them.
//   - no match (404): nothing is displayed, no notification
//   - server fault: the backend message is shown and the full catalog is displayed
//   - anything else: a connectivity notification, the displayed list is kept
func (s *Store) Search(ctx context.Context, text string) error {
	log.Debugf("🔍 Searching products for %q", text)

	products, err := s.backend.SearchProducts(ctx, text)
	if err == nil {
		s.setProducts(products)
		return nil
	}

	switch {
	case client.IsNotFound(err):
		s.setProducts([]domain.Product{})
		return nil
	case client.StatusCode(err) == http.StatusInternalServerError:
		s.notify(domain.NotificationError, client.Message(err))
		s.setProducts(s.Catalog())
	default:
		s.notify(domain.NotificationError, MsgFetchFailed)
	}

	log.Warnf("⚠️ Search for %q failed: %v", text, err)
	return err
}

func (s *Store) setProducts(products []domain.Product) {
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	s.emit(Event{Kind: EventProducts})
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()

	s.emit(Event{Kind: EventLoading})
}
