package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qkart/storefront/internal/config"
	"qkart/storefront/internal/domain"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) Backend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBackendClient(config.BackendConfig{BaseURL: srv.URL + "/api/v1", Timeout: 5})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListProducts(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name":"iPhone XR","category":"Phones","cost":100,"rating":4,"image":"https://i.imgur.com/lulqWzW.jpg","_id":"v4sLtEcMpzabRyfx"},
			{"name":"Basketball","category":"Sports","cost":100,"rating":5,"image":"https://i.imgur.com/lulqWzW.jpg","_id":"upLK9JbQ4rMhTwt4"}
		]`))
	})

	products, err := backend.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, domain.Product{
		ID:       "v4sLtEcMpzabRyfx",
		Name:     "iPhone XR",
		Category: "Phones",
		Cost:     100,
		Rating:   4,
		Image:    "https://i.imgur.com/lulqWzW.jpg",
	}, products[0])
}

func TestListProducts_ServerFault(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Something went wrong. Check the backend console for more details",
		})
	})

	_, err := backend.ListProducts(context.Background())
	require.Error(t, err)
	assert.True(t, IsServerFault(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "Something went wrong. Check the backend console for more details", Message(err))
}

func TestSearchProducts(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/product/search", r.URL.Path)
		assert.Equal(t, "phone case", r.URL.Query().Get("value"))
		writeJSON(w, http.StatusOK, []domain.Product{{ID: "a", Name: "Phone case", Cost: 5}})
	})

	products, err := backend.SearchProducts(context.Background(), "phone case")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "a", products[0].ID)
}

func TestSearchProducts_NotFound(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := backend.SearchProducts(context.Background(), "zzz")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Empty(t, Message(err))
}

func TestInvalidJSON(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := backend.ListProducts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
	assert.Zero(t, StatusCode(err))
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	backend := NewBackendClient(config.BackendConfig{BaseURL: url, Timeout: 1})
	_, err := backend.ListProducts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
}

func TestLogin(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var body credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "secret1" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Password is incorrect"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true, "token": "tkn", "username": body.Username, "balance": 5000,
		})
	})

	session, err := backend.Login(context.Background(), "crio.do", "secret1")
	require.NoError(t, err)
	assert.Equal(t, &domain.Session{Username: "crio.do", Token: "tkn", Balance: 5000}, session)

	_, err = backend.Login(context.Background(), "crio.do", "wrong")
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))
	assert.Equal(t, "Password is incorrect", Message(err))
}

func TestCartCallsCarryToken(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, []domain.CartReference{{ProductID: "a", Qty: 1}})
		case http.MethodPost:
			var ref domain.CartReference
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&ref))
			writeJSON(w, http.StatusOK, []domain.CartReference{ref})
		}
	})

	refs, err := backend.GetCart(context.Background(), "tkn")
	require.NoError(t, err)
	assert.Equal(t, []domain.CartReference{{ProductID: "a", Qty: 1}}, refs)

	refs, err = backend.UpdateCart(context.Background(), "tkn", domain.CartReference{ProductID: "b", Qty: 3})
	require.NoError(t, err)
	assert.Equal(t, []domain.CartReference{{ProductID: "b", Qty: 3}}, refs)
}

func TestAddresses(t *testing.T) {
	addresses := []domain.Address{{ID: "1", Address: "221B Baker Street, London"}}
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			addresses = append(addresses, domain.Address{ID: "2", Address: body["address"]})
		case r.Method == http.MethodDelete:
			assert.Equal(t, "/api/v1/user/addresses/1", r.URL.Path)
			addresses = addresses[1:]
		}
		writeJSON(w, http.StatusOK, addresses)
	})

	list, err := backend.ListAddresses(context.Background(), "tkn")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = backend.AddAddress(context.Background(), "tkn", "742 Evergreen Terrace")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = backend.DeleteAddress(context.Background(), "tkn", "1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2", list[0].ID)
}

func TestCheckout(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/cart/checkout", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["addressId"] == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Address not set"})
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, backend.Checkout(context.Background(), "tkn", "addr-1"))

	err := backend.Checkout(context.Background(), "tkn", "")
	require.Error(t, err)
	assert.Equal(t, "Address not set", Message(err))
}
