package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qkart/storefront/internal/client"
	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/repository"
	"qkart/storefront/internal/state"
)

func TestRegister_Validation(t *testing.T) {
	cases := []struct {
		username, password, confirm string
		want                        string
	}{
		{"", "secret1", "secret1", "Username is a required field"},
		{"abc", "secret1", "secret1", "Username must be at least 6 characters"},
		{"crio.do", "", "", "Password is a required field"},
		{"crio.do", "abc", "abc", "Password must be at least 6 characters"},
		{"crio.do", "secret1", "secret2", "Passwords do not match"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			store, rec := newTestStore(t, &fakeBackend{})

			err := store.Register(context.Background(), tc.username, tc.password, tc.confirm)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.want, vErr.Message)
			assert.Equal(t, []domain.Notification{{Level: domain.NotificationWarning, Message: tc.want}}, rec.notifications())
		})
	}
}

func TestRegister_Success(t *testing.T) {
	store, rec := newTestStore(t, &fakeBackend{})

	require.NoError(t, store.Register(context.Background(), "crio.do", "secret1", "secret1"))
	assert.False(t, store.LoggedIn())
	assert.Equal(t, []domain.Notification{{Level: domain.NotificationSuccess, Message: "Registered successfully"}}, rec.notifications())
}

func TestRegister_UsernameTaken(t *testing.T) {
	backend := &fakeBackend{registerErr: fmt.Errorf("failed to register: %w",
		&client.APIError{StatusCode: http.StatusBadRequest, Message: "Username is already taken"})}
	store, rec := newTestStore(t, backend)

	require.Error(t, store.Register(context.Background(), "crio.do", "secret1", "secret1"))
	assert.Equal(t, []domain.Notification{{Level: domain.NotificationError, Message: "Username is already taken"}}, rec.notifications())
}

func TestLogin_PersistsSession(t *testing.T) {
	backend := &fakeBackend{products: testCatalog(), cart: []domain.CartReference{{ProductID: "b", Qty: 1}}}
	sessions := state.NewMemorySessionStore()
	store := NewStore(backend, sessions, repository.NewMemoryOrderRepository(), 0)
	t.Cleanup(store.Close)
	ctx := context.Background()
	require.NoError(t, store.LoadCatalog(ctx))

	require.NoError(t, store.Login(ctx, "crio.do", "learnbydoing"))

	assert.True(t, store.LoggedIn())
	saved, err := sessions.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tkn-crio.do", saved.Token)
	assert.Len(t, store.Cart(), 1, "cart is fetched after login")
}

func TestLogin_Validation(t *testing.T) {
	store, rec := newTestStore(t, &fakeBackend{})

	err := store.Login(context.Background(), "", "x")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Username is a required field", vErr.Message)

	err = store.Login(context.Background(), "crio.do", "")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Password is a required field", vErr.Message)
	assert.Len(t, rec.notifications(), 2)
}

func TestLogin_BackendErrors(t *testing.T) {
	backend := &fakeBackend{loginErr: &client.APIError{StatusCode: http.StatusBadRequest, Message: "Password is incorrect"}}
	store, rec := newTestStore(t, backend)

	require.Error(t, store.Login(context.Background(), "crio.do", "wrong"))
	assert.False(t, store.LoggedIn())

	backend.loginErr = fmt.Errorf("%w: refused", client.ErrUnreachable)
	require.Error(t, store.Login(context.Background(), "crio.do", "wrong"))

	assert.Equal(t, []domain.Notification{
		{Level: domain.NotificationError, Message: "Password is incorrect"},
		{Level: domain.NotificationError, Message: MsgBackendFailed},
	}, rec.notifications())
}

func TestLogout(t *testing.T) {
	backend := &fakeBackend{products: testCatalog(), cart: []domain.CartReference{{ProductID: "a", Qty: 1}}}
	store, _ := loggedInStore(t, backend)
	require.NotEmpty(t, store.Cart())

	require.NoError(t, store.Logout(context.Background()))

	assert.False(t, store.LoggedIn())
	assert.Empty(t, store.Cart())
	err := store.SetQuantity(context.Background(), "a", 1)
	assert.True(t, errors.Is(err, ErrNotLoggedIn))
}
