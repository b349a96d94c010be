package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qkart/storefront/internal/client"
	"qkart/storefront/internal/domain"
)

func newBackendServer(t *testing.T) *httptest.Server {
	t.Helper()

	products := []domain.Product{
		{ID: "a", Name: "iPhone XR", Category: "Phones", Cost: 10, Rating: 4},
		{ID: "b", Name: "Basketball", Category: "Sports", Cost: 20, Rating: 5},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(products)
	})
	mux.HandleFunc("GET /product/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("value") != "Sports" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(products[1:])
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func setupEnv(t *testing.T, baseURL string) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("STOREFRONT_BACKEND_BASE_URL", baseURL)
	t.Setenv("STOREFRONT_LOG_LEVEL", "error")
}

func TestProductsCmd(t *testing.T) {
	srv := newBackendServer(t)
	setupEnv(t, srv.URL)

	out, _, err := execute(t, "products")
	require.NoError(t, err)

	assert.Contains(t, out, "iPhone XR")
	assert.Contains(t, out, "Basketball")
	assert.Contains(t, out, "$10.00")
}

func TestSearchCmd(t *testing.T) {
	srv := newBackendServer(t)
	setupEnv(t, srv.URL)

	out, _, err := execute(t, "search", "Sports")
	require.NoError(t, err)
	assert.Contains(t, out, "Basketball")
	assert.NotContains(t, out, "iPhone XR")

	out, _, err = execute(t, "search", "nothing")
	require.NoError(t, err)
	assert.Contains(t, out, "No products found")
}

func TestLoginCmd_ValidationIsReported(t *testing.T) {
	srv := newBackendServer(t)
	setupEnv(t, srv.URL)

	_, errOut, err := execute(t, "login", "--username", "", "--password", "")
	require.Error(t, err)
	assert.Contains(t, errOut, "[warning] Username is a required field")
}

func TestCartCmd_RequiresLogin(t *testing.T) {
	srv := newBackendServer(t)
	setupEnv(t, srv.URL)

	_, _, err := execute(t, "cart")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestPrintOrders(t *testing.T) {
	var buf bytes.Buffer
	printOrders(&buf, nil)
	assert.Equal(t, "No orders yet\n", buf.String())

	buf.Reset()
	printOrders(&buf, []domain.Order{{
		ID:        "order-1",
		Items:     []domain.CartItem{{ProductID: "a", Qty: 2}},
		Total:     20,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}})
	assert.Contains(t, buf.String(), "order-1")
	assert.Contains(t, buf.String(), "$20.00")
}

func TestCheckoutCmd_NewAddressEmptyResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"token":"tkn","username":"crio.do","balance":5000}`))
	})
	mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("POST /user/addresses", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	setupEnv(t, srv.URL)
	t.Setenv("STOREFRONT_REDIS_ENABLED", "true")
	t.Setenv("STOREFRONT_REDIS_HOST", mr.Host())
	t.Setenv("STOREFRONT_REDIS_PORT", mr.Port())
	t.Cleanup(func() { address = "" })

	_, _, err := execute(t, "login", "--username", "crio.do", "--password", "learnbydoing")
	require.NoError(t, err)

	_, _, err = execute(t, "checkout", "--new-address", "221B Baker Street")
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrInvalidResponse)
}
