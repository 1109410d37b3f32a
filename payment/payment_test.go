package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/worknest/worknest-go/api"
	"github.com/worknest/worknest-go/auth"
	clienterrors "github.com/worknest/worknest-go/internal/errors"
	"github.com/worknest/worknest-go/payment"
	"github.com/worknest/worknest-go/tokenstore"
)

const storedToken = "stored-access-token"

func newPaymentClient(t *testing.T, handler http.Handler) (*payment.Client, *auth.Client, *tokenstore.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := tokenstore.NewMemoryStore()
	apiClient := api.New(srv.URL)
	authClient := auth.New(apiClient, store)
	return payment.NewClient(apiClient, authClient, store, zerolog.Nop()), authClient, store
}

func TestEnsureAuthenticationFromMemory(t *testing.T) {
	_, authClient, store := newPaymentClient(t, http.NewServeMux())
	store.SetToken(storedToken)

	require.True(t, payment.EnsureAuthentication(authClient, store))
	require.True(t, authClient.IsAuthenticated())
}

func TestEnsureAuthenticationWithoutAnySession(t *testing.T) {
	_, authClient, store := newPaymentClient(t, http.NewServeMux())

	require.False(t, payment.EnsureAuthentication(authClient, store))
	require.False(t, authClient.IsAuthenticated())
}

// flakyStore misses the first token reads, the way a store on a slow
// medium can right after the browser returns from an external redirect.
type flakyStore struct {
	tokenstore.Store
	misses int
}

func (s *flakyStore) Token() string {
	if s.misses > 0 {
		s.misses--
		return ""
	}
	return s.Store.Token()
}

func TestEnsureAuthenticationMarkerWindow(t *testing.T) {
	defer func() { tokenstore.NowTimeFunc = time.Now }()

	t.Run("fresh marker restores the session", func(t *testing.T) {
		srv := httptest.NewServer(http.NewServeMux())
		t.Cleanup(srv.Close)

		tokenstore.NowTimeFunc = time.Now
		inner := tokenstore.NewMemoryStore()
		inner.SetToken(storedToken)
		inner.SetMarker()

		// two misses: one for construction, one for the first
		// post-redirect rehydration attempt
		store := &flakyStore{Store: inner, misses: 2}
		authClient := auth.New(api.New(srv.URL), store)

		tokenstore.NowTimeFunc = func() time.Time { return time.Now().Add(59 * time.Minute) }
		require.True(t, payment.EnsureAuthentication(authClient, store))
		require.Equal(t, storedToken, authClient.AccessToken())
	})

	t.Run("stale marker does not restore", func(t *testing.T) {
		srv := httptest.NewServer(http.NewServeMux())
		t.Cleanup(srv.Close)

		tokenstore.NowTimeFunc = time.Now
		inner := tokenstore.NewMemoryStore()
		inner.SetToken(storedToken)
		inner.SetMarker()

		store := &flakyStore{Store: inner, misses: 2}
		authClient := auth.New(api.New(srv.URL), store)

		tokenstore.NowTimeFunc = func() time.Time { return time.Now().Add(61 * time.Minute) }
		require.False(t, payment.EnsureAuthentication(authClient, store))
		require.False(t, authClient.IsAuthenticated())
	})
}

func TestCreateCheckoutSession(t *testing.T) {
	var markerAbsentDuringCall bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/create-checkout-session", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "job-1", body["jobId"])
		require.Equal(t, float64(30), body["listingDuration"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sessionId":"cs_123","url":"https://checkout.example.com/cs_123"}`))
	})

	client, _, store := newPaymentClient(t, mux)
	store.SetToken(storedToken)
	markerAbsentDuringCall = !store.ReadMarker()

	session, err := client.CreateCheckoutSession(context.Background(), "job-1", 30)
	require.NoError(t, err)
	require.Equal(t, "cs_123", session.SessionID)
	require.Equal(t, "https://checkout.example.com/cs_123", session.URL)

	// The auth marker is written only after the session exists.
	require.True(t, markerAbsentDuringCall)
	require.True(t, store.ReadMarker())
}

func TestCreateCheckoutSessionValidation(t *testing.T) {
	client, _, _ := newPaymentClient(t, http.NewServeMux())

	_, err := client.CreateCheckoutSession(context.Background(), "", 30)
	require.ErrorIs(t, err, clienterrors.ErrInvalidCheckout)

	_, err = client.CreateCheckoutSession(context.Background(), "job-1", 0)
	require.ErrorIs(t, err, clienterrors.ErrInvalidCheckout)
}

func TestCreateCheckoutSessionFailureLeavesNoMarker(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/create-checkout-session", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"stripe unavailable"}`))
	})

	client, _, store := newPaymentClient(t, mux)
	store.SetToken(storedToken)

	_, err := client.CreateCheckoutSession(context.Background(), "job-1", 30)
	require.Error(t, err)
	require.False(t, store.ReadMarker())
}

func TestActivateJob(t *testing.T) {
	var gotBody map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobs/job-1/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	client, _, store := newPaymentClient(t, mux)
	store.SetToken(storedToken)

	require.NoError(t, client.ActivateJob(context.Background(), "job-1", "cs_123"))
	require.Equal(t, "ACTIVE", gotBody["status"])
	require.Equal(t, "cs_123", gotBody["payment_session_id"])
}

func TestActivateJobValidation(t *testing.T) {
	client, _, _ := newPaymentClient(t, http.NewServeMux())

	require.ErrorIs(t, client.ActivateJob(context.Background(), "", "cs_123"), clienterrors.ErrInvalidCheckout)
	require.ErrorIs(t, client.ActivateJob(context.Background(), "job-1", ""), clienterrors.ErrInvalidCheckout)
}
