package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte("<products/>"))
	}))
	defer ts.Close()

	fetcher := NewHTTPFetcher(ts.URL, 5*time.Second)
	body, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("<products/>"), body)
}

func TestHTTPFetcherNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	fetcher := NewHTTPFetcher(ts.URL, 5*time.Second)
	_, err := fetcher.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestHTTPFetcherTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // closed before the request

	fetcher := NewHTTPFetcher(ts.URL, time.Second)
	_, err := fetcher.Fetch(context.Background())
	assert.Error(t, err)
}
