package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-dev/finsight/internal/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	payload := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookieName)
			if err != nil || c.Value != "1010101010" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}
	}
	mux.Handle("/api/bank_transactions", payload(`{"bankTransactions":[]}`))
	mux.Handle("/api/mf_transactions", payload(`{"mfTransactions":[]}`))
	mux.Handle("/api/stock_transactions", payload(`{"stockTransactions":[]}`))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL+"/", time.Second)
	require.NoError(t, err)

	ctx := context.Background()
	bank, err := c.BankTransactions(ctx, "1010101010")
	require.NoError(t, err)
	assert.JSONEq(t, `{"bankTransactions":[]}`, string(bank))

	mf, err := c.MFTransactions(ctx, "1010101010")
	require.NoError(t, err)
	assert.JSONEq(t, `{"mfTransactions":[]}`, string(mf))

	stock, err := c.StockTransactions(ctx, "1010101010")
	require.NoError(t, err)
	assert.JSONEq(t, `{"stockTransactions":[]}`, string(stock))
}

func TestClient_LogsComponent(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	var buf bytes.Buffer
	log, err := logger.NewWithWriter(&buf, "debug", logger.FormatJSON)
	require.NoError(t, err)
	ctx := logger.WithContext(context.Background(), log)

	_, err = c.BankTransactions(ctx, "1010101010")
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mcp", entry[logger.FieldComponent])
	assert.Equal(t, EndpointBank, entry["endpoint"])
	assert.InDelta(t, http.StatusOK, entry["status"], 0)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = c.BankTransactions(context.Background(), "9999999999")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	c, err := NewClient(srv.URL, 0)
	require.NoError(t, err)

	_, err = c.StockTransactions(context.Background(), "1010101010")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClient_CanceledContext(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.BankTransactions(ctx, "1010101010")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_BadURL(t *testing.T) {
	for _, raw := range []string{"localhost:8080", "/api", "http://[::1"} {
		_, err := NewClient(raw, time.Second)
		assert.Error(t, err, raw)
	}
}

func TestNew(t *testing.T) {
	f, err := New("", "data", time.Second)
	require.NoError(t, err)
	assert.Equal(t, DirSource{Dir: "data"}, f)

	f, err = New("http://localhost:8080", "data", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &Client{}, f)
}
