package ledger

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"adflow/internal/config/configs"
)

func clientFor(url string) *Client {
	return NewClient(configs.Ledger{
		BaseURL:    url,
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	})
}

const sampleResponse = `{
  "ok": true,
  "result": [
    {
      "transaction_id": {"hash": "hash-new"},
      "utime": %d,
      "in_msg": {"source": "EQSender", "value": "9600", "message": "ABCDEF23"}
    },
    {
      "transaction_id": {"hash": "hash-old"},
      "utime": %d,
      "in_msg": {"source": "EQOther", "value": "100", "message": "STALE"}
    }
  ]
}`

func TestQueryTransactions(t *testing.T) {
	now := time.Now().UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/getTransactions", r.URL.Path)
		require.Equal(t, "EQPlatformWallet", r.URL.Query().Get("address"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(formatSample(now.Unix(), now.Add(-2*time.Hour).Unix())))
	}))
	defer srv.Close()

	txs, err := clientFor(srv.URL).QueryTransactions(context.Background(), "EQPlatformWallet", now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, txs, 1, "transactions before the cutoff must be filtered out")
	require.Equal(t, "hash-new", txs[0].Hash)
	require.Equal(t, "EQSender", txs[0].SourceAddress)
	require.Equal(t, int64(9600), txs[0].Amount)
	require.Equal(t, "ABCDEF23", txs[0].Memo)
}

func TestQueryTransactionsRetriesServerErrors(t *testing.T) {
	now := time.Now().UTC()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(formatSample(now.Unix(), now.Unix())))
	}))
	defer srv.Close()

	txs, err := clientFor(srv.URL).QueryTransactions(context.Background(), "EQPlatformWallet", now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, int32(2), hits.Load())
}

func TestQueryTransactionsRejectedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok": false, "result": []}`))
	}))
	defer srv.Close()

	_, err := clientFor(srv.URL).QueryTransactions(context.Background(), "EQPlatformWallet", time.Now())
	require.Error(t, err)
}

func TestQueryTransactionsExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := clientFor(srv.URL).QueryTransactions(context.Background(), "EQPlatformWallet", time.Now())
	require.Error(t, err)
}

func formatSample(newUtime, oldUtime int64) string {
	return fmt.Sprintf(sampleResponse, newUtime, oldUtime)
}
