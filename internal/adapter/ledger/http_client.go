// Package ledger implements port.LedgerClient over a blockchain
// explorer's REST API (toncenter-compatible getTransactions endpoint).
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"adflow/internal/config/configs"
	"adflow/internal/core/domain"
)

// Client queries incoming transactions from an explorer API. Every
// call is bounded by the configured timeout; transport failures are
// retried with exponential backoff inside that budget so the
// reconciler sees at most one error per tick per request.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	retries uint64
	timeout time.Duration
}

// NewClient builds a client from configuration.
func NewClient(cfg configs.Ledger) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		retries: cfg.MaxRetries,
		timeout: cfg.Timeout,
	}
}

// apiResponse mirrors the explorer's getTransactions envelope. Only
// the fields the matcher needs are decoded.
type apiResponse struct {
	OK     bool `json:"ok"`
	Result []struct {
		TransactionID struct {
			Hash string `json:"hash"`
		} `json:"transaction_id"`
		UTime int64 `json:"utime"`
		InMsg struct {
			Source  string `json:"source"`
			Value   int64  `json:"value,string"`
			Message string `json:"message"`
		} `json:"in_msg"`
	} `json:"result"`
}

// QueryTransactions returns incoming transfers to address observed at
// or after since. It is safe to retry; the reconciler treats every
// error as transient.
func (c *Client) QueryTransactions(ctx context.Context, address string, since time.Time) ([]domain.LedgerTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("address", address)
	q.Set("limit", "50")
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	endpoint := fmt.Sprintf("%s/getTransactions?%s", c.baseURL, q.Encode())

	var resp apiResponse
	operation := func() error {
		resp = apiResponse{}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return fmt.Errorf("explorer returned %s", res.Status)
		}
		return json.NewDecoder(res.Body).Decode(&resp)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("explorer rejected request for %s", address)
	}

	txs := make([]domain.LedgerTransaction, 0, len(resp.Result))
	for _, raw := range resp.Result {
		observed := time.Unix(raw.UTime, 0).UTC()
		if observed.Before(since) {
			continue
		}
		txs = append(txs, domain.LedgerTransaction{
			Hash:          raw.TransactionID.Hash,
			SourceAddress: raw.InMsg.Source,
			Amount:        raw.InMsg.Value,
			Memo:          raw.InMsg.Message,
			ObservedAt:    observed,
		})
	}
	return txs, nil
}
