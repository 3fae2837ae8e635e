// Package oracle is the upstream node RPC client: fee estimates, random
// decoy outputs, output-key lookups, transaction relay and exchange
// rates, each issued as a timed request/response call against a single
// daemon JSON-RPC base URL (spec's "request/response oracle with
// timeouts").
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	logrus "github.com/sirupsen/logrus"

	"synnergy-network/internal/result"
)

// Client wraps an http.Client bound to one daemon base URL, with
// independent send/receive timeouts per spec's config surface.
type Client struct {
	baseURL  string
	http     *http.Client
	sendTO   time.Duration
	recvTO   time.Duration
	log      *logrus.Logger
}

// New builds a Client. sendTimeout bounds dialing/writing the request;
// receiveTimeout bounds waiting for and reading the response. Both are
// folded into the single context deadline passed to each call, matching
// the teacher's http.Client-with-context pattern rather than per-phase
// deadlines (net/http does not expose separate write/read deadlines above
// the transport layer).
func New(baseURL string, sendTimeout, receiveTimeout time.Duration, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		sendTO:  sendTimeout,
		recvTO:  receiveTimeout,
		log:     log,
	}
}

func (c *Client) call(ctx context.Context, method string, req, resp any) *result.Error {
	ctx, cancel := context.WithTimeout(ctx, c.sendTO+c.recvTO)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return result.NewError(result.BadClientTx, "could not encode oracle request").Wrap(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return result.NewError(result.BadDaemonResponse, "could not build oracle request").Wrap(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return result.NewError(result.DaemonTimeout, fmt.Sprintf("oracle call %q timed out", method)).Wrap(err)
		}
		return result.NewError(result.BadDaemonResponse, fmt.Sprintf("oracle call %q failed", method)).Wrap(err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return result.NewError(result.BadDaemonResponse, "could not read oracle response").Wrap(err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return result.NewError(result.BadDaemonResponse, fmt.Sprintf("oracle call %q returned HTTP %d", method, httpResp.StatusCode))
	}
	if resp != nil {
		if err := json.Unmarshal(raw, resp); err != nil {
			return result.NewError(result.BadDaemonResponse, "malformed oracle response body").Wrap(err)
		}
	}
	return nil
}

// FeeEstimateResponse carries the daemon's current per-kB relay fee.
type FeeEstimateResponse struct {
	FeePerKB uint64 `json:"fee_per_kb"`
}

// FeeEstimate fetches the current per-kB fee, used by get_unspent_outs.
func (c *Client) FeeEstimate(ctx context.Context) (uint64, *result.Error) {
	var resp FeeEstimateResponse
	if rerr := c.call(ctx, "get_fee_estimate", struct{}{}, &resp); rerr != nil {
		return 0, rerr
	}
	return resp.FeePerKB, nil
}

// RandomOutputRequest asks for decoy outputs at each requested amount.
type RandomOutputRequest struct {
	Amounts []string `json:"amounts"`
	Count   uint64   `json:"count"`
}

// RandomOutputEntry is one (amount, global_index) decoy. It carries no
// public key; OutputKeys resolves that in a second call.
type RandomOutputEntry struct {
	Amount      string `json:"amount"`
	GlobalIndex uint64 `json:"global_index"`
}

// RandomOutputsResponse groups decoys by amount.
type RandomOutputsResponse struct {
	AmountOuts []struct {
		Amount  string              `json:"amount"`
		Outputs []RandomOutputEntry `json:"outputs"`
	} `json:"amount_outs"`
}

// RandomOutputs is the first of get_random_outs's two sequential calls.
func (c *Client) RandomOutputs(ctx context.Context, amounts []string, count uint64) (*RandomOutputsResponse, *result.Error) {
	var resp RandomOutputsResponse
	req := RandomOutputRequest{Amounts: amounts, Count: count}
	if rerr := c.call(ctx, "get_random_outs", req, &resp); rerr != nil {
		return nil, rerr
	}
	return &resp, nil
}

// OutputKeyRef identifies one output by (amount, global_index), the join
// key used to resolve RandomOutputs entries to their actual public keys.
type OutputKeyRef struct {
	Amount      string `json:"amount"`
	GlobalIndex uint64 `json:"index"`
}

// OutputKeysResponse returns one public key per requested ref, in order.
type OutputKeysResponse struct {
	Raw []struct {
		PublicKey string `json:"public_key"`
	} `json:"outs"`
}

// OutputKeys is the second of get_random_outs's two sequential calls.
func (c *Client) OutputKeys(ctx context.Context, refs []OutputKeyRef) (*OutputKeysResponse, *result.Error) {
	var resp OutputKeysResponse
	req := struct {
		Outputs []OutputKeyRef `json:"outputs"`
	}{Outputs: refs}
	if rerr := c.call(ctx, "get_outs", req, &resp); rerr != nil {
		return nil, rerr
	}
	return &resp, nil
}

// RelayResponse reports whether the daemon accepted a relayed transaction.
type RelayResponse struct {
	Status string `json:"status"`
}

// RelayTransaction submits a raw transaction blob for relay.
func (c *Client) RelayTransaction(ctx context.Context, rawHex string) *result.Error {
	var resp RelayResponse
	req := struct {
		Tx string `json:"tx_as_hex"`
	}{Tx: rawHex}
	if rerr := c.call(ctx, "send_raw_transaction", req, &resp); rerr != nil {
		return rerr
	}
	if resp.Status != "OK" {
		return result.NewError(result.TxRelayFailed, fmt.Sprintf("daemon reported relay status %q", resp.Status))
	}
	return nil
}

// ExchangeRates is the get_exchange_rates response. Fetching it is
// best-effort: callers must log and discard failures rather than fail the
// enclosing handler response, per spec §4.C7 ("rate failures are logged,
// never fail the response").
type ExchangeRates struct {
	USD float64 `json:"usd"`
	EUR float64 `json:"eur"`
}

// FetchExchangeRates retrieves current exchange rates. Errors are
// returned, not swallowed, so the handler can decide to log-and-omit;
// this keeps the oracle package itself free of response-shaping policy.
func (c *Client) FetchExchangeRates(ctx context.Context) (*ExchangeRates, *result.Error) {
	var resp ExchangeRates
	if rerr := c.call(ctx, "get_exchange_rates", struct{}{}, &resp); rerr != nil {
		return nil, result.NewError(result.ExchangeRatesFetch, "exchange rate fetch failed").Wrap(rerr)
	}
	return &resp, nil
}
