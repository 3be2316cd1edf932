package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/quangdm/freshcart-api/internal/usecase"
)

const (
	methodPagePay    = "trade.page.pay"
	methodTradeQuery = "trade.query"
)

// PayClient talks to the external payment provider. Payment intents are
// signed redirect URLs the buyer opens; trade queries are signed HTTP calls
// made from the reconciler's poll loop.
type PayClient struct {
	appID   string
	baseURL string
	signer  *signer
	httpc   *http.Client
}

func NewPayClient(appID, baseURL, privateKeyPEM string, queryTimeout time.Duration) (*PayClient, error) {
	s, err := newSigner(privateKeyPEM)
	if err != nil {
		return nil, err
	}
	if queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}
	return &PayClient{
		appID:   appID,
		baseURL: baseURL,
		signer:  s,
		httpc:   &http.Client{Timeout: queryTimeout},
	}, nil
}

func (c *PayClient) CreatePaymentIntent(ctx context.Context, orderID string, amountCents int64, subject string) (string, error) {
	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("method", methodPagePay)
	params.Set("timestamp", time.Now().UTC().Format("2006-01-02 15:04:05"))
	params.Set("out_trade_no", orderID)
	params.Set("total_amount", formatAmount(amountCents))
	params.Set("subject", subject)

	sig, err := c.signer.sign(params)
	if err != nil {
		return "", err
	}
	params.Set("sign", sig)

	return c.baseURL + "?" + params.Encode(), nil
}

// queryResponse mirrors the provider's trade.query answer. code "10000"
// means the trade is known; "40004" means it has not been created yet.
type queryResponse struct {
	Code        string `json:"code"`
	TradeStatus string `json:"trade_status"`
	TradeNo     string `json:"trade_no"`
}

func (c *PayClient) QueryStatus(ctx context.Context, orderID string) (usecase.GatewayReply, error) {
	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("method", methodTradeQuery)
	params.Set("timestamp", time.Now().UTC().Format("2006-01-02 15:04:05"))
	params.Set("out_trade_no", orderID)

	sig, err := c.signer.sign(params)
	if err != nil {
		return usecase.GatewayReply{}, err
	}
	params.Set("sign", sig)

	// Bound by ctx so a cancelled poll loop drops the connection right away.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return usecase.GatewayReply{}, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return usecase.GatewayReply{}, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return usecase.GatewayReply{}, fmt.Errorf("gateway status %d: %s", resp.StatusCode, body)
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return usecase.GatewayReply{}, fmt.Errorf("decode gateway response: %w", err)
	}

	return usecase.GatewayReply{
		Code:        qr.Code,
		TradeStatus: qr.TradeStatus,
		TradeID:     qr.TradeNo,
	}, nil
}

func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

var _ usecase.PaymentGateway = (*PayClient)(nil)
