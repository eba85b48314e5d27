package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/modumall/storefront-gateway/pkg/config"
	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
)

const errorBodyReadLimit int64 = 4096

var (
	errClientKeyRequired = errors.New("payment gateway client key is required")
	errSecretKeyRequired = errors.New("payment gateway secret key is required")
	errBaseURLRequired   = errors.New("payment gateway base url is required")
)

// failureReasons maps the provider's documented failure codes to messages we
// can show a shopper. Unknown codes fall through to a generic message.
var failureReasons = map[string]string{
	"PAY_PROCESS_CANCELED": "결제가 취소되었습니다.",
	"PAY_PROCESS_ABORTED":  "결제가 중단되었습니다.",
	"INVALID_CARD_COMPANY": "지원하지 않는 카드사입니다.",
	"INVALID_CARD_NUMBER":  "카드 번호를 다시 확인해주세요.",
}

const genericFailureReason = "결제에 실패했습니다. 다시 시도해주세요."

// FailureReason translates a provider failure code into a shopper-facing
// message.
func FailureReason(code string) string {
	if reason, ok := failureReasons[strings.TrimSpace(code)]; ok {
		return reason
	}
	return genericFailureReason
}

// Client wraps the payment gateway REST API. Checkout creation returns a
// hosted payment page URL; the shopper completes payment there and the
// gateway redirects back to our success/fail return routes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientKey  string
	secretKey  string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient initializes the gateway wrapper and validates the credentials.
func NewClient(cfg config.GatewayConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	clientKey := strings.TrimSpace(cfg.ClientKey)
	if clientKey == "" {
		return nil, errClientKeyRequired
	}
	secretKey := strings.TrimSpace(cfg.SecretKey)
	if secretKey == "" {
		return nil, errSecretKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		clientKey:  clientKey,
		secretKey:  secretKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// ClientKey returns the public key the hosted payment page is initialized
// with.
func (c *Client) ClientKey() string {
	if c == nil {
		return ""
	}
	return c.clientKey
}

// CheckoutRequest describes a hosted checkout for a pending order. SuccessURL
// and FailURL carry the checkout session token so the return handlers can
// resume the session after the redirect.
type CheckoutRequest struct {
	Amount     int64  `json:"amount"`
	OrderID    string `json:"orderId"`
	OrderName  string `json:"orderName"`
	SuccessURL string `json:"successUrl"`
	FailURL    string `json:"failUrl"`
}

// Checkout is the gateway's view of a created checkout.
type Checkout struct {
	PaymentKey  string
	RedirectURL string
}

type checkoutResponse struct {
	PaymentKey string `json:"paymentKey"`
	Checkout   struct {
		URL string `json:"url"`
	} `json:"checkout"`
}

type gatewayErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateCheckout registers a payment with the gateway and returns the hosted
// payment page URL the shopper must be redirected to.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	if req.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout amount must be positive")
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout order id is required")
	}
	if req.SuccessURL == "" || req.FailURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout return urls are required")
	}

	var resp checkoutResponse
	if err := c.post(ctx, "/v1/payments", req, &resp); err != nil {
		return nil, err
	}
	if resp.Checkout.URL == "" {
		return nil, pkgerrors.New(pkgerrors.CodePayment, "gateway returned no checkout url")
	}
	return &Checkout{PaymentKey: resp.PaymentKey, RedirectURL: resp.Checkout.URL}, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "gateway client not configured")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePayment, err, "marshal gateway request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePayment, err, "build gateway request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.authorization())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePayment, err, fmt.Sprintf("call gateway %s", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePayment, err, fmt.Sprintf("decode gateway response for %s", path))
	}
	return nil
}

// authorization builds the basic scheme the gateway expects: the secret key
// as username with an empty password.
func (c *Client) authorization() string {
	encoded := base64.StdEncoding.EncodeToString([]byte(c.secretKey + ":"))
	return "Basic " + encoded
}

func errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	var gwErr gatewayErrorResponse
	if err := json.Unmarshal(raw, &gwErr); err == nil && gwErr.Message != "" {
		return pkgerrors.New(pkgerrors.CodePayment, gwErr.Message).
			WithDetails(map[string]any{"provider_code": gwErr.Code})
	}
	return pkgerrors.New(pkgerrors.CodePayment, fmt.Sprintf("gateway returned %d", resp.StatusCode))
}
