package tilopay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/diacor/portal/internal/entity"
	"github.com/diacor/portal/pkg/config"
	"github.com/diacor/portal/pkg/transport"
)

const (
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 5 * time.Second

	captureImmediately = "1"
	tokenVersion       = "v2"

	callbackPath = "/api/payment/tilopay/callback"
)

type Client struct {
	client    *http.Client
	cfg       config.TiloPay
	portalURL string
}

func NewClient(cfg config.Config) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.TiloPay.RetryAttempts
	retryClient.RetryWaitMin = defaultRetryWaitMin
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = cfg.TiloPay.Timeout
	retryClient.HTTPClient.Transport = transport.NewLoggingRoundTripper(retryClient.HTTPClient.Transport)

	retryClient.Logger = nil

	// A charge request that reached the gateway must not be sent twice, so only transport errors are retried.
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		return false, nil
	}

	return &Client{
		client:    retryClient.StandardClient(),
		cfg:       cfg.TiloPay,
		portalURL: strings.TrimRight(cfg.Portal.BaseURL, "/"),
	}
}

type loginRequest struct {
	APIUser  string `json:"apiuser"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Authenticate exchanges the configured credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	b, err := json.Marshal(loginRequest{
		APIUser:  c.cfg.APIUser,
		Password: c.cfg.Password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/login", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: do request: %w", entity.ErrGatewayAuth, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", entity.ErrGatewayAuth, err)
	}

	var respData loginResponse

	err = json.Unmarshal(body, &respData)
	if err != nil || respData.AccessToken == "" {
		return "", fmt.Errorf("%w: status %d: %s", entity.ErrGatewayAuth, resp.StatusCode, body)
	}

	return respData.AccessToken, nil
}

type paymentRequest struct {
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	Redirect          string `json:"redirect"`
	Key               string `json:"key"`
	BillToFirstName   string `json:"billToFirstName"`
	BillToLastName    string `json:"billToLastName"`
	BillToAddress     string `json:"billToAddress"`
	BillToCity        string `json:"billToCity"`
	BillToState       string `json:"billToState"`
	BillToZipPostCode string `json:"billToZipPostCode"`
	BillToCountry     string `json:"billToCountry"`
	BillToTelephone   string `json:"billToTelephone"`
	BillToEmail       string `json:"billToEmail"`
	ShipToFirstName   string `json:"shipToFirstName"`
	ShipToLastName    string `json:"shipToLastName"`
	ShipToAddress     string `json:"shipToAddress"`
	ShipToCity        string `json:"shipToCity"`
	ShipToState       string `json:"shipToState"`
	ShipToZipPostCode string `json:"shipToZipPostCode"`
	ShipToCountry     string `json:"shipToCountry"`
	ShipToTelephone   string `json:"shipToTelephone"`
	ShipToEmail       string `json:"shipToEmail"`
	OrderNumber       string `json:"orderNumber"`
	Capture           string `json:"capture"`
	TokenVersion      string `json:"token_version"`
}

type paymentResponse struct {
	URL         string     `json:"url"`
	Code        flexString `json:"code"`
	Description string     `json:"description"`
}

// flexString accepts both "400" and 400, the gateway is not consistent about it.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string

	err := json.Unmarshal(b, &s)
	if err == nil {
		*f = flexString(s)
		return nil
	}

	if string(b) == "null" {
		*f = ""
		return nil
	}

	*f = flexString(b)

	return nil
}

// CreatePayment asks the gateway for a hosted payment page for the order.
func (c *Client) CreatePayment(
	ctx context.Context,
	client entity.Client,
	order entity.PaymentOrder,
) (entity.CardPayment, error) {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return entity.CardPayment{}, err
	}

	payload := c.paymentRequest(client, order)

	b, err := json.Marshal(payload)
	if err != nil {
		return entity.CardPayment{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/processPayment", bytes.NewReader(b))
	if err != nil {
		return entity.CardPayment{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return entity.CardPayment{}, fmt.Errorf("do request: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.CardPayment{}, fmt.Errorf("read response: %w", err)
	}

	var respData paymentResponse

	err = json.Unmarshal(body, &respData)
	if err == nil && respData.URL != "" {
		return entity.CardPayment{
			URL:         respData.URL,
			OrderNumber: order.Number,
		}, nil
	}

	gwErr := &entity.GatewayError{
		Code:        string(respData.Code),
		Description: respData.Description,
	}

	if gwErr.Code == "" {
		gwErr.Code = fmt.Sprint(resp.StatusCode)
	}

	if gwErr.Description == "" {
		gwErr.Description = http.StatusText(resp.StatusCode)
	}

	payload.Key = "***"
	sent, _ := json.Marshal(payload)

	slog.ErrorContext(ctx, "TiloPay rejected payment",
		slog.Int("status", resp.StatusCode),
		slog.String("payload", string(sent)),
		slog.String("response", string(body)))

	return entity.CardPayment{}, gwErr
}

func (c *Client) paymentRequest(client entity.Client, order entity.PaymentOrder) paymentRequest {
	defaults := c.cfg.Billing

	firstName, lastName := client.BillingName(defaults.FirstName, defaults.LastName)

	address := client.Address
	if address == "" {
		address = defaults.Address
	}

	email := client.Email
	if email == "" {
		email = defaults.Email
	}

	return paymentRequest{
		Amount:            order.Amount.StringFixed(2),
		Currency:          c.cfg.Currency,
		Redirect:          c.callbackURL(order),
		Key:               c.cfg.Key,
		BillToFirstName:   firstName,
		BillToLastName:    lastName,
		BillToAddress:     address,
		BillToCity:        defaults.City,
		BillToState:       defaults.State,
		BillToZipPostCode: defaults.ZipCode,
		BillToCountry:     defaults.Country,
		BillToTelephone:   defaults.Telephone,
		BillToEmail:       email,
		ShipToFirstName:   firstName,
		ShipToLastName:    lastName,
		ShipToAddress:     address,
		ShipToCity:        defaults.City,
		ShipToState:       defaults.State,
		ShipToZipPostCode: defaults.ZipCode,
		ShipToCountry:     defaults.Country,
		ShipToTelephone:   defaults.Telephone,
		ShipToEmail:       email,
		OrderNumber:       order.Number,
		Capture:           captureImmediately,
		TokenVersion:      tokenVersion,
	}
}

func (c *Client) callbackURL(order entity.PaymentOrder) string {
	q := url.Values{}
	q.Set("placa", order.Plate)
	q.Set("order", order.Number)
	q.Set("amount", order.Amount.StringFixed(2))

	return c.portalURL + callbackPath + "?" + q.Encode()
}
