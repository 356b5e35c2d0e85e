package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CustomerDetails is the billing block PayTabs requires on a hosted-page
// request. Missing profile fields are filled with placeholders upstream so
// checkout never fails on an incomplete profile.
type CustomerDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Street1 string `json:"street1"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Zip     string `json:"zip"`
}

// PayPageRequest is the POST /payment/request payload.
type PayPageRequest struct {
	ProfileID       string          `json:"profile_id"`
	TranType        string          `json:"tran_type"`
	TranClass       string          `json:"tran_class"`
	CartID          string          `json:"cart_id"`
	CartCurrency    string          `json:"cart_currency"`
	CartAmount      float64         `json:"cart_amount"`
	CartDescription string          `json:"cart_description"`
	ReturnURL       string          `json:"return"`
	CallbackURL     string          `json:"callback"`
	HideShipping    bool            `json:"hide_shipping"`
	PaypageTTL      int             `json:"paypage_ttl"`
	PaypageLang     string          `json:"paypage_lang"`
	CustomerDetails CustomerDetails `json:"customer_details"`
}

type PayPageResponse struct {
	RedirectURL string `json:"redirect_url"`
	TranRef     string `json:"tran_ref"`
}

// QueryRequest is the POST /payment/query payload; exactly one of
// tran_ref / cart_id is sent.
type QueryRequest struct {
	ProfileID string `json:"profile_id"`
	TranRef   string `json:"tran_ref,omitempty"`
	CartID    string `json:"cart_id,omitempty"`
}

type PaymentResult struct {
	ResponseStatus  string `json:"response_status"`
	ResponseMessage string `json:"response_message"`
}

type QueryResponse struct {
	TranRef       string        `json:"tran_ref"`
	CartID        string        `json:"cart_id"`
	PaymentResult PaymentResult `json:"payment_result"`

	// Raw keeps the exact upstream body for persistence and the admin view.
	Raw json.RawMessage `json:"-"`
}

// Error is returned for non-2xx gateway responses or unusable bodies. The
// local payment record is never mutated when it occurs, so the call is
// safely retryable.
type Error struct {
	Status int
	Body   json.RawMessage
}

func (e *Error) Error() string {
	return fmt.Sprintf("paytabs: upstream returned status %d", e.Status)
}

// Client is the gateway boundary. It is injected into the payment service
// so tests can swap in a double.
type Client interface {
	CreatePayPage(ctx context.Context, req *PayPageRequest) (*PayPageResponse, error)
	QueryTransaction(ctx context.Context, req *QueryRequest) (*QueryResponse, error)
}

// HTTPClient talks to the real PayTabs API. The server key doubles as the
// Authorization header value per their docs.
type HTTPClient struct {
	baseURL   string
	serverKey string
	http      *http.Client
}

func NewHTTPClient(baseURL, serverKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:   baseURL,
		serverKey: serverKey,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) CreatePayPage(ctx context.Context, req *PayPageRequest) (*PayPageResponse, error) {
	body, status, err := c.post(ctx, "/payment/request", req)
	if err != nil {
		return nil, err
	}

	var resp PayPageResponse
	if unmarshalErr := json.Unmarshal(body, &resp); unmarshalErr != nil || status < 200 || status >= 300 || resp.RedirectURL == "" {
		return nil, &Error{Status: status, Body: body}
	}
	return &resp, nil
}

func (c *HTTPClient) QueryTransaction(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	body, status, err := c.post(ctx, "/payment/query", req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &Error{Status: status, Body: body}
	}

	var resp QueryResponse
	if unmarshalErr := json.Unmarshal(body, &resp); unmarshalErr != nil {
		return nil, &Error{Status: status, Body: body}
	}
	resp.Raw = body
	return &resp, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any) (json.RawMessage, int, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, err
	}
	httpReq.Header.Set("Authorization", c.serverKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, 0, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, httpResp.StatusCode, err
	}
	return body, httpResp.StatusCode, nil
}
