package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/styledecor/styledecor-api/config"
)

// CheckoutSession represents a hosted checkout session at the payment
// provider. Metadata carries the booking identifiers we need to
// reconcile the payment after the customer completes the flow.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentIntent string            `json:"payment_intent"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

// CheckoutSessionParams holds the inputs for creating a session
type CheckoutSessionParams struct {
	ServiceName string
	BookingID   string
	UserEmail   string
	Cost        float64
	SuccessURL  string
	CancelURL   string
}

// CheckoutInterface defines the operations we need from the payment provider
type CheckoutInterface interface {
	CreateSession(params CheckoutSessionParams) (*CheckoutSession, error)
	RetrieveSession(sessionID string) (*CheckoutSession, error)
}

// CheckoutService talks to the provider's checkout sessions REST API
type CheckoutService struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

var checkoutServiceInstance CheckoutInterface

// InitCheckoutService initializes the checkout service from configuration
func InitCheckoutService(cfg *config.Config) CheckoutInterface {
	checkoutServiceInstance = NewCheckoutService(cfg)
	return checkoutServiceInstance
}

// GetCheckoutService returns the initialized checkout service instance
func GetCheckoutService() CheckoutInterface {
	return checkoutServiceInstance
}

// SetCheckoutService sets the checkout service instance (primarily for testing)
func SetCheckoutService(service CheckoutInterface) {
	checkoutServiceInstance = service
}

// NewCheckoutService creates a checkout service instance. The base URL is
// configurable so tests can point it at a local mock server.
func NewCheckoutService(cfg *config.Config) *CheckoutService {
	return &CheckoutService{
		baseURL:   strings.TrimSuffix(cfg.StripeAPIBaseURL, "/"),
		secretKey: cfg.StripeSecretKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateSession creates a hosted checkout session for a single booking.
// The booking metadata is embedded in the session so RetrieveSession can
// reconcile the payment later.
func (s *CheckoutService) CreateSession(params CheckoutSessionParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("customer_email", params.UserEmail)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][product_data][name]", params.ServiceName)
	// Provider expects the amount in minor units
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(int64(params.Cost*100), 10))
	form.Set("metadata[service_name]", params.ServiceName)
	form.Set("metadata[bookingId]", params.BookingID)
	form.Set("metadata[userEmail]", params.UserEmail)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)

	endpoint := fmt.Sprintf("%s/v1/checkout/sessions", s.baseURL)
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return s.doSessionRequest(req)
}

// RetrieveSession fetches an existing checkout session by its identifier
func (s *CheckoutService) RetrieveSession(sessionID string) (*CheckoutSession, error) {
	endpoint := fmt.Sprintf("%s/v1/checkout/sessions/%s", s.baseURL, url.PathEscape(sessionID))
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	return s.doSessionRequest(req)
}

func (s *CheckoutService) doSessionRequest(req *http.Request) (*CheckoutSession, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call checkout provider: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("checkout provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}

	return &session, nil
}
