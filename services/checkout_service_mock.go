package services

import (
	"fmt"
	"sync"
)

// MockCheckoutService is an in-memory implementation of CheckoutInterface
// for testing. Sessions created through it can be retrieved by ID, and
// tests can pre-seed completed sessions.
type MockCheckoutService struct {
	sessions map[string]*CheckoutSession
	counter  int
	mu       sync.RWMutex
}

// NewMockCheckoutService creates a new mock checkout service
func NewMockCheckoutService() *MockCheckoutService {
	return &MockCheckoutService{
		sessions: make(map[string]*CheckoutSession),
	}
}

// SetAsMockForTesting sets this mock as the global checkout service instance
func (m *MockCheckoutService) SetAsMockForTesting() {
	SetCheckoutService(m)
}

// CreateSession simulates creating a hosted checkout session
func (m *MockCheckoutService) CreateSession(params CheckoutSessionParams) (*CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	session := &CheckoutSession{
		ID:            fmt.Sprintf("cs_test_%d", m.counter),
		URL:           fmt.Sprintf("https://checkout.example.com/pay/cs_test_%d", m.counter),
		PaymentIntent: fmt.Sprintf("pi_test_%d", m.counter),
		PaymentStatus: "unpaid",
		AmountTotal:   int64(params.Cost * 100),
		CustomerEmail: params.UserEmail,
		Metadata: map[string]string{
			"service_name": params.ServiceName,
			"bookingId":    params.BookingID,
			"userEmail":    params.UserEmail,
		},
	}
	m.sessions[session.ID] = session

	return session, nil
}

// RetrieveSession returns a previously created or seeded session
func (m *MockCheckoutService) RetrieveSession(sessionID string) (*CheckoutSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("checkout provider returned status 404: no such session %s", sessionID)
	}

	return session, nil
}

// SeedSession registers a session as if the customer had completed it
func (m *MockCheckoutService) SeedSession(session *CheckoutSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
}
