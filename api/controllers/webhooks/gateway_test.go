package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	gatewaywebhook "github.com/shoplane/shoplane-backend/internal/webhooks/gateway"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
)

func TestGatewayWebhook_SuccessAndIdempotent(t *testing.T) {
	payload, header := buildSignedEvent(t)
	service := &fakeGatewayWebhookService{}
	guard := newTestGuard(t)
	handler := GatewayWebhook(service, &fakeSigningClient{secret: "whsec_test"}, guard, nil, nil)

	rec := deliver(handler, payload, header)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"received":true`) {
		t.Fatalf("expected bare ack body, got %s", rec.Body.String())
	}
	if service.calls != 1 {
		t.Fatalf("expected service called once, got %d", service.calls)
	}

	// Replay the same delivery.
	rec2 := deliver(handler, payload, header)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate, got %d (%s)", rec2.Code, rec2.Body.String())
	}
	if service.calls != 1 {
		t.Fatalf("expected duplicate not processed, call count %d", service.calls)
	}
}

func TestGatewayWebhook_InvalidSignature(t *testing.T) {
	payload, _ := buildSignedEvent(t)
	service := &fakeGatewayWebhookService{}
	handler := GatewayWebhook(service, &fakeSigningClient{secret: "whsec_test"}, newTestGuard(t), nil, nil)

	rec := deliver(handler, payload, "t=1,v1=invalid")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid signature, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Fatalf("service should not be invoked on invalid signature")
	}
}

func TestGatewayWebhook_MissingSignatureHeader(t *testing.T) {
	payload, _ := buildSignedEvent(t)
	service := &fakeGatewayWebhookService{}
	handler := GatewayWebhook(service, &fakeSigningClient{secret: "whsec_test"}, newTestGuard(t), nil, nil)

	rec := deliver(handler, payload, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing signature, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Fatalf("service should not be invoked without a signature")
	}
}

func TestGatewayWebhook_IntegrityFaultIsNotAcknowledged(t *testing.T) {
	payload, header := buildSignedEvent(t)
	service := &fakeGatewayWebhookService{
		err: pkgerrors.New(pkgerrors.CodeIntegrity, "multiple orders share gateway intent"),
	}
	handler := GatewayWebhook(service, &fakeSigningClient{secret: "whsec_test"}, newTestGuard(t), nil, nil)

	rec := deliver(handler, payload, header)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for integrity fault, got %d (%s)", rec.Code, rec.Body.String())
	}

	// The claim must be released so redelivery reprocesses.
	service.err = nil
	rec2 := deliver(handler, payload, header)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected redelivery to succeed, got %d", rec2.Code)
	}
	if service.calls != 2 {
		t.Fatalf("expected redelivery to reach the service, call count %d", service.calls)
	}
}

func TestGatewayWebhook_TransientFailureIsAcknowledged(t *testing.T) {
	payload, header := buildSignedEvent(t)
	service := &fakeGatewayWebhookService{
		err: pkgerrors.New(pkgerrors.CodeDependency, "ledger unavailable"),
	}
	handler := GatewayWebhook(service, &fakeSigningClient{secret: "whsec_test"}, newTestGuard(t), nil, nil)

	rec := deliver(handler, payload, header)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected transient failure to be acknowledged, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"received":true`) {
		t.Fatalf("expected bare ack body, got %s", rec.Body.String())
	}
}

func deliver(handler http.HandlerFunc, payload []byte, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(payload))
	if header != "" {
		req.Header.Set("Stripe-Signature", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func newTestGuard(t *testing.T) *gatewaywebhook.IdempotencyGuard {
	t.Helper()
	guard, err := gatewaywebhook.NewIdempotencyGuard(newInMemoryStore(), time.Minute, "gateway-webhook")
	if err != nil {
		t.Fatalf("guard setup: %v", err)
	}
	return guard
}

func buildSignedEvent(t *testing.T) ([]byte, string) {
	t.Helper()
	intent := &stripe.PaymentIntent{
		ID:     "pi_" + uuid.NewString(),
		Status: stripe.PaymentIntentStatusSucceeded,
	}
	rawIntent, err := json.Marshal(intent)
	if err != nil {
		t.Fatalf("marshal intent: %v", err)
	}
	event := &stripe.Event{
		ID:         "evt_" + uuid.NewString(),
		Type:       gatewaywebhook.EventTypePaymentSucceeded,
		Object:     "event",
		APIVersion: stripe.APIVersion,
		Data: &stripe.EventData{
			Raw: rawIntent,
		},
	}
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	header := buildSignatureHeader(payload, "whsec_test", time.Now().Unix())
	return payload, header
}

func buildSignatureHeader(payload []byte, secret string, ts int64) string {
	signedPayload := fmt.Sprintf("%d.%s", ts, payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedPayload))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

type fakeGatewayWebhookService struct {
	calls int
	err   error
}

func (f *fakeGatewayWebhookService) HandleEvent(ctx context.Context, event *stripe.Event) error {
	f.calls++
	return f.err
}

type fakeSigningClient struct {
	secret string
}

func (c *fakeSigningClient) SigningSecret() string {
	return c.secret
}

type inMemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{
		data: make(map[string]string),
	}
}

func (s *inMemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *inMemoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[key]; exists {
		return false, nil
	}
	s.data[key] = fmt.Sprintf("%v", value)
	return true, nil
}

func (s *inMemoryStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("sl:idempotency:%s:%s", scope, id)
}

func (s *inMemoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}
