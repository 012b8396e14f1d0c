package gatewaywebhook

import (
	"context"
	"testing"
	"time"
)

type fakeIdempotencyStore struct {
	values map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{values: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = "1"
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "sl:idem:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestIdempotencyGuard_SecondDeliveryIsDuplicate(t *testing.T) {
	guard, err := NewIdempotencyGuard(newFakeIdempotencyStore(), time.Hour, "gateway-webhook")
	if err != nil {
		t.Fatalf("setup guard: %v", err)
	}

	seen, err := guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if seen {
		t.Fatalf("first delivery must not be flagged")
	}

	seen, err = guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if !seen {
		t.Fatalf("redelivery must be flagged as duplicate")
	}
}

func TestIdempotencyGuard_DeleteReopensEvent(t *testing.T) {
	guard, err := NewIdempotencyGuard(newFakeIdempotencyStore(), time.Hour, "gateway-webhook")
	if err != nil {
		t.Fatalf("setup guard: %v", err)
	}

	if _, err := guard.CheckAndMark(context.Background(), "evt_retry"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := guard.Delete(context.Background(), "evt_retry"); err != nil {
		t.Fatalf("release: %v", err)
	}
	seen, err := guard.CheckAndMark(context.Background(), "evt_retry")
	if err != nil {
		t.Fatalf("reclaim: %v", err)
	}
	if seen {
		t.Fatalf("released event must be claimable again")
	}
}

func TestIdempotencyGuard_RejectsEmptyEventID(t *testing.T) {
	guard, err := NewIdempotencyGuard(newFakeIdempotencyStore(), time.Hour, "gateway-webhook")
	if err != nil {
		t.Fatalf("setup guard: %v", err)
	}
	if _, err := guard.CheckAndMark(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty event id")
	}
}
