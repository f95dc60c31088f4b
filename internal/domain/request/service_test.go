package request

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

type mockRepo struct {
	requests map[uuid.UUID]*Request
}

func newMockRepo() *mockRepo {
	return &mockRepo{requests: make(map[uuid.UUID]*Request)}
}

func (m *mockRepo) Create(_ context.Context, r *Request) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	m.requests[r.ID] = r
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Request, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return r, nil
}

func (m *mockRepo) Update(_ context.Context, r *Request) error {
	m.requests[r.ID] = r
	return nil
}

func (m *mockRepo) List(_ context.Context, status Status, limit, offset int) ([]*Request, int, error) {
	var result []*Request
	for _, r := range m.requests {
		if status == "" || r.Status == status {
			result = append(result, r)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListPendingByTypes(_ context.Context, types []blood.Type) ([]*Request, error) {
	want := make(map[blood.Type]bool)
	for _, t := range types {
		want[t] = true
	}
	var result []*Request
	for _, r := range m.requests {
		if r.Status == StatusPending && want[r.BloodType] {
			result = append(result, r)
		}
	}
	return result, nil
}

func newTestService() *Service {
	return NewService(newMockRepo(), nil)
}

func TestCreateRequest(t *testing.T) {
	svc := newTestService()
	r := &Request{BloodType: blood.APositive, Units: 2}
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != StatusPending {
		t.Errorf("expected pending status, got %s", r.Status)
	}
	if r.Urgency != UrgencyNormal {
		t.Errorf("expected default urgency normal, got %s", r.Urgency)
	}
}

func TestCreateRequest_InvalidUnits(t *testing.T) {
	svc := newTestService()
	r := &Request{BloodType: blood.APositive, Units: 0}
	if err := svc.Create(context.Background(), r); err == nil {
		t.Error("expected error for zero units")
	}
}

func TestCreateRequest_InvalidBloodType(t *testing.T) {
	svc := newTestService()
	r := &Request{BloodType: blood.Type("AB"), Units: 1}
	if err := svc.Create(context.Background(), r); err == nil {
		t.Error("expected error for invalid blood type")
	}
}

func TestCreateRequest_InvalidUrgency(t *testing.T) {
	svc := newTestService()
	r := &Request{BloodType: blood.APositive, Units: 1, Urgency: Urgency("severe")}
	if err := svc.Create(context.Background(), r); err == nil {
		t.Error("expected error for unknown urgency")
	}
}

func TestFulfill(t *testing.T) {
	svc := newTestService()
	r := &Request{BloodType: blood.OPositive, Units: 1, Urgency: UrgencyCritical}
	svc.Create(context.Background(), r)

	donorID := uuid.New()
	now := time.Now().UTC()
	fulfilled, err := svc.Fulfill(context.Background(), r.ID, donorID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fulfilled.Status != StatusFulfilled {
		t.Errorf("expected fulfilled status, got %s", fulfilled.Status)
	}
	if fulfilled.FulfilledBy == nil || *fulfilled.FulfilledBy != donorID {
		t.Error("expected fulfilling donor to be recorded")
	}
	if fulfilled.FulfilledAt == nil {
		t.Error("expected fulfillment time to be recorded")
	}
}

func TestFulfill_NotPending(t *testing.T) {
	svc := newTestService()
	r := &Request{BloodType: blood.OPositive, Units: 1}
	svc.Create(context.Background(), r)
	svc.Cancel(context.Background(), r.ID)

	if _, err := svc.Fulfill(context.Background(), r.ID, uuid.New(), time.Now()); err == nil {
		t.Error("expected error fulfilling a cancelled request")
	}
}

func TestCancel(t *testing.T) {
	svc := newTestService()
	r := &Request{BloodType: blood.BNegative, Units: 3}
	svc.Create(context.Background(), r)

	cancelled, err := svc.Cancel(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("expected cancelled status, got %s", cancelled.Status)
	}
}

func TestUrgencyRank(t *testing.T) {
	if UrgencyCritical.Rank() >= UrgencyUrgent.Rank() || UrgencyUrgent.Rank() >= UrgencyNormal.Rank() {
		t.Error("urgency ordering must be critical < urgent < normal")
	}
}
