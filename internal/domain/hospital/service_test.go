package hospital

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	hospitals map[uuid.UUID]*Hospital
}

func newMockRepo() *mockRepo {
	return &mockRepo{hospitals: make(map[uuid.UUID]*Hospital)}
}

func (m *mockRepo) Create(_ context.Context, h *Hospital) error {
	h.ID = uuid.New()
	m.hospitals[h.ID] = h
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Hospital, error) {
	h, ok := m.hospitals[id]
	if !ok {
		return nil, fmt.Errorf("hospital not found")
	}
	return h, nil
}

func (m *mockRepo) Update(_ context.Context, h *Hospital) error {
	m.hospitals[h.ID] = h
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.hospitals, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Hospital, int, error) {
	var out []*Hospital
	for _, h := range m.hospitals {
		out = append(out, h)
	}
	return out, len(out), nil
}

func ptr[T any](v T) *T { return &v }

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	cases := []struct {
		name string
		h    Hospital
	}{
		{"missing name", Hospital{City: "Dhaka"}},
		{"missing city", Hospital{Name: "City General"}},
		{"latitude without longitude", Hospital{Name: "City General", City: "Dhaka", Latitude: ptr(23.8)}},
		{"longitude without latitude", Hospital{Name: "City General", City: "Dhaka", Longitude: ptr(90.4)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := tc.h
			if err := svc.Create(ctx, &h); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	h := &Hospital{
		Name:      "City General",
		City:      "Dhaka",
		Latitude:  ptr(23.8103),
		Longitude: ptr(90.4125),
	}
	if err := svc.Create(ctx, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.ID == uuid.Nil {
		t.Fatal("expected ID to be assigned")
	}

	got, err := svc.Get(ctx, h.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "City General" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestUpdateRequiresName(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	h := &Hospital{Name: "City General", City: "Dhaka"}
	if err := svc.Create(ctx, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h.Name = ""
	if err := svc.Update(ctx, h); err == nil {
		t.Error("expected error updating with empty name")
	}
}
