package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryLoadMissing(t *testing.T) {
	m := NewMemory()
	_, err := m.Load(context.Background(), "medications")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Save(ctx, "medications", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := m.Load(ctx, "medications")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("loaded %q", got)
	}
}

func TestMemorySaveIsFullReplace(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.Save(ctx, "k", []byte("first value"))
	_ = m.Save(ctx, "k", []byte("second"))

	got, err := m.Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("loaded %q, want full replacement", got)
	}
}

func TestMemoryLoadReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.Save(ctx, "k", []byte("abc"))
	got, _ := m.Load(ctx, "k")
	got[0] = 'x'

	again, _ := m.Load(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through loaded slice: %q", again)
	}
}
