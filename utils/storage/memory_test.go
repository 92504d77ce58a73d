package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Save(ctx, &Document{Name: "triage", Body: []byte(`{"chain_id":0}`)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, &Document{Name: "answer", Body: []byte(`{"chain_id":1}`)}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"answer", "triage"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List = %v, want %v", names, want)
	}

	doc, err := s.Load(ctx, "triage")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(doc.Body) != `{"chain_id":0}` {
		t.Errorf("Load body = %s", doc.Body)
	}

	// Mutating the returned body must not leak into the store.
	doc.Body[0] = 'X'
	doc2, _ := s.Load(ctx, "triage")
	if string(doc2.Body) != `{"chain_id":0}` {
		t.Error("Load returned a shared slice")
	}

	if err := s.Delete(ctx, "triage"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(ctx, "triage"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "triage"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Save(ctx, &Document{Name: "triage", Body: []byte(`{"v":1}`)})
	s.Save(ctx, &Document{Name: "triage", Body: []byte(`{"v":2}`)})

	doc, err := s.Load(ctx, "triage")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(doc.Body) != `{"v":2}` {
		t.Errorf("Load body = %s, want overwritten value", doc.Body)
	}
}
