package redis

import (
	"context"
	"testing"
)

func TestClientRegistry(t *testing.T) {
	defer CloseAll()

	first := NewClient("snapshots", Options{Addr: "127.0.0.1:1"})
	again := NewClient("snapshots", Options{Addr: "127.0.0.1:2"})
	if first != again {
		t.Error("NewClient did not reuse the registered client")
	}

	got, err := GetClient("snapshots")
	if err != nil || got != first {
		t.Fatalf("GetClient = %v, %v", got, err)
	}

	if _, err := GetClient("missing"); err == nil {
		t.Error("expected an error for an unknown client")
	}

	if err := Close("snapshots"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := GetClient("snapshots"); err == nil {
		t.Error("closed client still registered")
	}
}

func TestDefaultAddress(t *testing.T) {
	defer CloseAll()

	client := NewClient(DefaultClient, Options{})
	if got := client.Options().Addr; got != "localhost:6379" {
		t.Errorf("Addr = %q, want localhost:6379", got)
	}
}

func TestDeleteWithoutKeys(t *testing.T) {
	defer CloseAll()

	client := NewClient("empty", Options{Addr: "127.0.0.1:1"})
	if err := Delete(context.Background(), client); err != nil {
		t.Errorf("Delete with no keys: %v", err)
	}
}
