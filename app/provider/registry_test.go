package provider

import (
	"errors"
	"testing"
)

func TestRegistryGet(t *testing.T) {
	razorpay, _ := newTestRazorpayProvider(t)
	pinelabs := newTestPineLabsProvider(t)

	reg := NewRegistry(razorpay, pinelabs)

	p, err := reg.Get("razorpay")
	if err != nil || p.Name() != "razorpay" {
		t.Fatalf("expected razorpay provider, got %v %v", p, err)
	}
	p, err = reg.Get("  PineLabs ")
	if err != nil || p.Name() != "pinelabs" {
		t.Fatalf("expected pinelabs provider, got %v %v", p, err)
	}

	if _, err := reg.Get("paypal"); !errors.Is(err, ErrProviderNotSupported) {
		t.Fatalf("expected ErrProviderNotSupported, got %v", err)
	}
	if _, err := reg.Get(""); !errors.Is(err, ErrProviderNotSupported) {
		t.Fatalf("expected ErrProviderNotSupported for empty name, got %v", err)
	}
}
