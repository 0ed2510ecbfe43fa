package clipboard

import (
	"errors"
	"testing"
)

func TestFuncAdapter(t *testing.T) {
	var got string
	c := Func(func(text string) error {
		got = text
		return nil
	})
	if err := c.Copy("payload"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "payload" {
		t.Fatalf("expected payload, got %q", got)
	}

	boom := errors.New("boom")
	failing := Func(func(string) error { return boom })
	if err := failing.Copy("x"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestNopAcceptsEverything(t *testing.T) {
	if err := Nop.Copy("anything"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
