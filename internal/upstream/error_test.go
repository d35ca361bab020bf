package upstream

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrap(t *testing.T) {
	if Wrap("x", nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
	base := errors.New("boom")
	err := Wrap("chat completion", base)
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error lost its cause")
	}
	if err.Error() != "chat completion failed: boom" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	// already classified errors keep their original op
	outer := fmt.Errorf("voice: %w", err)
	if op, ok := Op(Wrap("transcription", outer)); !ok || op != "chat completion" {
		t.Fatalf("unexpected op: %q %v", op, ok)
	}
	if _, ok := Op(base); ok {
		t.Fatalf("plain error classified as upstream")
	}
}
