package counter

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("closed pipe")
}

func TestWriterDisplay(t *testing.T) {
	var buf bytes.Buffer
	d := NewWriterDisplay(&buf)

	if err := d.SetText(context.Background(), "Views: 3"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Views: 3\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestWriterDisplay_Error(t *testing.T) {
	d := NewWriterDisplay(failWriter{})
	if err := d.SetText(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDiscard(t *testing.T) {
	if err := Discard.SetText(context.Background(), "anything"); err != nil {
		t.Fatal(err)
	}
}
