package counter

import (
	"context"
	"fmt"
	"io"
)

// Display is the element the counter text is written into.
type Display interface {
	SetText(ctx context.Context, text string) error
}

type DisplayFunc func(ctx context.Context, text string) error

func (f DisplayFunc) SetText(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Discard accepts every write.
var Discard Display = DisplayFunc(func(ctx context.Context, text string) error {
	return nil
})

var _ Display = (*WriterDisplay)(nil)

// WriterDisplay writes each text as one line.
type WriterDisplay struct {
	w io.Writer
}

func NewWriterDisplay(w io.Writer) *WriterDisplay {
	return &WriterDisplay{w: w}
}

func (d *WriterDisplay) SetText(ctx context.Context, text string) error {
	if _, err := fmt.Fprintln(d.w, text); err != nil {
		return fmt.Errorf("fmt.Fprintln: %w", err)
	}
	return nil
}
