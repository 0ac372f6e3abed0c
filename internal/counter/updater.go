// Package counter fetches the visitor count from the counter endpoint and
// renders it into a display target.
package counter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://hjjppjspzvuuwm7pilukouqrvu0vppar.lambda-url.us-east-1.on.aws/"

	// Fallback is written to the display whenever a cycle fails.
	Fallback = "Couldn't read views"

	ViewsField = "views"
)

var ErrNullResponse = errors.New("response is JSON null")

// Outcome describes what a single update cycle wrote.
type Outcome struct {
	Cycle    string
	Text     string
	Fallback bool
	// Err is the cause of the fallback, joined with the fallback write error
	// when that write failed too. It is informational only.
	Err error
}

type Updater struct {
	endpoint string
	display  Display
	client   *http.Client
	logger   *zap.Logger
	format   Formatter
}

type Option func(u *Updater)

func WithHTTPClient(cl *http.Client) Option {
	return Option(func(u *Updater) {
		u.client = cl
	})
}

func WithLogger(zl *zap.Logger) Option {
	return Option(func(u *Updater) {
		u.logger = zl
	})
}

func WithFormatter(f Formatter) Option {
	return Option(func(u *Updater) {
		u.format = f
	})
}

func NewUpdater(endpoint string, display Display, opts ...Option) *Updater {
	u := &Updater{
		endpoint: endpoint,
		display:  display,
		client:   http.DefaultClient,
		logger:   zap.NewNop(),
		format:   PlainFormat,
	}
	for _, e := range opts {
		e(u)
	}
	return u
}

// Update runs one cycle: one GET to the endpoint, then exactly one
// successful-path write or one fallback write to the display.
func (u *Updater) Update(ctx context.Context) Outcome {
	cycle := uuid.New().String()
	lg := u.logger.With(zap.String("cycle", cycle))

	text, err := u.fetch(ctx)
	if err == nil {
		if err = u.display.SetText(ctx, text); err == nil {
			lg.Debug("counter updated", zap.String("text", text))
			return Outcome{Cycle: cycle, Text: text}
		}
		err = fmt.Errorf("display.SetText: %w", err)
	}

	lg.Error("update counter", zap.Error(err))
	// The fallback must land even when ctx is what failed the cycle.
	if derr := u.display.SetText(context.WithoutCancel(ctx), Fallback); derr != nil {
		lg.Error("write fallback", zap.Error(derr))
		err = errors.Join(err, fmt.Errorf("write fallback: %w", derr))
	}
	return Outcome{Cycle: cycle, Text: Fallback, Fallback: true, Err: err}
}

// Start runs Update in its own goroutine. The returned channel yields the
// Outcome once and is then closed.
func (u *Updater) Start(ctx context.Context) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		ch <- u.Update(ctx)
	}()
	return ch
}

func (u *Updater) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("http.NewRequest: %w", err)
	}

	res, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("client.Do: %w", err)
	}
	defer res.Body.Close()

	// Status is not checked; any well-formed JSON body renders.
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return "", fmt.Errorf("json.Decode: status=%d, %w", res.StatusCode, err)
	}
	if body == nil {
		return "", fmt.Errorf("json.Decode: status=%d, %w", res.StatusCode, ErrNullResponse)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("trailing data after value")
		}
		return "", fmt.Errorf("json.Decode: status=%d, %w", res.StatusCode, err)
	}

	// Arrays and scalars have no views member.
	obj, _ := body.(map[string]any)
	v, ok := obj[ViewsField]
	return u.format(v, ok), nil
}
