package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/tckz/visitor-counter/internal/counter"
	"github.com/tckz/visitor-counter/internal/log"
	"github.com/tckz/visitor-counter/internal/page"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	myName  = filepath.Base(os.Args[0])
	logger  *zap.SugaredLogger
	version string
)

var (
	optLogLevel = flag.String("log-level", "info", "debug|info|warn|error")
	optListen   = flag.String("listen", ":8080", "addr:port to listen")
	optURL      = flag.String("url", "", "counter endpoint [default: $COUNTER_URL or the built-in endpoint]")
	optFormat   = flag.String("format", "plain", "plain|human")
	optTitle    = flag.String("title", "Visitor counter", "title of the page")
)

func init() {
	godotenv.Load()

	flag.Parse()

	logger = log.Must(log.NewLogger(log.WithLogLevel(*optLogLevel), log.WithApp(myName))).Sugar()
}

func main() {
	logger.Infof("ver=%s, args=%s", version, os.Args)
	defer logger.Infof("done")

	format, err := counter.FormatterByName(*optFormat)
	if err != nil {
		logger.Fatalf("*** --format: %v", err)
	}

	endpoint, _ := lo.Coalesce(*optURL, os.Getenv("COUNTER_URL"), counter.DefaultEndpoint)

	h := page.NewHandler(endpoint,
		page.WithTitle(*optTitle),
		page.WithLogger(logger.Desugar()),
		page.WithUpdaterOptions(counter.WithFormatter(format)))

	srv := &http.Server{
		Addr:              *optListen,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Infof("listen=%s, endpoint=%s", *optListen, endpoint)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Infof("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})

	if err := eg.Wait(); err != nil {
		logger.Errorf("Wait: %v", err)
	}
}
