package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/tckz/visitor-counter/internal/counter"
	"github.com/tckz/visitor-counter/internal/log"
	"go.uber.org/zap"
)

var (
	myName  = filepath.Base(os.Args[0])
	logger  *zap.SugaredLogger
	version string
)

var (
	optLogLevel = flag.String("log-level", "info", "debug|info|warn|error")
	optURL      = flag.String("url", "", "counter endpoint [default: $COUNTER_URL or the built-in endpoint]")
	optFormat   = flag.String("format", "plain", "plain|human")
	optTimeout  = flag.Duration("timeout", 0, "Timeout of the update [0 = none]")
	optRedis    = flag.String("redis", "", "addr:port of redis. Store the text there instead of stdout")
	optRedisKey = flag.String("redis-key", counter.DefaultRedisKey, "key of redis")
)

func init() {
	godotenv.Load()

	flag.Parse()

	logger = log.Must(log.NewLogger(log.WithLogLevel(*optLogLevel), log.WithApp(myName))).Sugar()
}

func main() {
	logger.Infof("ver=%s, args=%s", version, os.Args)
	defer logger.Sync()

	format, err := counter.FormatterByName(*optFormat)
	if err != nil {
		logger.Fatalf("*** --format: %v", err)
	}

	endpoint, _ := lo.Coalesce(*optURL, os.Getenv("COUNTER_URL"), counter.DefaultEndpoint)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if *optTimeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, *optTimeout)
		defer cancelTimeout()
	}

	var display counter.Display = counter.NewWriterDisplay(os.Stdout)
	if *optRedis != "" {
		cl := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:        []string{*optRedis},
			DialTimeout:  time.Second * 2,
			ReadTimeout:  time.Second * 2,
			WriteTimeout: time.Second * 2,
		})
		defer cl.Close()
		display = counter.NewRedisDisplay(cl, *optRedisKey)
	}

	u := counter.NewUpdater(endpoint, display,
		counter.WithLogger(logger.Desugar()),
		counter.WithFormatter(format))

	out := <-u.Start(ctx)
	logger.Infof("done, cycle=%s, fallback=%t", out.Cycle, out.Fallback)
}
