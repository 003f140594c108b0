// Command pricestub serves a fake price endpoint for running jaskwallet
// without network access. Point remote.base_url at http://<addr>/api/v3/.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jask/jaskwallet/internal/record"
	"github.com/jask/jaskwallet/internal/source/remote/stubserver"
	"github.com/jask/jaskwallet/internal/testdata"
)

func main() {
	var (
		addr       string
		path       string
		random     int
		seed       int64
		failStatus int
		delay      time.Duration
	)
	flag.StringVar(&addr, "addr", "127.0.0.1:8089", "listen address")
	flag.StringVar(&path, "path", stubserver.DefaultPath, "price list route")
	flag.IntVar(&random, "random", 0, "serve n generated records instead of the sample set")
	flag.Int64Var(&seed, "seed", 1, "seed for -random")
	flag.IntVar(&failStatus, "fail-status", 0, "answer every request with this status")
	flag.DurationVar(&delay, "delay", 0, "delay before each response")
	flag.Parse()

	lg := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	var records []record.Record
	if random > 0 {
		records = testdata.RandomRecords(random, seed)
	} else {
		records = testdata.SampleRecords()
	}

	stub := stubserver.New(path, records)
	if failStatus != 0 || delay > 0 {
		stub.Fail(stubserver.Failure{Status: failStatus, Body: `{"error":"stubbed failure"}`, Delay: delay})
	}

	srv := &http.Server{Addr: addr, Handler: stub, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	lg.Info().Str("addr", addr).Str("path", path).Int("records", len(records)).Msg("serving prices")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal().Err(err).Msg("listen")
	}
	lg.Info().Int("hits", stub.Hits()).Msg("stopped")
}
