package remote

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type loggingTransport struct {
	next http.RoundTripper
	log  zerolog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	ev := t.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Dur("duration", time.Since(start))
	if err != nil {
		ev.Err(err).Msg("http request failed")
		return nil, err
	}
	ev.Int("status", resp.StatusCode).Int64("content_length", resp.ContentLength).Msg("http request")
	return resp, nil
}
