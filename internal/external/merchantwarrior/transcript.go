package merchantwarrior

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
)

// transcriptTransport logs the raw wire exchange at debug level after passing
// it through Scrub.
type transcriptTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func newTranscriptTransport(next http.RoundTripper, l *slog.Logger) *transcriptTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &transcriptTransport{next: next, logger: l}
}

func (t *transcriptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if !t.logger.Enabled(ctx, slog.LevelDebug) {
		return t.next.RoundTrip(req)
	}

	reqDump, _ := httputil.DumpRequestOut(req, true)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.DebugContext(ctx, "Gateway transcript",
			slog.String("request", Scrub(string(reqDump))),
			slog.Any("error", err),
		)
		return nil, err
	}

	respDump, _ := httputil.DumpResponse(resp, true)
	t.logger.DebugContext(ctx, "Gateway transcript",
		slog.String("request", Scrub(string(reqDump))),
		slog.String("response", Scrub(string(respDump))),
	)
	return resp, nil
}
