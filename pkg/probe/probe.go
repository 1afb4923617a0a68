// Package probe performs bounded-time liveness checks against stream URLs.
// Each check is a lightweight HEAD request with a ranged-GET fallback, retried
// once on transient transport errors. Probe failures are recorded as data,
// never raised as errors.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/grafana/dskit/backoff"

	"github.com/iprd/radiodir/pkg/catalog"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "IPRD-Validator/1.0"

	// rangeBytes bounds the body read on the GET fallback.
	rangeBytes = 1024
)

// Config holds per-probe settings. Zero values fall back to package defaults.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	Retries   int // additional attempts after a transient transport failure
}

// Prober checks stream URLs. Safe for concurrent use.
type Prober struct {
	cfg    Config
	client *http.Client
}

// New builds a Prober. The HTTP client uses a short dial timeout separate
// from the overall per-request deadline, the way ICY servers expect.
func New(cfg Config) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second}
	return &Prober{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext:           dialer.DialContext,
				TLSHandshakeTimeout:   5 * time.Second,
				ResponseHeaderTimeout: cfg.Timeout,
				DisableKeepAlives:     true,
			},
		},
	}
}

// Check probes one URL and always returns a Result; a failed endpoint is a
// Result with Working=false, not an error. At most one retry is made, and
// only after a transient transport failure (timeout, connection reset).
func (p *Prober) Check(ctx context.Context, url string) catalog.Result {
	b := backoff.New(ctx, backoff.Config{
		MinBackoff: 250 * time.Millisecond,
		MaxBackoff: time.Second,
		MaxRetries: p.cfg.Retries + 1,
	})

	var last catalog.Result
	for b.Ongoing() {
		res, transient := p.attempt(ctx, url)
		if res.Working || !transient {
			return res
		}
		last = res
		b.Wait()
	}
	if last.URL == "" {
		// The validation budget expired before the first attempt completed.
		last = catalog.Result{
			URL:       url,
			Working:   false,
			Status:    0,
			Error:     "validation budget exhausted",
			CheckedAt: catalog.Timestamp(time.Now()),
		}
	}
	return last
}

// attempt runs a single probe. The second return reports whether a failure
// looked transient and is worth one retry.
func (p *Prober) attempt(ctx context.Context, url string) (catalog.Result, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	start := time.Now()

	resp, body, err := p.fetch(ctx, url)
	if err != nil {
		return p.failure(url, err, start), isTransient(err)
	}

	res := resultFrom(resp, url, start)

	// A reachable URL that serves a playlist file rather than audio is only
	// as good as the stream it points at, so follow the first reference once.
	if res.Working && resp.Header.Get("icy-metaint") == "" && isPlaylistResponse(resp.Header.Get("Content-Type"), body) {
		if body == "" {
			// The playlist was detected from a HEAD response; one GET to
			// read the references.
			if gResp, gBody, gErr := p.fetchGet(ctx, url); gErr == nil {
				resp, body = gResp, gBody
			}
		}
		if target := firstStreamURL(body); target != "" && target != url {
			tResp, _, tErr := p.fetch(ctx, target)
			if tErr != nil {
				return p.failure(url, tErr, start), isTransient(tErr)
			}
			res = resultFrom(tResp, url, start)
		}
	}

	return res, false
}

// fetch probes with HEAD first, falling back to a short partial-content GET
// when the server rejects the lightweight method. The returned body holds
// whatever the GET read (empty after a plain HEAD).
func (p *Prober) fetch(ctx context.Context, url string) (*http.Response, string, error) {
	resp, err := p.do(ctx, http.MethodHead, url)
	if err == nil && (resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented) {
		resp.Body.Close()
		return p.fetchGet(ctx, url)
	}
	if err != nil {
		return nil, "", err
	}
	resp.Body.Close()
	return resp, "", nil
}

func (p *Prober) fetchGet(ctx context.Context, url string) (*http.Response, string, error) {
	resp, err := p.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, "", err
	}
	body := readBody(resp.Body, rangeBytes)
	resp.Body.Close()
	return resp, body, nil
}

func resultFrom(resp *http.Response, url string, start time.Time) catalog.Result {
	res := catalog.Result{
		URL:       url,
		Status:    resp.StatusCode,
		Working:   resp.StatusCode >= 200 && resp.StatusCode < 400,
		Latency:   latency(start),
		CheckedAt: catalog.Timestamp(time.Now()),
	}
	if !res.Working {
		res.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	if br := resp.Header.Get("icy-br"); br != "" {
		if v, e := strconv.Atoi(br); e == nil && v > 0 {
			res.Bitrate = v
		}
	}
	return res
}

func (p *Prober) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	req.Header.Set("Accept", "*/*")
	if method == http.MethodGet {
		req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", rangeBytes-1))
	}
	return p.client.Do(req)
}

func (p *Prober) failure(url string, err error, start time.Time) catalog.Result {
	// Shoutcast servers answering "ICY 200 OK" trip Go's HTTP parser even
	// though the stream opened fine; that counts as working.
	if strings.Contains(err.Error(), `malformed HTTP version "ICY"`) {
		return catalog.Result{
			URL:       url,
			Working:   true,
			Status:    http.StatusOK,
			Latency:   latency(start),
			CheckedAt: catalog.Timestamp(time.Now()),
		}
	}
	return catalog.Result{
		URL:       url,
		Working:   false,
		Status:    0,
		Latency:   latency(start),
		Error:     errString(err),
		CheckedAt: catalog.Timestamp(time.Now()),
	}
}

// isTransient reports whether err is the kind of transport hiccup (timeout,
// connection reset, mid-request EOF) that deserves a single retry. DNS and
// TLS failures are treated as permanent for this run.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	// A server that accepts the connection and then closes before answering
	// surfaces as a bare EOF after the request was written.
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "connection reset") || strings.Contains(s, "broken pipe")
}

// errString trims the url noise Go puts in front of client errors so the
// audit artifact stays readable.
func errString(err error) string {
	var uerr interface{ Unwrap() error }
	s := err.Error()
	if errors.As(err, &uerr) {
		if inner := uerr.Unwrap(); inner != nil {
			s = inner.Error()
		}
	}
	return s
}

func latency(start time.Time) float64 {
	return math.Round(time.Since(start).Seconds()*100) / 100
}
