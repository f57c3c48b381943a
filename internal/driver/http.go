package driver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ingestkit/wayfind/internal/model"
)

// HTTP driver defaults, chosen to be polite by default: one request per
// second per host, a small bounded retry budget, and a body cap that
// handles any realistic HTML page.
const (
	// DefaultUserAgent identifies Wayfind in HTTP requests. A descriptive
	// User-Agent lets operators identify crawler traffic in their logs.
	DefaultUserAgent = "Wayfind/1.0 (+https://github.com/ingestkit/wayfind)"

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultMaxRetries is the number of retry attempts after the first
	// failed fetch of a target.
	DefaultMaxRetries = 2

	// DefaultBackoffBase is the first retry delay; each subsequent retry
	// doubles it.
	DefaultBackoffBase = 500 * time.Millisecond

	// DefaultPolitenessInterval is the minimum spacing between requests
	// to the same host.
	DefaultPolitenessInterval = 1 * time.Second
)

// HTTPDriver issues HTTP requests for link-frontier tasks.
//
// Transient failures (network errors, 5xx, 429) are retried with
// exponential backoff up to the configured attempt budget; permanent
// request errors fail immediately. When the task's strategy requires link
// discovery the driver extracts hyperlinks from HTML responses into the
// result's leads.
//
// Design decision: We require an external *http.Client rather than
// building one internally because transport concerns (proxies, TLS
// settings, test transports) belong to the caller, and connection pooling
// works best with one shared client.
type HTTPDriver struct {
	client      *http.Client
	method      string
	userAgent   string
	headers     map[string]string
	maxBodySize int64
	maxRetries  int
	backoffBase time.Duration
	limiter     *hostLimiter
	robots      *robotsCache
	useRobots   bool
}

// HTTPOption configures an HTTPDriver.
type HTTPOption func(*HTTPDriver)

// WithMethod sets the request method. GET by default.
func WithMethod(method string) HTTPOption {
	return func(d *HTTPDriver) {
		d.method = method
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(agent string) HTTPOption {
	return func(d *HTTPDriver) {
		d.userAgent = agent
	}
}

// WithHeaders sets additional headers sent with every request, such as
// per-source authentication. User-Agent and Accept defaults are applied
// first, so a header here can override them.
func WithHeaders(headers map[string]string) HTTPOption {
	return func(d *HTTPDriver) {
		d.headers = headers
	}
}

// WithMaxBodySize caps the response body size in bytes.
func WithMaxBodySize(size int64) HTTPOption {
	return func(d *HTTPDriver) {
		d.maxBodySize = size
	}
}

// WithMaxRetries sets the number of retries after a transient failure.
// Zero disables retrying.
func WithMaxRetries(n int) HTTPOption {
	return func(d *HTTPDriver) {
		d.maxRetries = n
	}
}

// WithBackoffBase sets the first retry delay. Each retry doubles it.
func WithBackoffBase(base time.Duration) HTTPOption {
	return func(d *HTTPDriver) {
		d.backoffBase = base
	}
}

// WithPolitenessInterval sets the minimum spacing between requests to the
// same host. Zero disables the politeness delay.
func WithPolitenessInterval(interval time.Duration) HTTPOption {
	return func(d *HTTPDriver) {
		d.limiter = newHostLimiter(interval)
	}
}

// WithRobotsPolicy enables robots.txt enforcement. Targets whose path is
// disallowed fail with a robots_denied error without being requested.
func WithRobotsPolicy(enabled bool) HTTPOption {
	return func(d *HTTPDriver) {
		d.useRobots = enabled
	}
}

// NewHTTPDriver creates an HTTPDriver using the given client.
func NewHTTPDriver(client *http.Client, opts ...HTTPOption) *HTTPDriver {
	d := &HTTPDriver{
		client:      client,
		method:      http.MethodGet,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		maxRetries:  DefaultMaxRetries,
		backoffBase: DefaultBackoffBase,
		limiter:     newHostLimiter(DefaultPolitenessInterval),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.robots = newRobotsCache(client, d.userAgent)
	return d
}

// Supports implements Driver.
func (d *HTTPDriver) Supports(task model.Task) bool {
	return task.Strategy == model.StrategyLinkFrontier
}

// Fetch implements Driver.
func (d *HTTPDriver) Fetch(ctx context.Context, task model.Task) model.Result {
	u, err := url.Parse(task.Target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return model.Failed(task,
			model.Fetchf(model.KindMalformedTarget, "target %q is not an absolute http(s) URL", task.Target))
	}

	if d.useRobots && !d.robots.allowed(ctx, u) {
		return model.Failed(task,
			model.Fetchf(model.KindRobotsDenied, "path %s disallowed by robots.txt on %s", u.Path, u.Host))
	}

	var lastErr *model.FetchError
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			if err := d.backoff(ctx, attempt); err != nil {
				lastErr.Attempts = attempt
				return model.Failed(task, lastErr)
			}
		}

		if err := d.limiter.wait(ctx, u.Host); err != nil {
			fe := model.NewFetchError(model.KindTransient, err)
			fe.Attempts = attempt + 1
			return model.Failed(task, fe)
		}

		res, fe := d.attempt(ctx, task, u)
		if fe == nil {
			return res
		}
		if !fe.Transient() {
			fe.Attempts = attempt + 1
			return model.Failed(task, fe)
		}
		lastErr = fe
	}

	lastErr.Attempts = d.maxRetries + 1
	return model.Failed(task, lastErr)
}

// attempt performs a single request. A nil *FetchError means success.
func (d *HTTPDriver) attempt(ctx context.Context, task model.Task, u *url.URL) (model.Result, *model.FetchError) {
	req, err := http.NewRequestWithContext(ctx, d.method, u.String(), nil)
	if err != nil {
		return model.Result{}, model.NewFetchError(model.KindMalformedTarget, err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range d.headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		// Timeouts, connection resets, DNS failures: all transient.
		return model.Result{}, model.NewFetchError(model.KindTransient, err)
	}
	defer resp.Body.Close() //nolint:errcheck // body fully consumed or abandoned on error

	if fe := classifyStatus(resp.StatusCode); fe != nil {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return model.Result{}, fe
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBodySize))
	if err != nil {
		return model.Result{}, model.NewFetchError(model.KindTransient, err)
	}

	res := model.Succeeded(task, body)
	res.StatusCode = resp.StatusCode
	res.ContentType = resp.Header.Get("Content-Type")

	if task.Strategy == model.StrategyLinkFrontier && strings.Contains(res.ContentType, "text/html") {
		if info, err := extractPage(bytes.NewReader(body), resp.Request.URL); err == nil {
			res.Title = info.title
			res.Leads = info.links
		}
	}

	return res, nil
}

// backoff sleeps out the exponential retry delay for the given attempt,
// or returns early when the context ends.
func (d *HTTPDriver) backoff(ctx context.Context, attempt int) error {
	delay := d.backoffBase * (1 << (attempt - 1))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// classifyStatus maps an HTTP status onto the fetch error taxonomy.
// A nil return means the response is usable.
func classifyStatus(status int) *model.FetchError {
	switch {
	case status >= 500:
		return model.Fetchf(model.KindTransient, "server error: %s", statusText(status))
	case status == http.StatusTooManyRequests:
		return model.Fetchf(model.KindTransient, "rate limited: %s", statusText(status))
	case status == http.StatusNotFound, status == http.StatusGone:
		return model.Fetchf(model.KindNotFound, "%s", statusText(status))
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return model.Fetchf(model.KindPermission, "%s", statusText(status))
	case status >= 400:
		return model.Fetchf(model.KindPermanent, "client error: %s", statusText(status))
	default:
		return nil
	}
}

// statusText formats a status code with its standard reason phrase.
func statusText(status int) string {
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}
