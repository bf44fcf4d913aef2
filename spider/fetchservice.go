package spider

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/izorzok/crawler/extensions"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type FetchType int

const (
	BaseFetchType FetchType = iota
	BrowserFetchType
)

// ErrPermanent marks responses that are not worth retrying (4xx and other non 5xx statuses).
var ErrPermanent = errors.New("permanent fetch failure")

type Fetcher interface {
	Get(ctx context.Context, req *Request) ([]byte, error)
}

// NewFetchService returns a retrying fetcher. BrowserFetchType sends a
// browser User-Agent and uses the configured proxy, BaseFetchType sends
// bare requests.
func NewFetchService(typ FetchType, opts ...Option) Fetcher {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	f := &fetcher{typ: typ, options: options}
	f.client = options.Client
	if f.client == nil {
		f.client = &http.Client{Timeout: options.Timeout}
		if typ == BrowserFetchType && options.Proxy != nil {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.Proxy = options.Proxy
			f.client.Transport = transport
		}
	}

	return f
}

type fetcher struct {
	typ    FetchType
	client *http.Client
	options
}

// Get tries the request up to Retries times. 2xx returns at once, 5xx and
// network errors are retried after attempt*BaseDelay, anything else fails
// immediately with ErrPermanent.
func (f *fetcher) Get(ctx context.Context, req *Request) ([]byte, error) {
	retries := f.Retries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		body, err := f.do(ctx, req)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if errors.Is(err, ErrPermanent) || ctx.Err() != nil {
			break
		}

		f.logger.Debug("fetch attempt failed",
			zap.String("url", req.URL),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt == retries {
			break
		}

		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
		case <-time.After(f.BaseDelay * time.Duration(attempt)):
			continue
		}
		break
	}

	fields := []zap.Field{
		zap.String("url", req.URL),
		zap.String("rule", req.RuleName),
		zap.Error(lastErr),
	}
	if req.Page > 0 {
		fields = append(fields, zap.Int("page", req.Page))
	}
	f.logger.Warn("fetch failed", fields...)

	return nil, fmt.Errorf("fetch %s: %w", req.URL, lastErr)
}

func (f *fetcher) do(ctx context.Context, request *Request) ([]byte, error) {
	method := request.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, request.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrPermanent, err)
	}

	if f.typ == BrowserFetchType {
		ua := f.UserAgent
		if ua == "" {
			ua = extensions.GenerateRandomUA()
		}
		req.Header.Set("User-Agent", ua)
		req.Header.Set("Accept-Language", "hu-HU,hu;q=0.9,en;q=0.8")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: HTTP %d", ErrPermanent, resp.StatusCode)
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := DeterminEncoding(bodyReader, resp.Header.Get("Content-Type"))
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())

	return io.ReadAll(utf8Reader)
}

func DeterminEncoding(r *bufio.Reader, contentType string) encoding.Encoding {
	bytes, err := r.Peek(1024)

	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		zap.L().Error("peek body failed", zap.Error(err))

		return unicode.UTF8
	}

	e, _, _ := charset.DetermineEncoding(bytes, contentType)

	return e
}
