package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yourusername/mediafire-dl-go/internal/domain"
	"go.uber.org/zap"
)

// maxLandingPageSize bounds how much of an HTML landing page is scanned for the direct link
const maxLandingPageSize = 4 << 20

var (
	downloadButtonPattern = regexp.MustCompile(`(?s)<a[^>]*(?:aria-label="Download file"|id="downloadButton")[^>]*>`)
	hrefPattern           = regexp.MustCompile(`href="([^"]+)"`)
	directLinkPattern     = regexp.MustCompile(`href="(https?://download[0-9]*\.mediafire\.com/[^"]+)"`)
)

// NewHTTPClient builds the shared client used for API calls and transfers.
// Only connection setup and response headers are bounded; bodies may stream for as long as they need.
func NewHTTPClient(config *domain.DownloadConfig) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   config.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   config.ConnectTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		MaxIdleConnsPerHost:   config.MaxConcurrent,
		IdleConnTimeout:       90 * time.Second,
	}
	return &http.Client{Transport: transport}
}

// HTTPTransferer implements domain.Transferer over plain HTTP(S)
type HTTPTransferer struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewHTTPTransferer creates a new HTTP transfer executor
func NewHTTPTransferer(client *http.Client, userAgent string, logger *zap.Logger) *HTTPTransferer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPTransferer{
		client:    client,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Transfer downloads job.DownloadURL into job.DestinationPath in a single attempt.
// The body is streamed to "<dest>.part" and renamed over the destination on success,
// so an interrupted transfer never leaves a file that looks complete.
func (t *HTTPTransferer) Transfer(ctx context.Context, job *domain.Job) error {
	resp, err := t.get(ctx, job.DownloadURL)
	if err != nil {
		return err
	}

	if isLandingPage(resp) {
		direct, err := extractDirectLink(resp.Body, resp.Request.URL)
		resp.Body.Close()
		if err != nil {
			return &domain.TransferError{Kind: domain.TransferHTTP, StatusCode: resp.StatusCode, Err: err}
		}

		t.logger.Debug("Following direct link",
			zap.String("id", job.ID),
			zap.String("url", direct))

		resp, err = t.get(ctx, direct)
		if err != nil {
			return err
		}
		if isLandingPage(resp) {
			resp.Body.Close()
			return &domain.TransferError{
				Kind:       domain.TransferHTTP,
				StatusCode: resp.StatusCode,
				Err:        errors.New("direct link returned another download page"),
			}
		}
	}
	defer resp.Body.Close()

	return t.writeFile(job.DestinationPath, resp.Body)
}

func (t *HTTPTransferer) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, domain.NewTransferError(domain.TransferHTTP, fmt.Errorf("invalid url: %w", err))
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, domain.NewTransferError(domain.TransferNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, &domain.TransferError{
			Kind:       domain.TransferHTTP,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return resp, nil
}

func (t *HTTPTransferer) writeFile(dest string, body io.Reader) (err error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return domain.NewTransferError(domain.TransferIO, fmt.Errorf("failed to create directory: %w", err))
	}

	partPath := dest + ".part"
	f, err := os.Create(partPath)
	if err != nil {
		return domain.NewTransferError(domain.TransferIO, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(partPath)
		}
	}()

	w := &trackingWriter{w: f}
	if _, err := io.Copy(w, body); err != nil {
		if w.err != nil {
			return domain.NewTransferError(domain.TransferIO, w.err)
		}
		return domain.NewTransferError(domain.TransferNetwork, fmt.Errorf("failed to read body: %w", err))
	}

	if err := f.Close(); err != nil {
		return domain.NewTransferError(domain.TransferIO, err)
	}
	if err := os.Rename(partPath, dest); err != nil {
		return domain.NewTransferError(domain.TransferIO, fmt.Errorf("failed to finalize %s: %w", dest, err))
	}
	return nil
}

// trackingWriter remembers write errors so they can be told apart from read errors after io.Copy
type trackingWriter struct {
	w   io.Writer
	err error
}

func (tw *trackingWriter) Write(p []byte) (int, error) {
	n, err := tw.w.Write(p)
	if err != nil {
		tw.err = err
	}
	return n, err
}

// isLandingPage reports whether resp is an HTML page rather than file content.
// Hosts named download*.* serve the files themselves and are never treated as pages.
func isLandingPage(resp *http.Response) bool {
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		return false
	}
	if resp.Request != nil && strings.HasPrefix(resp.Request.URL.Hostname(), "download") {
		return false
	}
	return true
}

// extractDirectLink finds the real file URL on a MediaFire download page.
// The button's href is resolved against base and only kept when it is an
// absolute http(s) URL; otherwise the first download*.mediafire.com link wins.
func extractDirectLink(body io.Reader, base *url.URL) (string, error) {
	page, err := io.ReadAll(io.LimitReader(body, maxLandingPageSize))
	if err != nil {
		return "", fmt.Errorf("failed to read download page: %w", err)
	}

	if tag := downloadButtonPattern.Find(page); tag != nil {
		if m := hrefPattern.FindSubmatch(tag); m != nil {
			if link, ok := absoluteHTTPURL(html.UnescapeString(string(m[1])), base); ok {
				return link, nil
			}
		}
	}
	if m := directLinkPattern.FindSubmatch(page); m != nil {
		return html.UnescapeString(string(m[1])), nil
	}
	return "", errors.New("no direct download link on page")
}

func absoluteHTTPURL(href string, base *url.URL) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if (ref.Scheme != "http" && ref.Scheme != "https") || ref.Host == "" {
		return "", false
	}
	return ref.String(), true
}
