package homewizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"homewizard-client/internal/domain/model"
)

// HTTPTransport is the plain net/http implementation of ports.Transport.
type HTTPTransport struct {
	httpClient *http.Client
}

func NewHTTPTransport(connectTimeout, readTimeout time.Duration) *HTTPTransport {
	dialer := &net.Dialer{Timeout: connectTimeout}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = dialer.DialContext
	tr.ResponseHeaderTimeout = readTimeout
	return &HTTPTransport{
		httpClient: &http.Client{Transport: tr},
	}
}

func (t *HTTPTransport) Do(ctx context.Context, method model.Method, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, string(method), rawURL, nil)
	if err != nil {
		return "", stripURL(err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", stripURL(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("HomeWizard HTTP error: %d", resp.StatusCode)
	}

	return strings.TrimSpace(string(data)), nil
}

// stripURL drops the request URL net/http puts in its errors; it carries the
// device password.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}
