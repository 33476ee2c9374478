package fetch

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// MaxBodySize bounds a single response body.
const MaxBodySize = 1 << 30

// Transport performs one request and returns the full body. It owns timeout
// policy; Fetch never retries.
type Transport interface {
	Get(url string) ([]byte, error)
}

type TransportFunc func(url string) ([]byte, error)

func (f TransportFunc) Get(url string) ([]byte, error) {
	return f(url)
}

type StatusError struct {
	URL  string
	Code int
}

func (r StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d %s", r.URL, r.Code, http.StatusText(r.Code))
}

// TransportError marks a failure of the transport itself, as opposed to a
// bad or unverifiable body. Callers may retry it against another mirror.
type TransportError struct {
	URL string
	Err error
}

func (r TransportError) Error() string {
	return "fetching " + r.URL + ": " + r.Err.Error()
}

func (r TransportError) Unwrap() error {
	return r.Err
}

func IsTransportError(err error) bool {
	var transportErr TransportError
	return errors.As(err, &transportErr)
}

type HTTPTransport struct {
	Client    *http.Client
	UserAgent string
}

func NewHTTPTransport(timeout time.Duration, userAgent string) *HTTPTransport {
	return &HTTPTransport{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

func (r *HTTPTransport) Get(url string) ([]byte, error) {
	request, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "HTTPTransport.Get error building request")
	}
	if r.UserAgent != "" {
		request.Header.Set("User-Agent", r.UserAgent)
	}

	response, err := r.Client.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "HTTPTransport.Get error")
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 1<<16))
		return nil, StatusError{URL: url, Code: response.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(response.Body, MaxBodySize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "HTTPTransport.Get error reading %s", url)
	}
	if len(body) > MaxBodySize {
		return nil, errors.Errorf("HTTPTransport.Get error: %s is larger than %d bytes", url, MaxBodySize)
	}
	return body, nil
}
