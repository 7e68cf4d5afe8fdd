package engine

import (
	"errors"
	"net/http"
	"time"
)

// UserAgent is the fixed browser identity sent with every request. YouTube
// serves the embedded-JSON desktop page only to recognizably modern browsers.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// AcceptLanguage pins result-page language so duration/view/date text keeps a
// predictable shape for the normalizers.
const AcceptLanguage = "en-US,en;q=0.5"

// NewFetchClient creates the process-wide HTTP client shared by the search
// page fetch and all thumbnail workers. The timeout bounds each request
// end-to-end; failures degrade, they are never retried.
func NewFetchClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: timeout,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}
