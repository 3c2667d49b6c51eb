package tr064

import (
	"bytes"
	"crypto/tls"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/icholy/digest"
	"github.com/muurk/tr064-debug/internal/logging"
	"github.com/muurk/tr064-debug/internal/version"
)

// maxCapturedBody bounds how much of a response body is kept for display
const maxCapturedBody = 64 * 1024

// newDeviceTLSConfig creates the client TLS configuration for the encrypted
// channel. Fritz!Box devices present a self-signed certificate issued for
// their own hostname, so verification is limited to logging the handshake.
func newDeviceTLSConfig(host string) *tls.Config {
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: true, //nolint:gosec // self-signed device certificate

		VerifyConnection: func(cs tls.ConnectionState) error {
			logging.LogTLSHandshake(host, cs)
			return nil
		},
	}
}

// newHTTPClient builds the HTTP client for one channel of a device session.
// Credentials, when present, are answered through HTTP digest authentication.
func newHTTPClient(profile ConnectionProfile, username, password string) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = newDeviceTLSConfig(profile.Host)

	var rt http.RoundTripper = &loggingTransport{next: base}
	if username != "" || password != "" {
		rt = &digest.Transport{
			Username:  username,
			Password:  password,
			Transport: rt,
		}
	}

	return &http.Client{
		Timeout:   profile.Timeout(),
		Transport: rt,
	}
}

// loggingTransport stamps the User-Agent and logs every HTTP exchange
type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", version.UserAgent())
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	logging.LogHTTPExchange(req.Method, req.URL.String(), status, time.Since(start), err)
	return resp, err
}

// exchangeRecorder remembers the final status and body of the last exchange
// so that failures can be reported with the device's raw answer.
type exchangeRecorder struct {
	next http.RoundTripper

	mu     sync.Mutex
	status int
	body   []byte
}

func (r *exchangeRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	data, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))

	// The decoder gets the whole body; only the kept copy is capped
	kept := data
	if len(kept) > maxCapturedBody {
		kept = kept[:maxCapturedBody]
	}

	r.mu.Lock()
	r.status = resp.StatusCode
	r.body = kept
	r.mu.Unlock()

	logging.LogPayload("response", data)
	return resp, nil
}

func (r *exchangeRecorder) last() (int, []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.body
}

// recordingClient returns a copy of hc whose exchanges are captured by the
// returned recorder.
func recordingClient(hc *http.Client) (*http.Client, *exchangeRecorder) {
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	rec := &exchangeRecorder{next: next}
	clone := *hc
	clone.Transport = rec
	return &clone, rec
}
