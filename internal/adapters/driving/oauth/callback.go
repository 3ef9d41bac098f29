// Package oauth provides the loopback callback server and browser utilities
// for the authorization code flow.
package oauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// successMessage is shown in the browser once the code has been captured.
const successMessage = "Authorization successful! You can close this window now."

// shutdownTimeout bounds the graceful shutdown before connections are closed.
const shutdownTimeout = 5 * time.Second

// callbackResult is the outcome of the single processed callback.
type callbackResult struct {
	result *domain.AuthorizationResult
	err    error
}

// CallbackServer handles the OAuth redirect callback.
// It accepts exactly one callback request; later requests are answered
// with 409 and ignored.
type CallbackServer struct {
	mu            sync.Mutex
	addr          string
	path          string
	expectedState string
	handled       atomic.Bool
	results       chan callbackResult
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a new OAuth callback server bound to addr
// (host:port) that serves only path.
// The expectedState is used to validate the callback matches the request.
func NewCallbackServer(addr, path, expectedState string) *CallbackServer {
	if path == "" {
		path = "/"
	}
	return &CallbackServer{
		addr:          addr,
		path:          path,
		expectedState: expectedState,
		results:       make(chan callbackResult, 1),
	}
}

// Start binds the listener and serves in the background.
// Bind failures wrap domain.ErrListenerBind.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleCallback)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("%w: listen on %s: %v", domain.ErrListenerBind, s.addr, err)
	}
	s.listener = listener
	logger.Debug("callback listener started", "addr", listener.Addr().String(), "path", s.path)

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.deliver(callbackResult{err: fmt.Errorf("%w: serve: %v", domain.ErrListenerBind, err)})
		}
	}()

	return nil
}

// handleCallback processes the OAuth callback request.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != s.path {
		http.NotFound(w, r)
		return
	}
	if !s.handled.CompareAndSwap(false, true) {
		writeText(w, http.StatusConflict, "Authorization already handled.")
		return
	}

	query := r.URL.Query()

	// Check for error from provider
	if errParam := query.Get("error"); errParam != "" {
		writeText(w, http.StatusBadRequest, "Authorization failed: "+errParam)
		s.deliver(callbackResult{err: fmt.Errorf("%w: provider returned %q", domain.ErrMalformedCallback, errParam)})
		return
	}

	code := query.Get("code")
	state := query.Get("state")
	if code == "" || state == "" {
		writeText(w, http.StatusBadRequest, "Authorization failed: missing code or state.")
		s.deliver(callbackResult{err: fmt.Errorf("%w: missing code or state", domain.ErrMalformedCallback)})
		return
	}

	if subtle.ConstantTimeCompare([]byte(state), []byte(s.expectedState)) != 1 {
		writeText(w, http.StatusBadRequest, "Authorization failed: invalid state parameter.")
		s.deliver(callbackResult{err: domain.ErrStateMismatch})
		return
	}

	// The response is written before the code is handed over, so the
	// browser sees it even though the server stops right after.
	writeText(w, http.StatusOK, successMessage)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	s.deliver(callbackResult{result: &domain.AuthorizationResult{Code: code, State: state}})
}

func (s *CallbackServer) deliver(res callbackResult) {
	select {
	case s.results <- res:
	default:
	}
}

// Wait blocks until the callback is processed, the timeout elapses, or ctx is done.
func (s *CallbackServer) Wait(ctx context.Context, timeout time.Duration) (*domain.AuthorizationResult, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-s.results:
		return res.result, res.err
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", domain.ErrAuthorizationTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop shuts down the callback server and releases the socket.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return s.server.Close()
	}
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *CallbackServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, body)
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("%w: unsupported platform: %s", domain.ErrBrowserLaunch, runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBrowserLaunch, err)
	}
	return nil
}
