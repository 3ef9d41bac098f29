package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driving"
)

// mockAuthenticator implements driving.Authenticator for testing.
type mockAuthenticator struct {
	lastOp domain.Operation
	calls  int
	tokens *domain.TokenSet
	err    error
}

func (m *mockAuthenticator) Authenticate(_ context.Context, op domain.Operation) (*domain.TokenSet, error) {
	m.calls++
	m.lastOp = op
	if m.err != nil {
		return nil, m.err
	}
	if m.tokens != nil {
		return m.tokens, nil
	}
	return &domain.TokenSet{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}, nil
}

// mockLibrary implements driving.LibraryService for testing.
type mockLibrary struct {
	lastOpts driving.RunOptions
	export   *driving.ExportSummary
	imp      *driving.ImportSummary
	purge    *driving.PurgeSummary
	err      error
}

func (m *mockLibrary) Export(_ context.Context, opts driving.RunOptions) (*driving.ExportSummary, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.export != nil {
		return m.export, nil
	}
	return &driving.ExportSummary{DryRun: !opts.Force}, nil
}

func (m *mockLibrary) Import(_ context.Context, opts driving.RunOptions) (*driving.ImportSummary, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.imp != nil {
		return m.imp, nil
	}
	return &driving.ImportSummary{DryRun: !opts.Force}, nil
}

func (m *mockLibrary) Purge(_ context.Context, opts driving.RunOptions) (*driving.PurgeSummary, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.purge != nil {
		return m.purge, nil
	}
	return &driving.PurgeSummary{DryRun: !opts.Force}, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// mockRuntime implements Runtime for testing.
type mockRuntime struct {
	auth        *mockAuthenticator
	creds       domain.Credentials
	library     *mockLibrary
	libraryErr  error
	journal     *bool
	closed      bool
	lastOptions GlobalOptions
}

func newMockRuntime() *mockRuntime {
	return &mockRuntime{auth: &mockAuthenticator{}, library: &mockLibrary{}}
}

func (m *mockRuntime) Config() *domain.Config {
	return &domain.Config{Credentials: m.creds, Settings: domain.DefaultSettings()}
}

func (m *mockRuntime) Authenticator() driving.Authenticator {
	return m.auth
}

func (m *mockRuntime) Library(_ context.Context, _ *domain.TokenSet, journal bool) (driving.LibraryService, io.Closer, error) {
	m.journal = &journal
	if m.libraryErr != nil {
		return nil, nil, m.libraryErr
	}
	return m.library, closerFunc(func() error {
		m.closed = true
		return nil
	}), nil
}

// execute runs the root command against rt with clean flag state.
func execute(t *testing.T, rt *mockRuntime, args ...string) (string, string, error) {
	t.Helper()

	oldLoader := loadRuntime
	loadRuntime = func(opts GlobalOptions) (Runtime, error) {
		if rt == nil {
			return nil, errors.New("runtime unavailable")
		}
		rt.lastOptions = opts
		return rt, nil
	}
	resetFlags()
	t.Cleanup(func() {
		loadRuntime = oldLoader
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag to its default, since cobra keeps values
// between executions of the same command tree.
func resetFlags() {
	globalOpts = GlobalOptions{}
	exportFlags = runFlags{}
	importFlags = runFlags{}
	purgeFlags = runFlags{}
	authFor = string(domain.OperationExport)
}
