// Package cli provides the spotidump command line interface.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driving"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// GlobalOptions carries the persistent flags to the runtime loader.
type GlobalOptions struct {
	// ConfigPath is the TOML settings file. Empty means the default lookup.
	ConfigPath string
	// DumpDir overrides the configured dump directory when set.
	DumpDir string
	// Verbose enables debug logging.
	Verbose bool
}

// Runtime is the composed application a command runs against.
type Runtime interface {
	// Config returns the effective credentials and settings.
	Config() *domain.Config
	// Authenticator returns the service that obtains access tokens.
	Authenticator() driving.Authenticator
	// Library returns a library service bound to tokens. With journal set,
	// progress is recorded in the dump directory. The closer releases the journal.
	Library(ctx context.Context, tokens *domain.TokenSet, journal bool) (driving.LibraryService, io.Closer, error)
}

// RuntimeLoader builds the runtime once flags are parsed.
type RuntimeLoader func(opts GlobalOptions) (Runtime, error)

var (
	loadRuntime RuntimeLoader
	globalOpts  GlobalOptions
)

var rootCmd = &cobra.Command{
	Use:   "spotidump",
	Short: "Back up, restore and purge a Spotify library",
	Long: `spotidump exports saved tracks and playlists to CSV files, imports them
back into an account, or purges them from it.

Every operation is a dry run unless --force is given.

Credentials come from the environment (or a .env file):
  SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET and optionally SPOTIFY_REFRESH_TOKEN.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(globalOpts.Verbose)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&globalOpts.ConfigPath, "config", "", "Settings file (default spotidump.toml when present)")
	flags.StringVar(&globalOpts.DumpDir, "dump-dir", "", "Directory holding the CSV dump")
}

// SetRuntimeLoader configures how commands obtain the application runtime.
func SetRuntimeLoader(loader RuntimeLoader) {
	loadRuntime = loader
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func newRuntime() (Runtime, error) {
	if loadRuntime == nil {
		return nil, errors.New("runtime not configured")
	}
	return loadRuntime(globalOpts)
}
