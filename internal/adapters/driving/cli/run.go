package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driving"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// runFlags are shared by export, import and purge.
type runFlags struct {
	force     bool
	resume    bool
	noJournal bool
}

func (f *runFlags) register(cmd *cobra.Command, verb string) {
	cmd.Flags().BoolVar(&f.force, "force", false, "Actually "+verb+"; without it the command is a dry run")
	cmd.Flags().BoolVar(&f.resume, "resume", false, "Skip work a previous forced run finished")
	cmd.Flags().BoolVar(&f.noJournal, "no-journal", false, "Do not record progress in the dump directory")
}

func (f *runFlags) validate() error {
	if f.resume && !f.force {
		return errors.New("--resume requires --force")
	}
	if f.resume && f.noJournal {
		return errors.New("--resume cannot be combined with --no-journal")
	}
	return nil
}

func (f *runFlags) options() driving.RunOptions {
	return driving.RunOptions{Force: f.force, Resume: f.resume}
}

// libraryFunc runs one operation against an authenticated library.
type libraryFunc func(ctx context.Context, lib driving.LibraryService, opts driving.RunOptions) error

// withLibrary authenticates for op, opens the library and runs fn.
// Failures are printed with a hint before being returned.
func withLibrary(cmd *cobra.Command, op domain.Operation, f *runFlags, fn libraryFunc) error {
	err := runLibrary(cmd, op, f, fn)
	if err != nil {
		printHint(cmd, err)
	}
	return err
}

func runLibrary(cmd *cobra.Command, op domain.Operation, f *runFlags, fn libraryFunc) error {
	if err := f.validate(); err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tokens, err := rt.Authenticator().Authenticate(ctx, op)
	if err != nil {
		return err
	}
	reportNewRefreshToken(cmd, rt.Config().Credentials.RefreshToken, tokens)

	// Dry runs never touch the journal, so it is only opened when forced.
	lib, closer, err := rt.Library(ctx, tokens, f.force && !f.noJournal)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn("failed to close journal", "error", err)
			}
		}()
	}

	return fn(ctx, lib, f.options())
}
