package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driving"
)

var importFlags runFlags

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import saved tracks and playlists from CSV",
	Long: `Saves the tracks listed in saved_tracks.csv and recreates every other CSV
file in the dump directory as a private playlist named after the file.

Without --force the command only reports what it would import.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withLibrary(cmd, domain.OperationImport, &importFlags, func(ctx context.Context, lib driving.LibraryService, opts driving.RunOptions) error {
			if !opts.Force {
				printDryRunBanner(cmd, "imported", "import")
			} else {
				cmd.Println("Importing tracks and playlists...")
			}
			summary, err := lib.Import(ctx, opts)
			if err != nil {
				return err
			}
			printImportSummary(cmd, summary)
			return nil
		})
	},
}

func init() {
	importFlags.register(importCmd, "import")
	rootCmd.AddCommand(importCmd)
}

func printImportSummary(cmd *cobra.Command, s *driving.ImportSummary) {
	st := newStyles(cmd.OutOrStdout())

	cmd.Printf("Retrieved user ID: %s\n", s.UserID)
	switch {
	case s.DryRun:
		cmd.Printf("Dry run: would have imported %d saved tracks.\n", s.SavedTracks)
	case s.SavedTracksResumed:
		cmd.Println(st.Muted.Render("Saved tracks already imported, skipping."))
	default:
		cmd.Printf("Saved %d tracks\n", s.SavedTracks)
	}

	for _, p := range s.Playlists {
		switch {
		case p.Resumed:
			cmd.Println(st.Muted.Render("Playlist '" + p.Name + "' already imported, skipping."))
		case s.DryRun:
			cmd.Printf("Dry run: would have imported playlist '%s' with %d tracks.\n", p.Name, p.Tracks)
		default:
			cmd.Printf("Playlist '%s' has been imported with %d tracks.\n", p.Name, p.Tracks)
		}
	}

	if !s.DryRun {
		cmd.Println(st.Success.Render("Import completed successfully."))
	}
}
