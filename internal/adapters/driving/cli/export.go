package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driving"
)

var exportFlags runFlags

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved tracks and playlists to CSV",
	Long: `Writes saved tracks to saved_tracks.csv and every playlist to its own CSV
file in the dump directory.

Without --force the command only reports what it would export.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withLibrary(cmd, domain.OperationExport, &exportFlags, func(ctx context.Context, lib driving.LibraryService, opts driving.RunOptions) error {
			if !opts.Force {
				printDryRunBanner(cmd, "exported", "export")
			} else {
				cmd.Println("Exporting tracks and playlists...")
			}
			summary, err := lib.Export(ctx, opts)
			if err != nil {
				return err
			}
			printExportSummary(cmd, summary)
			return nil
		})
	},
}

func init() {
	exportFlags.register(exportCmd, "write the dump")
	rootCmd.AddCommand(exportCmd)
}

func printExportSummary(cmd *cobra.Command, s *driving.ExportSummary) {
	st := newStyles(cmd.OutOrStdout())

	switch {
	case s.DryRun:
		cmd.Printf("Dry run: would have exported %d saved tracks.\n", s.SavedTracks)
	case s.SavedTracksLocation != "":
		cmd.Printf("Exported %d saved tracks to %s\n", s.SavedTracks, s.SavedTracksLocation)
	default:
		cmd.Println(st.Muted.Render("Saved tracks already exported, skipping."))
	}
	if s.SkippedSavedTracks > 0 {
		cmd.Println(st.Warning.Render(pluralf("Skipped %d saved track%s without an id.", s.SkippedSavedTracks)))
	}

	for _, p := range s.Playlists {
		switch {
		case p.Resumed:
			cmd.Println(st.Muted.Render("Playlist '" + p.Name + "' already exported, skipping."))
		case s.DryRun:
			cmd.Printf("Dry run: would have exported %d tracks from playlist '%s'.\n", p.Tracks, p.Name)
		default:
			cmd.Printf("Exported %d tracks from playlist '%s' to %s\n", p.Tracks, p.Name, p.Location)
		}
	}
	if skipped := s.SkippedPlaylistTracks(); skipped > 0 {
		cmd.Println(st.Warning.Render(pluralf("Skipped %d track%s in playlists.", skipped)))
	}

	if !s.DryRun {
		cmd.Println(st.Success.Render("Export completed successfully."))
	}
}
