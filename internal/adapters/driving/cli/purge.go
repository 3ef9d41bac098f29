package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driving"
)

var purgeFlags runFlags

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove saved tracks and unfollow playlists",
	Long: `Removes every saved track and unfollows every playlist in the account.
Export first: nothing is backed up by this command.

Without --force the command only reports what it would remove.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withLibrary(cmd, domain.OperationPurge, &purgeFlags, func(ctx context.Context, lib driving.LibraryService, opts driving.RunOptions) error {
			if !opts.Force {
				printDryRunBanner(cmd, "deleted", "delete")
			} else {
				cmd.Println("Purging tracks and playlists...")
			}
			summary, err := lib.Purge(ctx, opts)
			if err != nil {
				return err
			}
			printPurgeSummary(cmd, summary)
			return nil
		})
	},
}

func init() {
	purgeFlags.register(purgeCmd, "delete")
	rootCmd.AddCommand(purgeCmd)
}

func printPurgeSummary(cmd *cobra.Command, s *driving.PurgeSummary) {
	st := newStyles(cmd.OutOrStdout())

	if s.DryRun {
		cmd.Printf("Found %d saved tracks to purge.\n", s.SavedTracks)
	} else {
		cmd.Printf("Removed %d saved tracks.\n", s.SavedTracks)
	}

	for _, p := range s.Playlists {
		switch {
		case p.Resumed:
			cmd.Println(st.Muted.Render("Playlist '" + p.Name + "' already unfollowed, skipping."))
		case s.DryRun:
			cmd.Printf("Would unfollow playlist: %s\n", p.Name)
		default:
			cmd.Printf("Unfollowed playlist: %s\n", p.Name)
		}
	}

	if !s.DryRun {
		cmd.Println(st.Success.Render("Purge completed successfully."))
	}
}
