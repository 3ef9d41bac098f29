package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/spotidump/internal/core/domain"
)

var authFor string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize once and print a refresh token",
	Long: `Runs the browser authorization flow with the scopes an operation needs and
prints the refresh token the provider returns.

Store it as SPOTIFY_REFRESH_TOKEN to skip the browser on later runs.

Examples:
  spotidump auth --for export
  spotidump auth --for purge`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		err := runAuth(cmd)
		if err != nil {
			printHint(cmd, err)
		}
		return err
	},
}

func init() {
	authCmd.Flags().StringVar(&authFor, "for", string(domain.OperationExport),
		"Operation whose scopes to request (export, import or purge)")
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command) error {
	op, err := domain.ParseOperation(authFor)
	if err != nil {
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

	st := newStyles(cmd.OutOrStdout())
	if tokens.RefreshToken == "" {
		cmd.Println(st.Warning.Render("Authorized, but the provider did not return a refresh token."))
		return nil
	}

	cmd.Println(st.Success.Render("Authorized for " + op.String() + "."))
	printRefreshToken(cmd, st, tokens.RefreshToken)
	return nil
}

// printRefreshToken prints the capture instructions for a refresh token.
func printRefreshToken(cmd *cobra.Command, st *styles, token string) {
	cmd.Println("Add this line to your environment or .env file to skip the browser next time:")
	cmd.Println()
	cmd.Printf("  SPOTIFY_REFRESH_TOKEN=%s\n", token)
	cmd.Println()
	cmd.Println(st.Muted.Render("Keep it secret. A token captured for one operation only carries that operation's scopes."))
}

// reportNewRefreshToken prints capture instructions when the provider issued
// a refresh token other than the configured one.
func reportNewRefreshToken(cmd *cobra.Command, configured string, tokens *domain.TokenSet) {
	if tokens == nil || tokens.RefreshToken == "" || tokens.RefreshToken == configured {
		return
	}
	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Success.Render("A new refresh token was issued."))
	printRefreshToken(cmd, st, tokens.RefreshToken)
}
