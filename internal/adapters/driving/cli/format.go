package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pluralf formats a message with one %d and one %s, filling the %s with "s"
// unless n is 1.
func pluralf(format string, n int) string {
	suffix := "s"
	if n == 1 {
		suffix = ""
	}
	return fmt.Sprintf(format, n, suffix)
}

func printDryRunBanner(cmd *cobra.Command, participle, verb string) {
	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("This is a dry run. No tracks will be " + participle + "."))
	cmd.Println(st.Muted.Render("Use the --force flag to " + verb + " tracks."))
}
