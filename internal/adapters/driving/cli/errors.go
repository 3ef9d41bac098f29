package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/spotidump/internal/core/domain"
)

// hint returns operator advice for err, or "" when there is none.
func hint(err error) string {
	var apiErr *domain.APIError
	switch {
	case domain.IsUnauthorized(err):
		return "The access token was rejected. Run the command again to get a fresh one. " +
			"If SPOTIFY_REFRESH_TOKEN is set it may have been revoked; unset it to authorize in the browser."
	case domain.IsRateLimited(err) && errors.As(err, &apiErr) && apiErr.RetryAfter > 0:
		return "Spotify is rate limiting requests. Wait " + apiErr.RetryAfter.String() +
			", then rerun with --force --resume, or lower requests_per_second."
	case domain.IsRateLimited(err):
		return "Spotify is rate limiting requests. Wait a moment, then rerun with --force --resume."
	case errors.Is(err, domain.ErrConfiguration):
		return "Check the environment, .env and spotidump.toml for the setting named above."
	case errors.Is(err, domain.ErrAuthorizationTimeout):
		return "No browser callback arrived. Raise SPOTIDUMP_AUTH_TIMEOUT or open the printed URL manually."
	case errors.Is(err, domain.ErrListenerBind):
		return "The callback port is busy. Free it or point SPOTIDUMP_REDIRECT_URI at another registered port."
	}
	return ""
}

func printHint(cmd *cobra.Command, err error) {
	if h := hint(err); h != "" {
		cmd.PrintErrln(newStyles(cmd.ErrOrStderr()).Warning.Render("hint: " + h))
	}
}
