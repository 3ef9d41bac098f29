package csv

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// SanitizeFilename turns a playlist name into a file stem: letters and
// digits are kept, spaces become underscores, everything else is dropped.
// A name with nothing left gets a random playlist_<hex> stem.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return randomName()
	}
	return b.String()
}

func randomName() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "playlist_" + id[:8]
}
