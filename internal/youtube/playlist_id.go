package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var playlistIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ExtractPlaylistID accepts a bare playlist id or any URL carrying a
// "list" query parameter.
func ExtractPlaylistID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if !strings.Contains(input, "://") && playlistIDRe.MatchString(input) {
		return input, nil
	}

	if u, err := url.Parse(input); err == nil {
		if list := u.Query().Get("list"); playlistIDRe.MatchString(list) {
			return list, nil
		}
	}

	return "", fmt.Errorf("%w: no 'list' param found in %q", ErrInvalidInput, input)
}
