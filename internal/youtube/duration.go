package youtube

import (
	"regexp"
	"strconv"
)

var isoDurationRe = regexp.MustCompile(`(?i)P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?`)

// ParseISODuration converts an ISO-8601 duration such as "PT1H2M3S" into
// whole seconds. Every component is optional. Input that does not parse
// yields 0 rather than an error; fractional seconds are truncated.
func ParseISODuration(s string) int {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	seconds := 0.0
	if m[4] != "" {
		seconds, _ = strconv.ParseFloat(m[4], 64)
	}
	return atoi(m[1])*86400 + atoi(m[2])*3600 + atoi(m[3])*60 + int(seconds)
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
