package utils

import (
    "log"
    "regexp"
    "strconv"
    "time"
)

// ttlPattern matches TTL strings of the form "<integer><unit>" with
// unit one of s, m, h, d (e.g. "1h", "7d", "30m").
var ttlPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseTTL converts a TTL string into a duration.  A value that does
// not match the expected pattern falls back to def instead of
// erroring; the fallback is logged so a misconfigured environment is
// visible in the startup output.
func ParseTTL(name, raw string, def time.Duration) time.Duration {
    m := ttlPattern.FindStringSubmatch(raw)
    if m == nil {
        log.Printf("config: %s=%q does not match <integer><s|m|h|d>, using default %s", name, raw, def)
        return def
    }
    n, err := strconv.Atoi(m[1])
    if err != nil || n <= 0 {
        log.Printf("config: %s=%q has an invalid count, using default %s", name, raw, def)
        return def
    }
    switch m[2] {
    case "s":
        return time.Duration(n) * time.Second
    case "m":
        return time.Duration(n) * time.Minute
    case "h":
        return time.Duration(n) * time.Hour
    default: // "d"
        return time.Duration(n) * 24 * time.Hour
    }
}
