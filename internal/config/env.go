package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// Optional settings.  A value that is missing or does not parse yields
// the default; required settings go through must and mustInt instead.

func envStr(k, d string) string { return orDefault(os.Getenv(k), d) }

func envBool(k string, d bool) bool { return parseBool(os.Getenv(k), d) }

func envInt(k string, d int) int { return parseInt(os.Getenv(k), d) }

func envDur(k string, d time.Duration) time.Duration { return parseDur(os.Getenv(k), d) }

func orDefault(v, d string) string {
    if v == "" {
        return d
    }
    return v
}

func parseBool(v string, d bool) bool {
    switch strings.ToLower(strings.TrimSpace(v)) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return d
}

func parseInt(v string, d int) int {
    n, err := strconv.Atoi(strings.TrimSpace(v))
    if err != nil {
        return d
    }
    return n
}

func parseDur(v string, d time.Duration) time.Duration {
    dur, err := time.ParseDuration(strings.TrimSpace(v))
    if err != nil {
        return d
    }
    return dur
}

// upperSet splits a comma separated list into a set of upper-cased,
// trimmed, non-empty items.
func upperSet(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
            m[p] = true
        }
    }
    return m
}
