package utils

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestParseTTL(t *testing.T) {
    def := 45 * time.Minute

    tests := []struct {
        raw  string
        want time.Duration
    }{
        {"30s", 30 * time.Second},
        {"15m", 15 * time.Minute},
        {"2h", 2 * time.Hour},
        {"7d", 7 * 24 * time.Hour},
        {"1h", time.Hour},
        // malformed inputs fall back to the default
        {"", def},
        {"1w", def},
        {"h1", def},
        {"-5m", def},
        {"10", def},
        {"1.5h", def},
    }
    for _, tc := range tests {
        assert.Equal(t, tc.want, ParseTTL("TEST_TTL", tc.raw, def), "raw=%q", tc.raw)
    }
}
