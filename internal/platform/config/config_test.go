package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ROLLBACK_TIMEOUT", "")
	t.Setenv("STATION_TIMEZONE", "Asia/Jakarta")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.RollbackTimeout)
	assert.Equal(t, "Asia/Jakarta", cfg.StationTimezone.String())
	assert.NotEmpty(t, cfg.Accounts.Cash)
	assert.NotEmpty(t, cfg.Accounts.SalesClearing)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ROLLBACK_TIMEOUT", "45s")
	t.Setenv("ROLLBACK_MATCH_WINDOW", "not-a-duration")
	t.Setenv("STATION_TIMEZONE", "Nowhere/Invalid")
	t.Setenv("ACCOUNT_CASH", "1999")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.RollbackTimeout)
	assert.Equal(t, 5*time.Minute, cfg.MatchWindow)
	assert.Equal(t, time.UTC, cfg.StationTimezone)
	assert.Equal(t, "1999", cfg.Accounts.Cash)
}
