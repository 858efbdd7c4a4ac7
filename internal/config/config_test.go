package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOCMConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := &OCMConfig{Token: "offline-token"}
	cfg.ApplyDefaults()

	assert.Equal(t, PlatformStage, cfg.Platform)
	assert.Equal(t, "https://api.stage.openshift.com", cfg.APIURL())
	assert.Equal(t,
		"https://sso.redhat.com/auth/realms/redhat-external/protocol/openid-connect/token",
		cfg.AuthTokenURL())
	require.NoError(t, cfg.Validate())
}

func TestOCMConfig_Overrides(t *testing.T) {
	t.Parallel()

	cfg := &OCMConfig{
		Token:    "offline-token",
		Platform: PlatformProd,
		URL:      "http://127.0.0.1:8080",
		TokenURL: "http://127.0.0.1:8080/token",
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.APIURL())
	assert.Equal(t, "http://127.0.0.1:8080/token", cfg.AuthTokenURL())
}

func TestOCMConfig_InvalidPlatform(t *testing.T) {
	t.Parallel()

	cfg := &OCMConfig{Token: "offline-token", Platform: "qa"}
	require.Error(t, cfg.Validate())
}

func TestLoadTimeouts_Defaults(t *testing.T) {
	timeouts := LoadTimeouts()

	assert.Equal(t, 15*time.Second, timeouts.PollInterval)
	assert.Equal(t, 60*time.Minute, timeouts.ClusterReady)
	assert.Equal(t, 90*time.Minute, timeouts.ClusterDelete)
	assert.Equal(t, 45*time.Minute, timeouts.AddonReady)
	assert.Equal(t, 30*time.Minute, timeouts.MachinePoolReady)
	assert.Equal(t, 5, timeouts.RetryMaxAttempts)
	assert.Equal(t, time.Second, timeouts.RetryInitialDelay)
}

func TestLoadTimeouts_FromEnvironment(t *testing.T) {
	t.Setenv("OCM_POLL_INTERVAL", "5s")
	t.Setenv("OCM_TIMEOUT_CLUSTER_READY", "2h")
	t.Setenv("OCM_RETRY_MAX_ATTEMPTS", "10")

	timeouts := LoadTimeouts()
	assert.Equal(t, 5*time.Second, timeouts.PollInterval)
	assert.Equal(t, 2*time.Hour, timeouts.ClusterReady)
	assert.Equal(t, 10, timeouts.RetryMaxAttempts)
}

func TestLoadTimeouts_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("OCM_POLL_INTERVAL", "soon")
	t.Setenv("OCM_RETRY_MAX_ATTEMPTS", "many")

	timeouts := LoadTimeouts()
	assert.Equal(t, 15*time.Second, timeouts.PollInterval)
	assert.Equal(t, 5, timeouts.RetryMaxAttempts)
}
