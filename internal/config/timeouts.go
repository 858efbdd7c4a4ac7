package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the poll interval, per-operation wait budgets and the
// transport retry bounds. All values can be customized via environment
// variables.
type Timeouts struct {
	PollInterval      time.Duration // Interval between status fetches
	ClusterReady      time.Duration // Budget for cluster creation waits
	ClusterDelete     time.Duration // Budget for cluster deletion waits
	AddonReady        time.Duration // Budget for add-on install/uninstall waits
	MachinePoolReady  time.Duration // Budget for machine pool waits
	RetryMaxAttempts  int           // Transport retries per status fetch
	RetryInitialDelay time.Duration // Initial delay between transport retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// Unset or invalid variables fall back to the defaults.
//
// Environment variables:
//   - OCM_POLL_INTERVAL (default: 15s)
//   - OCM_TIMEOUT_CLUSTER_READY (default: 60m)
//   - OCM_TIMEOUT_CLUSTER_DELETE (default: 90m)
//   - OCM_TIMEOUT_ADDON_READY (default: 45m)
//   - OCM_TIMEOUT_MACHINE_POOL (default: 30m)
//   - OCM_RETRY_MAX_ATTEMPTS (default: 5)
//   - OCM_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:      parseDuration("OCM_POLL_INTERVAL", 15*time.Second),
		ClusterReady:      parseDuration("OCM_TIMEOUT_CLUSTER_READY", 60*time.Minute),
		ClusterDelete:     parseDuration("OCM_TIMEOUT_CLUSTER_DELETE", 90*time.Minute),
		AddonReady:        parseDuration("OCM_TIMEOUT_ADDON_READY", 45*time.Minute),
		MachinePoolReady:  parseDuration("OCM_TIMEOUT_MACHINE_POOL", 30*time.Minute),
		RetryMaxAttempts:  parseInt("OCM_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("OCM_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
