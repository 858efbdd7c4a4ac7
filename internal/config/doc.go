// Package config defines the desired-state records the orchestrators
// consume: cluster, add-on and machine-pool specs plus the connection
// settings for the cluster-management service.
//
// Records are plain immutable values loaded from YAML or JSON files. Each
// carries an explicit Validate method producing field-level errors,
// independent of any serialization format. Timeout and poll-interval
// defaults are overridable through OCM_* environment variables.
package config
