package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// loadFile reads path and unmarshals it into a fresh T, then applies
// defaults and validates. YAML and JSON files are both accepted; keys bind
// through the json tags, matching the camelCase key names of the original
// config format.
func loadFile[T interface {
	ApplyDefaults()
	Validate() error
}](path string, out T) (T, error) {
	var zero T

	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return zero, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, out); err != nil {
		return zero, fmt.Errorf("parse %s: %w", path, err)
	}

	out.ApplyDefaults()
	if err := out.Validate(); err != nil {
		return zero, err
	}
	return out, nil
}

// LoadClusterConfig loads and validates a cluster spec file.
func LoadClusterConfig(path string) (*ClusterConfig, error) {
	return loadFile(path, &ClusterConfig{})
}

// LoadOCMConfig loads and validates a connection config file.
func LoadOCMConfig(path string) (*OCMConfig, error) {
	return loadFile(path, &OCMConfig{})
}

// LoadRHODSConfig loads and validates a RHODS add-on spec file.
func LoadRHODSConfig(path string) (*RHODSConfig, error) {
	return loadFile(path, &RHODSConfig{})
}

// LoadGPUAddonConfig loads and validates a GPU add-on spec file.
func LoadGPUAddonConfig(path string) (*GPUAddonConfig, error) {
	return loadFile(path, &GPUAddonConfig{})
}

// LoadMachinePoolConfig loads and validates a machine pool spec file.
func LoadMachinePoolConfig(path string) (*MachinePoolConfig, error) {
	return loadFile(path, &MachinePoolConfig{})
}
