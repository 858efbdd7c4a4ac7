// Package handlers implements the command logic behind the CLI surface.
package handlers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/openshift-ai/oai-manager/internal/addon"
	"github.com/openshift-ai/oai-manager/internal/config"
	"github.com/openshift-ai/oai-manager/internal/logging"
	"github.com/openshift-ai/oai-manager/internal/ocm"
	"github.com/openshift-ai/oai-manager/internal/operators"
	"github.com/openshift-ai/oai-manager/internal/session"
)

// Factory function variables - can be replaced in tests.
var (
	loadOCMConfig     = config.LoadOCMConfig
	loadClusterConfig = config.LoadClusterConfig
	loadRHODSConfig   = config.LoadRHODSConfig
	loadGPUConfig     = config.LoadGPUAddonConfig
	loadPoolConfig    = config.LoadMachinePoolConfig
	loadTimeouts      = config.LoadTimeouts

	newLogger = func(level string) zerolog.Logger {
		return logging.New(nil, level)
	}

	// connect builds an authenticated client: a real transport wired to a
	// session manager, with an explicit up-front login so credential
	// problems fail fast.
	connect = func(ctx context.Context, cfg *config.OCMConfig, log zerolog.Logger) (ocm.Client, error) {
		client := ocm.NewRealClient(cfg.APIURL(), cfg.AuthTokenURL())
		sessions := session.NewManager(client, cfg.Token, log)
		if _, err := sessions.Login(ctx); err != nil {
			return nil, err
		}
		return client, nil
	}

	newOperatorInstaller = func(log zerolog.Logger) addon.OperatorInstaller {
		return operators.NewInstaller(log)
	}
)

// loadGPUConfigOrDefault loads the GPU spec file, or returns the stock
// defaults when no file was given.
func loadGPUConfigOrDefault(path string) (*config.GPUAddonConfig, error) {
	if path == "" {
		cfg := &config.GPUAddonConfig{}
		cfg.ApplyDefaults()
		return cfg, cfg.Validate()
	}
	return loadGPUConfig(path)
}

// loadPoolConfigOrDefault loads the pool spec file, or returns the stock
// GPU pool defaults when no file was given.
func loadPoolConfigOrDefault(path string) (*config.MachinePoolConfig, error) {
	if path == "" {
		cfg := &config.MachinePoolConfig{}
		cfg.ApplyDefaults()
		return cfg, cfg.Validate()
	}
	return loadPoolConfig(path)
}
