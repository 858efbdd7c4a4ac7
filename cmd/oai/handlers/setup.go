package handlers

import (
	"context"
	"fmt"

	"github.com/openshift-ai/oai-manager/internal/addon"
	"github.com/openshift-ai/oai-manager/internal/cluster"
	"github.com/openshift-ai/oai-manager/internal/util/async"
)

// SetupOptions carries the flags of the setup command.
type SetupOptions struct {
	ClusterConfigPath string
	RHODSConfigPath   string
	PoolConfigPath    string
	OCMConfigPath     string
	SkipGPU           bool
}

// Setup handles the setup command: cluster, data-science platform, then GPU
// add-on and GPU machine pool. The last two are independent of each other
// and run concurrently, each with its own poll loop.
func Setup(ctx context.Context, opts SetupOptions) error {
	ocmCfg, err := loadOCMConfig(opts.OCMConfigPath)
	if err != nil {
		return err
	}
	log := newLogger(ocmCfg.LogLevel)

	clusterSpec, err := loadClusterConfig(opts.ClusterConfigPath)
	if err != nil {
		return err
	}
	rhodsCfg, err := loadRHODSConfig(opts.RHODSConfigPath)
	if err != nil {
		return err
	}
	poolCfg, err := loadPoolConfigOrDefault(opts.PoolConfigPath)
	if err != nil {
		return err
	}
	gpuCfg, err := loadGPUConfigOrDefault("")
	if err != nil {
		return err
	}

	client, err := connect(ctx, ocmCfg, log)
	if err != nil {
		return err
	}

	timeouts := loadTimeouts()
	clusters := cluster.NewManager(client, timeouts, log)
	addons := addon.NewManager(client, newOperatorInstaller(log), timeouts, log)

	handle, err := clusters.Create(ctx, clusterSpec)
	if err != nil {
		return err
	}
	if _, err := clusters.WaitReady(ctx, handle, 0); err != nil {
		return fmt.Errorf("cluster %s: %w", clusterSpec.Name, err)
	}

	if _, err := addons.InstallRHODS(ctx, clusterSpec.Name, rhodsCfg); err != nil {
		return err
	}

	if opts.SkipGPU {
		log.Info().Msg("environment ready (GPU layer skipped)")
		return nil
	}

	// The machine pool does not depend on the GPU add-on or vice versa;
	// only workload scheduling needs both. Wait on them concurrently.
	err = async.RunParallel(ctx, []async.Task{
		{Name: "gpu-addon", Func: func(ctx context.Context) error {
			_, err := addons.InstallGPUAddon(ctx, clusterSpec.Name, gpuCfg)
			return err
		}},
		{Name: "gpu-machine-pool", Func: func(ctx context.Context) error {
			_, err := addons.AddMachinePool(ctx, clusterSpec.Name, poolCfg)
			return err
		}},
	})
	if err != nil {
		return err
	}

	log.Info().Str("cluster", clusterSpec.Name).Msg("data-science environment ready")
	return nil
}
