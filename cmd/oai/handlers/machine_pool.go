package handlers

import (
	"context"
	"fmt"

	"github.com/openshift-ai/oai-manager/internal/addon"
)

// AddMachinePool handles "machinepool add".
func AddMachinePool(ctx context.Context, clusterName, configPath, ocmPath string) error {
	ocmCfg, err := loadOCMConfig(ocmPath)
	if err != nil {
		return err
	}
	log := newLogger(ocmCfg.LogLevel)

	cfg, err := loadPoolConfigOrDefault(configPath)
	if err != nil {
		return err
	}

	client, err := connect(ctx, ocmCfg, log)
	if err != nil {
		return err
	}

	mgr := addon.NewManager(client, nil, loadTimeouts(), log)
	status, err := mgr.AddMachinePool(ctx, clusterName, cfg)
	if err != nil {
		return err
	}

	log.Info().
		Str("pool", status.ID).
		Str("instanceType", status.InstanceType).
		Int("replicas", status.Replicas).
		Msg("machine pool ready")
	return nil
}

// ListMachinePools handles "machinepool list".
func ListMachinePools(ctx context.Context, clusterName, ocmPath string) error {
	ocmCfg, err := loadOCMConfig(ocmPath)
	if err != nil {
		return err
	}
	log := newLogger(ocmCfg.LogLevel)

	client, err := connect(ctx, ocmCfg, log)
	if err != nil {
		return err
	}

	mgr := addon.NewManager(client, nil, loadTimeouts(), log)
	pools, err := mgr.ListMachinePools(ctx, clusterName)
	if err != nil {
		return err
	}

	if len(pools) == 0 {
		fmt.Println("No machine pools")
		return nil
	}
	fmt.Printf("%-20s %-15s %-9s %s\n", "ID", "INSTANCE TYPE", "REPLICAS", "STATE")
	for _, p := range pools {
		fmt.Printf("%-20s %-15s %-9d %s\n", p.ID, p.InstanceType, p.Replicas, p.State)
	}
	return nil
}
