package handlers

import (
	"context"
	"fmt"

	"github.com/openshift-ai/oai-manager/internal/addon"
)

// InstallRHODS handles "addon install-rhods".
func InstallRHODS(ctx context.Context, clusterName, configPath, ocmPath string) error {
	ocmCfg, err := loadOCMConfig(ocmPath)
	if err != nil {
		return err
	}
	log := newLogger(ocmCfg.LogLevel)

	cfg, err := loadRHODSConfig(configPath)
	if err != nil {
		return err
	}

	client, err := connect(ctx, ocmCfg, log)
	if err != nil {
		return err
	}

	mgr := addon.NewManager(client, newOperatorInstaller(log), loadTimeouts(), log)
	status, err := mgr.InstallRHODS(ctx, clusterName, cfg)
	if err != nil {
		return err
	}

	log.Info().Str("addon", status.ID).Str("state", string(status.State)).Msg("RHODS installation complete")
	return nil
}

// InstallGPU handles "addon install-gpu".
func InstallGPU(ctx context.Context, clusterName, configPath, ocmPath string) error {
	ocmCfg, err := loadOCMConfig(ocmPath)
	if err != nil {
		return err
	}
	log := newLogger(ocmCfg.LogLevel)

	cfg, err := loadGPUConfigOrDefault(configPath)
	if err != nil {
		return err
	}

	client, err := connect(ctx, ocmCfg, log)
	if err != nil {
		return err
	}

	mgr := addon.NewManager(client, newOperatorInstaller(log), loadTimeouts(), log)
	status, err := mgr.InstallGPUAddon(ctx, clusterName, cfg)
	if err != nil {
		return err
	}

	log.Info().Str("addon", status.ID).Str("state", string(status.State)).Msg("GPU add-on installation complete")
	return nil
}

// UninstallAddon handles "addon uninstall".
func UninstallAddon(ctx context.Context, clusterName, addonID, ocmPath string, cascade bool) error {
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
	if err := mgr.Uninstall(ctx, clusterName, addonID, cascade); err != nil {
		return err
	}

	log.Info().Str("addon", addonID).Msg("addon uninstalled")
	return nil
}

// ListAddons handles "addon list". Read-only.
func ListAddons(ctx context.Context, clusterName, ocmPath string) error {
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
	addons, err := mgr.ListAddons(ctx, clusterName)
	if err != nil {
		return err
	}

	if len(addons) == 0 {
		fmt.Println("No add-ons installed")
		return nil
	}
	fmt.Printf("%-30s %s\n", "ID", "STATE")
	for _, a := range addons {
		fmt.Printf("%-30s %s\n", a.ID, a.State)
	}
	return nil
}
