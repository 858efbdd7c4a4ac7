package handlers

import (
	"context"
	"fmt"

	"github.com/openshift-ai/oai-manager/internal/cluster"
	"github.com/openshift-ai/oai-manager/internal/ocm"
)

// CreateCluster handles "cluster create". It submits creation and, with
// wait, blocks until the cluster reports ready.
func CreateCluster(ctx context.Context, configPath, ocmPath string, wait bool) error {
	ocmCfg, err := loadOCMConfig(ocmPath)
	if err != nil {
		return err
	}
	log := newLogger(ocmCfg.LogLevel)

	spec, err := loadClusterConfig(configPath)
	if err != nil {
		return err
	}

	client, err := connect(ctx, ocmCfg, log)
	if err != nil {
		return err
	}

	mgr := cluster.NewManager(client, loadTimeouts(), log)
	handle, err := mgr.Create(ctx, spec)
	if err != nil {
		return err
	}

	if !wait {
		log.Info().Str("cluster", handle.Name).Str("id", handle.ID).
			Msg("creation submitted, not waiting (check progress with 'oai cluster info')")
		return nil
	}

	status, err := mgr.WaitReady(ctx, handle, 0)
	if err != nil {
		return err
	}

	printClusterStatus(status)
	return nil
}

// DeleteCluster handles "cluster delete".
func DeleteCluster(ctx context.Context, name, ocmPath string, force, wait bool) error {
	ocmCfg, err := loadOCMConfig(ocmPath)
	if err != nil {
		return err
	}
	log := newLogger(ocmCfg.LogLevel)

	client, err := connect(ctx, ocmCfg, log)
	if err != nil {
		return err
	}

	mgr := cluster.NewManager(client, loadTimeouts(), log)
	if err := mgr.Delete(ctx, name, force); err != nil {
		return err
	}

	if !wait {
		return nil
	}
	return mgr.WaitDeleted(ctx, name, 0)
}

// ClusterInfo handles "cluster info". Read-only.
func ClusterInfo(ctx context.Context, name, ocmPath string) error {
	ocmCfg, err := loadOCMConfig(ocmPath)
	if err != nil {
		return err
	}
	log := newLogger(ocmCfg.LogLevel)

	client, err := connect(ctx, ocmCfg, log)
	if err != nil {
		return err
	}

	mgr := cluster.NewManager(client, loadTimeouts(), log)
	status, err := mgr.Info(ctx, name)
	if err != nil {
		return err
	}

	printClusterStatus(status)
	return nil
}

func printClusterStatus(s *ocm.ClusterStatus) {
	fmt.Printf("Name:     %s\n", s.Name)
	fmt.Printf("ID:       %s\n", s.ID)
	fmt.Printf("State:    %s\n", s.State)
	if s.Version != "" {
		fmt.Printf("Version:  %s\n", s.Version)
	}
	if s.ConsoleURL != "" {
		fmt.Printf("Console:  %s\n", s.ConsoleURL)
	}
	if s.APIURL != "" {
		fmt.Printf("API:      %s\n", s.APIURL)
	}
}
