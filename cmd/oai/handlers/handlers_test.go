package handlers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift-ai/oai-manager/internal/addon"
	"github.com/openshift-ai/oai-manager/internal/config"
	"github.com/openshift-ai/oai-manager/internal/ocm"
)

// fakeRemote simulates the remote service's state machines: entities move
// one step towards ready on each status fetch.
type fakeRemote struct {
	mu      sync.Mutex
	cluster *ocm.ClusterStatus
	addons  map[string]*ocm.AddonStatus
	pools   map[string]*ocm.MachinePoolStatus
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		addons: map[string]*ocm.AddonStatus{},
		pools:  map[string]*ocm.MachinePoolStatus{},
	}
}

func (f *fakeRemote) client() *ocm.MockClient {
	return &ocm.MockClient{
		CreateClusterFunc: func(_ context.Context, body *ocm.ClusterCreate) (*ocm.ClusterStatus, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.cluster = &ocm.ClusterStatus{
				ID:                 "cl-1",
				Name:               body.Name,
				State:              ocm.ClusterStateInstalling,
				CloudProvider:      body.CloudProvider.ID,
				Region:             body.Region.ID,
				ComputeNodes:       body.Nodes.Compute,
				ComputeMachineType: body.Nodes.ComputeMachineType.ID,
				CreatedAt:          time.Now().UTC(),
			}
			snapshot := *f.cluster
			return &snapshot, nil
		},
		FindClusterFunc: func(context.Context, string) (*ocm.ClusterStatus, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.cluster == nil {
				return nil, nil
			}
			snapshot := *f.cluster
			return &snapshot, nil
		},
		GetClusterFunc: func(context.Context, string) (*ocm.ClusterStatus, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			snapshot := *f.cluster
			if f.cluster.State == ocm.ClusterStateInstalling {
				f.cluster.State = ocm.ClusterStateReady
			}
			return &snapshot, nil
		},
		DeleteClusterFunc: func(context.Context, string) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.cluster = nil
			return nil
		},
		InstallAddonFunc: func(_ context.Context, _ string, install *ocm.AddonInstall) (*ocm.AddonStatus, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.addons[install.AddonID] = &ocm.AddonStatus{
				ID:         install.AddonID,
				State:      ocm.AddonStateInstalling,
				Parameters: install.Parameters,
			}
			return f.addons[install.AddonID], nil
		},
		GetAddonFunc: func(_ context.Context, _ string, addonID string) (*ocm.AddonStatus, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			a, ok := f.addons[addonID]
			if !ok {
				return nil, nil
			}
			snapshot := *a
			if a.State == ocm.AddonStateInstalling {
				a.State = ocm.AddonStateReady
			}
			return &snapshot, nil
		},
		ListAddonsFunc: func(context.Context, string) ([]ocm.AddonStatus, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			var out []ocm.AddonStatus
			for _, a := range f.addons {
				out = append(out, *a)
			}
			return out, nil
		},
		UninstallAddonFunc: func(_ context.Context, _ string, addonID string) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.addons, addonID)
			return nil
		},
		CreateMachinePoolFunc: func(_ context.Context, _ string, pool *ocm.MachinePoolRequest) (*ocm.MachinePoolStatus, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.pools[pool.ID] = &ocm.MachinePoolStatus{
				ID:           pool.ID,
				InstanceType: pool.InstanceType,
				Replicas:     pool.Replicas,
				State:        ocm.MachinePoolStateProvisioning,
			}
			return f.pools[pool.ID], nil
		},
		GetMachinePoolFunc: func(_ context.Context, _ string, name string) (*ocm.MachinePoolStatus, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			p, ok := f.pools[name]
			if !ok {
				return nil, nil
			}
			snapshot := *p
			if p.State == ocm.MachinePoolStateProvisioning {
				p.State = ocm.MachinePoolStateReady
			}
			return &snapshot, nil
		},
		ListMachinePoolsFunc: func(context.Context, string) ([]ocm.MachinePoolStatus, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			var out []ocm.MachinePoolStatus
			for _, p := range f.pools {
				out = append(out, *p)
			}
			return out, nil
		},
	}
}

// stubEnv replaces the factory variables for one test. Tests using it share
// package state and must not run in parallel.
func stubEnv(t *testing.T, mock *ocm.MockClient) {
	t.Helper()

	origOCM := loadOCMConfig
	origCluster := loadClusterConfig
	origRHODS := loadRHODSConfig
	origTimeouts := loadTimeouts
	origConnect := connect
	origOps := newOperatorInstaller
	t.Cleanup(func() {
		loadOCMConfig = origOCM
		loadClusterConfig = origCluster
		loadRHODSConfig = origRHODS
		loadTimeouts = origTimeouts
		connect = origConnect
		newOperatorInstaller = origOps
	})

	loadOCMConfig = func(string) (*config.OCMConfig, error) {
		cfg := &config.OCMConfig{Token: "offline-token", LogLevel: "disabled"}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	loadClusterConfig = func(string) (*config.ClusterConfig, error) {
		cfg := &config.ClusterConfig{
			Name: "demo-1",
			AWSCredentials: &config.AWSCredentials{
				AccessKeyID:     "AKIA123",
				SecretAccessKey: "secret",
				AccountID:       "123456789012",
			},
		}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	loadRHODSConfig = func(string) (*config.RHODSConfig, error) {
		off := false
		cfg := &config.RHODSConfig{
			NotificationEmail:   "team@example.com",
			InstallDependencies: &off,
		}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	loadTimeouts = func() *config.Timeouts {
		return &config.Timeouts{
			PollInterval:      time.Millisecond,
			ClusterReady:      time.Second,
			ClusterDelete:     time.Second,
			AddonReady:        time.Second,
			MachinePoolReady:  time.Second,
			RetryMaxAttempts:  1,
			RetryInitialDelay: time.Millisecond,
		}
	}
	connect = func(context.Context, *config.OCMConfig, zerolog.Logger) (ocm.Client, error) {
		return mock, nil
	}
	newOperatorInstaller = func(zerolog.Logger) addon.OperatorInstaller { return nil }
}

func TestCreateClusterHandler_NoWait(t *testing.T) {
	remote := newFakeRemote()
	mock := remote.client()
	stubEnv(t, mock)

	require.NoError(t, CreateCluster(context.Background(), "cluster.yaml", "ocm.yaml", false))
	assert.Equal(t, 1, mock.Calls("CreateCluster"))
	assert.Zero(t, mock.Calls("GetCluster"), "without wait there must be no polling")
}

func TestCreateClusterHandler_Wait(t *testing.T) {
	remote := newFakeRemote()
	mock := remote.client()
	stubEnv(t, mock)

	require.NoError(t, CreateCluster(context.Background(), "cluster.yaml", "ocm.yaml", true))
	assert.Equal(t, ocm.ClusterStateReady, remote.cluster.State)
}

func TestDeleteClusterHandler(t *testing.T) {
	remote := newFakeRemote()
	remote.cluster = &ocm.ClusterStatus{ID: "cl-1", Name: "demo-1", State: ocm.ClusterStateReady}
	mock := remote.client()
	stubEnv(t, mock)

	require.NoError(t, DeleteCluster(context.Background(), "demo-1", "ocm.yaml", false, true))
	assert.Nil(t, remote.cluster)
}

func TestListMachinePoolsHandler(t *testing.T) {
	remote := newFakeRemote()
	remote.cluster = &ocm.ClusterStatus{ID: "cl-1", Name: "demo-1", State: ocm.ClusterStateReady}
	remote.pools["gpunode"] = &ocm.MachinePoolStatus{
		ID:           "gpunode",
		InstanceType: "g4dn.xlarge",
		Replicas:     1,
		State:        ocm.MachinePoolStateReady,
	}
	mock := remote.client()
	stubEnv(t, mock)

	require.NoError(t, ListMachinePools(context.Background(), "demo-1", "ocm.yaml"))
	assert.Equal(t, 1, mock.Calls("ListMachinePools"))
}

func TestSetupHandler(t *testing.T) {
	remote := newFakeRemote()
	mock := remote.client()
	stubEnv(t, mock)

	err := Setup(context.Background(), SetupOptions{
		ClusterConfigPath: "cluster.yaml",
		RHODSConfigPath:   "rhods.yaml",
		OCMConfigPath:     "ocm.yaml",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, mock.Calls("CreateCluster"))
	assert.Equal(t, ocm.ClusterStateReady, remote.cluster.State)

	require.Contains(t, remote.addons, config.RHODSAddonID)
	assert.Equal(t, ocm.AddonStateReady, remote.addons[config.RHODSAddonID].State)
	assert.Equal(t, "team@example.com",
		remote.addons[config.RHODSAddonID].Parameters[config.NotificationEmailParam])

	require.Contains(t, remote.addons, config.GPUAddonID)
	assert.Equal(t, ocm.AddonStateReady, remote.addons[config.GPUAddonID].State)

	require.Contains(t, remote.pools, "gpunode")
	assert.Equal(t, "g4dn.xlarge", remote.pools["gpunode"].InstanceType)
	assert.Equal(t, ocm.MachinePoolStateReady, remote.pools["gpunode"].State)
}

func TestSetupHandler_SkipGPU(t *testing.T) {
	remote := newFakeRemote()
	mock := remote.client()
	stubEnv(t, mock)

	err := Setup(context.Background(), SetupOptions{
		ClusterConfigPath: "cluster.yaml",
		RHODSConfigPath:   "rhods.yaml",
		OCMConfigPath:     "ocm.yaml",
		SkipGPU:           true,
	})
	require.NoError(t, err)

	assert.Contains(t, remote.addons, config.RHODSAddonID)
	assert.NotContains(t, remote.addons, config.GPUAddonID)
	assert.Empty(t, remote.pools)
	assert.Zero(t, mock.Calls("CreateMachinePool"))
}

func TestSetupHandler_RepeatedRunIsIdempotent(t *testing.T) {
	remote := newFakeRemote()
	mock := remote.client()
	stubEnv(t, mock)

	opts := SetupOptions{
		ClusterConfigPath: "cluster.yaml",
		RHODSConfigPath:   "rhods.yaml",
		OCMConfigPath:     "ocm.yaml",
	}
	require.NoError(t, Setup(context.Background(), opts))
	require.NoError(t, Setup(context.Background(), opts))

	assert.Equal(t, 1, mock.Calls("CreateCluster"), "the second run must reuse the cluster")
	assert.Equal(t, 2, mock.Calls("InstallAddon"), "the second run must not reinstall add-ons")
	assert.Equal(t, 1, mock.Calls("CreateMachinePool"), "the second run must reuse the pool")
}
