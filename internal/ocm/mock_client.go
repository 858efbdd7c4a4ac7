package ocm

import (
	"context"
	"sync"
	"time"
)

// MockClient is a scriptable implementation of Client for tests. Each method
// delegates to its corresponding Func field when set and falls back to a
// benign default otherwise. Call counts are tracked so tests can assert how
// many remote calls an orchestrator actually issued.
type MockClient struct {
	mu    sync.Mutex
	calls map[string]int

	CreateClusterFunc func(ctx context.Context, body *ClusterCreate) (*ClusterStatus, error)
	GetClusterFunc    func(ctx context.Context, id string) (*ClusterStatus, error)
	FindClusterFunc   func(ctx context.Context, name string) (*ClusterStatus, error)
	DeleteClusterFunc func(ctx context.Context, id string) error

	InstallAddonFunc   func(ctx context.Context, clusterID string, install *AddonInstall) (*AddonStatus, error)
	GetAddonFunc       func(ctx context.Context, clusterID, addonID string) (*AddonStatus, error)
	ListAddonsFunc     func(ctx context.Context, clusterID string) ([]AddonStatus, error)
	UninstallAddonFunc func(ctx context.Context, clusterID, addonID string) error

	CreateMachinePoolFunc func(ctx context.Context, clusterID string, pool *MachinePoolRequest) (*MachinePoolStatus, error)
	GetMachinePoolFunc    func(ctx context.Context, clusterID, name string) (*MachinePoolStatus, error)
	ListMachinePoolsFunc  func(ctx context.Context, clusterID string) ([]MachinePoolStatus, error)

	LoginFunc func(ctx context.Context, token string) (*Session, error)
}

// Ensure interface compliance.
var _ Client = (*MockClient)(nil)

// Calls returns how many times the named method was invoked.
func (m *MockClient) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockClient) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// CreateCluster mocks cluster creation.
func (m *MockClient) CreateCluster(ctx context.Context, body *ClusterCreate) (*ClusterStatus, error) {
	m.record("CreateCluster")
	if m.CreateClusterFunc != nil {
		return m.CreateClusterFunc(ctx, body)
	}
	return &ClusterStatus{
		ID:        "mock-cluster-id",
		Name:      body.Name,
		State:     ClusterStateInstalling,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// GetCluster mocks a cluster status fetch.
func (m *MockClient) GetCluster(ctx context.Context, id string) (*ClusterStatus, error) {
	m.record("GetCluster")
	if m.GetClusterFunc != nil {
		return m.GetClusterFunc(ctx, id)
	}
	return &ClusterStatus{ID: id, State: ClusterStateReady}, nil
}

// FindCluster mocks cluster resolution by name.
func (m *MockClient) FindCluster(ctx context.Context, name string) (*ClusterStatus, error) {
	m.record("FindCluster")
	if m.FindClusterFunc != nil {
		return m.FindClusterFunc(ctx, name)
	}
	return nil, nil
}

// DeleteCluster mocks cluster deletion.
func (m *MockClient) DeleteCluster(ctx context.Context, id string) error {
	m.record("DeleteCluster")
	if m.DeleteClusterFunc != nil {
		return m.DeleteClusterFunc(ctx, id)
	}
	return nil
}

// InstallAddon mocks add-on installation.
func (m *MockClient) InstallAddon(ctx context.Context, clusterID string, install *AddonInstall) (*AddonStatus, error) {
	m.record("InstallAddon")
	if m.InstallAddonFunc != nil {
		return m.InstallAddonFunc(ctx, clusterID, install)
	}
	return &AddonStatus{ID: install.AddonID, State: AddonStateInstalling, Parameters: install.Parameters}, nil
}

// GetAddon mocks an add-on status fetch.
func (m *MockClient) GetAddon(ctx context.Context, clusterID, addonID string) (*AddonStatus, error) {
	m.record("GetAddon")
	if m.GetAddonFunc != nil {
		return m.GetAddonFunc(ctx, clusterID, addonID)
	}
	return nil, nil
}

// ListAddons mocks add-on enumeration.
func (m *MockClient) ListAddons(ctx context.Context, clusterID string) ([]AddonStatus, error) {
	m.record("ListAddons")
	if m.ListAddonsFunc != nil {
		return m.ListAddonsFunc(ctx, clusterID)
	}
	return nil, nil
}

// UninstallAddon mocks add-on removal.
func (m *MockClient) UninstallAddon(ctx context.Context, clusterID, addonID string) error {
	m.record("UninstallAddon")
	if m.UninstallAddonFunc != nil {
		return m.UninstallAddonFunc(ctx, clusterID, addonID)
	}
	return nil
}

// CreateMachinePool mocks machine pool creation.
func (m *MockClient) CreateMachinePool(ctx context.Context, clusterID string, pool *MachinePoolRequest) (*MachinePoolStatus, error) {
	m.record("CreateMachinePool")
	if m.CreateMachinePoolFunc != nil {
		return m.CreateMachinePoolFunc(ctx, clusterID, pool)
	}
	return &MachinePoolStatus{
		ID:           pool.ID,
		InstanceType: pool.InstanceType,
		Replicas:     pool.Replicas,
		State:        MachinePoolStateProvisioning,
	}, nil
}

// GetMachinePool mocks a machine pool fetch.
func (m *MockClient) GetMachinePool(ctx context.Context, clusterID, name string) (*MachinePoolStatus, error) {
	m.record("GetMachinePool")
	if m.GetMachinePoolFunc != nil {
		return m.GetMachinePoolFunc(ctx, clusterID, name)
	}
	return nil, nil
}

// ListMachinePools mocks machine pool enumeration.
func (m *MockClient) ListMachinePools(ctx context.Context, clusterID string) ([]MachinePoolStatus, error) {
	m.record("ListMachinePools")
	if m.ListMachinePoolsFunc != nil {
		return m.ListMachinePoolsFunc(ctx, clusterID)
	}
	return nil, nil
}

// Login mocks session establishment.
func (m *MockClient) Login(ctx context.Context, token string) (*Session, error) {
	m.record("Login")
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, token)
	}
	return &Session{AccessToken: "mock-access-token", Expiry: time.Now().Add(time.Hour)}, nil
}
