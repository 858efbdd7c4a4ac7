// Package ocm is a thin transport to the external cluster-management
// service (the clusters_mgmt REST API). It exposes create/get/delete for
// clusters, install/get/uninstall for add-ons and create/get for machine
// pools, each returning an operation handle or a current status snapshot.
// All state machines live remotely; this package only observes them.
package ocm

import (
	"context"
)

// ClusterService covers cluster lifecycle calls.
type ClusterService interface {
	// CreateCluster submits cluster creation and returns the initial
	// status snapshot. It does not wait for the cluster to become ready.
	CreateCluster(ctx context.Context, body *ClusterCreate) (*ClusterStatus, error)

	// GetCluster fetches the current status of a cluster by id.
	GetCluster(ctx context.Context, id string) (*ClusterStatus, error)

	// FindCluster resolves a cluster by name, id or external id.
	// It returns (nil, nil) when no such cluster exists.
	FindCluster(ctx context.Context, name string) (*ClusterStatus, error)

	// DeleteCluster submits cluster deletion. Removal is asynchronous.
	DeleteCluster(ctx context.Context, id string) error
}

// AddonService covers add-on lifecycle calls.
type AddonService interface {
	// InstallAddon submits an add-on installation on a cluster.
	InstallAddon(ctx context.Context, clusterID string, install *AddonInstall) (*AddonStatus, error)

	// GetAddon fetches one installed add-on. It returns (nil, nil) when
	// the add-on is not installed.
	GetAddon(ctx context.Context, clusterID, addonID string) (*AddonStatus, error)

	// ListAddons enumerates the add-ons installed on a cluster.
	ListAddons(ctx context.Context, clusterID string) ([]AddonStatus, error)

	// UninstallAddon submits add-on removal. Removal is asynchronous.
	UninstallAddon(ctx context.Context, clusterID, addonID string) error
}

// MachinePoolService covers machine pool calls.
type MachinePoolService interface {
	// CreateMachinePool submits creation of a worker pool on a cluster.
	CreateMachinePool(ctx context.Context, clusterID string, pool *MachinePoolRequest) (*MachinePoolStatus, error)

	// GetMachinePool fetches one machine pool by name. It returns
	// (nil, nil) when no such pool exists.
	GetMachinePool(ctx context.Context, clusterID, name string) (*MachinePoolStatus, error)

	// ListMachinePools enumerates the machine pools of a cluster.
	ListMachinePools(ctx context.Context, clusterID string) ([]MachinePoolStatus, error)
}

// AuthService establishes authenticated sessions.
type AuthService interface {
	// Login exchanges the long-lived offline token for a session.
	// An invalid token yields an AuthenticationError.
	Login(ctx context.Context, token string) (*Session, error)
}

// Client is the full remote surface consumed by the orchestrators.
type Client interface {
	ClusterService
	AddonService
	MachinePoolService
	AuthService
}
