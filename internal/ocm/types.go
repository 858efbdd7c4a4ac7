package ocm

import (
	"time"

	"github.com/google/uuid"
)

// ClusterState is a lifecycle state owned and reported by the remote
// cluster-management service. The orchestrators never assume a cached state
// is authoritative; every decision is made against the most recent fetch.
type ClusterState string

const (
	ClusterStateRequested    ClusterState = "requested"
	ClusterStateInstalling   ClusterState = "installing"
	ClusterStateReady        ClusterState = "ready"
	ClusterStateError        ClusterState = "error"
	ClusterStateUninstalling ClusterState = "uninstalling"
)

// AddonState is the lifecycle state of an installed add-on.
type AddonState string

const (
	AddonStateInstalling AddonState = "installing"
	AddonStateReady      AddonState = "ready"
	AddonStateFailed     AddonState = "failed"
	AddonStateDeleting   AddonState = "deleting"
	AddonStateGone       AddonState = "uninstalled"
)

// MachinePoolState is the lifecycle state of a machine pool.
type MachinePoolState string

const (
	MachinePoolStateProvisioning MachinePoolState = "provisioning"
	MachinePoolStateReady        MachinePoolState = "ready"
	MachinePoolStateFailed       MachinePoolState = "failed"
)

// ClusterStatus is a point-in-time snapshot of a cluster as reported by the
// remote service.
type ClusterStatus struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	State              ClusterState `json:"state"`
	Reason             string       `json:"reason,omitempty"`
	CloudProvider      string       `json:"cloud_provider,omitempty"`
	Region             string       `json:"region,omitempty"`
	Version            string       `json:"version,omitempty"`
	MultiAZ            bool         `json:"multi_az,omitempty"`
	FIPS               bool         `json:"fips,omitempty"`
	ComputeNodes       int          `json:"compute_nodes,omitempty"`
	ComputeMachineType string       `json:"compute_machine_type,omitempty"`
	ConsoleURL         string       `json:"console_url,omitempty"`
	APIURL             string       `json:"api_url,omitempty"`
	CreatedAt          time.Time    `json:"creation_timestamp,omitzero"`
}

// ClusterHandle is the runtime identity of a cluster for the duration of an
// orchestrated operation. The remote service remains the source of truth;
// handles are never persisted.
type ClusterHandle struct {
	ID        string
	Name      string
	State     ClusterState
	CreatedAt time.Time
}

// Handle derives a ClusterHandle from a status snapshot.
func (s *ClusterStatus) Handle() *ClusterHandle {
	return &ClusterHandle{
		ID:        s.ID,
		Name:      s.Name,
		State:     s.State,
		CreatedAt: s.CreatedAt,
	}
}

// IDRef is the {"id": ...} reference shape used throughout the
// clusters_mgmt API.
type IDRef struct {
	ID string `json:"id"`
}

// ClusterCreate is the request body for cluster creation.
type ClusterCreate struct {
	Name          string              `json:"name"`
	CloudProvider IDRef               `json:"cloud_provider"`
	Region        IDRef               `json:"region"`
	Version       *ClusterVersionSpec `json:"version,omitempty"`
	Product       IDRef               `json:"product"`
	CCS           FlagSpec            `json:"ccs"`
	MultiAZ       bool                `json:"multi_az"`
	FIPS          bool                `json:"fips"`
	Nodes         NodesSpec           `json:"nodes"`
	AWS           *AWSSpec            `json:"aws,omitempty"`
	GCP           *GCPSpec            `json:"gcp,omitempty"`
}

// ClusterVersionSpec pins the release channel and, optionally, an exact
// version.
type ClusterVersionSpec struct {
	ChannelGroup string `json:"channel_group"`
	ID           string `json:"id,omitempty"`
}

// FlagSpec is the {"enabled": ...} shape.
type FlagSpec struct {
	Enabled bool `json:"enabled"`
}

// NodesSpec describes the compute node set of a cluster.
type NodesSpec struct {
	Compute            int   `json:"compute"`
	ComputeMachineType IDRef `json:"compute_machine_type"`
}

// AWSSpec carries AWS credentials and tags for customer-cloud clusters.
// The credentials are an opaque pass-through; resolving and storing them is
// the caller's concern.
type AWSSpec struct {
	AccessKeyID     string            `json:"access_key_id"`
	SecretAccessKey string            `json:"secret_access_key"`
	AccountID       string            `json:"account_id"`
	Tags            map[string]string `json:"tags,omitempty"`
}

// GCPSpec carries GCP service-account credentials for customer-cloud
// clusters.
type GCPSpec struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientID                string `json:"client_id"`
	ClientEmail             string `json:"client_email"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
}

// AddonInstall is the request body for installing an add-on on a cluster.
type AddonInstall struct {
	AddonID    string            `json:"-"`
	Parameters map[string]string `json:"-"`
}

// AddonStatus is a snapshot of one installed add-on.
type AddonStatus struct {
	ID         string            `json:"id"`
	State      AddonState        `json:"state"`
	Reason     string            `json:"state_description,omitempty"`
	Parameters map[string]string `json:"-"`
}

// MachinePoolRequest is the request body for creating a machine pool.
type MachinePoolRequest struct {
	ID           string            `json:"id"`
	InstanceType string            `json:"instance_type"`
	Replicas     int               `json:"replicas"`
	Labels       map[string]string `json:"labels,omitempty"`
	Taints       []Taint           `json:"taints,omitempty"`
}

// MachinePoolStatus is a snapshot of one machine pool.
type MachinePoolStatus struct {
	ID           string            `json:"id"`
	InstanceType string            `json:"instance_type"`
	Replicas     int               `json:"replicas"`
	State        MachinePoolState  `json:"state,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
	Taints       []Taint           `json:"taints,omitempty"`
}

// Taint marks a machine pool's nodes for dedicated scheduling, e.g. keeping
// general workloads off GPU nodes.
type Taint struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Effect string `json:"effect"`
}

// Session is an authenticated context for the remote API. It lives in
// process memory only and is re-established on expiry.
type Session struct {
	AccessToken string
	Expiry      time.Time
	AccountID   string
}

// Valid reports whether the session can still authenticate calls at the
// given instant, with a small skew so a token never expires mid-request.
func (s *Session) Valid(now time.Time) bool {
	const skew = 30 * time.Second
	return s != nil && s.AccessToken != "" && now.Add(skew).Before(s.Expiry)
}

// OperationKind identifies the kind of a long-running remote operation.
type OperationKind string

const (
	OpClusterCreate    OperationKind = "cluster-create"
	OpClusterDelete    OperationKind = "cluster-delete"
	OpAddonInstall     OperationKind = "addon-install"
	OpAddonUninstall   OperationKind = "addon-uninstall"
	OpMachinePoolAdd   OperationKind = "machine-pool-add"
	OpMachinePoolCheck OperationKind = "machine-pool-check"
)

// OperationHandle identifies one in-flight remote operation. It exists from
// submission until a terminal status is observed or the wait times out; it
// carries no authority over the remote operation itself.
type OperationHandle struct {
	ID          string
	Kind        OperationKind
	TargetID    string
	SubmittedAt time.Time
}

// NewOperation mints a handle for a freshly submitted operation.
func NewOperation(kind OperationKind, targetID string) OperationHandle {
	return OperationHandle{
		ID:          uuid.NewString(),
		Kind:        kind,
		TargetID:    targetID,
		SubmittedAt: time.Now().UTC(),
	}
}
