package ocm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	sdk "github.com/openshift-online/ocm-sdk-go"
	cmv1 "github.com/openshift-online/ocm-sdk-go/clustersmgmt/v1"
	ocmerrors "github.com/openshift-online/ocm-sdk-go/errors"
)

// ssoClientID is the public OAuth client used for offline-token exchange.
const ssoClientID = "cloud-services"

// sessionTokenValidity is the validity window requested for each access
// token. The SDK connection refreshes transparently; the window only bounds
// the Session snapshot handed to callers.
const sessionTokenValidity = 10 * time.Minute

// RealClient implements Client on top of the OCM SDK. Login builds the
// underlying connection; every other call fails with an AuthenticationError
// until it has run once.
type RealClient struct {
	apiURL   string
	tokenURL string

	mu   sync.Mutex
	conn *sdk.Connection
}

// NewRealClient creates a client for the given API base URL and SSO token
// endpoint. No connection is opened until Login.
func NewRealClient(apiURL, tokenURL string) *RealClient {
	return &RealClient{apiURL: apiURL, tokenURL: tokenURL}
}

var _ Client = (*RealClient)(nil)

// Close releases the underlying connection, if any.
func (c *RealClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	conn := c.conn
	c.conn = nil
	return conn.Close()
}

func (c *RealClient) connection() (*sdk.Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, &AuthenticationError{Reason: "not logged in"}
	}
	return c.conn, nil
}

func (c *RealClient) clusters() (*cmv1.ClustersClient, error) {
	conn, err := c.connection()
	if err != nil {
		return nil, err
	}
	return conn.ClustersMgmt().V1().Clusters(), nil
}

// --- ClusterService ---

func clusterStatus(in *cmv1.Cluster) *ClusterStatus {
	reason := in.Status().ProvisionErrorMessage()
	if reason == "" {
		reason = in.Status().Description()
	}
	return &ClusterStatus{
		ID:                 in.ID(),
		Name:               in.Name(),
		State:              ClusterState(in.State()),
		Reason:             reason,
		CloudProvider:      in.CloudProvider().ID(),
		Region:             in.Region().ID(),
		Version:            in.Version().RawID(),
		MultiAZ:            in.MultiAZ(),
		FIPS:               in.FIPS(),
		ComputeNodes:       in.Nodes().Compute(),
		ComputeMachineType: in.Nodes().ComputeMachineType().ID(),
		ConsoleURL:         in.Console().URL(),
		APIURL:             in.API().URL(),
		CreatedAt:          in.CreationTimestamp(),
	}
}

func buildCluster(in *ClusterCreate) (*cmv1.Cluster, error) {
	builder := cmv1.NewCluster().
		Name(in.Name).
		CloudProvider(cmv1.NewCloudProvider().ID(in.CloudProvider.ID)).
		Region(cmv1.NewCloudRegion().ID(in.Region.ID)).
		Product(cmv1.NewProduct().ID(in.Product.ID)).
		CCS(cmv1.NewCCS().Enabled(in.CCS.Enabled)).
		MultiAZ(in.MultiAZ).
		FIPS(in.FIPS).
		Nodes(cmv1.NewClusterNodes().
			Compute(in.Nodes.Compute).
			ComputeMachineType(cmv1.NewMachineType().ID(in.Nodes.ComputeMachineType.ID)))

	if in.Version != nil {
		version := cmv1.NewVersion().ChannelGroup(in.Version.ChannelGroup)
		if in.Version.ID != "" {
			version = version.ID(in.Version.ID)
		}
		builder = builder.Version(version)
	}
	if in.AWS != nil {
		builder = builder.AWS(cmv1.NewAWS().
			AccessKeyID(in.AWS.AccessKeyID).
			SecretAccessKey(in.AWS.SecretAccessKey).
			AccountID(in.AWS.AccountID).
			Tags(in.AWS.Tags))
	}
	if in.GCP != nil {
		builder = builder.GCP(cmv1.NewGCP().
			Type(in.GCP.Type).
			ProjectID(in.GCP.ProjectID).
			PrivateKeyID(in.GCP.PrivateKeyID).
			PrivateKey(in.GCP.PrivateKey).
			ClientID(in.GCP.ClientID).
			ClientEmail(in.GCP.ClientEmail).
			ClientX509CertURL(in.GCP.ClientX509CertURL).
			AuthURI(in.GCP.AuthURI).
			TokenURI(in.GCP.TokenURI).
			AuthProviderX509CertURL(in.GCP.AuthProviderX509CertURL))
	}
	return builder.Build()
}

// CreateCluster submits cluster creation.
func (c *RealClient) CreateCluster(ctx context.Context, body *ClusterCreate) (*ClusterStatus, error) {
	clusters, err := c.clusters()
	if err != nil {
		return nil, err
	}
	cluster, err := buildCluster(body)
	if err != nil {
		return nil, fmt.Errorf("create cluster %s: %w", body.Name, err)
	}
	resp, err := clusters.Add().Body(cluster).SendContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("create cluster %s: %w", body.Name, mapError(err))
	}
	return clusterStatus(resp.Body()), nil
}

// GetCluster fetches the current status of a cluster by id.
func (c *RealClient) GetCluster(ctx context.Context, id string) (*ClusterStatus, error) {
	clusters, err := c.clusters()
	if err != nil {
		return nil, err
	}
	resp, err := clusters.Cluster(id).Get().SendContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get cluster %s: %w", id, mapError(err))
	}
	return clusterStatus(resp.Body()), nil
}

// FindCluster resolves a cluster by name, id or external id.
func (c *RealClient) FindCluster(ctx context.Context, name string) (*ClusterStatus, error) {
	clusters, err := c.clusters()
	if err != nil {
		return nil, err
	}
	search := fmt.Sprintf("name = '%s' or id = '%s' or external_id = '%s'", name, name, name)
	resp, err := clusters.List().Search(search).Size(1).SendContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("find cluster %s: %w", name, mapError(err))
	}
	if resp.Items().Len() == 0 {
		return nil, nil
	}
	return clusterStatus(resp.Items().Get(0)), nil
}

// DeleteCluster submits cluster deletion.
func (c *RealClient) DeleteCluster(ctx context.Context, id string) error {
	clusters, err := c.clusters()
	if err != nil {
		return err
	}
	if _, err := clusters.Cluster(id).Delete().SendContext(ctx); err != nil {
		return fmt.Errorf("delete cluster %s: %w", id, mapError(err))
	}
	return nil
}

// --- AddonService ---

func (c *RealClient) addons(clusterID string) (*cmv1.AddOnInstallationsClient, error) {
	clusters, err := c.clusters()
	if err != nil {
		return nil, err
	}
	return clusters.Cluster(clusterID).Addons(), nil
}

func addonStatus(in *cmv1.AddOnInstallation) *AddonStatus {
	status := &AddonStatus{
		ID:     in.Addon().ID(),
		State:  AddonState(in.State()),
		Reason: in.StateDescription(),
	}
	if params := in.Parameters(); params.Len() > 0 {
		status.Parameters = make(map[string]string, params.Len())
		params.Each(func(p *cmv1.AddOnInstallationParameter) bool {
			status.Parameters[p.ID()] = p.Value()
			return true
		})
	}
	return status
}

// InstallAddon submits an add-on installation.
func (c *RealClient) InstallAddon(ctx context.Context, clusterID string, install *AddonInstall) (*AddonStatus, error) {
	addons, err := c.addons(clusterID)
	if err != nil {
		return nil, err
	}

	builder := cmv1.NewAddOnInstallation().Addon(cmv1.NewAddOn().ID(install.AddonID))
	if len(install.Parameters) > 0 {
		params := make([]*cmv1.AddOnInstallationParameterBuilder, 0, len(install.Parameters))
		for id, value := range install.Parameters {
			params = append(params, cmv1.NewAddOnInstallationParameter().ID(id).Value(value))
		}
		builder = builder.Parameters(cmv1.NewAddOnInstallationParameterList().Items(params...))
	}
	body, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("install addon %s on cluster %s: %w", install.AddonID, clusterID, err)
	}

	resp, err := addons.Add().Body(body).SendContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("install addon %s on cluster %s: %w", install.AddonID, clusterID, mapError(err))
	}
	return addonStatus(resp.Body()), nil
}

// GetAddon fetches one installed add-on, or (nil, nil) when absent.
func (c *RealClient) GetAddon(ctx context.Context, clusterID, addonID string) (*AddonStatus, error) {
	addons, err := c.addons(clusterID)
	if err != nil {
		return nil, err
	}
	resp, err := addons.Addoninstallation(addonID).Get().SendContext(ctx)
	if err != nil {
		mapped := mapError(err)
		if IsNotFound(mapped) {
			return nil, nil
		}
		return nil, fmt.Errorf("get addon %s on cluster %s: %w", addonID, clusterID, mapped)
	}
	return addonStatus(resp.Body()), nil
}

// ListAddons enumerates the add-ons installed on a cluster.
func (c *RealClient) ListAddons(ctx context.Context, clusterID string) ([]AddonStatus, error) {
	addons, err := c.addons(clusterID)
	if err != nil {
		return nil, err
	}
	resp, err := addons.List().SendContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list addons on cluster %s: %w", clusterID, mapError(err))
	}
	statuses := make([]AddonStatus, 0, resp.Items().Len())
	resp.Items().Each(func(item *cmv1.AddOnInstallation) bool {
		statuses = append(statuses, *addonStatus(item))
		return true
	})
	return statuses, nil
}

// UninstallAddon submits add-on removal.
func (c *RealClient) UninstallAddon(ctx context.Context, clusterID, addonID string) error {
	addons, err := c.addons(clusterID)
	if err != nil {
		return err
	}
	if _, err := addons.Addoninstallation(addonID).Delete().SendContext(ctx); err != nil {
		return fmt.Errorf("uninstall addon %s on cluster %s: %w", addonID, clusterID, mapError(err))
	}
	return nil
}

// --- MachinePoolService ---

func (c *RealClient) pools(clusterID string) (*cmv1.MachinePoolsClient, error) {
	clusters, err := c.clusters()
	if err != nil {
		return nil, err
	}
	return clusters.Cluster(clusterID).MachinePools(), nil
}

// poolStatus converts a machine pool. The remote resource carries no
// lifecycle state of its own; a pool the service reports back is taken as
// ready, with node provisioning left to the cluster.
func poolStatus(in *cmv1.MachinePool) *MachinePoolStatus {
	status := &MachinePoolStatus{
		ID:           in.ID(),
		InstanceType: in.InstanceType(),
		Replicas:     in.Replicas(),
		State:        MachinePoolStateReady,
		Labels:       in.Labels(),
	}
	for _, t := range in.Taints() {
		status.Taints = append(status.Taints, Taint{
			Key:    t.Key(),
			Value:  t.Value(),
			Effect: t.Effect(),
		})
	}
	return status
}

// CreateMachinePool submits creation of a worker pool.
func (c *RealClient) CreateMachinePool(ctx context.Context, clusterID string, pool *MachinePoolRequest) (*MachinePoolStatus, error) {
	pools, err := c.pools(clusterID)
	if err != nil {
		return nil, err
	}

	builder := cmv1.NewMachinePool().
		ID(pool.ID).
		InstanceType(pool.InstanceType).
		Replicas(pool.Replicas)
	if len(pool.Labels) > 0 {
		builder = builder.Labels(pool.Labels)
	}
	if len(pool.Taints) > 0 {
		taints := make([]*cmv1.TaintBuilder, 0, len(pool.Taints))
		for _, t := range pool.Taints {
			taints = append(taints, cmv1.NewTaint().Key(t.Key).Value(t.Value).Effect(t.Effect))
		}
		builder = builder.Taints(taints...)
	}
	body, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("create machine pool %s on cluster %s: %w", pool.ID, clusterID, err)
	}

	resp, err := pools.Add().Body(body).SendContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("create machine pool %s on cluster %s: %w", pool.ID, clusterID, mapError(err))
	}
	return poolStatus(resp.Body()), nil
}

// GetMachinePool fetches one machine pool, or (nil, nil) when absent.
func (c *RealClient) GetMachinePool(ctx context.Context, clusterID, name string) (*MachinePoolStatus, error) {
	pools, err := c.pools(clusterID)
	if err != nil {
		return nil, err
	}
	resp, err := pools.MachinePool(name).Get().SendContext(ctx)
	if err != nil {
		mapped := mapError(err)
		if IsNotFound(mapped) {
			return nil, nil
		}
		return nil, fmt.Errorf("get machine pool %s on cluster %s: %w", name, clusterID, mapped)
	}
	return poolStatus(resp.Body()), nil
}

// ListMachinePools enumerates the machine pools of a cluster.
func (c *RealClient) ListMachinePools(ctx context.Context, clusterID string) ([]MachinePoolStatus, error) {
	pools, err := c.pools(clusterID)
	if err != nil {
		return nil, err
	}
	resp, err := pools.List().SendContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list machine pools on cluster %s: %w", clusterID, mapError(err))
	}
	statuses := make([]MachinePoolStatus, 0, resp.Items().Len())
	resp.Items().Each(func(item *cmv1.MachinePool) bool {
		statuses = append(statuses, *poolStatus(item))
		return true
	})
	return statuses, nil
}

// --- AuthService ---

// Login opens a connection with the given offline token and exchanges it for
// an access token, replacing any previous connection. The account scope is
// informational; a failure resolving it does not invalidate the session.
func (c *RealClient) Login(ctx context.Context, token string) (*Session, error) {
	conn, err := sdk.NewConnectionBuilder().
		URL(c.apiURL).
		TokenURL(c.tokenURL).
		Client(ssoClientID, "").
		Tokens(token).
		BuildContext(ctx)
	if err != nil {
		return nil, &AuthenticationError{Reason: fmt.Sprintf("build connection: %v", err)}
	}

	access, _, err := conn.TokensContext(ctx, sessionTokenValidity)
	if err != nil {
		_ = conn.Close()
		return nil, &AuthenticationError{Reason: fmt.Sprintf("token exchange: %v", err)}
	}

	sess := &Session{
		AccessToken: access,
		Expiry:      time.Now().Add(sessionTokenValidity),
	}
	if resp, err := conn.AccountsMgmt().V1().CurrentAccount().Get().SendContext(ctx); err == nil {
		sess.AccountID = resp.Body().ID()
	}

	c.mu.Lock()
	old := c.conn
	c.conn = conn
	c.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	return sess, nil
}

// --- error mapping ---

// mapError converts SDK API errors to the local taxonomy. Transport errors
// pass through unchanged and stay retryable.
func mapError(err error) error {
	var apiErr *ocmerrors.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	reason := apiErr.Reason()
	switch apiErr.Status() {
	case http.StatusNotFound:
		return &NotFoundError{Resource: "resource", Name: apiErr.Code()}
	case http.StatusConflict:
		return &ConflictError{Resource: "resource", Name: apiErr.Code(), Detail: reason}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthenticationError{Reason: reason}
	case http.StatusBadRequest:
		return &ValidationError{Subject: "request", Fields: []FieldError{{Field: "body", Message: reason}}}
	default:
		return fmt.Errorf("remote API returned %d: %s", apiErr.Status(), reason)
	}
}
