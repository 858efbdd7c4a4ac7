// Package cluster drives cluster creation and deletion through the remote
// service's state machine: requested → installing → ready (or error), and
// ready|error → uninstalling → gone on the delete path.
package cluster

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshift-ai/oai-manager/internal/addon"
	"github.com/openshift-ai/oai-manager/internal/config"
	"github.com/openshift-ai/oai-manager/internal/metrics"
	"github.com/openshift-ai/oai-manager/internal/ocm"
	"github.com/openshift-ai/oai-manager/internal/poll"
)

// Manager is the cluster orchestrator. Submissions return immediately;
// blocking happens only inside the explicit Wait methods, so callers decide
// whether and how long to wait.
type Manager struct {
	client   ocm.Client
	graph    *addon.Graph
	timeouts *config.Timeouts
	log      zerolog.Logger
}

// NewManager creates a cluster orchestrator.
func NewManager(client ocm.Client, timeouts *config.Timeouts, log zerolog.Logger) *Manager {
	return &Manager{
		client:   client,
		graph:    addon.DefaultGraph(),
		timeouts: timeouts,
		log:      log,
	}
}

// Create validates the spec and submits cluster creation, returning a
// handle while the cluster is still requested/installing.
//
// Create is idempotent against retried invocations: if a cluster with the
// same name and an equivalent spec already exists, the existing handle is
// returned and no second creation is issued. A name collision with a
// different spec is a hard conflict, never a silent overwrite.
func (m *Manager) Create(ctx context.Context, spec *config.ClusterConfig) (*ocm.ClusterHandle, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	existing, err := m.client.FindCluster(ctx, spec.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if spec.EquivalentTo(existing) {
			m.log.Info().Str("cluster", spec.Name).Str("id", existing.ID).
				Msg("cluster already exists with an equivalent spec, reusing it")
			metrics.Operations.WithLabelValues(string(ocm.OpClusterCreate), metrics.ResultNoop).Inc()
			return existing.Handle(), nil
		}
		return nil, &ocm.ConflictError{
			Resource: "cluster",
			Name:     spec.Name,
			Detail:   "a cluster with this name exists with a different spec",
		}
	}

	status, err := m.client.CreateCluster(ctx, spec.ToCreate())
	if err != nil {
		metrics.Operations.WithLabelValues(string(ocm.OpClusterCreate), metrics.ResultError).Inc()
		return nil, err
	}

	op := ocm.NewOperation(ocm.OpClusterCreate, status.ID)
	m.log.Info().
		Str("cluster", spec.Name).
		Str("id", status.ID).
		Str("operation", op.ID).
		Str("state", string(status.State)).
		Msg("cluster creation submitted")
	metrics.Operations.WithLabelValues(string(ocm.OpClusterCreate), metrics.ResultOK).Inc()

	return status.Handle(), nil
}

// WaitReady blocks until the cluster reaches ready, reports error, or the
// timeout elapses. A zero timeout uses the configured budget. On timeout the
// remote installation continues; cancelling the wait is advisory only.
func (m *Manager) WaitReady(ctx context.Context, handle *ocm.ClusterHandle, timeout time.Duration) (*ocm.ClusterStatus, error) {
	if timeout <= 0 {
		timeout = m.timeouts.ClusterReady
	}

	status, err := poll.Await(ctx, m.pollOptions(ocm.OpClusterCreate, fmt.Sprintf("cluster %q", handle.Name), timeout),
		func(ctx context.Context) (*ocm.ClusterStatus, error) {
			return m.client.GetCluster(ctx, handle.ID)
		},
		poll.Predicates[*ocm.ClusterStatus]{
			Terminal: func(s *ocm.ClusterStatus) bool {
				return s.State == ocm.ClusterStateReady || s.State == ocm.ClusterStateError
			},
			Success: func(s *ocm.ClusterStatus) bool { return s.State == ocm.ClusterStateReady },
			Reason:  func(s *ocm.ClusterStatus) string { return s.Reason },
		})
	if err != nil {
		return status, err
	}

	handle.State = status.State
	return status, nil
}

// Info fetches the current cluster status by name. Read-only.
func (m *Manager) Info(ctx context.Context, name string) (*ocm.ClusterStatus, error) {
	status, err := m.client.FindCluster(ctx, name)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, &ocm.NotFoundError{Resource: "cluster", Name: name}
	}
	return status, nil
}

// Delete submits cluster deletion. Without force, a cluster that still has
// add-ons installed is refused so callers remove them deliberately first.
// With force, add-on removal is attempted best-effort in reverse dependency
// order; failures there are logged and do not block the deletion.
func (m *Manager) Delete(ctx context.Context, name string, force bool) error {
	status, err := m.Info(ctx, name)
	if err != nil {
		return err
	}

	addons, err := m.client.ListAddons(ctx, status.ID)
	if err != nil {
		return err
	}

	if len(addons) > 0 {
		if !force {
			ids := make([]string, len(addons))
			for i, a := range addons {
				ids[i] = a.ID
			}
			return &ocm.DependencyError{
				Subject:    fmt.Sprintf("cluster %q", name),
				Dependents: ids,
				Detail:     "add-ons are still installed; uninstall them first or delete with force",
			}
		}
		m.cleanupAddons(ctx, status.ID, addons)
	}

	if err := m.client.DeleteCluster(ctx, status.ID); err != nil {
		metrics.Operations.WithLabelValues(string(ocm.OpClusterDelete), metrics.ResultError).Inc()
		return err
	}

	op := ocm.NewOperation(ocm.OpClusterDelete, status.ID)
	m.log.Info().Str("cluster", name).Str("operation", op.ID).Msg("cluster deletion submitted")
	metrics.Operations.WithLabelValues(string(ocm.OpClusterDelete), metrics.ResultOK).Inc()
	return nil
}

// cleanupAddons removes installed add-ons in reverse dependency order.
// Errors are logged and skipped; forced deletion proceeds regardless.
func (m *Manager) cleanupAddons(ctx context.Context, clusterID string, addons []ocm.AddonStatus) {
	installed := make([]string, len(addons))
	for i, a := range addons {
		installed[i] = a.ID
	}

	for _, id := range m.graph.UninstallOrder(installed) {
		if err := m.client.UninstallAddon(ctx, clusterID, id); err != nil {
			m.log.Warn().Err(err).Str("addon", id).
				Msg("best-effort addon cleanup failed, continuing with cluster deletion")
		}
	}
}

// WaitDeleted blocks until the cluster no longer exists remotely or the
// timeout elapses. A zero timeout uses the configured budget.
func (m *Manager) WaitDeleted(ctx context.Context, name string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = m.timeouts.ClusterDelete
	}

	_, err := poll.Await(ctx, m.pollOptions(ocm.OpClusterDelete, fmt.Sprintf("deletion of cluster %q", name), timeout),
		func(ctx context.Context) (*ocm.ClusterStatus, error) {
			return m.client.FindCluster(ctx, name)
		},
		poll.Predicates[*ocm.ClusterStatus]{
			Terminal: func(s *ocm.ClusterStatus) bool { return s == nil },
			Success:  func(s *ocm.ClusterStatus) bool { return s == nil },
		})
	return err
}

func (m *Manager) pollOptions(kind ocm.OperationKind, subject string, timeout time.Duration) poll.Options {
	return poll.Options{
		Kind:              kind,
		Subject:           subject,
		Interval:          m.timeouts.PollInterval,
		Timeout:           timeout,
		RetryMaxAttempts:  m.timeouts.RetryMaxAttempts,
		RetryInitialDelay: m.timeouts.RetryInitialDelay,
		Logger:            m.log,
	}
}
