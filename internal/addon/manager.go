// Package addon drives add-on installation and removal and machine pool
// creation, enforcing the dependency ordering between add-ons.
package addon

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshift-ai/oai-manager/internal/config"
	"github.com/openshift-ai/oai-manager/internal/metrics"
	"github.com/openshift-ai/oai-manager/internal/ocm"
	"github.com/openshift-ai/oai-manager/internal/poll"
)

// OperatorInstaller installs the in-cluster dependency operators the
// data-science platform needs. Implemented by the operators package; nil
// disables the step.
type OperatorInstaller interface {
	InstallDependencies(ctx context.Context, kubeconfigPath string) error
}

// Manager is the add-on orchestrator.
type Manager struct {
	client    ocm.Client
	graph     *Graph
	operators OperatorInstaller
	timeouts  *config.Timeouts
	log       zerolog.Logger
}

// NewManager creates an add-on orchestrator.
func NewManager(client ocm.Client, operators OperatorInstaller, timeouts *config.Timeouts, log zerolog.Logger) *Manager {
	return &Manager{
		client:    client,
		graph:     DefaultGraph(),
		operators: operators,
		timeouts:  timeouts,
		log:       log,
	}
}

// Graph exposes the dependency graph for inspection.
func (m *Manager) Graph() *Graph { return m.graph }

// InstallRHODS installs the data-science platform add-on and blocks until
// it reports ready or failed.
//
// The install is idempotent: an existing installation with matching
// parameters returns without a new remote call, and one with different
// parameters is a conflict — reconfiguration is never done silently.
func (m *Manager) InstallRHODS(ctx context.Context, clusterName string, cfg *config.RHODSConfig) (*ocm.AddonStatus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cluster, err := m.resolveReady(ctx, clusterName)
	if err != nil {
		return nil, err
	}

	existing, done, err := m.existingInstall(ctx, cluster, cfg.AddonName, cfg.Parameters())
	if err != nil || done {
		return existing, err
	}

	if cfg.DependenciesEnabled() && m.operators != nil {
		if err := m.operators.InstallDependencies(ctx, cfg.Kubeconfig); err != nil {
			return nil, fmt.Errorf("install dependency operators: %w", err)
		}
	}

	return m.installAndWait(ctx, cluster, &ocm.AddonInstall{
		AddonID:    cfg.AddonName,
		Parameters: cfg.Parameters(),
	})
}

// InstallGPUAddon installs the GPU add-on and blocks until it reports ready
// or failed. It requires the data-science platform to be installed and
// ready first; the check happens before any remote install call.
//
// The add-on provides the driver stack only. GPU capacity comes from a
// GPU machine pool, which this method deliberately does not create.
func (m *Manager) InstallGPUAddon(ctx context.Context, clusterName string, cfg *config.GPUAddonConfig) (*ocm.AddonStatus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cluster, err := m.resolveReady(ctx, clusterName)
	if err != nil {
		return nil, err
	}

	for _, required := range m.graph.DependsOn(cfg.AddonName) {
		dep, err := m.client.GetAddon(ctx, cluster.ID, required)
		if err != nil {
			return nil, err
		}
		if dep == nil || dep.State != ocm.AddonStateReady {
			state := "not installed"
			if dep != nil {
				state = string(dep.State)
			}
			return nil, &ocm.DependencyError{
				Subject: fmt.Sprintf("addon %q", cfg.AddonName),
				Detail:  fmt.Sprintf("requires addon %q to be ready, currently %s", required, state),
			}
		}
	}

	existing, done, err := m.existingInstall(ctx, cluster, cfg.AddonName, nil)
	if err != nil || done {
		return existing, err
	}

	status, err := m.installAndWait(ctx, cluster, &ocm.AddonInstall{AddonID: cfg.AddonName})
	if err != nil {
		return status, err
	}

	m.log.Info().Str("addon", cfg.AddonName).
		Msg("GPU workloads additionally need a GPU-capable machine pool; add one if not present")
	return status, nil
}

// AddMachinePool creates a worker pool and blocks until it reports ready.
// A pool that exists with an equivalent spec is a no-op; a mismatched one is
// a conflict. If the pool is created but not ready within the budget, the
// pool record is left in place and the timeout is surfaced — the caller
// decides whether to retry or delete.
func (m *Manager) AddMachinePool(ctx context.Context, clusterName string, cfg *config.MachinePoolConfig) (*ocm.MachinePoolStatus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cluster, err := m.resolveReady(ctx, clusterName)
	if err != nil {
		return nil, err
	}

	existing, err := m.client.GetMachinePool(ctx, cluster.ID, cfg.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if cfg.EquivalentTo(existing) {
			m.log.Info().Str("pool", cfg.Name).Msg("machine pool already exists with an equivalent spec, reusing it")
			metrics.Operations.WithLabelValues(string(ocm.OpMachinePoolAdd), metrics.ResultNoop).Inc()
			return existing, nil
		}
		return nil, &ocm.ConflictError{
			Resource: "machine pool",
			Name:     cfg.Name,
			Detail:   "a machine pool with this name exists with a different spec",
		}
	}

	if _, err := m.client.CreateMachinePool(ctx, cluster.ID, cfg.ToRequest()); err != nil {
		metrics.Operations.WithLabelValues(string(ocm.OpMachinePoolAdd), metrics.ResultError).Inc()
		return nil, err
	}

	op := ocm.NewOperation(ocm.OpMachinePoolAdd, cluster.ID)
	m.log.Info().Str("pool", cfg.Name).Str("cluster", clusterName).Str("operation", op.ID).
		Msg("machine pool creation submitted")
	metrics.Operations.WithLabelValues(string(ocm.OpMachinePoolAdd), metrics.ResultOK).Inc()

	status, err := poll.Await(ctx,
		m.pollOptions(ocm.OpMachinePoolCheck, fmt.Sprintf("machine pool %q on cluster %q", cfg.Name, clusterName), m.timeouts.MachinePoolReady),
		func(ctx context.Context) (*ocm.MachinePoolStatus, error) {
			return m.client.GetMachinePool(ctx, cluster.ID, cfg.Name)
		},
		poll.Predicates[*ocm.MachinePoolStatus]{
			Terminal: func(s *ocm.MachinePoolStatus) bool {
				return s != nil && (s.State == ocm.MachinePoolStateReady || s.State == ocm.MachinePoolStateFailed)
			},
			Success: func(s *ocm.MachinePoolStatus) bool { return s.State == ocm.MachinePoolStateReady },
			Reason:  func(s *ocm.MachinePoolStatus) string { return "machine pool reported failure" },
		})
	if err != nil {
		// The pool record stays in place even on timeout.
		return status, err
	}
	return status, nil
}

// ListAddons enumerates the add-ons installed on a cluster with their
// states. Read-only; the cluster is resolved but no state is required.
func (m *Manager) ListAddons(ctx context.Context, clusterName string) ([]ocm.AddonStatus, error) {
	cluster, err := m.resolve(ctx, clusterName)
	if err != nil {
		return nil, err
	}
	return m.client.ListAddons(ctx, cluster.ID)
}

// ListMachinePools enumerates the machine pools of a cluster. Read-only.
func (m *Manager) ListMachinePools(ctx context.Context, clusterName string) ([]ocm.MachinePoolStatus, error) {
	cluster, err := m.resolve(ctx, clusterName)
	if err != nil {
		return nil, err
	}
	return m.client.ListMachinePools(ctx, cluster.ID)
}

// Uninstall removes an add-on and blocks until its record disappears. If
// other installed add-ons depend on it, the call fails unless cascade is
// set, in which case the dependents are removed first in reverse dependency
// order.
func (m *Manager) Uninstall(ctx context.Context, clusterName, addonID string, cascade bool) error {
	cluster, err := m.resolve(ctx, clusterName)
	if err != nil {
		return err
	}

	installed, err := m.client.GetAddon(ctx, cluster.ID, addonID)
	if err != nil {
		return err
	}
	if installed == nil {
		return &ocm.NotFoundError{Resource: "addon", Name: addonID}
	}

	all, err := m.client.ListAddons(ctx, cluster.ID)
	if err != nil {
		return err
	}
	ids := make([]string, len(all))
	for i, a := range all {
		ids[i] = a.ID
	}

	dependents := m.graph.InstalledDependents(addonID, ids)
	if len(dependents) > 0 {
		if !cascade {
			return &ocm.DependencyError{
				Subject:    fmt.Sprintf("addon %q", addonID),
				Dependents: dependents,
				Detail:     "installed add-ons depend on it; uninstall them first or request a cascade",
			}
		}
		for _, dep := range m.graph.CascadeOrder(addonID, ids) {
			if err := m.uninstallOne(ctx, cluster, dep); err != nil {
				return fmt.Errorf("cascade uninstall of %s: %w", dep, err)
			}
		}
	}

	return m.uninstallOne(ctx, cluster, addonID)
}

func (m *Manager) uninstallOne(ctx context.Context, cluster *ocm.ClusterStatus, addonID string) error {
	if err := m.client.UninstallAddon(ctx, cluster.ID, addonID); err != nil {
		metrics.Operations.WithLabelValues(string(ocm.OpAddonUninstall), metrics.ResultError).Inc()
		return err
	}

	op := ocm.NewOperation(ocm.OpAddonUninstall, cluster.ID)
	m.log.Info().Str("addon", addonID).Str("cluster", cluster.Name).Str("operation", op.ID).
		Msg("addon removal submitted")
	metrics.Operations.WithLabelValues(string(ocm.OpAddonUninstall), metrics.ResultOK).Inc()

	_, err := poll.Await(ctx,
		m.pollOptions(ocm.OpAddonUninstall, fmt.Sprintf("removal of addon %q from cluster %q", addonID, cluster.Name), m.timeouts.AddonReady),
		func(ctx context.Context) (*ocm.AddonStatus, error) {
			return m.client.GetAddon(ctx, cluster.ID, addonID)
		},
		poll.Predicates[*ocm.AddonStatus]{
			Terminal: func(s *ocm.AddonStatus) bool { return s == nil || s.State == ocm.AddonStateGone },
			Success:  func(*ocm.AddonStatus) bool { return true },
		})
	return err
}

// existingInstall implements install idempotency: (status, true, nil) when
// an equivalent installation already exists, a conflict error when the
// parameters differ.
func (m *Manager) existingInstall(ctx context.Context, cluster *ocm.ClusterStatus, addonID string, params map[string]string) (*ocm.AddonStatus, bool, error) {
	existing, err := m.client.GetAddon(ctx, cluster.ID, addonID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, nil
	}

	if !maps.Equal(existing.Parameters, normalizeParams(params)) {
		return nil, false, &ocm.ConflictError{
			Resource: "addon",
			Name:     addonID,
			Detail:   "installed with different parameters; uninstall first to reconfigure",
		}
	}

	m.log.Info().Str("addon", addonID).Str("state", string(existing.State)).
		Msg("addon already installed with matching parameters")
	metrics.Operations.WithLabelValues(string(ocm.OpAddonInstall), metrics.ResultNoop).Inc()
	return existing, true, nil
}

func normalizeParams(params map[string]string) map[string]string {
	if len(params) == 0 {
		return nil
	}
	return params
}

// installAndWait submits the install and polls the add-on's own state
// machine until ready or failed.
func (m *Manager) installAndWait(ctx context.Context, cluster *ocm.ClusterStatus, install *ocm.AddonInstall) (*ocm.AddonStatus, error) {
	if _, err := m.client.InstallAddon(ctx, cluster.ID, install); err != nil {
		metrics.Operations.WithLabelValues(string(ocm.OpAddonInstall), metrics.ResultError).Inc()
		return nil, err
	}

	op := ocm.NewOperation(ocm.OpAddonInstall, cluster.ID)
	m.log.Info().Str("addon", install.AddonID).Str("cluster", cluster.Name).Str("operation", op.ID).
		Msg("addon installation submitted")
	metrics.Operations.WithLabelValues(string(ocm.OpAddonInstall), metrics.ResultOK).Inc()

	return poll.Await(ctx,
		m.pollOptions(ocm.OpAddonInstall, fmt.Sprintf("addon %q on cluster %q", install.AddonID, cluster.Name), m.timeouts.AddonReady),
		func(ctx context.Context) (*ocm.AddonStatus, error) {
			return m.client.GetAddon(ctx, cluster.ID, install.AddonID)
		},
		poll.Predicates[*ocm.AddonStatus]{
			Terminal: func(s *ocm.AddonStatus) bool {
				return s != nil && (s.State == ocm.AddonStateReady || s.State == ocm.AddonStateFailed)
			},
			Success: func(s *ocm.AddonStatus) bool { return s.State == ocm.AddonStateReady },
			Reason:  func(s *ocm.AddonStatus) string { return s.Reason },
		})
}

// resolve finds a cluster by name or fails with NotFoundError.
func (m *Manager) resolve(ctx context.Context, clusterName string) (*ocm.ClusterStatus, error) {
	status, err := m.client.FindCluster(ctx, clusterName)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, &ocm.NotFoundError{Resource: "cluster", Name: clusterName}
	}
	return status, nil
}

// resolveReady additionally requires the cluster to be ready, the
// precondition for every mutating add-on operation.
func (m *Manager) resolveReady(ctx context.Context, clusterName string) (*ocm.ClusterStatus, error) {
	status, err := m.resolve(ctx, clusterName)
	if err != nil {
		return nil, err
	}
	if status.State != ocm.ClusterStateReady {
		return nil, &ocm.PreconditionError{
			Subject:  fmt.Sprintf("cluster %q", clusterName),
			Required: string(ocm.ClusterStateReady),
			Actual:   string(status.State),
		}
	}
	return status, nil
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
