package config

import "github.com/openshift-ai/oai-manager/internal/ocm"

// Well-known add-on identifiers.
const (
	RHODSAddonID = "managed-odh"
	GPUAddonID   = "nvidia-gpu-addon"
)

// NotificationEmailParam is the add-on parameter id for the notification
// address.
const NotificationEmailParam = "notification-email"

// RHODSConfig is the desired state of the data-science platform add-on.
type RHODSConfig struct {
	AddonName         string `json:"addonName,omitempty"`
	NotificationEmail string `json:"notificationEmail" validate:"required,email"`

	// InstallDependencies controls whether the dependency operators
	// (service mesh, serverless, authorino) are installed first.
	// Defaults to true when unset.
	InstallDependencies *bool `json:"installDependencies,omitempty"`

	// Kubeconfig points at the cluster for dependency-operator
	// installation. Required only when InstallDependencies is in effect.
	Kubeconfig string `json:"kubeconfig,omitempty"`
}

// ApplyDefaults fills unset fields.
func (c *RHODSConfig) ApplyDefaults() {
	if c.AddonName == "" {
		c.AddonName = RHODSAddonID
	}
}

// Validate checks the record and returns field-level errors. The
// kubeconfig is only needed for the dependency-operator step, so it is
// required exactly when that step is in effect.
func (c *RHODSConfig) Validate() error {
	fields := structFieldErrors(c)
	if c.DependenciesEnabled() && c.Kubeconfig == "" {
		fields = append(fields, ocm.FieldError{Field: "kubeconfig", Message: "required when installDependencies is enabled"})
	}
	if len(fields) > 0 {
		return &ocm.ValidationError{Subject: "rhods addon spec", Fields: fields}
	}
	return nil
}

// DependenciesEnabled reports whether dependency operators should be
// installed before the add-on.
func (c *RHODSConfig) DependenciesEnabled() bool {
	return c.InstallDependencies == nil || *c.InstallDependencies
}

// Parameters returns the install-time parameters in remote form. The same
// map is used to decide whether an existing installation matches this spec.
func (c *RHODSConfig) Parameters() map[string]string {
	return map[string]string{NotificationEmailParam: c.NotificationEmail}
}

// GPUAddonConfig is the desired state of the GPU add-on. The add-on brings
// the driver stack only; GPU capacity itself comes from a GPU machine pool.
type GPUAddonConfig struct {
	AddonName string `json:"addonName,omitempty"`
}

// ApplyDefaults fills unset fields.
func (c *GPUAddonConfig) ApplyDefaults() {
	if c.AddonName == "" {
		c.AddonName = GPUAddonID
	}
}

// Validate checks the record and returns field-level errors.
func (c *GPUAddonConfig) Validate() error {
	return validateStruct("gpu addon spec", c)
}
