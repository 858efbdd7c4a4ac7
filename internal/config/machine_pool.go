package config

import (
	"github.com/openshift-ai/oai-manager/internal/ocm"
)

// knownInstanceTypes lists the instance types the orchestrator will submit.
// An unrecognized type is rejected locally instead of surfacing as an
// opaque remote provisioning failure half an hour later.
var knownInstanceTypes = map[string]bool{
	// AWS general purpose
	"m5.xlarge":  true,
	"m5.2xlarge": true,
	"m5.4xlarge": true,
	// AWS GPU
	"g4dn.xlarge":   true,
	"g4dn.2xlarge":  true,
	"g4dn.4xlarge":  true,
	"g4dn.12xlarge": true,
	"g5.xlarge":     true,
	"g5.2xlarge":    true,
	"p3.2xlarge":    true,
	"p3.8xlarge":    true,
	// GCP general purpose
	"n1-standard-4": true,
	"n1-standard-8": true,
	// GCP GPU
	"a2-highgpu-1g": true,
	"a2-highgpu-2g": true,
}

// Taint mirrors ocm.Taint for spec files.
type Taint struct {
	Key    string `json:"key" validate:"required"`
	Value  string `json:"value"`
	Effect string `json:"effect" validate:"oneof=NoSchedule PreferNoSchedule NoExecute"`
}

// MachinePoolConfig is the desired state of one worker pool, typically the
// GPU pool backing the GPU add-on.
type MachinePoolConfig struct {
	Name         string            `json:"name,omitempty" validate:"omitempty,clustername"`
	InstanceType string            `json:"instanceType,omitempty"`
	Replicas     int               `json:"nodeCount,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
	Taints       []Taint           `json:"taints,omitempty" validate:"omitempty,dive"`
}

// ApplyDefaults fills unset fields with the stock GPU pool defaults.
func (c *MachinePoolConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "gpunode"
	}
	if c.InstanceType == "" {
		c.InstanceType = "g4dn.xlarge"
	}
	if c.Replicas == 0 {
		c.Replicas = 1
	}
}

// Validate checks the record before any remote call.
func (c *MachinePoolConfig) Validate() error {
	fields := structFieldErrors(c)

	if c.Replicas <= 0 {
		fields = append(fields, ocm.FieldError{Field: "nodeCount", Message: "must be greater than zero"})
	}
	if !knownInstanceTypes[c.InstanceType] {
		fields = append(fields, ocm.FieldError{Field: "instanceType", Message: "unrecognized instance type " + c.InstanceType})
	}

	if len(fields) > 0 {
		return &ocm.ValidationError{Subject: "machine pool spec", Fields: fields}
	}
	return nil
}

// EquivalentTo reports whether an existing pool matches this spec, making a
// repeated add a no-op.
func (c *MachinePoolConfig) EquivalentTo(s *ocm.MachinePoolStatus) bool {
	return s != nil &&
		s.ID == c.Name &&
		s.InstanceType == c.InstanceType &&
		s.Replicas == c.Replicas
}

// ToRequest builds the wire request for pool creation.
func (c *MachinePoolConfig) ToRequest() *ocm.MachinePoolRequest {
	req := &ocm.MachinePoolRequest{
		ID:           c.Name,
		InstanceType: c.InstanceType,
		Replicas:     c.Replicas,
		Labels:       c.Labels,
	}
	for _, t := range c.Taints {
		req.Taints = append(req.Taints, ocm.Taint{Key: t.Key, Value: t.Value, Effect: t.Effect})
	}
	return req
}
