package config

import (
	"github.com/openshift-ai/oai-manager/internal/ocm"
)

// ClusterNodes configures the compute node set.
type ClusterNodes struct {
	Compute            int    `json:"compute" validate:"min=1"`
	ComputeMachineType string `json:"computeMachineType" validate:"required"`
}

// ClusterVersion pins the release channel and, optionally, a version.
type ClusterVersion struct {
	ChannelGroup string `json:"channelGroup,omitempty" validate:"omitempty,oneof=stable candidate fast"`
	ID           string `json:"id,omitempty"`
}

// ClusterRegion identifies the cloud region.
type ClusterRegion struct {
	ID string `json:"id" validate:"required"`
}

// AWSCredentials is the opaque credential block passed through to the
// remote service for AWS customer-cloud clusters.
type AWSCredentials struct {
	AccessKeyID     string `json:"accessKeyId" validate:"required"`
	SecretAccessKey string `json:"secretAccessKey" validate:"required"`
	AccountID       string `json:"accountId" validate:"required"`
}

// GCPCredentials is the service-account credential block for GCP clusters.
type GCPCredentials struct {
	ProjectID               string `json:"projectId" validate:"required"`
	PrivateKeyID            string `json:"privateKeyId" validate:"required"`
	PrivateKey              string `json:"privateKey" validate:"required"`
	ClientID                string `json:"clientId" validate:"required"`
	ClientEmail             string `json:"clientEmail" validate:"required,email"`
	ClientX509CertURL       string `json:"clientX509CertUrl"`
	AuthType                string `json:"authType,omitempty"`
	AuthURI                 string `json:"authUri,omitempty"`
	TokenURI                string `json:"tokenUri,omitempty"`
	AuthProviderX509CertURL string `json:"authProviderX509CertUrl,omitempty"`
}

// ClusterConfig is the desired state of one managed cluster. The name is
// unique within the account and immutable once the cluster exists.
type ClusterConfig struct {
	Name          string         `json:"name" validate:"required,clustername"`
	CloudProvider string         `json:"cloudProvider,omitempty" validate:"omitempty,oneof=aws gcp"`
	Region        ClusterRegion  `json:"region"`
	Version       ClusterVersion `json:"version,omitempty"`
	Nodes         ClusterNodes   `json:"nodes,omitempty"`
	FIPS          bool           `json:"fips,omitempty"`
	MultiAZ       bool           `json:"multiAz,omitempty"`
	Team          string         `json:"team,omitempty"`

	AWSCredentials *AWSCredentials `json:"awsCredentials,omitempty"`
	GCPCredentials *GCPCredentials `json:"gcpCredentials,omitempty"`
}

// ApplyDefaults fills unset fields with the stock defaults.
func (c *ClusterConfig) ApplyDefaults() {
	if c.CloudProvider == "" {
		c.CloudProvider = "aws"
	}
	if c.Region.ID == "" {
		c.Region.ID = "us-east-1"
	}
	if c.Version.ChannelGroup == "" {
		c.Version.ChannelGroup = "stable"
	}
	if c.Nodes.Compute == 0 {
		c.Nodes.Compute = 3
	}
	if c.Nodes.ComputeMachineType == "" {
		c.Nodes.ComputeMachineType = "m5.2xlarge"
	}
	if c.Team == "" {
		c.Team = "unknown-team"
	}
	if c.GCPCredentials != nil && c.GCPCredentials.AuthType == "" {
		c.GCPCredentials.AuthType = "service_account"
	}
}

// Validate checks the record before any remote call. The credentials
// invariant is that the block for the selected provider resolves to exactly
// one credential set.
func (c *ClusterConfig) Validate() error {
	fields := structFieldErrors(c)

	switch c.CloudProvider {
	case "aws":
		if c.AWSCredentials == nil {
			fields = append(fields, ocm.FieldError{Field: "awsCredentials", Message: "required for cloudProvider aws"})
		}
		if c.GCPCredentials != nil {
			fields = append(fields, ocm.FieldError{Field: "gcpCredentials", Message: "must not be set for cloudProvider aws"})
		}
	case "gcp":
		if c.GCPCredentials == nil {
			fields = append(fields, ocm.FieldError{Field: "gcpCredentials", Message: "required for cloudProvider gcp"})
		}
		if c.AWSCredentials != nil {
			fields = append(fields, ocm.FieldError{Field: "awsCredentials", Message: "must not be set for cloudProvider gcp"})
		}
	}

	if len(fields) > 0 {
		return &ocm.ValidationError{Subject: "cluster spec", Fields: fields}
	}
	return nil
}

// EquivalentTo reports whether an existing remote cluster matches this spec
// closely enough for a repeated create to be a no-op. Anything else on the
// same name is a conflict.
func (c *ClusterConfig) EquivalentTo(s *ocm.ClusterStatus) bool {
	return s != nil &&
		s.Name == c.Name &&
		s.CloudProvider == c.CloudProvider &&
		s.Region == c.Region.ID &&
		s.MultiAZ == c.MultiAZ &&
		s.FIPS == c.FIPS &&
		s.ComputeNodes == c.Nodes.Compute &&
		s.ComputeMachineType == c.Nodes.ComputeMachineType
}

// ToCreate builds the wire request for cluster creation.
func (c *ClusterConfig) ToCreate() *ocm.ClusterCreate {
	req := &ocm.ClusterCreate{
		Name:          c.Name,
		CloudProvider: ocm.IDRef{ID: c.CloudProvider},
		Region:        ocm.IDRef{ID: c.Region.ID},
		Product:       ocm.IDRef{ID: "osd"},
		CCS:           ocm.FlagSpec{Enabled: true},
		MultiAZ:       c.MultiAZ,
		FIPS:          c.FIPS,
		Nodes: ocm.NodesSpec{
			Compute:            c.Nodes.Compute,
			ComputeMachineType: ocm.IDRef{ID: c.Nodes.ComputeMachineType},
		},
	}

	version := &ocm.ClusterVersionSpec{ChannelGroup: c.Version.ChannelGroup}
	if c.Version.ID != "" {
		version.ID = "openshift-v" + c.Version.ID
	}
	req.Version = version

	if c.AWSCredentials != nil {
		req.AWS = &ocm.AWSSpec{
			AccessKeyID:     c.AWSCredentials.AccessKeyID,
			SecretAccessKey: c.AWSCredentials.SecretAccessKey,
			AccountID:       c.AWSCredentials.AccountID,
			Tags:            map[string]string{"team": c.Team},
		}
	}
	if c.GCPCredentials != nil {
		req.GCP = &ocm.GCPSpec{
			Type:                    c.GCPCredentials.AuthType,
			ProjectID:               c.GCPCredentials.ProjectID,
			PrivateKeyID:            c.GCPCredentials.PrivateKeyID,
			PrivateKey:              c.GCPCredentials.PrivateKey,
			ClientID:                c.GCPCredentials.ClientID,
			ClientEmail:             c.GCPCredentials.ClientEmail,
			ClientX509CertURL:       c.GCPCredentials.ClientX509CertURL,
			AuthURI:                 c.GCPCredentials.AuthURI,
			TokenURI:                c.GCPCredentials.TokenURI,
			AuthProviderX509CertURL: c.GCPCredentials.AuthProviderX509CertURL,
		}
	}

	return req
}
