package config

// Platform selects the remote service environment.
type Platform string

const (
	PlatformProd  Platform = "prod"
	PlatformStage Platform = "stage"
)

// Default endpoints per platform. Both platforms authenticate against the
// same SSO realm.
const (
	prodAPIURL      = "https://api.openshift.com"
	stageAPIURL     = "https://api.stage.openshift.com"
	defaultTokenURL = "https://sso.redhat.com/auth/realms/redhat-external/protocol/openid-connect/token"
)

// OCMConfig holds connection settings for the cluster-management service.
// The token is the long-lived offline token; it is exchanged for short-lived
// sessions at runtime and never written to disk.
type OCMConfig struct {
	Token    string   `json:"token" validate:"required"`
	Platform Platform `json:"platform,omitempty" validate:"omitempty,oneof=prod stage"`

	// URL and TokenURL override the platform defaults, mainly for tests.
	URL      string `json:"url,omitempty"`
	TokenURL string `json:"tokenUrl,omitempty"`

	LogLevel string `json:"logLevel,omitempty"`
}

// ApplyDefaults fills unset fields.
func (c *OCMConfig) ApplyDefaults() {
	if c.Platform == "" {
		c.Platform = PlatformStage
	}
}

// Validate checks the record and returns field-level errors.
func (c *OCMConfig) Validate() error {
	return validateStruct("ocm config", c)
}

// APIURL returns the effective API base URL.
func (c *OCMConfig) APIURL() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Platform == PlatformProd {
		return prodAPIURL
	}
	return stageAPIURL
}

// AuthTokenURL returns the effective SSO token endpoint.
func (c *OCMConfig) AuthTokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return defaultTokenURL
}
