package ocm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testToken builds an unsigned JWT of the given type, which is all the SDK
// needs to classify and expire tokens.
func testToken(t *testing.T, typ string, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	claims, err := json.Marshal(map[string]any{
		"typ": typ,
		"iat": time.Now().Add(-time.Minute).Unix(),
		"exp": exp.Unix(),
	})
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(claims) + ".c2lnbmF0dXJl"
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

// newTestClient returns a logged-in client whose API calls hit the given
// handler. The token exchange and the account lookup are served internally.
func newTestClient(t *testing.T, handler http.Handler) *RealClient {
	t.Helper()

	access := testToken(t, "Bearer", time.Now().Add(15*time.Minute))
	refresh := testToken(t, "Refresh", time.Now().Add(24*time.Hour))

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"access_token":  access,
			"refresh_token": refresh,
			"token_type":    "Bearer",
			"expires_in":    900,
		})
	})
	mux.HandleFunc("/api/accounts_mgmt/v1/current_account", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]any{"kind": "Error", "reason": "not found"})
	})
	mux.Handle("/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewRealClient(srv.URL, srv.URL+"/token")
	t.Cleanup(func() { _ = client.Close() })

	_, err := client.Login(context.Background(), refresh)
	require.NoError(t, err)
	return client
}

func TestRealClient_RequiresLogin(t *testing.T) {
	t.Parallel()

	client := NewRealClient("http://unreachable.invalid", "http://unreachable.invalid/token")
	_, err := client.GetCluster(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, IsAuthentication(err))
}

func TestRealClient_CreateCluster(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/clusters_mgmt/v1/clusters", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))

		var body struct {
			Name    string `json:"name"`
			Product struct {
				ID string `json:"id"`
			} `json:"product"`
			CCS struct {
				Enabled bool `json:"enabled"`
			} `json:"ccs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "demo-1", body.Name)
		assert.Equal(t, "osd", body.Product.ID)
		assert.True(t, body.CCS.Enabled)

		writeJSON(t, w, http.StatusCreated, map[string]any{
			"kind":  "Cluster",
			"id":    "cl-123",
			"name":  "demo-1",
			"state": "installing",
		})
	}))

	status, err := client.CreateCluster(context.Background(), &ClusterCreate{
		Name:          "demo-1",
		CloudProvider: IDRef{ID: "aws"},
		Region:        IDRef{ID: "us-east-1"},
		Product:       IDRef{ID: "osd"},
		CCS:           FlagSpec{Enabled: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "cl-123", status.ID)
	assert.Equal(t, ClusterStateInstalling, status.State)
}

func TestRealClient_GetCluster(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/clusters_mgmt/v1/clusters/cl-123", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"kind":           "Cluster",
			"id":             "cl-123",
			"name":           "demo-1",
			"state":          "error",
			"cloud_provider": map[string]any{"id": "aws"},
			"region":         map[string]any{"id": "us-east-1"},
			"multi_az":       true,
			"version":        map[string]any{"raw_id": "4.15.8"},
			"nodes": map[string]any{
				"compute":              3,
				"compute_machine_type": map[string]any{"id": "m5.2xlarge"},
			},
			"console": map[string]any{"url": "https://console.demo-1.example.com"},
			"status": map[string]any{
				"description":             "installing control plane",
				"provision_error_message": "quota exceeded",
			},
		})
	}))

	status, err := client.GetCluster(context.Background(), "cl-123")
	require.NoError(t, err)
	assert.Equal(t, ClusterStateError, status.State)
	assert.Equal(t, "quota exceeded", status.Reason, "provision error wins over the generic description")
	assert.Equal(t, "aws", status.CloudProvider)
	assert.Equal(t, "us-east-1", status.Region)
	assert.Equal(t, "4.15.8", status.Version)
	assert.True(t, status.MultiAZ)
	assert.Equal(t, 3, status.ComputeNodes)
	assert.Equal(t, "m5.2xlarge", status.ComputeMachineType)
	assert.Equal(t, "https://console.demo-1.example.com", status.ConsoleURL)
}

func TestRealClient_FindCluster(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("search")
		assert.Contains(t, search, "name = 'demo-1'")
		assert.Contains(t, search, "id = 'demo-1'")
		assert.Contains(t, search, "external_id = 'demo-1'")

		writeJSON(t, w, http.StatusOK, map[string]any{
			"kind":  "ClusterList",
			"page":  1,
			"size":  1,
			"total": 1,
			"items": []map[string]any{{"id": "cl-123", "name": "demo-1", "state": "ready"}},
		})
	}))

	status, err := client.FindCluster(context.Background(), "demo-1")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, "cl-123", status.ID)
}

func TestRealClient_FindCluster_Absent(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"kind":  "ClusterList",
			"page":  1,
			"size":  0,
			"total": 0,
			"items": []any{},
		})
	}))

	status, err := client.FindCluster(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestRealClient_InstallAddon(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/clusters_mgmt/v1/clusters/cl-123/addons", r.URL.Path)

		var body struct {
			Addon struct {
				ID string `json:"id"`
			} `json:"addon"`
			Parameters struct {
				Items []struct {
					ID    string `json:"id"`
					Value string `json:"value"`
				} `json:"items"`
			} `json:"parameters"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "managed-odh", body.Addon.ID)
		require.Len(t, body.Parameters.Items, 1)
		assert.Equal(t, "notification-email", body.Parameters.Items[0].ID)

		writeJSON(t, w, http.StatusCreated, map[string]any{
			"kind":  "AddOnInstallation",
			"addon": map[string]any{"id": "managed-odh"},
			"state": "installing",
		})
	}))

	status, err := client.InstallAddon(context.Background(), "cl-123", &AddonInstall{
		AddonID:    "managed-odh",
		Parameters: map[string]string{"notification-email": "team@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "managed-odh", status.ID)
	assert.Equal(t, AddonStateInstalling, status.State)
}

func TestRealClient_GetAddon(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"kind":              "AddOnInstallation",
			"addon":             map[string]any{"id": "managed-odh"},
			"state":             "ready",
			"state_description": "",
			"parameters": map[string]any{
				"items": []map[string]any{{"id": "notification-email", "value": "team@example.com"}},
			},
		})
	}))

	status, err := client.GetAddon(context.Background(), "cl-123", "managed-odh")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, AddonStateReady, status.State)
	assert.Equal(t, map[string]string{"notification-email": "team@example.com"}, status.Parameters)
}

func TestRealClient_GetAddon_Absent(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]any{"kind": "Error", "reason": "not found"})
	}))

	status, err := client.GetAddon(context.Background(), "cl-123", "managed-odh")
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestRealClient_GetMachinePool_Absent(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]any{"kind": "Error", "reason": "not found"})
	}))

	status, err := client.GetMachinePool(context.Background(), "cl-123", "gpunode")
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestRealClient_CreateMachinePool(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/clusters_mgmt/v1/clusters/cl-123/machine_pools", r.URL.Path)

		var body struct {
			ID           string `json:"id"`
			InstanceType string `json:"instance_type"`
			Replicas     int    `json:"replicas"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpunode", body.ID)
		assert.Equal(t, "g4dn.xlarge", body.InstanceType)

		writeJSON(t, w, http.StatusCreated, map[string]any{
			"kind":          "MachinePool",
			"id":            body.ID,
			"instance_type": body.InstanceType,
			"replicas":      body.Replicas,
		})
	}))

	status, err := client.CreateMachinePool(context.Background(), "cl-123", &MachinePoolRequest{
		ID:           "gpunode",
		InstanceType: "g4dn.xlarge",
		Replicas:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, "gpunode", status.ID)
	assert.Equal(t, MachinePoolStateReady, status.State)
}

func TestRealClient_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		matches func(error) bool
	}{
		{"not found", http.StatusNotFound, IsNotFound},
		{"conflict", http.StatusConflict, IsConflict},
		{"unauthorized", http.StatusUnauthorized, IsAuthentication},
		{"forbidden", http.StatusForbidden, IsAuthentication},
		{"bad request", http.StatusBadRequest, IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, tt.status, map[string]any{
					"kind":   "Error",
					"code":   "CLUSTERS-MGMT-TEST",
					"reason": "remote detail",
				})
			}))

			_, err := client.GetCluster(context.Background(), "cl-123")
			require.Error(t, err)
			assert.True(t, tt.matches(err), "unexpected kind: %v", err)
		})
	}
}

func TestRealClient_Login(t *testing.T) {
	t.Parallel()

	access := testToken(t, "Bearer", time.Now().Add(15*time.Minute))
	refresh := testToken(t, "Refresh", time.Now().Add(24*time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "cloud-services", r.PostForm.Get("client_id"))
			assert.Equal(t, refresh, r.PostForm.Get("refresh_token"))
			writeJSON(t, w, http.StatusOK, map[string]any{
				"access_token":  access,
				"refresh_token": refresh,
				"token_type":    "Bearer",
				"expires_in":    900,
			})
		case "/api/accounts_mgmt/v1/current_account":
			writeJSON(t, w, http.StatusOK, map[string]any{"kind": "Account", "id": "acct-42"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)

	client := NewRealClient(srv.URL, srv.URL+"/token")
	t.Cleanup(func() { _ = client.Close() })

	sess, err := client.Login(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, access, sess.AccessToken)
	assert.Equal(t, "acct-42", sess.AccountID)
	assert.False(t, sess.Expiry.IsZero())
}

func TestRealClient_Login_Rejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"error":             "invalid_grant",
			"error_description": "token is not active",
		})
	}))
	t.Cleanup(srv.Close)

	client := NewRealClient(srv.URL, srv.URL+"/token")
	_, err := client.Login(context.Background(), testToken(t, "Refresh", time.Now().Add(24*time.Hour)))
	require.Error(t, err)
	assert.True(t, IsAuthentication(err))
}

func TestRealClient_Login_MalformedToken(t *testing.T) {
	t.Parallel()

	client := NewRealClient("http://unreachable.invalid", "http://unreachable.invalid/token")
	_, err := client.Login(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.True(t, IsAuthentication(err))
}

func TestRealClient_Login_AccountLookupIsBestEffort(t *testing.T) {
	t.Parallel()

	access := testToken(t, "Bearer", time.Now().Add(15*time.Minute))
	refresh := testToken(t, "Refresh", time.Now().Add(24*time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"access_token":  access,
				"refresh_token": refresh,
				"token_type":    "Bearer",
				"expires_in":    900,
			})
			return
		}
		writeJSON(t, w, http.StatusInternalServerError, map[string]any{"kind": "Error", "reason": "down"})
	}))
	t.Cleanup(srv.Close)

	client := NewRealClient(srv.URL, srv.URL+"/token")
	t.Cleanup(func() { _ = client.Close() })

	sess, err := client.Login(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, access, sess.AccessToken)
	assert.Empty(t, sess.AccountID)
}
