package handlers

import (
	"fmt"
	"os"
	"path/filepath"
)

// Starter spec files written by "oai init". The placeholder values load
// cleanly but must be replaced before any remote call.
var starterConfigs = []struct {
	name    string
	content string
}{
	{"cluster.yaml", `# Managed cluster spec. Replace the credentials before use.
name: my-cluster
cloudProvider: aws
region:
  id: us-east-1
version:
  channelGroup: stable
nodes:
  compute: 3
  computeMachineType: m5.2xlarge
multiAz: false
team: my-team
awsCredentials:
  accessKeyId: REPLACE_ACCESS_KEY_ID
  secretAccessKey: REPLACE_SECRET_ACCESS_KEY
  accountId: "000000000000"
`},
	{"rhods.yaml", `# Data-science platform add-on spec.
notificationEmail: team@example.com
installDependencies: true
# Used to install the dependency operators; required while
# installDependencies is enabled.
kubeconfig: /home/user/.kube/config
`},
	{"gpu-addon.yaml", `# GPU add-on spec. Pair it with a GPU machine pool.
addonName: nvidia-gpu-addon
`},
	{"machine-pool.yaml", `# Worker pool spec for the GPU pool.
name: gpunode
instanceType: g4dn.xlarge
nodeCount: 1
taints:
  - key: nvidia.com/gpu
    value: "true"
    effect: NoSchedule
`},
	{"ocm.yaml", `# Connection settings. Platform is stage or prod.
token: REPLACE_WITH_OFFLINE_TOKEN
platform: stage
logLevel: info
`},
}

// InitConfigs handles "init". It writes the starter spec files into
// <dir>/configs, leaving any existing file untouched.
func InitConfigs(dir string) error {
	target := filepath.Join(dir, "configs")
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	for _, f := range starterConfigs {
		path := filepath.Join(target, f.name)
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Exists:  %s\n", path)
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(f.content), 0o600); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("Created: %s\n", path)
	}

	fmt.Printf("Configuration files initialized in %s\n", target)
	fmt.Println("Next steps:")
	fmt.Println("1. Set the offline token in configs/ocm.yaml")
	fmt.Println("2. Set the cloud credentials in configs/cluster.yaml")
	fmt.Println("3. Set the notification email in configs/rhods.yaml")
	return nil
}
