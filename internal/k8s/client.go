package k8s

import (
	"context"
	"log/slog"
	"time"
)

// Gateway defines the read operations the dispatch core needs from a
// Kubernetes cluster. Implementations must be safe for concurrent use;
// every call is bounded by the caller's context.
type Gateway interface {
	// ListPods returns summaries for all pods in the namespace. An empty
	// namespace and an unknown namespace both yield an empty slice, not an
	// error.
	ListPods(ctx context.Context, namespace string) ([]PodSummary, error)

	// ListDeployments returns summaries for all deployments in the
	// namespace, with the same empty-result semantics as ListPods.
	ListDeployments(ctx context.Context, namespace string) ([]DeploymentSummary, error)

	// GetPodLogs returns up to tailLines of the pod's log output. A pod
	// that exists but is not running yields a status report instead of
	// logs; an absent pod yields a GatewayError with ErrKindNotFound.
	GetPodLogs(ctx context.Context, namespace, podName string, tailLines int64) (string, error)

	// ClusterInfo reports the connection target together with the control
	// plane version fetched live, so a successful call proves the cluster
	// is reachable.
	ClusterInfo(ctx context.Context) (ClusterInfo, error)
}

// PodSummary is a read-only projection of a pod's state. Results reflect a
// best-effort snapshot at call time.
type PodSummary struct {
	Name         string `json:"name"`
	Namespace    string `json:"namespace"`
	Status       string `json:"status"`
	RestartCount int32  `json:"restart_count"`
	Age          string `json:"age"`
}

// ClusterInfo identifies the cluster the gateway is bound to. Context,
// Cluster and Namespace come from the resolved kubeconfig context (or the
// in-cluster placeholder); ServerVersion is fetched from the control plane
// on every call.
type ClusterInfo struct {
	Context       string `json:"context"`
	Cluster       string `json:"cluster"`
	Namespace     string `json:"namespace"`
	ServerVersion string `json:"server_version,omitempty"`
}

// DeploymentSummary is a read-only projection of a deployment's state.
type DeploymentSummary struct {
	Name            string `json:"name"`
	Namespace       string `json:"namespace"`
	ReplicasReady   int32  `json:"replicas_ready"`
	ReplicasDesired int32  `json:"replicas_desired"`
	Age             string `json:"age"`
}

// Config carries the settings needed to construct a gateway.
type Config struct {
	// KubeConfigPath points at a kubeconfig file. Empty uses the standard
	// loading rules ($KUBECONFIG, then ~/.kube/config).
	KubeConfigPath string

	// InCluster switches to the service account token mounted into the
	// pod, ignoring KubeConfigPath.
	InCluster bool

	// QPSLimit and BurstLimit tune client-side API rate limiting.
	QPSLimit   float32
	BurstLimit int

	Logger *slog.Logger

	// Now is the clock used for age calculations; nil means time.Now.
	// Tests inject a fixed clock for deterministic summaries.
	Now func() time.Time
}

// Default client-side settings, matching the upstream client defaults we
// ship with.
const (
	DefaultQPSLimit   = 20.0
	DefaultBurstLimit = 30

	// listPageSize caps a single list request; pagination is exhausted
	// internally so callers always see the full result set.
	listPageSize = 500

	// statusReportEventLimit bounds the events included in a non-running
	// pod's status report.
	statusReportEventLimit = 5
)
