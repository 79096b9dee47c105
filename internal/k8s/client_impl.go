package k8s

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/duration"
	"k8s.io/apimachinery/pkg/version"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/giantswarm/k8s-slack-bridge/internal/logging"
)

// gateway implements Gateway over a client-go clientset. The clientset's
// connection pooling is internal and safe for concurrent use, so a single
// gateway serves all simultaneous commands.
type gateway struct {
	clientset  kubernetes.Interface
	logger     *slog.Logger
	now        func() time.Time
	connection ClusterInfo
}

// NewGateway constructs a gateway from kubeconfig or in-cluster settings.
func NewGateway(cfg Config) (Gateway, error) {
	restConfig, connection, err := buildRestConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build cluster config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	g := newGateway(clientset, cfg)
	g.connection = connection
	return g, nil
}

// NewGatewayFromClientset wraps an existing clientset. Tests use this with
// a fake clientset.
func NewGatewayFromClientset(clientset kubernetes.Interface, cfg Config) Gateway {
	return newGateway(clientset, cfg)
}

func newGateway(clientset kubernetes.Interface, cfg Config) *gateway {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &gateway{
		clientset:  clientset,
		logger:     logger,
		now:        now,
		connection: inClusterInfo,
	}
}

// inClusterInfo stands in for kubeconfig context details when there is no
// kubeconfig to read them from.
var inClusterInfo = ClusterInfo{
	Context:   "in-cluster",
	Cluster:   "in-cluster",
	Namespace: "default",
}

// buildRestConfig resolves cluster connection settings and the identity of
// the context they point at. In-cluster mode uses the mounted service
// account; otherwise the standard kubeconfig loading rules apply,
// optionally pinned to an explicit path.
func buildRestConfig(cfg Config) (*rest.Config, ClusterInfo, error) {
	var (
		restConfig *rest.Config
		connection ClusterInfo
	)
	if cfg.InCluster {
		var err error
		restConfig, err = rest.InClusterConfig()
		if err != nil {
			return nil, ClusterInfo{}, err
		}
		connection = inClusterInfo
	} else {
		loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
		if cfg.KubeConfigPath != "" {
			loadingRules.ExplicitPath = cfg.KubeConfigPath
		}
		clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
			loadingRules, &clientcmd.ConfigOverrides{},
		)
		var err error
		restConfig, err = clientConfig.ClientConfig()
		if err != nil {
			return nil, ClusterInfo{}, err
		}
		connection = kubeconfigInfo(clientConfig)
	}

	restConfig.QPS = cfg.QPSLimit
	if restConfig.QPS == 0 {
		restConfig.QPS = DefaultQPSLimit
	}
	restConfig.Burst = cfg.BurstLimit
	if restConfig.Burst == 0 {
		restConfig.Burst = DefaultBurstLimit
	}
	return restConfig, connection, nil
}

// kubeconfigInfo extracts the current context's identity from the raw
// kubeconfig backing clientConfig.
func kubeconfigInfo(clientConfig clientcmd.ClientConfig) ClusterInfo {
	connection := ClusterInfo{Namespace: "default"}
	raw, err := clientConfig.RawConfig()
	if err != nil {
		return connection
	}
	connection.Context = raw.CurrentContext
	if kubeCtx, ok := raw.Contexts[raw.CurrentContext]; ok && kubeCtx != nil {
		connection.Cluster = kubeCtx.Cluster
		if kubeCtx.Namespace != "" {
			connection.Namespace = kubeCtx.Namespace
		}
	}
	return connection
}

// ListPods returns summaries for all pods in the namespace, exhausting
// pagination before returning so partial pages are never surfaced.
func (g *gateway) ListPods(ctx context.Context, namespace string) ([]PodSummary, error) {
	g.logger.Debug("cluster operation", logging.Operation("list-pods"), logging.Namespace(namespace))

	summaries := []PodSummary{}
	opts := metav1.ListOptions{Limit: listPageSize}
	for {
		page, err := g.clientset.CoreV1().Pods(namespace).List(ctx, opts)
		if err != nil {
			return nil, wrapError("list pods", err)
		}
		for i := range page.Items {
			summaries = append(summaries, g.summarizePod(&page.Items[i]))
		}
		if page.Continue == "" {
			return summaries, nil
		}
		opts.Continue = page.Continue
	}
}

// ListDeployments returns summaries for all deployments in the namespace,
// with the same pagination semantics as ListPods.
func (g *gateway) ListDeployments(ctx context.Context, namespace string) ([]DeploymentSummary, error) {
	g.logger.Debug("cluster operation", logging.Operation("list-deployments"), logging.Namespace(namespace))

	summaries := []DeploymentSummary{}
	opts := metav1.ListOptions{Limit: listPageSize}
	for {
		page, err := g.clientset.AppsV1().Deployments(namespace).List(ctx, opts)
		if err != nil {
			return nil, wrapError("list deployments", err)
		}
		for i := range page.Items {
			dep := &page.Items[i]
			desired := int32(1)
			if dep.Spec.Replicas != nil {
				desired = *dep.Spec.Replicas
			}
			summaries = append(summaries, DeploymentSummary{
				Name:            dep.Name,
				Namespace:       dep.Namespace,
				ReplicasReady:   dep.Status.ReadyReplicas,
				ReplicasDesired: desired,
				Age:             g.age(dep.CreationTimestamp.Time),
			})
		}
		if page.Continue == "" {
			return summaries, nil
		}
		opts.Continue = page.Continue
	}
}

// GetPodLogs fetches up to tailLines of log output. A pod that exists but
// is not running gets a status report instead, since the logs subresource
// would be empty or misleading for it.
func (g *gateway) GetPodLogs(ctx context.Context, namespace, podName string, tailLines int64) (string, error) {
	g.logger.Debug("cluster operation",
		logging.Operation("get-pod-logs"), logging.Namespace(namespace), logging.Pod(podName))

	pod, err := g.clientset.CoreV1().Pods(namespace).Get(ctx, podName, metav1.GetOptions{})
	if err != nil {
		return "", wrapError("get pod", err)
	}

	if pod.Status.Phase != corev1.PodRunning && pod.Status.Phase != corev1.PodSucceeded {
		return g.statusReport(ctx, pod)
	}

	logOpts := &corev1.PodLogOptions{}
	if tailLines > 0 {
		logOpts.TailLines = &tailLines
	}
	stream, err := g.clientset.CoreV1().Pods(namespace).GetLogs(podName, logOpts).Stream(ctx)
	if err != nil {
		return "", wrapError("get pod logs", err)
	}
	defer func() { _ = stream.Close() }()

	logs, err := io.ReadAll(stream)
	if err != nil {
		return "", wrapError("read pod logs", err)
	}
	return string(logs), nil
}

// statusReport renders the phase, container states and recent events of a
// pod that has no useful logs to fetch.
func (g *gateway) statusReport(ctx context.Context, pod *corev1.Pod) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Pod status: %s\n", pod.Status.Phase)

	if len(pod.Status.ContainerStatuses) > 0 {
		b.WriteString("\nContainer statuses:\n")
		for _, cs := range pod.Status.ContainerStatuses {
			switch {
			case cs.State.Waiting != nil:
				fmt.Fprintf(&b, "- %s: waiting (%s)", cs.Name, cs.State.Waiting.Reason)
				if cs.State.Waiting.Message != "" {
					fmt.Fprintf(&b, ": %s", cs.State.Waiting.Message)
				}
				b.WriteString("\n")
			case cs.State.Terminated != nil:
				fmt.Fprintf(&b, "- %s: terminated (%s)\n", cs.Name, cs.State.Terminated.Reason)
			case cs.State.Running != nil:
				fmt.Fprintf(&b, "- %s: running\n", cs.Name)
			}
		}
	}

	events, err := g.clientset.CoreV1().Events(pod.Namespace).List(ctx, metav1.ListOptions{
		FieldSelector: fmt.Sprintf("involvedObject.name=%s", pod.Name),
	})
	if err != nil {
		// The report is still useful without events; log and carry on.
		g.logger.Debug("failed to list pod events", logging.Pod(pod.Name), logging.Err(err))
		return b.String(), nil
	}

	items := events.Items
	if len(items) > statusReportEventLimit {
		items = items[len(items)-statusReportEventLimit:]
	}
	if len(items) > 0 {
		b.WriteString("\nRecent events:\n")
		for _, ev := range items {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", ev.Type, ev.Reason, ev.Message)
		}
	}
	return b.String(), nil
}

// ClusterInfo reports the bound context together with the server version.
// The version request goes to the live control plane, so callers can use
// this as a reachability check. The underlying discovery call is not
// context-aware; the wait for it is bounded by ctx and the call abandoned
// on expiry.
func (g *gateway) ClusterInfo(ctx context.Context) (ClusterInfo, error) {
	g.logger.Debug("cluster operation", logging.Operation("cluster-info"))

	type versionReply struct {
		info *version.Info
		err  error
	}
	replies := make(chan versionReply, 1)
	go func() {
		info, err := g.clientset.Discovery().ServerVersion()
		replies <- versionReply{info: info, err: err}
	}()

	select {
	case <-ctx.Done():
		return ClusterInfo{}, wrapError("cluster info", ctx.Err())
	case reply := <-replies:
		if reply.err != nil {
			return ClusterInfo{}, wrapError("cluster info", reply.err)
		}
		info := g.connection
		info.ServerVersion = reply.info.GitVersion
		return info, nil
	}
}

func (g *gateway) summarizePod(pod *corev1.Pod) PodSummary {
	var restarts int32
	for _, cs := range pod.Status.ContainerStatuses {
		restarts += cs.RestartCount
	}
	return PodSummary{
		Name:         pod.Name,
		Namespace:    pod.Namespace,
		Status:       string(pod.Status.Phase),
		RestartCount: restarts,
		Age:          g.age(pod.CreationTimestamp.Time),
	}
}

// age renders a creation timestamp as a compact human duration, the same
// way kubectl does.
func (g *gateway) age(created time.Time) string {
	if created.IsZero() {
		return "<unknown>"
	}
	return duration.HumanDuration(g.now().Sub(created))
}
