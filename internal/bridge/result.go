package bridge

import "github.com/giantswarm/k8s-slack-bridge/internal/k8s"

// ResultKind tags the variant carried by a Result.
type ResultKind string

const (
	ResultPodList        ResultKind = "pod_list"
	ResultDeploymentList ResultKind = "deployment_list"
	ResultLogText        ResultKind = "log_text"
	ResultAck            ResultKind = "ack"
	ResultClusterInfo    ResultKind = "cluster_info"
)

// Result is the tagged union produced by a successful dispatch. Exactly one
// payload field is populated, matching Kind. The variant always matches the
// command that produced it: list_pods yields ResultPodList, never
// ResultLogText.
type Result struct {
	Kind        ResultKind
	Pods        []k8s.PodSummary
	Deployments []k8s.DeploymentSummary
	Logs        string
	Cluster     k8s.ClusterInfo
}

// PodListResult wraps pod summaries in a Result.
func PodListResult(pods []k8s.PodSummary) Result {
	return Result{Kind: ResultPodList, Pods: pods}
}

// DeploymentListResult wraps deployment summaries in a Result.
func DeploymentListResult(deployments []k8s.DeploymentSummary) Result {
	return Result{Kind: ResultDeploymentList, Deployments: deployments}
}

// LogTextResult wraps a bounded log fetch in a Result.
func LogTextResult(logs string) Result {
	return Result{Kind: ResultLogText, Logs: logs}
}

// AckResult acknowledges a side-effecting command with no data payload.
func AckResult() Result {
	return Result{Kind: ResultAck}
}

// ClusterInfoResult wraps the gateway's connection details in a Result.
func ClusterInfoResult(info k8s.ClusterInfo) Result {
	return Result{Kind: ResultClusterInfo, Cluster: info}
}
