// Package k8s wraps cluster API access behind the Gateway interface.
//
// The gateway is the only component permitted to talk to the cluster
// control plane. It exposes namespace-scoped read operations returning
// flat summary projections, exhausts list pagination before returning, and
// normalizes API server failures into a closed GatewayError taxonomy so
// callers never see raw transport errors.
package k8s
