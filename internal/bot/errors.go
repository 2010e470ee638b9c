package bot

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Fatal errors surfaced to the invoking service. Soft outcomes
// (validation failure, no route match) are absorbed by the engine and never
// reach the caller as errors.
var (
	ErrFlowNotFound = errors.New("flow not found or not active")
	ErrNodeNotFound = errors.New("node not found in flow")
	ErrChatNotFound = errors.New("chat not found")
)

// ConfigError reports a flow or node whose configuration cannot drive the
// engine: a flow without a start node, or a node missing a field its
// executor requires.
type ConfigError struct {
	FlowId uuid.UUID
	NodeId string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.NodeId != "" {
		return fmt.Sprintf("flow %s node %s: %s", e.FlowId, e.NodeId, e.Reason)
	}
	return fmt.Sprintf("flow %s: %s", e.FlowId, e.Reason)
}

func newConfigError(flowId uuid.UUID, nodeId, reason string) *ConfigError {
	return &ConfigError{FlowId: flowId, NodeId: nodeId, Reason: reason}
}

// TransportError wraps a messaging delivery failure. The engine records the
// attempted message as failed and does not retry; retry policy belongs to
// the transport.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
