package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NodePayload is one authored node. Config is kept as raw JSON; its shape
// depends on the node type and is validated on flow activation.
type NodePayload struct {
	Id         string          `json:"id" validate:"required"`
	Name       string          `json:"name"`
	Type       string          `json:"type" validate:"required,oneof=message menu input condition api_call transfer_agent end"`
	Config     json.RawMessage `json:"config"`
	NextNodeId string          `json:"next_node_id"`
	Position   int             `json:"position"`
}

type CreateFlowRequest struct {
	Name        string                 `json:"name" validate:"required,min=3"`
	Description string                 `json:"description"`
	StartNodeId string                 `json:"start_node_id" validate:"required"`
	Variables   map[string]interface{} `json:"variables"`
	Nodes       []NodePayload          `json:"nodes" validate:"required,min=1,dive"`
}

type UpdateFlowRequest struct {
	Id          uuid.UUID
	Name        string                 `json:"name" validate:"required,min=3"`
	Description string                 `json:"description"`
	StartNodeId string                 `json:"start_node_id" validate:"required"`
	Variables   map[string]interface{} `json:"variables"`
	Nodes       []NodePayload          `json:"nodes" validate:"required,min=1,dive"`
}

type FlowResponse struct {
	Id          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Status      string                 `json:"status"`
	StartNodeId string                 `json:"start_node_id"`
	Variables   map[string]interface{} `json:"variables"`
	Nodes       []NodePayload          `json:"nodes,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   *time.Time             `json:"updated_at"`
}

type FlowListResponse struct {
	Flows []FlowResponse `json:"flows"`
	Total int64          `json:"total"`
}
