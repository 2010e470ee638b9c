package entity

import (
	"time"

	"github.com/google/uuid"
)

// NodeType discriminates the per-type config payload of a flow node.
type NodeType string

const (
	NodeTypeMessage   NodeType = "message"
	NodeTypeMenu      NodeType = "menu"
	NodeTypeInput     NodeType = "input"
	NodeTypeCondition NodeType = "condition"
	NodeTypeAPICall   NodeType = "api_call"
	NodeTypeTransfer  NodeType = "transfer_agent"
	NodeTypeEnd       NodeType = "end"
)

// Flow is the authored conversation script: a graph of nodes addressed by
// stable string ids. Immutable to the engine once loaded.
type Flow struct {
	Id          uuid.UUID
	Name        string
	Description string
	Status      string
	StartNodeId string
	Variables   map[string]interface{}
	Nodes       []*Node
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Node is a single step in a flow. Config is the raw JSON payload for the
// node's type; the engine decodes it through bot.ParseNodeConfig.
type Node struct {
	Id         string
	FlowId     uuid.UUID
	Name       string
	Type       NodeType
	Config     []byte
	NextNodeId string
	Position   int
}

// FindNode returns the node with the given id, or nil.
func (f *Flow) FindNode(id string) *Node {
	for _, n := range f.Nodes {
		if n.Id == id {
			return n
		}
	}
	return nil
}
