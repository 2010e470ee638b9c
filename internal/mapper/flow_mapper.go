package mapper

import (
	"encoding/json"
	"time"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/model"

	"gorm.io/datatypes"
)

type FlowMapper struct{}

func NewFlowMapper() *FlowMapper {
	return &FlowMapper{}
}

func (m *FlowMapper) ToEntity(f *model.Flow) *entity.Flow {
	if f == nil {
		return nil
	}

	variables := map[string]interface{}{}
	if len(f.Variables) > 0 {
		// Corrupt JSON leaves the defaults empty rather than failing the read.
		_ = json.Unmarshal(f.Variables, &variables)
	}

	nodes := make([]*entity.Node, 0, len(f.Nodes))
	for i := range f.Nodes {
		nodes = append(nodes, m.NodeToEntity(&f.Nodes[i]))
	}

	return &entity.Flow{
		Id:          f.Id,
		Name:        f.Name,
		Description: f.Description,
		Status:      f.Status,
		StartNodeId: f.StartNodeId,
		Variables:   variables,
		Nodes:       nodes,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   timePtr(f.UpdatedAt),
	}
}

func (m *FlowMapper) ToModel(f *entity.Flow) *model.Flow {
	if f == nil {
		return nil
	}

	variables, _ := json.Marshal(f.Variables)

	nodes := make([]model.FlowNode, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		nodes = append(nodes, *m.NodeToModel(n))
	}

	return &model.Flow{
		Id:          f.Id,
		Name:        f.Name,
		Description: f.Description,
		Status:      f.Status,
		StartNodeId: f.StartNodeId,
		Variables:   datatypes.JSON(variables),
		Nodes:       nodes,
	}
}

func (m *FlowMapper) NodeToEntity(n *model.FlowNode) *entity.Node {
	if n == nil {
		return nil
	}
	return &entity.Node{
		Id:         n.NodeId,
		FlowId:     n.FlowId,
		Name:       n.Name,
		Type:       entity.NodeType(n.Type),
		Config:     []byte(n.Config),
		NextNodeId: n.NextNodeId,
		Position:   n.Position,
	}
}

func (m *FlowMapper) NodeToModel(n *entity.Node) *model.FlowNode {
	if n == nil {
		return nil
	}
	cfg := n.Config
	if len(cfg) == 0 {
		cfg = []byte("{}")
	}
	return &model.FlowNode{
		NodeId:     n.Id,
		FlowId:     n.FlowId,
		Name:       n.Name,
		Type:       string(n.Type),
		Config:     datatypes.JSON(cfg),
		NextNodeId: n.NextNodeId,
		Position:   n.Position,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
