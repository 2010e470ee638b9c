// FILE: internal/service/flow_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/bot"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/constant"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/dto"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/specification"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/unitofwork"
)

type IFlowService interface {
	Create(ctx context.Context, req *dto.CreateFlowRequest) (*dto.FlowResponse, error)
	Update(ctx context.Context, req *dto.UpdateFlowRequest) (*dto.FlowResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Show(ctx context.Context, id uuid.UUID) (*dto.FlowResponse, error)
	List(ctx context.Context) (*dto.FlowListResponse, error)
	Activate(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error

	// LoadActiveFlow implements the loader contract the bot engine consumes.
	LoadActiveFlow(ctx context.Context, flowId uuid.UUID) (*entity.Flow, error)
}

type flowService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewFlowService(uowFactory unitofwork.RepositoryFactory) IFlowService {
	return &flowService{uowFactory: uowFactory}
}

func (s *flowService) Create(ctx context.Context, req *dto.CreateFlowRequest) (*dto.FlowResponse, error) {
	flow := &entity.Flow{
		Id:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Status:      constant.FlowStatusDraft,
		StartNodeId: req.StartNodeId,
		Variables:   req.Variables,
		Nodes:       nodesFromPayload(uuid.Nil, req.Nodes),
		CreatedAt:   time.Now(),
	}
	for _, n := range flow.Nodes {
		n.FlowId = flow.Id
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FlowRepository().Create(ctx, flow); err != nil {
		return nil, err
	}

	res := toFlowResponse(flow, true)
	return &res, nil
}

func (s *flowService) Update(ctx context.Context, req *dto.UpdateFlowRequest) (*dto.FlowResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	flow, err := uow.FlowRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if flow == nil {
		return nil, errors.New("flow not found")
	}

	flow.Name = req.Name
	flow.Description = req.Description
	flow.StartNodeId = req.StartNodeId
	flow.Variables = req.Variables
	flow.Nodes = nodesFromPayload(flow.Id, req.Nodes)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.FlowRepository().Update(ctx, flow); err != nil {
		return nil, err
	}
	if err := uow.FlowRepository().ReplaceNodes(ctx, flow.Id, flow.Nodes); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	res := toFlowResponse(flow, true)
	return &res, nil
}

func (s *flowService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.FlowRepository().Delete(ctx, id)
}

func (s *flowService) Show(ctx context.Context, id uuid.UUID) (*dto.FlowResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	flow, err := uow.FlowRepository().FindOne(ctx, specification.ByID{ID: id}, specification.WithNodes{})
	if err != nil {
		return nil, err
	}
	if flow == nil {
		return nil, errors.New("flow not found")
	}

	res := toFlowResponse(flow, true)
	return &res, nil
}

func (s *flowService) List(ctx context.Context) (*dto.FlowListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	flows, err := uow.FlowRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}
	total, err := uow.FlowRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.FlowResponse, 0, len(flows))
	for _, f := range flows {
		out = append(out, toFlowResponse(f, false))
	}
	return &dto.FlowListResponse{Flows: out, Total: total}, nil
}

// Activate validates the flow graph before exposing it to new sessions: the
// start node must exist, every node config must decode for its type, and
// every referenced node id must resolve.
func (s *flowService) Activate(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	flow, err := uow.FlowRepository().FindOne(ctx, specification.ByID{ID: id}, specification.WithNodes{})
	if err != nil {
		return err
	}
	if flow == nil {
		return errors.New("flow not found")
	}

	if err := validateFlowGraph(flow); err != nil {
		return err
	}

	flow.Status = constant.FlowStatusActive
	return uow.FlowRepository().Update(ctx, flow)
}

func (s *flowService) Deactivate(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	flow, err := uow.FlowRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if flow == nil {
		return errors.New("flow not found")
	}

	flow.Status = constant.FlowStatusInactive
	return uow.FlowRepository().Update(ctx, flow)
}

func (s *flowService) LoadActiveFlow(ctx context.Context, flowId uuid.UUID) (*entity.Flow, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	flow, err := uow.FlowRepository().FindOne(ctx, specification.ByID{ID: flowId}, specification.WithNodes{})
	if err != nil {
		return nil, err
	}
	if flow == nil || flow.Status != constant.FlowStatusActive {
		return nil, fmt.Errorf("%w: %s", bot.ErrFlowNotFound, flowId)
	}
	return flow, nil
}

func validateFlowGraph(flow *entity.Flow) error {
	if flow.StartNodeId == "" {
		return errors.New("flow has no start node")
	}
	if flow.FindNode(flow.StartNodeId) == nil {
		return fmt.Errorf("start node %q does not exist", flow.StartNodeId)
	}

	for _, node := range flow.Nodes {
		if _, err := bot.ParseNodeConfig(node); err != nil {
			return err
		}
		for _, ref := range referencedNodeIds(node) {
			if flow.FindNode(ref) == nil {
				return fmt.Errorf("node %q references unknown node %q", node.Id, ref)
			}
		}
	}
	return nil
}

// referencedNodeIds collects every node id a node can route to.
func referencedNodeIds(node *entity.Node) []string {
	var refs []string
	if node.NextNodeId != "" {
		refs = append(refs, node.NextNodeId)
	}

	cfg, err := bot.ParseNodeConfig(node)
	if err != nil {
		return refs
	}

	switch c := cfg.(type) {
	case *bot.MessageConfig:
		if c.ResponseNodeId != "" {
			refs = append(refs, c.ResponseNodeId)
		}
	case *bot.MenuConfig:
		for _, opt := range c.Options {
			if opt.NextNodeId != "" {
				refs = append(refs, opt.NextNodeId)
			}
		}
	case *bot.ConditionConfig:
		for _, cond := range c.Conditions {
			if cond.TargetNodeId != "" {
				refs = append(refs, cond.TargetNodeId)
			}
			if cond.NextNodeId != "" {
				refs = append(refs, cond.NextNodeId)
			}
		}
		if c.DefaultNodeId != "" {
			refs = append(refs, c.DefaultNodeId)
		}
		if c.ElseNodeId != "" {
			refs = append(refs, c.ElseNodeId)
		}
	}
	return refs
}

func nodesFromPayload(flowId uuid.UUID, payload []dto.NodePayload) []*entity.Node {
	nodes := make([]*entity.Node, 0, len(payload))
	for i, p := range payload {
		position := p.Position
		if position == 0 {
			position = i
		}
		nodes = append(nodes, &entity.Node{
			Id:         p.Id,
			FlowId:     flowId,
			Name:       p.Name,
			Type:       entity.NodeType(p.Type),
			Config:     []byte(p.Config),
			NextNodeId: p.NextNodeId,
			Position:   position,
		})
	}
	return nodes
}

func toFlowResponse(flow *entity.Flow, withNodes bool) dto.FlowResponse {
	res := dto.FlowResponse{
		Id:          flow.Id,
		Name:        flow.Name,
		Description: flow.Description,
		Status:      flow.Status,
		StartNodeId: flow.StartNodeId,
		Variables:   flow.Variables,
		CreatedAt:   flow.CreatedAt,
		UpdatedAt:   flow.UpdatedAt,
	}
	if withNodes {
		res.Nodes = make([]dto.NodePayload, 0, len(flow.Nodes))
		for _, n := range flow.Nodes {
			res.Nodes = append(res.Nodes, dto.NodePayload{
				Id:         n.Id,
				Name:       n.Name,
				Type:       string(n.Type),
				Config:     json.RawMessage(n.Config),
				NextNodeId: n.NextNodeId,
				Position:   n.Position,
			})
		}
	}
	return res
}
