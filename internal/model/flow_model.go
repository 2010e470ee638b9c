package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Flow struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string         `gorm:"type:varchar(200);not null"`
	Description string         `gorm:"type:text"`
	Status      string         `gorm:"type:varchar(20);not null;default:'draft';index"`
	StartNodeId string         `gorm:"type:varchar(100)"`
	Variables   datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Nodes       []FlowNode     `gorm:"foreignKey:FlowId;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Flow) TableName() string {
	return "flows"
}

type FlowNode struct {
	Id         uint64         `gorm:"primaryKey;autoIncrement"`
	NodeId     string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_flow_nodes_flow_node"`
	FlowId     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_flow_nodes_flow_node;index"`
	Name       string         `gorm:"type:varchar(200)"`
	Type       string         `gorm:"type:varchar(30);not null"`
	Config     datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	NextNodeId string         `gorm:"type:varchar(100)"`
	Position   int            `gorm:"default:0"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (FlowNode) TableName() string {
	return "flow_nodes"
}
