package bot

import (
	"encoding/json"
	"fmt"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
)

// NodeConfig is the decoded, type-specific payload of a flow node. One
// variant exists per node type so the executor dispatch is an exhaustive
// type switch.
type NodeConfig interface {
	nodeConfig()
}

// Button is one interactive reply option on a message or input prompt.
type Button struct {
	Id    string `json:"id"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// Key returns the identifier recorded as selected_button when the button is
// matched: the id when present, else the value, else the label.
func (b Button) Key() string {
	if b.Id != "" {
		return b.Id
	}
	if b.Value != "" {
		return b.Value
	}
	return b.Label
}

type MessageConfig struct {
	Message        string   `json:"message"`
	UseButtons     bool     `json:"useButtons"`
	Buttons        []Button `json:"buttons"`
	ResponseNodeId string   `json:"responseNodeId"`
}

func (MessageConfig) nodeConfig() {}

// MenuOption is one selectable entry of a menu node. Id and Value are
// alternative stable identifiers; NextNodeId is where the selection routes.
type MenuOption struct {
	Id         string `json:"id"`
	Value      string `json:"value"`
	Label      string `json:"label"`
	NextNodeId string `json:"nextNodeId"`
}

type MenuConfig struct {
	Message string       `json:"message"`
	Options []MenuOption `json:"options"`
}

func (MenuConfig) nodeConfig() {}

type InputValidation struct {
	Required     bool   `json:"required"`
	Pattern      string `json:"pattern"`
	ErrorMessage string `json:"errorMessage"`
}

type InputConfig struct {
	Message      string           `json:"message"`
	UseButtons   bool             `json:"useButtons"`
	Buttons      []Button         `json:"buttons"`
	VariableName string           `json:"variableName"`
	Validation   *InputValidation `json:"validation"`
}

func (InputConfig) nodeConfig() {}

// Condition is one ordered branch rule. When Variable is empty the global
// user_response is compared. TargetNodeId is preferred over NextNodeId.
type Condition struct {
	Variable     string      `json:"variable"`
	Operator     string      `json:"operator"`
	Value        interface{} `json:"value"`
	TargetNodeId string      `json:"targetNodeId"`
	NextNodeId   string      `json:"nextNodeId"`
}

type ConditionConfig struct {
	Conditions    []Condition `json:"conditions"`
	DefaultNodeId string      `json:"defaultNodeId"`
	ElseNodeId    string      `json:"elseNodeId"`
}

func (ConditionConfig) nodeConfig() {}

// APICallConfig is parsed but not executed; the node is a pass-through.
type APICallConfig struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}

func (APICallConfig) nodeConfig() {}

type TransferConfig struct {
	Message string `json:"message"`
}

func (TransferConfig) nodeConfig() {}

type EndConfig struct {
	Message string `json:"message"`
}

func (EndConfig) nodeConfig() {}

// ParseNodeConfig decodes a node's raw JSON config into its typed variant.
func ParseNodeConfig(node *entity.Node) (NodeConfig, error) {
	raw := node.Config
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	decode := func(dst interface{}) error {
		if err := json.Unmarshal(raw, dst); err != nil {
			return newConfigError(node.FlowId, node.Id, fmt.Sprintf("invalid %s config: %v", node.Type, err))
		}
		return nil
	}

	switch node.Type {
	case entity.NodeTypeMessage:
		var cfg MessageConfig
		if err := decode(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	case entity.NodeTypeMenu:
		var cfg MenuConfig
		if err := decode(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	case entity.NodeTypeInput:
		var cfg InputConfig
		if err := decode(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	case entity.NodeTypeCondition:
		var cfg ConditionConfig
		if err := decode(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	case entity.NodeTypeAPICall:
		var cfg APICallConfig
		if err := decode(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	case entity.NodeTypeTransfer:
		var cfg TransferConfig
		if err := decode(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	case entity.NodeTypeEnd:
		var cfg EndConfig
		if err := decode(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	default:
		return nil, newConfigError(node.FlowId, node.Id, fmt.Sprintf("unknown node type %q", node.Type))
	}
}
