package whatsapp

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/config"
)

// maxReplyButtons is the Cloud API limit for interactive reply buttons.
// Prompts with more options are sent as a list message instead.
const maxReplyButtons = 3

// Client talks to the Meta WhatsApp Cloud API for one business phone number.
type Client struct {
	http          *resty.Client
	phoneNumberID string
}

func NewClient(cfg config.WhatsAppConfig) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetAuthToken(cfg.AccessToken).
			SetTimeout(15 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(200 * time.Millisecond),
		phoneNumberID: cfg.PhoneNumberID,
	}
}

// Option is one selectable entry of an interactive message.
type Option struct {
	Id    string
	Label string
}

type sendResponse struct {
	Messages []struct {
		Id string `json:"id"`
	} `json:"messages"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendText delivers a plain text message and returns the provider message id.
func (c *Client) SendText(ctx context.Context, phone, text string) (string, error) {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                phone,
		"type":              "text",
		"text":              map[string]interface{}{"body": text},
	}
	return c.send(ctx, payload)
}

// SendChoice delivers an interactive prompt: reply buttons for up to three
// options, a list message beyond that.
func (c *Client) SendChoice(ctx context.Context, phone, title, body string, options []Option) (string, error) {
	var interactive map[string]interface{}
	if len(options) <= maxReplyButtons {
		interactive = buttonsPayload(body, options)
	} else {
		interactive = listPayload(title, body, options)
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                phone,
		"type":              "interactive",
		"interactive":       interactive,
	}
	return c.send(ctx, payload)
}

func (c *Client) send(ctx context.Context, payload map[string]interface{}) (string, error) {
	var result sendResponse
	var errBody apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		SetError(&errBody).
		Post(fmt.Sprintf("/%s/messages", c.phoneNumberID))
	if err != nil {
		return "", fmt.Errorf("whatsapp send: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("whatsapp send: status %d: %s", resp.StatusCode(), errBody.Error.Message)
	}
	if len(result.Messages) == 0 {
		return "", fmt.Errorf("whatsapp send: response carried no message id")
	}
	return result.Messages[0].Id, nil
}

func buttonsPayload(body string, options []Option) map[string]interface{} {
	buttons := make([]map[string]interface{}, 0, len(options))
	for _, opt := range options {
		buttons = append(buttons, map[string]interface{}{
			"type": "reply",
			"reply": map[string]interface{}{
				"id":    opt.Id,
				"title": truncate(opt.Label, 20),
			},
		})
	}
	return map[string]interface{}{
		"type": "button",
		"body": map[string]interface{}{"text": body},
		"action": map[string]interface{}{
			"buttons": buttons,
		},
	}
}

func listPayload(title, body string, options []Option) map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(options))
	for _, opt := range options {
		rows = append(rows, map[string]interface{}{
			"id":    opt.Id,
			"title": truncate(opt.Label, 24),
		})
	}
	if title == "" {
		title = "Opciones"
	}
	return map[string]interface{}{
		"type": "list",
		"body": map[string]interface{}{"text": body},
		"action": map[string]interface{}{
			"button": truncate(title, 20),
			"sections": []map[string]interface{}{
				{"title": truncate(title, 24), "rows": rows},
			},
		},
	}
}

// truncate enforces the Cloud API title length limits, which count runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
