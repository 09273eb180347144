package copilot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

const requestTimeout = 30 * time.Second

// Message одно сообщение истории диалога.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest запрос к AI-ассистенту.
type ChatRequest struct {
	Message   string
	History   []Message
	Vertical  string
	Situation string
}

// Client клиент AI-ассистента. Backend исторически выставлял чат под
// несколькими путями с разными формами тела, поэтому клиент пробует их
// по порядку и берет первый успешный ответ.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient создает клиент AI-ассистента.
func NewClient(baseURL string, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

// endpoint один вариант чат-эндпоинта с его формой тела.
type endpoint struct {
	path string
	body func(req ChatRequest) any
}

func (c *Client) endpoints() []endpoint {
	return []endpoint{
		{
			path: "/api/chat/completion",
			body: func(req ChatRequest) any {
				history := req.History
				if history == nil {
					history = []Message{}
				}
				return map[string]any{"message": req.Message, "history": history}
			},
		},
		{
			path: "/api/ai/chat",
			body: func(req ChatRequest) any {
				vertical := req.Vertical
				if vertical == "" {
					vertical = "mlm_sales"
				}
				return map[string]any{"message": req.Message, "context": vertical}
			},
		},
		{
			path: "/api/intelligent-chat/message",
			body: func(req ChatRequest) any {
				return map[string]any{"message": req.Message, "lead_id": nil, "context": req.Situation}
			},
		},
	}
}

// Chat отправляет сообщение ассистенту и возвращает текст ответа.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	var lastErr error
	for _, ep := range c.endpoints() {
		reply, err := c.post(ctx, ep.path, ep.body(req))
		if err == nil {
			return reply, nil
		}
		c.log.Debugw("copilot endpoint failed, trying next", "path", ep.path, "error", err)
		lastErr = err
	}
	return "", domain.NewExternalServiceError("copilot", "all chat endpoints failed", 0, lastErr)
}

func (c *Client) post(ctx context.Context, path string, body any) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("copilot: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("copilot: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	reply := extractReply(data)
	if reply == "" {
		return "", fmt.Errorf("empty reply")
	}
	return reply, nil
}

// ObjectionReply вариант ответа на возражение от knowledge API.
type ObjectionReply struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Tone string `json:"tone"`
}

// ObjectionAdvice ответ knowledge API на возражение.
type ObjectionAdvice struct {
	Objection string           `json:"objection"`
	Responses []ObjectionReply `json:"responses"`
}

// ObjectionResponse спрашивает knowledge API, как отработать возражение.
// Эндпоинт необязателен на backend-е: любая ошибка возвращается как
// ExternalServiceError, вызывающий падает на локальную библиотеку.
func (c *Client) ObjectionResponse(ctx context.Context, objection, company, situation string) (*ObjectionAdvice, error) {
	body := map[string]any{"objection": objection}
	if company != "" {
		body["company"] = company
	}
	if situation != "" {
		body["situation"] = situation
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("copilot: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/knowledge/objection-response", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("copilot: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewExternalServiceError("copilot", "objection request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewExternalServiceError("copilot", fmt.Sprintf("objection endpoint: status %d", resp.StatusCode), resp.StatusCode, nil)
	}

	var advice ObjectionAdvice
	if err := json.NewDecoder(resp.Body).Decode(&advice); err != nil {
		return nil, domain.NewExternalServiceError("copilot", "decode objection response", resp.StatusCode, err)
	}
	return &advice, nil
}

// extractReply достает текст ответа из тела. Разные эндпоинты кладут его
// в разные поля, берем первое непустое.
func extractReply(data []byte) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	for _, field := range []string{"response", "reply", "message", "content", "answer"} {
		raw, ok := body[field]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}
