package leadgen

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

const (
	apiPrefix      = "/api/lead-generation"
	defaultTimeout = 15 * time.Second
)

// Client клиент backend-сервиса лидогенерации.
// Все вызовы авторизуются bearer-токеном и ходят под префиксом /api/lead-generation.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *logger.Logger
}

// NewClient создает клиент лидогенерации.
func NewClient(baseURL, token string, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
}

// apiError форма ошибки backend-а: текст лежит либо в detail, либо в message.
type apiError struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("leadgen: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("leadgen: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewExternalServiceError("lead-generation", "request failed", 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewExternalServiceError("lead-generation", "read response", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if json.Unmarshal(data, &apiErr) == nil {
			if apiErr.Detail != "" {
				msg = apiErr.Detail
			} else if apiErr.Message != "" {
				msg = apiErr.Message
			}
		}
		c.log.Warnw("lead-generation API error", "path", path, "status", resp.StatusCode, "message", msg)
		return domain.NewExternalServiceError("lead-generation", fmt.Sprintf("%s %s: %s", method, path, msg), resp.StatusCode, nil)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return domain.NewExternalServiceError("lead-generation", "decode response", resp.StatusCode, err)
		}
	}
	return nil
}

// VerifyLead запускает верификацию одного лида.
func (c *Client) VerifyLead(ctx context.Context, req VerificationRequest) (*VerificationResult, error) {
	var out VerificationResult
	if err := c.do(ctx, http.MethodPost, "/verify", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyBatch запускает верификацию пачки лидов.
func (c *Client) VerifyBatch(ctx context.Context, reqs []VerificationRequest) ([]VerificationResult, error) {
	var out []VerificationResult
	body := map[string]any{"leads": reqs}
	if err := c.do(ctx, http.MethodPost, "/verify/batch", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnrichLead обогащает данные лида внешними источниками.
func (c *Client) EnrichLead(ctx context.Context, req EnrichmentRequest) (*EnrichmentResult, error) {
	var out EnrichmentResult
	if err := c.do(ctx, http.MethodPost, "/enrich", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeIntent считает I-Score лида по истории переписки и активности.
func (c *Client) AnalyzeIntent(ctx context.Context, leadID string, messages []IntentMessage) (*IntentResult, error) {
	var out IntentResult
	body := map[string]any{"lead_id": leadID, "messages": messages}
	if err := c.do(ctx, http.MethodPost, "/intent/analyze", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeMessageIntent анализирует intent одного сообщения в live-чате.
func (c *Client) AnalyzeMessageIntent(ctx context.Context, leadID, message string) (*MessageIntentResult, error) {
	var out MessageIntentResult
	body := map[string]any{"lead_id": leadID, "message": message}
	if err := c.do(ctx, http.MethodPost, "/intent/message", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLead заводит лида в пайплайне лидогенерации.
func (c *Client) CreateLead(ctx context.Context, req CreateLeadRequest) (*CreateLeadResponse, error) {
	var out CreateLeadResponse
	if err := c.do(ctx, http.MethodPost, "/leads", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignLead назначает лида менеджеру.
func (c *Client) AssignLead(ctx context.Context, req AssignLeadRequest) (*AssignmentResult, error) {
	var out AssignmentResult
	if err := c.do(ctx, http.MethodPost, "/assign", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOutreach ставит исходящее сообщение лиду в очередь отправки.
func (c *Client) CreateOutreach(ctx context.Context, req CreateOutreachRequest) (*OutreachResult, error) {
	var out OutreachResult
	if err := c.do(ctx, http.MethodPost, "/outreach", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PipelineStats возвращает агрегированную статистику пайплайна.
func (c *Client) PipelineStats(ctx context.Context) (*PipelineStats, error) {
	var out PipelineStats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
