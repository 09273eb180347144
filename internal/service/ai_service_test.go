package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesflow-ai/entitlement-service/internal/copilot"
	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/internal/entitlement"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

type fakeChatClient struct {
	reply string
	err   error
	calls int
}

func (f *fakeChatClient) Chat(ctx context.Context, req copilot.ChatRequest) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestChatConsumesQuota(t *testing.T) {
	gate, _ := newLoadedGate(t, entitlement.Limits{FreeAICallsPerDay: 2})
	client := &fakeChatClient{reply: "Antwort"}
	svc := NewAIService(client, gate, logger.NewNop())

	reply, err := svc.Chat(context.Background(), copilot.ChatRequest{Message: "Hilfe"})
	require.NoError(t, err)
	assert.Equal(t, "Antwort", reply)
	assert.Equal(t, 1, gate.State().AICallsToday)
}

func TestChatBlockedByDefaultFreeQuota(t *testing.T) {
	// Бесплатный тариф по умолчанию вообще не включает AI-вызовы.
	gate, _ := newLoadedGate(t, entitlement.Limits{FreeAICallsPerDay: 0})
	client := &fakeChatClient{reply: "Antwort"}
	svc := NewAIService(client, gate, logger.NewNop())

	_, err := svc.Chat(context.Background(), copilot.ChatRequest{Message: "Hilfe"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAIQuotaExceeded)
	assert.Equal(t, 0, client.calls)
}

func TestChatQuotaExhaustedMidDay(t *testing.T) {
	gate, _ := newLoadedGate(t, entitlement.Limits{FreeAICallsPerDay: 1})
	client := &fakeChatClient{reply: "Antwort"}
	svc := NewAIService(client, gate, logger.NewNop())

	_, err := svc.Chat(context.Background(), copilot.ChatRequest{Message: "eins"})
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), copilot.ChatRequest{Message: "zwei"})
	assert.ErrorIs(t, err, domain.ErrAIQuotaExceeded)
}

func TestChatProBypassesQuota(t *testing.T) {
	gate, _ := newLoadedGate(t, entitlement.Limits{FreeAICallsPerDay: 0})
	require.NoError(t, gate.UpgradeToPro(context.Background()))

	client := &fakeChatClient{reply: "Antwort"}
	svc := NewAIService(client, gate, logger.NewNop())

	for i := 0; i < 5; i++ {
		_, err := svc.Chat(context.Background(), copilot.ChatRequest{Message: "Hilfe"})
		require.NoError(t, err)
	}
	assert.Equal(t, 5, client.calls)
}

func TestChatFailureDoesNotConsumeQuota(t *testing.T) {
	gate, _ := newLoadedGate(t, entitlement.Limits{FreeAICallsPerDay: 3})
	client := &fakeChatClient{err: errors.New("upstream down")}
	svc := NewAIService(client, gate, logger.NewNop())

	_, err := svc.Chat(context.Background(), copilot.ChatRequest{Message: "Hilfe"})
	require.Error(t, err)
	assert.Equal(t, 0, gate.State().AICallsToday)
}
