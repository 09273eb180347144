package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tier тарифный план установки
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// SubscriptionState локальное состояние подписки этой установки.
// Хранится в локальном durable-хранилище и является источником истины:
// удаленная запись может только поднять IsPro с false на true, но никогда
// не понижает его и не трогает счетчики.
type SubscriptionState struct {
	IsPro            bool   `json:"is_pro"`
	LeadCount        int    `json:"lead_count"`
	AICallsToday     int    `json:"ai_calls_today"`
	AICallsResetDate string `json:"ai_calls_reset_date"` // локальная дата в формате 2006-01-02
}

// Tier возвращает тарифный план, соответствующий состоянию.
func (s SubscriptionState) Tier() Tier {
	if s.IsPro {
		return TierPro
	}
	return TierFree
}

// UserSubscription запись о подписке аккаунта в удаленном хранилище user_subscriptions.
type UserSubscription struct {
	UserID     string    `json:"user_id" db:"user_id"`
	IsPro      bool      `json:"is_pro" db:"is_pro"`
	UpgradedAt time.Time `json:"upgraded_at" db:"upgraded_at"`
}

// Типы событий, публикуемых гейтом
const (
	EventEntitlementUpgraded = "entitlement_upgraded"
	EventLeadLimitReached    = "lead_limit_reached"
)

// EntitlementEvent событие изменения состояния подписки для публикации в Kafka.
type EntitlementEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	UserID     string    `json:"user_id,omitempty"`
	LeadCount  int       `json:"lead_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEntitlementEvent создает событие с новым ID и текущим временем.
func NewEntitlementEvent(eventType, userID string, leadCount int) *EntitlementEvent {
	return &EntitlementEvent{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		LeadCount:  leadCount,
		OccurredAt: time.Now().UTC(),
	}
}
