package entitlement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/internal/repository"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testToday     = time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	testYesterday = testToday.AddDate(0, 0, -1)
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestGate(t *testing.T, limits Limits, store *repository.InMemoryStateStore, remote repository.SubscriptionRepository, opts ...Option) *Gate {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock(testToday))}, opts...)
	return NewGate(limits, store, remote, logger.NewNop(), opts...)
}

func TestLoadFreshInstall(t *testing.T) {
	store := repository.NewInMemoryStateStore()
	gate := newTestGate(t, Limits{FreeLeadLimit: 5}, store, nil)

	state, err := gate.Load(context.Background())
	require.NoError(t, err)

	assert.False(t, state.IsPro)
	assert.Equal(t, 0, state.LeadCount)
	assert.Equal(t, 0, state.AICallsToday)
	assert.Equal(t, testToday.Format("2006-01-02"), state.AICallsResetDate)
	assert.True(t, gate.CanAddLead())
}

func TestFreshInstallScenario(t *testing.T) {
	// Свежая установка с лимитом 5: пять инкрементов проходят,
	// шестая проверка отказывает
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	gate := newTestGate(t, Limits{FreeLeadLimit: 5}, store, nil)

	_, err := gate.Load(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.True(t, gate.CanAddLead(), "lead %d should be allowed", i+1)
		require.NoError(t, gate.IncrementLeadCount(ctx))
	}

	assert.Equal(t, 5, gate.State().LeadCount)
	assert.False(t, gate.CanAddLead())
}

func TestFreeTierBoundary(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	require.NoError(t, store.Set(ctx, repository.StateKeyLeadCount, "4"))

	gate := newTestGate(t, Limits{FreeLeadLimit: 5}, store, nil)
	_, err := gate.Load(ctx)
	require.NoError(t, err)

	// leadCount = limit-1: разрешено
	assert.True(t, gate.CanAddLead())

	require.NoError(t, gate.IncrementLeadCount(ctx))

	// leadCount = limit: отказ
	assert.Equal(t, 5, gate.State().LeadCount)
	assert.False(t, gate.CanAddLead())
}

func TestProBypassesAllQuotas(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	require.NoError(t, store.Set(ctx, repository.StateKeyIsPro, "true"))
	require.NoError(t, store.Set(ctx, repository.StateKeyLeadCount, "9999"))
	require.NoError(t, store.Set(ctx, repository.StateKeyAICallsToday, "9999"))
	require.NoError(t, store.Set(ctx, repository.StateKeyAICallsResetDate, testToday.Format("2006-01-02")))

	gate := newTestGate(t, Limits{FreeLeadLimit: 5, FreeAICallsPerDay: 0}, store, nil)
	_, err := gate.Load(ctx)
	require.NoError(t, err)

	assert.True(t, gate.CanAddLead())
	assert.True(t, gate.CanUseAI())
}

func TestAIQuotaDefaultZero(t *testing.T) {
	// С продакшен-дефолтом FreeAICallsPerDay=0 бесплатному пользователю
	// AI недоступен при любом значении счетчика
	ctx := context.Background()
	for _, calls := range []string{"0", "3", "100"} {
		store := repository.NewInMemoryStateStore()
		require.NoError(t, store.Set(ctx, repository.StateKeyAICallsToday, calls))
		require.NoError(t, store.Set(ctx, repository.StateKeyAICallsResetDate, testToday.Format("2006-01-02")))

		gate := newTestGate(t, Limits{FreeLeadLimit: 5, FreeAICallsPerDay: 0}, store, nil)
		_, err := gate.Load(ctx)
		require.NoError(t, err)

		assert.False(t, gate.CanUseAI(), "calls=%s", calls)
	}
}

func TestAIQuotaTrialConfiguration(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	require.NoError(t, store.Set(ctx, repository.StateKeyAICallsResetDate, testToday.Format("2006-01-02")))

	gate := newTestGate(t, Limits{FreeLeadLimit: 5, FreeAICallsPerDay: 2}, store, nil)
	_, err := gate.Load(ctx)
	require.NoError(t, err)

	assert.True(t, gate.CanUseAI())
	require.NoError(t, gate.IncrementAICalls(ctx))
	assert.True(t, gate.CanUseAI())
	require.NoError(t, gate.IncrementAICalls(ctx))
	assert.False(t, gate.CanUseAI())
}

func TestDailyRollover(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	require.NoError(t, store.Set(ctx, repository.StateKeyAICallsToday, "5"))
	require.NoError(t, store.Set(ctx, repository.StateKeyAICallsResetDate, testYesterday.Format("2006-01-02")))

	gate := newTestGate(t, Limits{FreeLeadLimit: 5}, store, nil)
	state, err := gate.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, state.AICallsToday)
	assert.Equal(t, testToday.Format("2006-01-02"), state.AICallsResetDate)

	// Durable-копия тоже сброшена
	stored, err := store.Get(ctx, repository.StateKeyAICallsToday)
	require.NoError(t, err)
	assert.Equal(t, "0", stored)
}

func TestRolloverIdempotentSameDay(t *testing.T) {
	// Повторный Load в тот же день не трогает счетчик
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	gate := newTestGate(t, Limits{FreeLeadLimit: 5, FreeAICallsPerDay: 10}, store, nil)

	_, err := gate.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, gate.IncrementAICalls(ctx))
	require.NoError(t, gate.IncrementAICalls(ctx))

	state, err := gate.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, state.AICallsToday)
}

func TestUpgradeSurvivesRemoteFailure(t *testing.T) {
	// Локальный апгрейд авторитетен: отказ удаленного upsert не откатывает его
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	require.NoError(t, store.Set(ctx, repository.StateKeyUserID, "user-42"))

	remote := repository.NewInMemorySubscriptionRepository()
	remote.FailUpserts = errors.New("network unreachable")

	gate := newTestGate(t, Limits{FreeLeadLimit: 5}, store, remote)
	_, err := gate.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, gate.UpgradeToPro(ctx))
	assert.True(t, gate.State().IsPro)

	// Перезагрузка читает сохраненный локальный флаг, а не откат
	gate2 := newTestGate(t, Limits{FreeLeadLimit: 5}, store, remote)
	state, err := gate2.Load(ctx)
	require.NoError(t, err)
	assert.True(t, state.IsPro)
}

func TestRemoteSyncUpgradesLocalFree(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	require.NoError(t, store.Set(ctx, repository.StateKeyUserID, "user-42"))

	remote := repository.NewInMemorySubscriptionRepository()
	require.NoError(t, remote.Upsert(ctx, &domain.UserSubscription{UserID: "user-42", IsPro: true, UpgradedAt: testToday}))

	gate := newTestGate(t, Limits{FreeLeadLimit: 5}, store, remote)
	state, err := gate.Load(ctx)
	require.NoError(t, err)

	assert.True(t, state.IsPro)

	// Флаг сохранен локально
	stored, err := store.Get(ctx, repository.StateKeyIsPro)
	require.NoError(t, err)
	assert.Equal(t, "true", stored)
}

func TestRemoteNeverDowngrades(t *testing.T) {
	ctx := context.Background()

	// Удаленная запись с is_pro=false
	store := repository.NewInMemoryStateStore()
	require.NoError(t, store.Set(ctx, repository.StateKeyIsPro, "true"))
	require.NoError(t, store.Set(ctx, repository.StateKeyUserID, "user-42"))

	remote := repository.NewInMemorySubscriptionRepository()
	require.NoError(t, remote.Upsert(ctx, &domain.UserSubscription{UserID: "user-42", IsPro: false}))

	gate := newTestGate(t, Limits{FreeLeadLimit: 5}, store, remote)
	state, err := gate.Load(ctx)
	require.NoError(t, err)
	assert.True(t, state.IsPro)

	// Удаленной записи нет вовсе
	store2 := repository.NewInMemoryStateStore()
	require.NoError(t, store2.Set(ctx, repository.StateKeyIsPro, "true"))
	require.NoError(t, store2.Set(ctx, repository.StateKeyUserID, "user-7"))

	gate2 := newTestGate(t, Limits{FreeLeadLimit: 5}, store2, repository.NewInMemorySubscriptionRepository())
	state2, err := gate2.Load(ctx)
	require.NoError(t, err)
	assert.True(t, state2.IsPro)
}

func TestRemoteLookupFailureIgnored(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	require.NoError(t, store.Set(ctx, repository.StateKeyUserID, "user-42"))

	remote := repository.NewInMemorySubscriptionRepository()
	remote.FailLookups = errors.New("connection refused")

	gate := newTestGate(t, Limits{FreeLeadLimit: 5}, store, remote)
	state, err := gate.Load(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsPro)
}

func TestIncrementWithoutPrecheckExceedsLimit(t *testing.T) {
	// Инкремент сам лимит не проверяет: недисциплинированный вызывающий
	// может увести счетчик выше лимита без ошибки
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	gate := newTestGate(t, Limits{FreeLeadLimit: 2}, store, nil)

	_, err := gate.Load(ctx)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, gate.IncrementLeadCount(ctx))
	}
	assert.Equal(t, 4, gate.State().LeadCount)
	assert.False(t, gate.CanAddLead())
}

func TestIncrementPersistFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	gate := newTestGate(t, Limits{FreeLeadLimit: 5}, store, nil)

	_, err := gate.Load(ctx)
	require.NoError(t, err)

	store.FailWrites = errors.New("disk full")
	err = gate.IncrementLeadCount(ctx)
	require.Error(t, err)
	assert.Equal(t, 0, gate.State().LeadCount)

	store.FailWrites = nil
	require.NoError(t, gate.IncrementLeadCount(ctx))
	assert.Equal(t, 1, gate.State().LeadCount)
}

func TestConcurrentIncrementsLoseNoUpdates(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	gate := newTestGate(t, Limits{FreeLeadLimit: 1000}, store, nil)

	_, err := gate.Load(ctx)
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = gate.IncrementLeadCount(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, gate.State().LeadCount)

	stored, err := store.Get(ctx, repository.StateKeyLeadCount)
	require.NoError(t, err)
	assert.Equal(t, "50", stored)
}

func TestUseBeforeLoadPanics(t *testing.T) {
	gate := newTestGate(t, Limits{FreeLeadLimit: 5}, repository.NewInMemoryStateStore(), nil)

	assert.Panics(t, func() { gate.CanAddLead() })
	assert.Panics(t, func() { gate.State() })
}

func TestCorruptCounterTreatedAsZero(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStateStore()
	require.NoError(t, store.Set(ctx, repository.StateKeyLeadCount, "not-a-number"))

	gate := newTestGate(t, Limits{FreeLeadLimit: 5}, store, nil)
	state, err := gate.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, state.LeadCount)
}
