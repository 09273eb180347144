package entitlement

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/internal/kafka"
	"github.com/salesflow-ai/entitlement-service/internal/metrics"
	"github.com/salesflow-ai/entitlement-service/internal/repository"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// dateFormat формат локальной даты для ключа ai_calls_reset_date
const dateFormat = "2006-01-02"

// Имена фич для метрик и ошибок квот
const (
	FeatureLeads = "leads"
	FeatureAI    = "ai"
)

// Limits квоты бесплатного тарифа.
type Limits struct {
	FreeLeadLimit     int
	FreeAICallsPerDay int
}

// Gate решает, разрешено ли действие (создание лида, AI-вызов) на текущем
// тарифе, и ведет счетчики, на которых основано это решение.
//
// Локальное хранилище - источник истины. Удаленная запись user_subscriptions
// может только поднять pro-статус (false -> true), никогда не понижает его
// и не перезаписывает локальные счетчики. Все удаленные вызовы best-effort:
// сетевые ошибки логируются и проглатываются. Распространяются только ошибки
// записи в локальное хранилище - они означают, что мутация не стала durable,
// и вызывающий должен считать состояние неизменным.
type Gate struct {
	mu     sync.Mutex
	state  domain.SubscriptionState
	loaded bool

	limits   Limits
	store    repository.StateStore
	remote   repository.SubscriptionRepository
	producer kafka.Producer
	metrics  metrics.EntitlementMetrics
	now      func() time.Time
	log      *logger.Logger
}

// Option настраивает необязательные зависимости гейта.
type Option func(*Gate)

// WithClock подменяет источник времени (для тестов rollover-логики).
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// WithProducer включает публикацию событий гейта в Kafka.
func WithProducer(p kafka.Producer) Option {
	return func(g *Gate) { g.producer = p }
}

// WithMetrics включает экспорт метрик гейта.
func WithMetrics(m metrics.EntitlementMetrics) Option {
	return func(g *Gate) { g.metrics = m }
}

// NewGate создает новый entitlement-гейт. remote может быть nil - тогда
// удаленная синхронизация полностью отключена.
func NewGate(limits Limits, store repository.StateStore, remote repository.SubscriptionRepository, log *logger.Logger, opts ...Option) *Gate {
	g := &Gate{
		limits:  limits,
		store:   store,
		remote:  remote,
		metrics: metrics.NewNopEntitlementMetrics(),
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load восстанавливает состояние из локального хранилища, выполняет дневной
// rollover AI-счетчика и best-effort синхронизацию с удаленной записью о
// подписке. Ошибки чтения трактуются как отсутствие записи (используются
// значения по умолчанию); распространяется только ошибка записи rollover.
func (g *Gate) Load(ctx context.Context) (domain.SubscriptionState, error) {
	g.mu.Lock()

	state := domain.SubscriptionState{
		IsPro:            g.readBool(ctx, repository.StateKeyIsPro),
		LeadCount:        g.readInt(ctx, repository.StateKeyLeadCount),
		AICallsToday:     g.readInt(ctx, repository.StateKeyAICallsToday),
		AICallsResetDate: g.readString(ctx, repository.StateKeyAICallsResetDate),
	}

	// Дневной rollover: сбрасываем AI-счетчик при первой загрузке нового дня
	today := g.now().Format(dateFormat)
	if state.AICallsResetDate != today {
		if err := g.store.Set(ctx, repository.StateKeyAICallsToday, "0"); err != nil {
			g.mu.Unlock()
			return domain.SubscriptionState{}, fmt.Errorf("entitlement: failed to persist AI quota reset: %w", err)
		}
		if err := g.store.Set(ctx, repository.StateKeyAICallsResetDate, today); err != nil {
			g.mu.Unlock()
			return domain.SubscriptionState{}, fmt.Errorf("entitlement: failed to persist AI reset date: %w", err)
		}
		state.AICallsToday = 0
		state.AICallsResetDate = today
		g.metrics.IncDailyRollover()
		g.log.Infow("Daily AI quota reset", "resetDate", today)
	}

	g.state = state
	g.loaded = true
	g.metrics.SetLeadCount(state.LeadCount)
	g.metrics.SetAICallsToday(state.AICallsToday)
	g.mu.Unlock()

	// Best-effort синхронизация с удаленной записью. Любая ошибка здесь
	// не блокирует загрузку: локальное состояние остается авторитетным.
	g.syncRemote(ctx)

	return g.State(), nil
}

// syncRemote подтягивает pro-статус из удаленного хранилища, если известен
// user_id. Работает строго в одну сторону: только false -> true.
func (g *Gate) syncRemote(ctx context.Context) {
	if g.remote == nil {
		return
	}

	userID := g.readString(ctx, repository.StateKeyUserID)
	if userID == "" {
		return
	}

	sub, err := g.remote.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			g.log.Warnw("Remote subscription lookup failed, keeping local state", "error", err, "userID", userID)
		}
		return
	}

	if !sub.IsPro {
		// Удаленная запись никогда не понижает локального pro-пользователя
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.IsPro {
		return
	}
	if err := g.store.Set(ctx, repository.StateKeyIsPro, "true"); err != nil {
		// Fail-open: in-memory статус все равно поднимаем, durable-копия
		// догонит при следующем апгрейде или синхронизации
		g.log.Errorw("Failed to persist remotely granted pro status", "error", err, "userID", userID)
	}
	g.state.IsPro = true
	g.log.Infow("Pro status granted from remote subscription record", "userID", userID)
}

// State возвращает копию текущего состояния.
func (g *Gate) State() domain.SubscriptionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mustLoaded()
	return g.state
}

// Limits возвращает действующие квоты бесплатного тарифа.
func (g *Gate) Limits() Limits {
	return g.limits
}

// CanAddLead сообщает, разрешено ли создание нового лида. Чистая проверка
// без побочных эффектов на состояние.
func (g *Gate) CanAddLead() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mustLoaded()

	allowed := g.state.IsPro || g.state.LeadCount < g.limits.FreeLeadLimit
	if allowed {
		g.metrics.IncCheckAllowed(FeatureLeads)
	} else {
		g.metrics.IncCheckDenied(FeatureLeads)
	}
	return allowed
}

// CanUseAI сообщает, разрешен ли AI-вызов. На проде FreeAICallsPerDay равен
// нулю, т.е. бесплатным пользователям AI недоступен вовсе.
func (g *Gate) CanUseAI() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mustLoaded()

	allowed := g.state.IsPro || g.state.AICallsToday < g.limits.FreeAICallsPerDay
	if allowed {
		g.metrics.IncCheckAllowed(FeatureAI)
	} else {
		g.metrics.IncCheckDenied(FeatureAI)
	}
	return allowed
}

// IncrementLeadCount увеличивает счетчик лидов на 1 и сохраняет его.
// Лимит здесь не проверяется: вызывающий обязан сначала спросить CanAddLead
// и свернуть на paywall при отказе. Без этой проверки счетчик может уйти
// выше лимита - верхней отсечки нет намеренно.
func (g *Gate) IncrementLeadCount(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mustLoaded()

	newCount := g.state.LeadCount + 1
	if err := g.store.Set(ctx, repository.StateKeyLeadCount, strconv.Itoa(newCount)); err != nil {
		return fmt.Errorf("entitlement: failed to persist lead count: %w", err)
	}
	g.state.LeadCount = newCount
	g.metrics.SetLeadCount(newCount)
	return nil
}

// IncrementAICalls увеличивает дневной счетчик AI-вызовов на 1 и сохраняет его.
// Контракт тот же, что у IncrementLeadCount: без самопроверки лимита.
func (g *Gate) IncrementAICalls(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mustLoaded()

	newCount := g.state.AICallsToday + 1
	if err := g.store.Set(ctx, repository.StateKeyAICallsToday, strconv.Itoa(newCount)); err != nil {
		return fmt.Errorf("entitlement: failed to persist AI call count: %w", err)
	}
	g.state.AICallsToday = newCount
	g.metrics.SetAICallsToday(newCount)
	return nil
}

// UpgradeToPro переводит установку на pro-тариф. Локальный коммит
// оптимистичный и авторитетный: ошибка удаленного upsert не откатывает
// выданный локально статус. Из pro-состояния выхода нет.
func (g *Gate) UpgradeToPro(ctx context.Context) error {
	g.mu.Lock()

	g.mustLoadedLocked()
	if err := g.store.Set(ctx, repository.StateKeyIsPro, "true"); err != nil {
		g.mu.Unlock()
		return fmt.Errorf("entitlement: failed to persist pro status: %w", err)
	}
	alreadyPro := g.state.IsPro
	g.state.IsPro = true
	leadCount := g.state.LeadCount
	g.mu.Unlock()

	if !alreadyPro {
		g.metrics.IncUpgrade()
	}
	g.log.Infow("Installation upgraded to pro", "alreadyPro", alreadyPro)

	userID := g.readString(ctx, repository.StateKeyUserID)

	// Best-effort запись в удаленное хранилище; отказ не откатывает апгрейд
	if g.remote != nil && userID != "" {
		sub := &domain.UserSubscription{
			UserID:     userID,
			IsPro:      true,
			UpgradedAt: g.now().UTC(),
		}
		if err := g.remote.Upsert(ctx, sub); err != nil {
			g.log.Warnw("Remote subscription upsert failed, local grant stands", "error", err, "userID", userID)
		}
	}

	g.publishEvent(ctx, domain.NewEntitlementEvent(domain.EventEntitlementUpgraded, userID, leadCount))
	return nil
}

// NotifyLeadLimitReached публикует событие достижения лимита лидов.
// Вызывается сервисом лидов при отказе CanAddLead.
func (g *Gate) NotifyLeadLimitReached(ctx context.Context) {
	state := g.State()
	userID := g.readString(ctx, repository.StateKeyUserID)
	g.publishEvent(ctx, domain.NewEntitlementEvent(domain.EventLeadLimitReached, userID, state.LeadCount))
}

func (g *Gate) publishEvent(ctx context.Context, event *domain.EntitlementEvent) {
	if g.producer == nil {
		return
	}
	if err := g.producer.PublishEntitlementEvent(ctx, event); err != nil {
		g.log.Warnw("Failed to publish entitlement event", "error", err, "eventType", event.Type)
	}
}

// mustLoaded проверяет, что гейт загружен. Использование гейта до Load -
// ошибка программирования, а не условие среды, поэтому паника.
func (g *Gate) mustLoaded() {
	if !g.loaded {
		panic("entitlement: gate must be loaded before use")
	}
}

func (g *Gate) mustLoadedLocked() {
	if !g.loaded {
		g.mu.Unlock()
		panic("entitlement: gate must be loaded before use")
	}
}

// readString возвращает значение ключа или пустую строку при отсутствии
// или ошибке чтения (ошибка чтения трактуется как "записи нет").
func (g *Gate) readString(ctx context.Context, key string) string {
	value, err := g.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			g.log.Warnw("State read failed, using default", "error", err, "key", key)
		}
		return ""
	}
	return value
}

func (g *Gate) readBool(ctx context.Context, key string) bool {
	return g.readString(ctx, key) == "true"
}

func (g *Gate) readInt(ctx context.Context, key string) int {
	value := g.readString(ctx, key)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		g.log.Warnw("Corrupt counter value in state store, using 0", "key", key, "value", value)
		return 0
	}
	return n
}
