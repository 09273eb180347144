package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EntitlementMetrics интерфейс для метрик entitlement-гейта
type EntitlementMetrics interface {
	IncCheckAllowed(feature string)
	IncCheckDenied(feature string)
	IncUpgrade()
	IncDailyRollover()
	SetLeadCount(count int)
	SetAICallsToday(count int)
}

type entitlementMetrics struct {
	checksTotal  *prometheus.CounterVec
	upgrades     prometheus.Counter
	rollovers    prometheus.Counter
	leadCount    prometheus.Gauge
	aiCallsToday prometheus.Gauge
}

// NewEntitlementMetrics создает новые метрики entitlement-гейта
func NewEntitlementMetrics(registry *prometheus.Registry) EntitlementMetrics {
	checksTotal := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_checks_total",
			Help: "The total number of entitlement checks by feature and result",
		},
		[]string{"feature", "result"},
	)

	upgrades := promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "entitlement_upgrades_total",
			Help: "The total number of upgrades to the pro tier",
		},
	)

	rollovers := promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "entitlement_daily_rollovers_total",
			Help: "The total number of daily AI quota resets",
		},
	)

	leadCount := promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "entitlement_lead_count",
			Help: "Cumulative lead count of this installation",
		},
	)

	aiCallsToday := promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "entitlement_ai_calls_today",
			Help: "AI calls performed on the current calendar day",
		},
	)

	return &entitlementMetrics{
		checksTotal:  checksTotal,
		upgrades:     upgrades,
		rollovers:    rollovers,
		leadCount:    leadCount,
		aiCallsToday: aiCallsToday,
	}
}

// IncCheckAllowed увеличивает счетчик разрешенных проверок
func (m *entitlementMetrics) IncCheckAllowed(feature string) {
	m.checksTotal.WithLabelValues(feature, "allowed").Inc()
}

// IncCheckDenied увеличивает счетчик отклоненных проверок
func (m *entitlementMetrics) IncCheckDenied(feature string) {
	m.checksTotal.WithLabelValues(feature, "denied").Inc()
}

// IncUpgrade увеличивает счетчик апгрейдов
func (m *entitlementMetrics) IncUpgrade() {
	m.upgrades.Inc()
}

// IncDailyRollover увеличивает счетчик дневных сбросов AI-квоты
func (m *entitlementMetrics) IncDailyRollover() {
	m.rollovers.Inc()
}

// SetLeadCount записывает текущее значение счетчика лидов
func (m *entitlementMetrics) SetLeadCount(count int) {
	m.leadCount.Set(float64(count))
}

// SetAICallsToday записывает текущее значение дневного счетчика AI-вызовов
func (m *entitlementMetrics) SetAICallsToday(count int) {
	m.aiCallsToday.Set(float64(count))
}

// nopMetrics реализация без экспорта (когда Prometheus не сконфигурирован)
type nopMetrics struct{}

// NewNopEntitlementMetrics возвращает метрики, которые ничего не записывают.
func NewNopEntitlementMetrics() EntitlementMetrics {
	return nopMetrics{}
}

func (nopMetrics) IncCheckAllowed(string) {}
func (nopMetrics) IncCheckDenied(string)  {}
func (nopMetrics) IncUpgrade()            {}
func (nopMetrics) IncDailyRollover()      {}
func (nopMetrics) SetLeadCount(int)       {}
func (nopMetrics) SetAICallsToday(int)    {}
