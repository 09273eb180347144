package service

import (
	"context"
	"strings"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/internal/repository"
	"github.com/salesflow-ai/entitlement-service/internal/template"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

const defaultScriptLimit = 50

// ScriptService интерфейс сервиса библиотеки скриптов
type ScriptService interface {
	List(ctx context.Context, company, category string) ([]domain.Script, error)
	GetByID(ctx context.Context, id string) (*domain.Script, error)
	Popular(ctx context.Context, limit int) ([]domain.Script, error)
	// Render подставляет значения переменных в текст скрипта.
	Render(ctx context.Context, id string, values map[string]string) (string, []string, error)
}

type scriptService struct {
	repo repository.ScriptRepository
	log  *logger.Logger
}

// NewScriptService создает новый сервис библиотеки скриптов
func NewScriptService(repo repository.ScriptRepository, log *logger.Logger) ScriptService {
	return &scriptService{repo: repo, log: log}
}

// List возвращает скрипты с фильтрами. Если хранилище недоступно или пусто,
// отдает встроенный стартовый набор, чтобы библиотека никогда не была пустой.
func (s *scriptService) List(ctx context.Context, company, category string) ([]domain.Script, error) {
	s.log.Debug("Listing scripts: company=%s category=%s", company, category)

	scripts, err := s.repo.List(ctx, company, category, defaultScriptLimit)
	if err != nil {
		s.log.Warnw("script storage unavailable, serving builtin scripts", "error", err)
		return filterBuiltinScripts(company, category), nil
	}
	if len(scripts) == 0 {
		return filterBuiltinScripts(company, category), nil
	}
	return scripts, nil
}

func (s *scriptService) GetByID(ctx context.Context, id string) (*domain.Script, error) {
	s.log.Debug("Getting script by ID: %s", id)

	script, err := s.repo.GetByID(ctx, id)
	if err == nil {
		return script, nil
	}

	// Встроенные скрипты адресуемы наравне с хранимыми.
	for _, builtin := range builtinScripts() {
		if builtin.ID == id {
			b := builtin
			return &b, nil
		}
	}
	return nil, err
}

func (s *scriptService) Popular(ctx context.Context, limit int) ([]domain.Script, error) {
	if limit <= 0 {
		limit = defaultScriptLimit
	}
	scripts, err := s.repo.Popular(ctx, limit)
	if err != nil {
		s.log.Warnw("popular scripts unavailable", "error", err)
		return []domain.Script{}, nil
	}
	return scripts, nil
}

// Render возвращает текст скрипта с подставленными значениями и список
// переменных, найденных в оригинале. Переменные без значения остаются
// в тексте как есть.
func (s *scriptService) Render(ctx context.Context, id string, values map[string]string) (string, []string, error) {
	script, err := s.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}

	variables := template.ExtractVariables(script.Content)
	return template.Render(script.Content, values), variables, nil
}

// builtinScripts стартовый набор скриптов для пустой или недоступной базы.
func builtinScripts() []domain.Script {
	return []domain.Script{
		{
			ID:       "builtin-1",
			Title:    "Warm Market Opener",
			Content:  "Hey [Name]! 👋 Ich hab da was entdeckt, das perfekt zu dir passen könnte. Hast du 5 Minuten?",
			Category: "opener",
			Company:  "GENERAL",
			Tags:     []string{"warm", "opener", "freundlich"},
			Tone:     "casual",
			IsActive: true,
		},
		{
			ID:       "builtin-2",
			Title:    "Follow-Up nach Präsentation",
			Content:  "Hey [Name], ich wollte kurz nachfragen, wie dir unser Gespräch letztens gefallen hat. Gibt es Fragen, die ich dir beantworten kann?",
			Category: "followup",
			Company:  "GENERAL",
			Tags:     []string{"followup", "soft"},
			Tone:     "professional",
			IsActive: true,
		},
		{
			ID:       "builtin-3",
			Title:    "Einwand: Keine Zeit",
			Content:  "Das verstehe ich total! Gerade deshalb könnte das hier interessant für dich sein - es geht um Zeitfreiheit. Wann hättest du 10 Minuten?",
			Category: "objection",
			Company:  "GENERAL",
			Tags:     []string{"einwand", "zeit"},
			Tone:     "empathisch",
			IsActive: true,
		},
		{
			ID:       "builtin-4",
			Title:    "Zinzino Balance Test Pitch",
			Content:  "Wusstest du, dass 97% der Menschen ein Omega-Ungleichgewicht haben? Mit dem Zinzino BalanceTest kannst du das in 15 Sekunden überprüfen. Interesse?",
			Category: "opener",
			Company:  "Zinzino",
			Tags:     []string{"zinzino", "test", "gesundheit"},
			Tone:     "informativ",
			IsActive: true,
		},
		{
			ID:       "builtin-5",
			Title:    "LR Aloe Vera Einstieg",
			Content:  "Hey! Ich trinke seit 3 Monaten das Aloe Vera Gel und meine Verdauung hat sich mega verbessert. Kennst du das Produkt?",
			Category: "opener",
			Company:  "LR",
			Tags:     []string{"lr", "aloe", "produkt"},
			Tone:     "persönlich",
			IsActive: true,
		},
		{
			ID:       "builtin-6",
			Title:    "Soft Close",
			Content:  "Basierend auf allem, was du mir erzählt hast, glaube ich wirklich, dass das zu dir passt. Was hält dich noch davon ab, heute zu starten?",
			Category: "closing",
			Company:  "GENERAL",
			Tags:     []string{"closing", "soft"},
			Tone:     "confident",
			IsActive: true,
		},
	}
}

func filterBuiltinScripts(company, category string) []domain.Script {
	filtered := make([]domain.Script, 0)
	for _, script := range builtinScripts() {
		if company != "" && company != "all" {
			matched := strings.Contains(strings.ToLower(script.Company), strings.ToLower(company)) ||
				strings.EqualFold(company, "general")
			if !matched {
				continue
			}
		}
		if category != "" && script.Category != category {
			continue
		}
		filtered = append(filtered, script)
	}
	return filtered
}
