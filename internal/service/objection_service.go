package service

import (
	"context"
	"strings"

	"github.com/salesflow-ai/entitlement-service/internal/copilot"
	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/internal/repository"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

const defaultObjectionLimit = 30

// ObjectionAdviser абстракция knowledge API для подмены в тестах.
type ObjectionAdviser interface {
	ObjectionResponse(ctx context.Context, objection, company, situation string) (*copilot.ObjectionAdvice, error)
}

// ObjectionService интерфейс библиотеки работы с возражениями
type ObjectionService interface {
	// Search возвращает возражения с ответами, опционально отфильтрованные
	// по поисковому запросу.
	Search(ctx context.Context, term string) ([]domain.Objection, error)
	// Respond подбирает ответ на конкретное возражение: сначала через
	// knowledge API, при его недоступности из локальной библиотеки.
	Respond(ctx context.Context, objection, company, situation string) (*copilot.ObjectionAdvice, error)
}

type objectionService struct {
	repo    repository.ObjectionRepository
	adviser ObjectionAdviser
	log     *logger.Logger
}

// NewObjectionService создает новый сервис работы с возражениями.
// adviser может быть nil, тогда Respond отвечает только из библиотеки.
func NewObjectionService(repo repository.ObjectionRepository, adviser ObjectionAdviser, log *logger.Logger) ObjectionService {
	return &objectionService{repo: repo, adviser: adviser, log: log}
}

// Search возвращает возражения из хранилища. Если оно недоступно или пусто,
// отдает встроенный набор, чтобы библиотека никогда не была пустой.
func (s *objectionService) Search(ctx context.Context, term string) ([]domain.Objection, error) {
	s.log.Debug("Searching objections: term=%s", term)

	objections, err := s.repo.Search(ctx, term, defaultObjectionLimit)
	if err != nil {
		s.log.Warnw("objection storage unavailable, serving builtin objections", "error", err)
		return filterBuiltinObjections(term), nil
	}
	if len(objections) == 0 {
		return filterBuiltinObjections(term), nil
	}
	return objections, nil
}

func (s *objectionService) Respond(ctx context.Context, objection, company, situation string) (*copilot.ObjectionAdvice, error) {
	if s.adviser != nil {
		advice, err := s.adviser.ObjectionResponse(ctx, objection, company, situation)
		if err == nil && len(advice.Responses) > 0 {
			return advice, nil
		}
		if err != nil {
			s.log.Warnw("knowledge API unavailable, answering from library", "error", err)
		}
	}

	// Локальная библиотека как запасной источник ответов
	matches, err := s.Search(ctx, objection)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.ErrNotFound
	}

	advice := &copilot.ObjectionAdvice{Objection: objection}
	for _, match := range matches {
		advice.Responses = append(advice.Responses, copilot.ObjectionReply{
			Type: match.Technique,
			Text: match.Response,
			Tone: match.Tone,
		})
	}
	return advice, nil
}

// builtinObjections стартовый набор возражений для пустой или недоступной базы.
func builtinObjections() []domain.Objection {
	return []domain.Objection{
		{
			ID:        "builtin-obj-1",
			Objection: "Ich habe keine Zeit",
			Response:  "Das verstehe ich total! Gerade deshalb könnte das hier interessant für dich sein - es geht um Zeitfreiheit. Wann hättest du 10 Minuten für einen kurzen Call?",
			Technique: "Reframe",
			WhenToUse: "Wenn der Prospect \"keine Zeit\" als Grund nennt",
			Tone:      "EMPATHETIC",
		},
		{
			ID:        "builtin-obj-2",
			Objection: "Das ist mir zu teuer",
			Response:  "Ich verstehe, dass du auf dein Budget achtest. Lass mich fragen: Was wäre es dir wert, wenn du [konkreter Nutzen] erreichen könntest? Manchmal ist die Frage nicht \"Kann ich mir das leisten?\" sondern \"Kann ich es mir leisten, es NICHT zu tun?\"",
			Technique: "Wert-Frage",
			WhenToUse: "Bei Preiseinwänden",
			Tone:      "PROFESSIONAL",
		},
		{
			ID:        "builtin-obj-3",
			Objection: "Ich muss drüber nachdenken",
			Response:  "Absolut, das ist eine wichtige Entscheidung. Mal angenommen, du hättest morgen früh nochmal drüber geschlafen - was müsste passiert sein, damit du Ja sagst?",
			Technique: "Isolieren",
			WhenToUse: "Wenn der Prospect Zeit zum Nachdenken braucht",
			Tone:      "PROFESSIONAL",
		},
		{
			ID:        "builtin-obj-4",
			Objection: "Mein Partner muss das entscheiden",
			Response:  "Super, dass du deinen Partner einbeziehst! Das zeigt Respekt. Wann könnt ihr beide gemeinsam mit mir sprechen? So kann ich alle Fragen direkt beantworten.",
			Technique: "Termin setzen",
			WhenToUse: "Bei Partner-Einwänden",
			Tone:      "CASUAL",
		},
		{
			ID:        "builtin-obj-5",
			Objection: "Ist das MLM / Pyramide?",
			Response:  "Gute Frage! Pyramidensysteme sind illegal - da gibt es kein echtes Produkt. Bei uns verdienst du durch Produktverkauf UND Teamaufbau. Jeder kann mehr verdienen als sein Sponsor. Der Unterschied zu einem normalen Job? Du bestimmst dein Einkommen selbst.",
			Technique: "Aufklärung",
			WhenToUse: "Bei MLM-Skepsis",
			Tone:      "PROFESSIONAL",
		},
		{
			ID:        "builtin-obj-6",
			Objection: "Ich kenne niemanden",
			Response:  "Das dachte ich am Anfang auch! Aber wir zeigen dir genau, wie du online neue Kontakte aufbaust. Social Media macht es möglich. Dein Bekanntenkreis ist nur der Anfang, nicht das Limit.",
			Technique: "Perspektivwechsel",
			WhenToUse: "Bei Kontakt-Einwänden",
			Tone:      "CASUAL",
		},
	}
}

func filterBuiltinObjections(term string) []domain.Objection {
	term = strings.ToLower(term)
	filtered := make([]domain.Objection, 0)
	for _, o := range builtinObjections() {
		if term != "" &&
			!strings.Contains(strings.ToLower(o.Objection), term) &&
			!strings.Contains(strings.ToLower(o.Response), term) &&
			!strings.Contains(strings.ToLower(o.Technique), term) {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}
