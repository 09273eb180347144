// Package followup содержит фиксированный жизненный цикл сопровождения
// клиента после покупки и помощники для выбора следующей задачи.
package followup

import (
	"math"
	"time"
)

// TaskType тип задачи сопровождения
type TaskType string

const (
	TaskTypeMessage TaskType = "MESSAGE"
	TaskTypeCall    TaskType = "CALL"
)

// Task задача сопровождения клиента, привязанная к смещению в днях от старта.
type Task struct {
	DayOffset     int      `json:"day_offset"`
	Title         string   `json:"title"`
	Type          TaskType `json:"type"`
	ScriptContext string   `json:"script_context"`
}

// CustomerLifecycle расписание сопровождения клиента. Смещения подобраны
// под типичный цикл заказа: доставка, первые результаты, рекомендация,
// допродажа, реактивация.
var CustomerLifecycle = []Task{
	{DayOffset: 3, Title: "Unboxing Support", Type: TaskTypeMessage, ScriptContext: "Paket sollte angekommen sein. Frage ob alles okay ist."},
	{DayOffset: 14, Title: "Erste Ergebnisse", Type: TaskTypeMessage, ScriptContext: "Nach 2 Wochen erste Ergebnisse erfragen. Motivation aufbauen."},
	{DayOffset: 30, Title: "Empfehlungsanfrage", Type: TaskTypeCall, ScriptContext: "Nach Empfehlungen fragen. Social Proof sammeln."},
	{DayOffset: 60, Title: "Upsell Check", Type: TaskTypeMessage, ScriptContext: "Weitere Produkte vorstellen. Cross-Sell Möglichkeit."},
	{DayOffset: 90, Title: "Reaktivierung", Type: TaskTypeMessage, ScriptContext: "Falls inaktiv: Reaktivieren. Nachbestellen anregen."},
}

// DaysSinceStart возвращает число дней с даты старта клиента, округленное
// вверх (начатый день считается целиком).
func DaysSinceStart(start, now time.Time) int {
	diff := now.Sub(start).Hours() / 24
	return int(math.Ceil(diff))
}

// UpcomingTask возвращает ближайшую задачу сопровождения для клиента или
// nil, если жизненный цикл пройден (прошло больше 90 дней).
func UpcomingTask(start, now time.Time) *Task {
	days := DaysSinceStart(start, now)
	for i := range CustomerLifecycle {
		if CustomerLifecycle[i].DayOffset >= days {
			task := CustomerLifecycle[i]
			return &task
		}
	}
	return nil
}
