package domain

// Objection единица библиотеки работы с возражениями: текст возражения
// и готовый ответ с техникой отработки.
type Objection struct {
	ID          string `json:"id"`
	Objection   string `json:"objection"`
	Response    string `json:"response"`
	Technique   string `json:"technique,omitempty"`
	WhenToUse   string `json:"when_to_use,omitempty"`
	Tone        string `json:"tone,omitempty"`
	SuccessRate string `json:"success_rate,omitempty"`
	Vertical    string `json:"vertical,omitempty"`

	// Шаги LIRA-техники из legacy-таблицы, заполняются только для нее
	Step1Buffer  string `json:"step_1_buffer,omitempty"`
	Step2Isolate string `json:"step_2_isolate,omitempty"`
	Step3Reframe string `json:"step_3_reframe,omitempty"`
	Step4Close   string `json:"step_4_close,omitempty"`
}
