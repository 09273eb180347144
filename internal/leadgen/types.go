package leadgen

// Типы источников лидов
type SourceType string

const (
	SourceLinkedIn  SourceType = "linkedin"
	SourceFacebook  SourceType = "facebook"
	SourceInstagram SourceType = "instagram"
	SourceWebForm   SourceType = "web_form"
	SourceManual    SourceType = "manual"
	SourceImport    SourceType = "import"
	SourceReferral  SourceType = "referral"
	SourceChat      SourceType = "chat"
	SourceWhatsApp  SourceType = "whatsapp"
)

// Каналы исходящих сообщений
type OutreachChannel string

const (
	ChannelEmail      OutreachChannel = "email"
	ChannelLinkedInDM OutreachChannel = "linkedin_dm"
	ChannelWhatsApp   OutreachChannel = "whatsapp"
	ChannelSMS        OutreachChannel = "sms"
)

// Методы назначения лида менеджеру
type AssignmentMethod string

const (
	AssignAuto       AssignmentMethod = "auto"
	AssignManual     AssignmentMethod = "manual"
	AssignRoundRobin AssignmentMethod = "round_robin"
	AssignScoreBased AssignmentMethod = "score_based"
)

// VerificationRequest запрос на верификацию лида (V-Score).
type VerificationRequest struct {
	LeadID        string `json:"lead_id"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	CompanyDomain string `json:"company_domain,omitempty"`
	LinkedInURL   string `json:"linkedin_url,omitempty"`
}

// VerificationDetails покомпонентные оценки верификации.
type VerificationDetails struct {
	EmailScore      float64 `json:"email_score"`
	PhoneScore      float64 `json:"phone_score"`
	DomainScore     float64 `json:"domain_score"`
	SocialScore     float64 `json:"social_score"`
	BehavioralScore float64 `json:"behavioral_score"`
}

// VerificationResult результат верификации лида.
type VerificationResult struct {
	LeadID      string              `json:"lead_id"`
	VScore      float64             `json:"v_score"`
	EmailValid  *bool               `json:"email_valid,omitempty"`
	PhoneValid  *bool               `json:"phone_valid,omitempty"`
	IsDuplicate bool                `json:"is_duplicate"`
	Details     VerificationDetails `json:"details"`
}

// EnrichmentRequest запрос на обогащение данных лида (E-Score).
type EnrichmentRequest struct {
	LeadID        string `json:"lead_id"`
	Email         string `json:"email,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
	CompanyDomain string `json:"company_domain,omitempty"`
	PersonName    string `json:"person_name,omitempty"`
	LinkedInURL   string `json:"linkedin_url,omitempty"`
}

// CompanyData данные компании из обогащения.
type CompanyData struct {
	Name     string `json:"name,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// PersonData данные персоны из обогащения.
type PersonData struct {
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
}

// EnrichmentResult результат обогащения лида.
type EnrichmentResult struct {
	LeadID        string      `json:"lead_id"`
	EScore        float64     `json:"e_score"`
	Company       CompanyData `json:"company"`
	Person        PersonData  `json:"person"`
	ICPMatchScore float64     `json:"icp_match_score"`
}

// IntentMessage сообщение переписки для анализа intent.
type IntentMessage struct {
	Content   string `json:"content"`
	Direction string `json:"direction"`
}

// IntentActivity веб-активность лида.
type IntentActivity struct {
	WebsiteVisits7d   int    `json:"website_visits_7d"`
	PricingPageVisits int    `json:"pricing_page_visits"`
	DemoPageVisits    int    `json:"demo_page_visits"`
	LastActivityAt    string `json:"last_activity_at,omitempty"`
	ActivityFrequency string `json:"activity_frequency"`
}

// IntentResult результат анализа покупательского намерения (I-Score).
type IntentResult struct {
	LeadID      string         `json:"lead_id"`
	IScore      float64        `json:"i_score"`
	IntentStage string         `json:"intent_stage"`
	BuyingRole  string         `json:"buying_role"`
	Activity    IntentActivity `json:"activity"`
}

// MessageIntentKeyword найденное ключевое слово в сообщении.
type MessageIntentKeyword struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
}

// MessageIntentResult результат анализа intent одного сообщения (live-чат).
type MessageIntentResult struct {
	KeywordsFound         []MessageIntentKeyword `json:"keywords_found"`
	IntentCategory        string                 `json:"intent_category"`
	IntentStrength        float64                `json:"intent_strength"`
	SuggestedResponseType string                 `json:"suggested_response_type"`
}

// CreateLeadRequest запрос на создание лида в пайплайне.
type CreateLeadRequest struct {
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Company        string     `json:"company,omitempty"`
	CompanyDomain  string     `json:"company_domain,omitempty"`
	Title          string     `json:"title,omitempty"`
	LinkedInURL    string     `json:"linkedin_url,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	SourceType     SourceType `json:"source_type,omitempty"`
	SourceCampaign string     `json:"source_campaign,omitempty"`
}

// CreateLeadResponse результат создания лида в пайплайне.
type CreateLeadResponse struct {
	Success         bool     `json:"success"`
	LeadID          string   `json:"lead_id,omitempty"`
	IsDuplicate     bool     `json:"is_duplicate"`
	DuplicateLeadID string   `json:"duplicate_lead_id,omitempty"`
	Errors          []string `json:"errors"`
}

// AssignLeadRequest запрос на назначение лида менеджеру.
type AssignLeadRequest struct {
	LeadID      string           `json:"lead_id"`
	ForceUserID string           `json:"force_user_id,omitempty"`
	Method      AssignmentMethod `json:"method,omitempty"`
}

// AssignmentResult результат назначения лида.
type AssignmentResult struct {
	Success      bool             `json:"success"`
	LeadID       string           `json:"lead_id"`
	AssignedTo   string           `json:"assigned_to,omitempty"`
	AssignmentID string           `json:"assignment_id,omitempty"`
	Method       AssignmentMethod `json:"method"`
	Score        float64          `json:"score"`
	SLAHours     float64          `json:"sla_hours"`
	Reasons      []string         `json:"reasons"`
	Error        string           `json:"error,omitempty"`
}

// CreateOutreachRequest запрос на исходящее сообщение лиду.
type CreateOutreachRequest struct {
	LeadID          string          `json:"lead_id"`
	Channel         OutreachChannel `json:"channel"`
	TemplateID      string          `json:"template_id,omitempty"`
	SendImmediately bool            `json:"send_immediately,omitempty"`
	CustomMessage   string          `json:"custom_message,omitempty"`
}

// OutreachResult результат постановки исходящего сообщения в очередь.
type OutreachResult struct {
	Success     bool   `json:"success"`
	OutreachID  string `json:"outreach_id,omitempty"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
	Error       string `json:"error,omitempty"`
}

// PipelineStats агрегированная статистика пайплайна лидов.
type PipelineStats struct {
	Total    int            `json:"total"`
	Hot      int            `json:"hot"`
	Warm     int            `json:"warm"`
	Cool     int            `json:"cool"`
	Cold     int            `json:"cold"`
	ByStatus map[string]int `json:"by_status"`
}
