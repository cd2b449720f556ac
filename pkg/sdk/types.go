package seoscribe

import (
	"encoding/json"
	"time"
)

// Plan is a subscription tier.
type Plan string

// Plan constants.
const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// QuotaState tells how far the quota numbers can be trusted.
type QuotaState string

// QuotaState constants.
const (
	QuotaUninitialized QuotaState = "uninitialized"
	QuotaAuthoritative QuotaState = "authoritative"
	QuotaDegraded      QuotaState = "degraded" // backend unreachable at startup
)

// Tool names a backend SEO tool.
type Tool string

// Tool constants.
const (
	ToolSERPPreview        Tool = "serp-preview"
	ToolHeadlineAnalyzer   Tool = "headline-analyzer"
	ToolReadability        Tool = "readability"
	ToolPlagiarism         Tool = "plagiarism"
	ToolCompetitorAnalysis Tool = "competitor-analysis"
	ToolKeywords           Tool = "keywords"
	ToolContentBrief       Tool = "content-brief"
	ToolMetaDescription    Tool = "meta-description"
)

// Session is the stored credential set.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

// Claims is the display subset of the access token. Unverified.
type Claims struct {
	Subject string
	Email   string
}

// QuotaStatus is a point-in-time view of the quota mirror.
type QuotaStatus struct {
	State QuotaState
	Plan  Plan
	Email string
	Date  time.Time

	GenerationsToday int
	GenerationsMonth int
	ToolsToday       int

	DayLimit       int
	MonthLimit     int
	DayRemaining   int
	MonthRemaining int
	CanGenerate    bool

	ToolLimit     int
	ToolRemaining int
	CanUseTool    bool

	MaxExpansions int
}

// Article is a generated or saved article. Data is the backend payload verbatim.
type Article struct {
	ID                 string
	Title              string
	WordCount          int
	ReadingTimeMinutes int
	ExpansionCount     int
	Status             string
	Data               json.RawMessage
}

// DraftRequest describes an article to generate.
// Zero TargetWordCount and Region take the backend defaults (3000, "us").
type DraftRequest struct {
	Topic           string
	TargetWordCount int
	Region          string
	Tone            string
	WebsiteURL      string
	GenerateSocial  bool
	Save            bool
}

// ExpandRequest identifies a saved article to lengthen.
type ExpandRequest struct {
	ArticleID  string
	Keyword    string
	WebsiteURL string
}

// Template is a reusable article outline.
type Template struct {
	ID          string
	Name        string
	Description string
	Category    string
}
