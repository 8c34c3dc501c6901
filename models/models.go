package models

// Role identifies who authored a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one prior message in the conversation, oldest first
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// UserQuery is the input to one pipeline run
type UserQuery struct {
	Text    string `json:"text"`
	History []Turn `json:"history,omitempty"`
}

// QueryType classifies what the user is trying to achieve
type QueryType string

const (
	QueryGeneral    QueryType = "general"
	QuerySpecific   QueryType = "specific"
	QueryProcedural QueryType = "procedural"
	QueryContact    QueryType = "contact"
	QueryUrgent     QueryType = "urgent"
)

// CategoryGeneral is the category used when no service category matches
const CategoryGeneral = "general"

// Detection sources
const (
	SourceModel     = "model"
	SourceHeuristic = "heuristic"
	SourceLocal     = "local"
)

// LanguageDetection is the detected language of the user's message
type LanguageDetection struct {
	Language   string  `json:"language"`      // English name, e.g. "Swedish"
	Code       string  `json:"language_code"` // ISO-639-1 code, e.g. "sv"
	Confidence float64 `json:"confidence"`    // 0.0-1.0
	Source     string  `json:"source"`        // "model" or "heuristic"
}

// LinkType distinguishes the kinds of suggested municipal links
type LinkType string

const (
	LinkEService LinkType = "eservice"
	LinkService  LinkType = "service"
	LinkInfo     LinkType = "info"
)

// SuggestedLink is a static link derived from the detected intent
type SuggestedLink struct {
	URL         string   `json:"url"`
	DisplayName string   `json:"display_name"`
	Type        LinkType `json:"type"`
	Priority    int      `json:"priority"`
}

// Intent is the result of keyword-based intent classification
type Intent struct {
	Category       string          `json:"category"`
	Confidence     float64         `json:"confidence"` // relative score, not a probability
	Keywords       []string        `json:"keywords"`
	QueryType      QueryType       `json:"query_type"`
	SuggestedLinks []SuggestedLink `json:"suggested_links"`
	Hints          []string        `json:"hints"`
}

// IntentTranslation is a query reduced to compact search keywords in the target language
type IntentTranslation struct {
	OriginalQuery    string  `json:"original_query"`
	TranslatedQuery  string  `json:"translated_query"`
	OriginalLanguage string  `json:"original_language"`
	TargetLanguage   string  `json:"target_language"`
	Intent           string  `json:"intent"`
	Confidence       float64 `json:"confidence"`
	Source           string  `json:"source"` // "model" or "local"
}

// SearchResult is one hit from the municipality's site search
type SearchResult struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Link           string `json:"link"`
	RelevanceScore int    `json:"relevance_score"`
}

// SearchResponse is the outcome of one site search
type SearchResponse struct {
	Query    string         `json:"query"`
	Results  []SearchResult `json:"results"`
	Strategy string         `json:"strategy,omitempty"` // parse strategy that produced the results
	Success  bool           `json:"success"`
	Error    string         `json:"error,omitempty"`
}

// Contact is a structured entry from a page's contact section
type Contact struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ScrapedPage is the plain-text rendering of one fetched page
type ScrapedPage struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Contacts []Contact `json:"contacts,omitempty"`
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
}

// Metadata describes which pipeline stages contributed to an answer
type Metadata struct {
	IntentCategory      string          `json:"intentCategory"`
	Confidence          float64         `json:"confidence"`
	QueryType           QueryType       `json:"queryType"`
	Language            string          `json:"language"`
	LanguageSource      string          `json:"languageSource"`
	UsedTranslation     bool            `json:"usedTranslation"`
	TranslatedQuery     string          `json:"translatedQuery,omitempty"`
	SearchStrategy      string          `json:"searchStrategy,omitempty"`
	UsedScraping        bool            `json:"usedScraping"`
	ScrapedURL          string          `json:"scrapedUrl,omitempty"`
	UsedDiscoveredLinks bool            `json:"usedDiscoveredLinks"`
	EnhancedResultCount int             `json:"enhancedResultCount"`
	AIUsed              bool            `json:"aiUsed"` // the final text came from the language model
	QuestionID          string          `json:"questionId,omitempty"`
	SuggestedLinks      []SuggestedLink `json:"suggestedLinks,omitempty"`
	Warnings            []string        `json:"warnings,omitempty"` // non-fatal stage failures
}

// Answer is the resolved response for one user query
type Answer struct {
	Text     string   `json:"text"`
	Language string   `json:"language"`
	Metadata Metadata `json:"metadata"`
}
