// Package model holds the closed, strongly-typed records that flow through
// the audit pipeline: FetchResult -> PageModel -> ContentClassification ->
// CategoryScore -> PageAudit -> DomainAudit. Extractors and scorers populate
// these records; nothing downstream mutates a record after the stage that
// produced it has returned.
package model

import "time"

// FetchMethod records which strategy produced a FetchResult.
type FetchMethod string

const (
	FetchMethodHTTP     FetchMethod = "http"
	FetchMethodRendered FetchMethod = "rendered"
)

// Performance carries timing signals gathered during fetch.
type Performance struct {
	TTFBMillis     int64  `json:"ttfb_ms"`
	DOMLoadMillis  int64  `json:"dom_load_ms,omitempty"`
	PageLoadMillis int64  `json:"page_load_ms,omitempty"`
	FCPMillis      int64  `json:"fcp_ms,omitempty"`
	LCPMillis      *int64 `json:"lcp_ms,omitempty"`
}

// FetchResult is produced by the adaptive fetcher and consumed by the parser.
type FetchResult struct {
	URL         string      `json:"url"`
	StatusCode  int         `json:"status_code"`
	HTML        string      `json:"html"`
	FetchedAt   time.Time   `json:"fetched_at"`
	Performance Performance `json:"performance"`
	FetchMethod FetchMethod `json:"fetch_method"`
	Error       string      `json:"error,omitempty"`
	// TLSValid is advisory: set when the fetcher observed a seemingly valid
	// certificate chain on an HTTPS fetch. Consumed by Citationability.
	TLSValid bool `json:"tls_valid"`
}

// Heading is a single h1-h6 element in document order.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id,omitempty"`
}

// Paragraph is a block of main-content prose.
type Paragraph struct {
	Text        string `json:"text"`
	WordCount   int    `json:"word_count"`
	HasEmphasis bool   `json:"has_emphasis"`
}

// List is an ordered or unordered list of at least two items.
type List struct {
	Ordered       bool     `json:"ordered"`
	Items         []string `json:"items"`
	ParentHeading string   `json:"parent_heading,omitempty"`
}

// Table is a structured tabular block.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Caption string     `json:"caption,omitempty"`
}

// Image describes an <img> that passed the tracking-pixel/icon filter.
type Image struct {
	Src        string `json:"src"`
	Alt        string `json:"alt"`
	Width      *int   `json:"width,omitempty"`
	Height     *int   `json:"height,omitempty"`
	Decorative bool   `json:"decorative"`
	HasAlt     bool   `json:"has_alt"`
}

// QuestionSource identifies where a detected question came from.
type QuestionSource string

const (
	QuestionSourceHeading  QuestionSource = "heading"
	QuestionSourceInline   QuestionSource = "inline"
	QuestionSourceFAQ      QuestionSource = "faq_schema"
)

// Question is a detected question with its captured answer span, if any.
type Question struct {
	Text   string         `json:"text"`
	Source QuestionSource `json:"source"`
	Answer string         `json:"answer,omitempty"`
}

// AnswerPatternKind tags the structural shape of a direct-answer block.
type AnswerPatternKind string

const (
	AnswerPatternTLDR       AnswerPatternKind = "tldr"
	AnswerPatternDefinition AnswerPatternKind = "definition_box"
	AnswerPatternBlockquote AnswerPatternKind = "blockquote"
	AnswerPatternCallout    AnswerPatternKind = "callout"
)

// AnswerPattern is a detected direct-answer structural block.
type AnswerPattern struct {
	Kind AnswerPatternKind `json:"kind"`
	Text string            `json:"text"`
}

// FAQPair is one question/answer pair extracted from FAQPage schema.
type FAQPair struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
	Valid    bool   `json:"valid"`
}

// FAQSchema aggregates FAQ-page structured-data pairs.
type FAQSchema struct {
	Pairs      []FAQPair `json:"pairs"`
	ValidCount int       `json:"valid_count"`
}

// DateSource records which signal produced a parsed date.
type DateSource string

const (
	DateSourceJSONLD       DateSource = "jsonld"
	DateSourceMetaTag      DateSource = "meta_tag"
	DateSourceTimeElement  DateSource = "time_element"
	DateSourceUnparseable  DateSource = "unparseable"
	DateSourceNone         DateSource = "none"
)

// Dates records published/modified dates plus the provenance of each.
type Dates struct {
	Published       *time.Time `json:"published,omitempty"`
	Modified        *time.Time `json:"modified,omitempty"`
	PublishedSource DateSource `json:"published_source"`
	ModifiedSource  DateSource `json:"modified_source"`
}

// AuthorSource records which signal produced the author.
type AuthorSource string

const (
	AuthorSourceJSONLD   AuthorSource = "jsonld"
	AuthorSourceMetaTag  AuthorSource = "meta_tag"
	AuthorSourceByline   AuthorSource = "byline"
	AuthorSourceNone     AuthorSource = "none"
)

// Author aggregates author signals merged from multiple sources.
type Author struct {
	Found   bool         `json:"found"`
	Name    string       `json:"name,omitempty"`
	URL     string       `json:"url,omitempty"`
	Bio     string       `json:"bio,omitempty"`
	Sources []AuthorSource `json:"sources"`
}

// Meta carries page-level metadata tags.
type Meta struct {
	Description       string            `json:"description,omitempty"`
	Canonical         string            `json:"canonical,omitempty"`
	Viewport          string            `json:"viewport,omitempty"`
	OpenGraph         map[string]string `json:"og,omitempty"`
	Twitter           map[string]string `json:"twitter,omitempty"`
	AEOContentType    string            `json:"aeo_content_type,omitempty"`
}

// PageModel is the strongly-typed record produced by extraction.
type PageModel struct {
	URL                string          `json:"url"`
	Title              string          `json:"title"`
	Meta               Meta            `json:"meta"`
	Headings           []Heading       `json:"headings"`
	Paragraphs         []Paragraph     `json:"paragraphs"`
	Lists              []List          `json:"lists"`
	Tables             []Table         `json:"tables"`
	Images             []Image         `json:"images"`
	Questions          []Question      `json:"questions"`
	AnswerPatterns     []AnswerPattern `json:"answer_patterns"`
	JSONLD             []map[string]any `json:"jsonld"`
	MicrodataPresent   bool            `json:"microdata_present"`
	RDFaPresent        bool            `json:"rdfa_present"`
	FAQSchema          FAQSchema       `json:"faq_schema"`
	Author             Author          `json:"author"`
	Dates              Dates           `json:"dates"`
	ExternalLinks      []string        `json:"external_links"`
	InternalLinksCount int             `json:"internal_links_count"`
	WordCount          int             `json:"word_count"`
	IsHTTPS            bool            `json:"is_https"`
	Performance        Performance     `json:"performance"`
	Keywords           []string        `json:"keywords,omitempty"`

	// Diagnostics, never scored directly: broken JSON-LD blocks kept for
	// troubleshooting per the parse-failure handling in spec §7.
	BrokenSchemaBlocks int `json:"broken_schema_blocks,omitempty"`
}

// ContentType is the classifier's output axis; a weighting input, not a gate.
type ContentType string

const (
	ContentTypeInformational ContentType = "informational"
	ContentTypeExperiential  ContentType = "experiential"
	ContentTypeTransactional ContentType = "transactional"
	ContentTypeNavigational  ContentType = "navigational"
)

// Confidence grades how sure the classifier is in its ContentType pick.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ContentClassification is produced by the content classifier.
type ContentClassification struct {
	Type           ContentType `json:"type"`
	Confidence     Confidence  `json:"confidence"`
	SignalsMatched []string    `json:"signals_matched"`
}

// CategoryScore is produced by one category scorer.
type CategoryScore struct {
	Category  string             `json:"category"`
	Raw       float64            `json:"raw"`
	Max       float64            `json:"max"`
	SubScores map[string]float64 `json:"sub_scores"`
}

// WeightedCategoryScore is a CategoryScore after content-type reweighting,
// carrying its percentage-of-max for breakdown display.
type WeightedCategoryScore struct {
	CategoryScore
	WeightedRaw float64 `json:"weighted_raw"`
	WeightedMax float64 `json:"weighted_max"`
	Percentage  float64 `json:"percentage"`
}

// Recommendation is a structured, prose-free scoring gap: the external
// recommendation-template-library turns this into user-facing copy.
type Recommendation struct {
	Category string  `json:"category"`
	SubScore string  `json:"sub_score"`
	Gap      float64 `json:"gap"`
	Priority string  `json:"priority"`
}

// PageAudit is the canonical single-page result produced by the calculator.
type PageAudit struct {
	URL                   string                           `json:"url"`
	OverallScore          float64                          `json:"overall_score"`
	Grade                 string                           `json:"grade"`
	ContentClassification ContentClassification             `json:"content_classification"`
	Breakdown             map[string]WeightedCategoryScore `json:"breakdown"`
	Recommendations       []Recommendation                 `json:"recommendations,omitempty"`
	FetchedAt             time.Time                         `json:"fetched_at"`
}

// CategoryPageScore is one page's contribution to a domain-level category
// aggregate, stable-sorted by URL on output (spec §8 property 6).
type CategoryPageScore struct {
	URL        string  `json:"url"`
	Percentage float64 `json:"percentage"`
}

// CategoryAggregate is a domain-level rollup of one category across pages.
type CategoryAggregate struct {
	MeanPercentage float64             `json:"mean_percentage"`
	PageScores     []CategoryPageScore `json:"page_scores"`
	BestPage       string              `json:"best_page"`
	WorstPage      string              `json:"worst_page"`
}

// GEOComponent is one of the five additive brand-level GEO components.
type GEOComponent struct {
	Name       string   `json:"name"`
	Raw        float64  `json:"raw"`
	Max        float64  `json:"max"`
	BelowTarget bool    `json:"below_target"`
	Actions    []string `json:"recommended_actions,omitempty"`
}

// GEOScore is the brand-level inclusion-readiness score (0-100).
type GEOScore struct {
	Overall    float64        `json:"overall"`
	Components []GEOComponent `json:"components"`
}

// DomainAudit is produced by the aggregator after all page audits finish.
type DomainAudit struct {
	Domain          string                        `json:"domain"`
	PagesAudited    int                           `json:"pages_audited"`
	PagesSuccessful int                           `json:"pages_successful"`
	OverallScore    float64                       `json:"overall_score"`
	Grade           string                        `json:"grade"`
	Breakdown       map[string]CategoryAggregate  `json:"breakdown"`
	BestPage        string                        `json:"best_page"`
	WorstPage       string                        `json:"worst_page"`
	GEOScore        *GEOScore                     `json:"geo_score,omitempty"`
	PageAudits      map[string]PageAudit          `json:"-"`
}

// JobStatus is the lifecycle state of a domain audit job.
type JobStatus string

const (
	JobQueued      JobStatus = "queued"
	JobDiscovering JobStatus = "discovering"
	JobAuditing    JobStatus = "auditing"
	JobCompleted   JobStatus = "completed"
	JobFailed      JobStatus = "failed"
)

// ProgressEvent is one update published by the domain orchestrator.
type ProgressEvent struct {
	Status           JobStatus `json:"status"`
	CurrentStep      string    `json:"current_step"`
	Percentage       float64   `json:"percentage"`
	PagesAudited     int       `json:"pages_audited"`
	TotalURLs        int       `json:"total_urls"`
	URLsDiscovered   int       `json:"urls_discovered"`
	Message          string    `json:"message"`
	CurrentURL       string    `json:"current_url,omitempty"`
}

// JobState is the process-wide, single-writer record for one domain job.
type JobState struct {
	JobID          string
	Status         JobStatus
	Percentage     float64
	PagesAudited   int
	TotalURLs      int
	URLsDiscovered int
	CurrentURL     string
	FailureReason  string
	Result         *DomainAudit
	CreatedAt      time.Time
}
