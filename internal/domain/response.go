package domain

// SimplifiedUnavailable is reported in place of the simplified tier when the
// model output could not be split into two tiers.
const SimplifiedUnavailable = "Simplified answer unavailable."

// SectionMatch is one retrieved statute section.
type SectionMatch struct {
	DocumentID string `json:"document_id"`
	SectionID  string `json:"section_id"`
	Text       string `json:"text"`
	Score      int    `json:"score"`
}

// RoutedResponse is the result of one full pipeline run.
type RoutedResponse struct {
	Domain              string         `json:"domain"`
	Sections            []SectionMatch `json:"sections"`
	FormalAnswer        string         `json:"formal_answer"`
	SimplifiedAnswer    string         `json:"simplified_answer"`
	SimplifiedAvailable bool           `json:"simplified_available"`
	Meta                Meta           `json:"meta"`
}

type Meta struct {
	TopK         int      `json:"top_k"`
	Fallback     bool     `json:"fallback"`
	NotInDataset bool     `json:"not_in_dataset"`
	Warnings     []string `json:"warnings"`
}

// ErrorResponse is used for non-200 error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
	Sections  int    `json:"sections"`
}
