package domain

// EnrichmentState tracks whether an enrichment pass has run and its outcome.
// A record may be EnrichmentSucceeded with zero examples; consumers must not
// infer the state from the examples slice.
type EnrichmentState string

const (
	EnrichmentNotAttempted EnrichmentState = "not_attempted"
	EnrichmentSucceeded    EnrichmentState = "succeeded"
	EnrichmentFailed       EnrichmentState = "failed"
)

func (s EnrichmentState) String() string { return string(s) }

func (s EnrichmentState) IsValid() bool {
	switch s {
	case EnrichmentNotAttempted, EnrichmentSucceeded, EnrichmentFailed:
		return true
	}
	return false
}

// Example is one usage sentence with its translation into the target language.
// Translation is empty until enrichment fills it in.
type Example struct {
	English     string `json:"english"`
	Translation string `json:"translation"`
}

// WordRecord is the canonical, provider-agnostic representation of a word.
type WordRecord struct {
	Word                 string          `json:"word"`
	Phonetic             string          `json:"phonetic,omitempty"`
	PartOfSpeech         string          `json:"partOfSpeech,omitempty"`
	AudioURL             string          `json:"audioUrl,omitempty"`
	OriginalDefinition   string          `json:"originalDefinition,omitempty"`
	SimplifiedDefinition string          `json:"simplifiedDefinition,omitempty"`
	Examples             []Example       `json:"examples"`
	EnrichmentState      EnrichmentState `json:"enrichmentState"`
}

// Clone returns a deep copy so callers can derive a new record without
// aliasing the examples slice of the original.
func (r WordRecord) Clone() WordRecord {
	out := r
	out.Examples = make([]Example, len(r.Examples))
	copy(out.Examples, r.Examples)
	return out
}

// Definition returns the text sent to enrichment: the dictionary definition,
// or the simplified one when the original is missing.
func (r WordRecord) Definition() string {
	if r.OriginalDefinition != "" {
		return r.OriginalDefinition
	}
	return r.SimplifiedDefinition
}
