package dictionary

import (
	"strings"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

// maxSeedExamples caps the examples taken from the dictionary itself.
const maxSeedExamples = 2

// normalizeEntry maps one dictionary entry to a WordRecord.
func normalizeEntry(word string, e provider.DictionaryEntry) domain.WordRecord {
	rec := domain.WordRecord{
		Word:            word,
		Examples:        []domain.Example{},
		EnrichmentState: domain.EnrichmentNotAttempted,
	}
	if e.Word != "" {
		rec.Word = e.Word
	}

	rec.Phonetic, rec.AudioURL = selectPhonetic(e)
	rec.AudioURL = normalizeAudioURL(rec.AudioURL)

	if len(e.Meanings) == 0 {
		return rec
	}
	primary := e.Meanings[0]
	rec.PartOfSpeech = primary.PartOfSpeech

	if len(primary.Definitions) > 0 {
		rec.OriginalDefinition = primary.Definitions[0].Definition
		rec.SimplifiedDefinition = rec.OriginalDefinition
	}

	for _, d := range primary.Definitions {
		if len(rec.Examples) == maxSeedExamples {
			break
		}
		if ex := strings.TrimSpace(d.Example); ex != "" {
			rec.Examples = append(rec.Examples, domain.Example{English: ex})
		}
	}

	return rec
}

// selectPhonetic prefers a single item carrying both text and audio.
// Otherwise text and audio are picked independently, each from the first
// item that has it; the entry-level phonetic backs up missing text.
func selectPhonetic(e provider.DictionaryEntry) (text, audio string) {
	for _, ph := range e.Phonetics {
		if ph.Text != "" && ph.Audio != "" {
			return ph.Text, ph.Audio
		}
	}

	for _, ph := range e.Phonetics {
		if text == "" && ph.Text != "" {
			text = ph.Text
		}
		if audio == "" && ph.Audio != "" {
			audio = ph.Audio
		}
	}
	if text == "" {
		text = strings.TrimSpace(e.Phonetic)
	}
	return text, audio
}

// normalizeAudioURL makes protocol-relative and bare URLs absolute https.
func normalizeAudioURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return u
	}
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return "https://" + strings.TrimLeft(u, "/")
}
