package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

func TestNormalizeEntry_CrossEntryPhoneticAndProtocolRelativeAudio(t *testing.T) {
	t.Parallel()

	e := provider.DictionaryEntry{
		Word: "a",
		Phonetics: []provider.PhoneticResult{
			{Text: "/ə/"},
			{Audio: "//x/a.mp3"},
		},
	}

	rec := normalizeEntry("a", e)
	assert.Equal(t, "/ə/", rec.Phonetic)
	assert.Equal(t, "https://x/a.mp3", rec.AudioURL)
}

func TestSelectPhonetic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		entry     provider.DictionaryEntry
		wantText  string
		wantAudio string
	}{
		{
			name: "prefers item with both",
			entry: provider.DictionaryEntry{Phonetics: []provider.PhoneticResult{
				{Text: "/one/"},
				{Audio: "https://a/1.mp3"},
				{Text: "/both/", Audio: "https://a/both.mp3"},
			}},
			wantText:  "/both/",
			wantAudio: "https://a/both.mp3",
		},
		{
			name: "independent first text and first audio",
			entry: provider.DictionaryEntry{Phonetics: []provider.PhoneticResult{
				{Audio: "https://a/first.mp3"},
				{Text: "/t1/"},
				{Text: "/t2/"},
				{Audio: "https://a/second.mp3"},
			}},
			wantText:  "/t1/",
			wantAudio: "https://a/first.mp3",
		},
		{
			name: "falls back to entry phonetic",
			entry: provider.DictionaryEntry{
				Phonetic:  "/top/",
				Phonetics: []provider.PhoneticResult{{Audio: "https://a/x.mp3"}},
			},
			wantText:  "/top/",
			wantAudio: "https://a/x.mp3",
		},
		{
			name:     "no phonetics array",
			entry:    provider.DictionaryEntry{Phonetic: "/top/"},
			wantText: "/top/",
		},
		{
			name: "nothing at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, audio := selectPhonetic(tt.entry)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantAudio, audio)
		})
	}
}

func TestNormalizeAudioURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"//ssl.gstatic.com/a.mp3", "https://ssl.gstatic.com/a.mp3"},
		{"api.dictionaryapi.dev/media/a.mp3", "https://api.dictionaryapi.dev/media/a.mp3"},
		{"/media/a.mp3", "https://media/a.mp3"},
		{"https://x/a.mp3", "https://x/a.mp3"},
		{"http://x/a.mp3", "http://x/a.mp3"},
		{"HTTPS://X/A.mp3", "HTTPS://X/A.mp3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeAudioURL(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeEntry_SeedExamples(t *testing.T) {
	t.Parallel()

	e := provider.DictionaryEntry{
		Word: "run",
		Meanings: []provider.MeaningResult{
			{
				PartOfSpeech: "verb",
				Definitions: []provider.DefinitionResult{
					{Definition: "To move swiftly.", Example: "She runs daily."},
					{Definition: "To operate."},
					{Definition: "To flow.", Example: "The river runs south."},
				},
			},
			{
				PartOfSpeech: "noun",
				Definitions:  []provider.DefinitionResult{{Definition: "A jog.", Example: "A morning run."}},
			},
		},
	}

	rec := normalizeEntry("run", e)

	assert.Equal(t, "verb", rec.PartOfSpeech)
	assert.Equal(t, "To move swiftly.", rec.OriginalDefinition)
	assert.Equal(t, "To move swiftly.", rec.SimplifiedDefinition)
	assert.Equal(t, []domain.Example{
		{English: "She runs daily."},
		{English: "The river runs south."},
	}, rec.Examples)
	for _, ex := range rec.Examples {
		assert.Empty(t, ex.Translation)
	}
}

func TestNormalizeEntry_CapsSeedExamplesAtTwo(t *testing.T) {
	t.Parallel()

	e := provider.DictionaryEntry{
		Meanings: []provider.MeaningResult{{
			Definitions: []provider.DefinitionResult{
				{Definition: "a", Example: "1"},
				{Definition: "b", Example: "2"},
				{Definition: "c", Example: "3"},
			},
		}},
	}

	rec := normalizeEntry("x", e)
	assert.Len(t, rec.Examples, 2)
	assert.Equal(t, "x", rec.Word, "falls back to the lookup word")
}

func TestNormalizeEntry_NoMeanings(t *testing.T) {
	t.Parallel()

	rec := normalizeEntry("rare", provider.DictionaryEntry{Word: "rare"})
	assert.Empty(t, rec.OriginalDefinition)
	assert.Empty(t, rec.PartOfSpeech)
	assert.NotNil(t, rec.Examples)
	assert.Equal(t, domain.EnrichmentNotAttempted, rec.EnrichmentState)
}
