// Package keywords turns grounded phrase labels into a canonical keyword set.
package keywords

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"github.com/lehigh-university-libraries/pagetagger/internal/providers"
)

const instruction = "I will provide you with a comma-separated list of words. " +
	"Remove all articles (e.g., 'a', 'an', 'the'). " +
	"Remove all pronouns. " +
	"Identify and return only the most significant word from each value. " +
	"Convert all words to their singular forms. " +
	"Make all words lowercase. " +
	"Remove any duplicate words. " +
	"Return the output comma-separated. " +
	"The list is as follows: "

// Response holds the raw normalizer text and the canonical keyword set parsed from it
type Response struct {
	Raw      string
	Keywords []string
}

// Normalizer asks a text generation provider to normalize label lists
type Normalizer struct {
	provider    providers.Provider
	model       string
	temperature float64
}

func NewNormalizer(provider providers.Provider, model string) *Normalizer {
	return &Normalizer{
		provider: provider,
		model:    model,
	}
}

// BuildPrompt embeds the raw label list in the normalization instruction
func BuildPrompt(rawLabels string) string {
	return instruction + rawLabels
}

// Normalize sends the label list to the provider and parses the reply
func (n *Normalizer) Normalize(ctx context.Context, rawLabels string) (Response, error) {
	text, err := n.provider.GenerateText(ctx, providers.Config{
		Model:       n.model,
		Temperature: n.temperature,
		Prompt:      BuildPrompt(rawLabels),
	})
	if err != nil {
		return Response{}, fmt.Errorf("failed to normalize keywords: %w", err)
	}

	raw := strings.TrimSpace(text)
	keywords := Canonicalize(raw)
	if len(keywords) == 0 {
		return Response{}, fmt.Errorf("normalizer returned no keywords for %q", rawLabels)
	}

	slog.Debug("Normalized keywords", "labels", rawLabels, "keywords", keywords)
	return Response{Raw: raw, Keywords: keywords}, nil
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"i": true, "me": true, "my": true, "mine": true,
	"you": true, "your": true, "yours": true,
	"he": true, "him": true, "his": true,
	"she": true, "her": true, "hers": true,
	"it": true, "its": true,
	"we": true, "us": true, "our": true, "ours": true,
	"they": true, "them": true, "their": true, "theirs": true,
	"this": true, "that": true, "these": true, "those": true,
}

// Canonicalize splits a comma-separated list and returns the sorted, deduplicated
// set of lowercase singular head words. Canonicalize(strings.Join(Canonicalize(s), ", "))
// returns the same set.
func Canonicalize(list string) []string {
	seen := make(map[string]bool)
	for _, entry := range strings.Split(list, ",") {
		word := headWord(entry)
		if word == "" {
			continue
		}
		seen[word] = true
	}

	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// headWord keeps the last non-stop word of an entry, singular and lowercase
func headWord(entry string) string {
	words := strings.FieldsFunc(strings.ToLower(entry), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '\''
	})

	head := ""
	for _, w := range words {
		w = strings.Trim(w, "-'")
		if w == "" || stopWords[w] {
			continue
		}
		head = w
	}
	if head == "" {
		return ""
	}
	return singular(head)
}

// sNouns are singular nouns ending in s, paired with their plural
var sNouns = [][2]string{
	{"atlas", "atlases"},
	{"bias", "biases"},
	{"canvas", "canvases"},
	{"gas", "gases"},
	{"lens", "lenses"},
	{"iris", "irises"},
	{"cactus", "cacti"},
	{"fungus", "fungi"},
	{"nucleus", "nuclei"},
	{"radius", "radii"},
	{"stimulus", "stimuli"},
	{"syllabus", "syllabi"},
	{"genus", "genera"},
	{"corpus", "corpora"},
}

var singularNouns = map[string]bool{}

func init() {
	for _, pair := range sNouns {
		inflection.AddIrregular(pair[0], pair[1])
		singularNouns[pair[0]] = true
	}
}

// singular returns the singular form of word. The inflected form is only
// taken when pluralizing it gives back word.
func singular(word string) string {
	if singularNouns[word] {
		return word
	}
	// English plurals do not end in -us, -ss or -is
	for _, suffix := range []string{"us", "ss", "is"} {
		if strings.HasSuffix(word, suffix) {
			return word
		}
	}

	s := inflection.Singular(word)
	if s == word || inflection.Plural(s) != word {
		return word
	}
	return s
}

// Join renders a keyword set as the exported comma-separated string
func Join(keywords []string) string {
	return strings.Join(keywords, ", ")
}
