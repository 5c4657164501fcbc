package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/pagetagger/internal/providers"
)

// LLM translates text by prompting a text generation provider
type LLM struct {
	provider providers.Provider
	model    string
}

func NewLLM(provider providers.Provider, model string) *LLM {
	return &LLM{provider: provider, model: model}
}

// Translate translates text into targetLanguage
func (l *LLM) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	prompt := fmt.Sprintf(`You are a professional translator working on archival catalog records.
Translate the text below into the language with ISO 639-1 code %q.
Keep list structure and punctuation. Do not add commentary.
Return only JSON: {"translation":"..."}

TEXT:
%s`, targetLanguage, text)

	content, err := l.provider.GenerateText(ctx, providers.Config{
		Model:       l.model,
		Temperature: 0.1,
		Prompt:      prompt,
		JSON:        true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to translate text: %w", err)
	}

	return extractTranslation(content)
}

var translationRE = regexp.MustCompile(`(?s)"translation"\s*:\s*"(.*?)"`)

func extractTranslation(content string) (string, error) {
	s := strings.TrimSpace(content)
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := strings.TrimPrefix(s[idx+3:], "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = strings.TrimSpace(rest[:j])
		}
	}

	var obj struct {
		Translation string `json:"translation"`
	}
	if err := json.Unmarshal([]byte(s), &obj); err == nil && obj.Translation != "" {
		return obj.Translation, nil
	}

	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			if err := json.Unmarshal([]byte(s[i:j+1]), &obj); err == nil && obj.Translation != "" {
				return obj.Translation, nil
			}
		}
	}

	if m := translationRE.FindStringSubmatch(s); len(m) == 2 {
		t := strings.ReplaceAll(m[1], `\n`, "\n")
		return strings.ReplaceAll(t, `\"`, `"`), nil
	}

	// models that ignore JSON mode answer in plain text
	if !strings.Contains(s, "{") && s != "" {
		lower := strings.ToLower(s)
		for _, k := range []string{"translation:", "translated:"} {
			if pos := strings.Index(lower, k); pos >= 0 && pos < 80 {
				if cand := strings.TrimSpace(s[pos+len(k):]); cand != "" {
					return cand, nil
				}
			}
		}
		return s, nil
	}

	return "", fmt.Errorf("failed to parse translation from response: %s", abbreviate(s, 200))
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
