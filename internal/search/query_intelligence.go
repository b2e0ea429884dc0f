package search

import (
	"strings"
	"unicode"
)

const maxVariants = 10

type QueryContext struct {
	Original   string
	Normalized string
	Variants   []string
}

// NormalizeQuery lower-cases input, keeps letters, digits and single spaces,
// and drops everything else.
func NormalizeQuery(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	input = strings.ToLower(input)

	b := strings.Builder{}
	b.Grow(len(input))
	lastWasSpace := false

	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			lastWasSpace = false
			continue
		}
		if unicode.IsSpace(r) || r == '-' || r == '/' {
			if b.Len() == 0 || lastWasSpace {
				continue
			}
			b.WriteByte(' ')
			lastWasSpace = true
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func ExpandQuery(normalized string) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return []string{}
	}

	out := make([]string, 0, maxVariants)
	seen := make(map[string]struct{}, maxVariants)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(normalized)
	for _, syn := range GetSynonyms(normalized) {
		add(syn)
	}

	// Replace a leading term that has synonyms, keeping the rest of the query.
	words := strings.Fields(normalized)
	if len(words) > 1 {
		rest := strings.Join(words[1:], " ")
		for _, syn := range GetSynonyms(words[0]) {
			add(syn + " " + rest)
		}
	}

	// "front end" typed with a space maps back to the compact key.
	compact := strings.ReplaceAll(normalized, " ", "")
	if compact != normalized {
		for _, syn := range GetSynonyms(compact) {
			add(syn)
		}
		if _, ok := Synonyms[compact]; ok {
			add(compact)
		}
	}

	if len(out) > maxVariants {
		out = out[:maxVariants]
	}
	return out
}

func ProcessQuery(input string) QueryContext {
	ctx := QueryContext{Original: input}
	ctx.Normalized = NormalizeQuery(input)
	if ctx.Normalized == "" {
		ctx.Variants = []string{}
		return ctx
	}
	ctx.Variants = ExpandQuery(ctx.Normalized)
	return ctx
}

func FallbackFirstWord(normalized string) string {
	words := strings.Fields(normalized)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}
