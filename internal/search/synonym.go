package search

// Synonyms maps a normalized phrase to alternative phrasings students type
// when looking for the same kind of posting.
var Synonyms = map[string][]string{
	"frontend":   {"front end", "frontend developer", "ui developer"},
	"backend":    {"back end", "server developer"},
	"fullstack":  {"full stack", "full stack developer"},
	"intern":     {"internship", "trainee"},
	"internship": {"intern", "trainee"},
	"ml":         {"machine learning", "data scientist"},
	"qa":         {"quality assurance", "test engineer"},
	"designer":   {"ui designer", "ux designer", "product designer"},
}

func GetSynonyms(query string) []string {
	if query == "" {
		return []string{}
	}
	if v, ok := Synonyms[query]; ok {
		out := make([]string, 0, len(v))
		out = append(out, v...)
		return out
	}
	return []string{}
}
