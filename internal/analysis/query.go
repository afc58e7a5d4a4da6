package analysis

import (
	"strings"

	"gagyebu/internal/core"
)

var (
	trendKeywords = []string{
		"trend", "compare", "comparison", "change", "increase", "decrease", "growth",
		"경향", "추세", "변화", "증감", "비교", "추이", "증가", "감소",
	}
	detailKeywords = []string{
		"spending", "expense", "item", "category", "breakdown", "detail",
		"지출", "항목", "카테고리",
	}
	frequencyKeywords = []string{
		"frequency", "frequent", "often", "single", "individual", "count", "how many",
		"빈도", "낱개", "개별", "자주", "횟수",
	}
)

// Intent is what a free-text analysis query asks for.
type Intent struct {
	Trend      bool
	Detail     bool
	Frequency  bool
	Categories []core.Category // categories named in the query, in declaration order
}

// ParseQuery matches trigger keywords and category names as substrings of the lower-cased query.
func ParseQuery(query string) Intent {
	q := strings.ToLower(query)
	in := Intent{
		Trend:     containsAny(q, trendKeywords),
		Detail:    containsAny(q, detailKeywords),
		Frequency: containsAny(q, frequencyKeywords),
	}
	for _, c := range core.Categories {
		if strings.Contains(q, strings.ToLower(string(c))) || strings.Contains(q, c.Label()) {
			in.Categories = append(in.Categories, c)
		}
	}
	return in
}

func (in Intent) wantsCategoryDetail() bool {
	return in.Detail || len(in.Categories) > 0
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
