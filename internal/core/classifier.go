package core

import "strings"

type (
	keywordSet struct {
		Category Category
		Keywords []string
	}

	CategoryScore struct {
		Category Category
		Score    int
	}
)

// keywordTable is declared in category order; Other has no keywords.
var keywordTable = []keywordSet{
	{Food, []string{
		"food", "restaurant", "delivery", "cafe", "coffee", "lunch", "dinner", "breakfast", "snack", "chicken", "pizza", "burger",
		"음식", "식당", "배달", "카페", "커피", "점심", "저녁", "아침", "간식", "치킨", "피자", "햄버거",
	}},
	{Transport, []string{
		"bus", "subway", "metro", "taxi", "train", "fuel", "parking", "toll", "transit", "fare",
		"버스", "지하철", "택시", "기차", "주유", "주차", "통행료", "교통", "이동",
	}},
	{Shopping, []string{
		"clothes", "shoes", "bag", "cosmetics", "apparel", "shopping", "online", "market",
		"옷", "신발", "가방", "화장품", "의류", "쇼핑", "온라인", "마켓",
	}},
	{Living, []string{
		"electric", "gas", "water", "internet", "telecom", "maintenance fee", "utility",
		"전기", "가스", "수도", "인터넷", "통신", "관리비", "공과금",
	}},
	{Medical, []string{
		"hospital", "pharmacy", "medical", "dental", "checkup", "medicine", "drug",
		"병원", "약국", "의료", "치과", "검진", "약",
	}},
	{Education, []string{
		"academy", "book", "lecture", "education", "study", "textbook", "course", "tuition",
		"학원", "책", "강의", "교육", "학습", "교재",
	}},
	{Entertainment, []string{
		"movie", "cinema", "game", "amusement", "hobby", "leisure", "concert",
		"영화", "게임", "놀이", "취미", "여가", "콘서트",
	}},
}

// Keywords returns a copy of the keywords registered for c.
func Keywords(c Category) []string {
	for _, set := range keywordTable {
		if set.Category == c {
			return append([]string(nil), set.Keywords...)
		}
	}
	return nil
}

// Scores counts, per category, how many of its keywords occur in productName.
// Each keyword counts at most once.
func Scores(productName string) []CategoryScore {
	name := strings.ToLower(productName)
	scores := make([]CategoryScore, 0, len(keywordTable))
	for _, set := range keywordTable {
		n := 0
		if name != "" {
			for _, kw := range set.Keywords {
				if strings.Contains(name, kw) {
					n++
				}
			}
		}
		scores = append(scores, CategoryScore{Category: set.Category, Score: n})
	}
	return scores
}

// Classify suggests a category for a product name. The strictly highest
// score wins, ties go to the earlier category and no match yields Other.
func Classify(productName string) Category {
	best, bestScore := Other, 0
	for _, s := range Scores(productName) {
		if s.Score > bestScore {
			best, bestScore = s.Category, s.Score
		}
	}
	return best
}
