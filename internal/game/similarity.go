package game

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// SimilarityThreshold 唬爛答案與正解相似度超過此值即拒絕
const SimilarityThreshold = 0.7

// Similarity 以編輯距離計算兩字串的相似比例，結果介於 0 到 1
func Similarity(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// TooSimilar 判斷唬爛答案是否太接近正解
func TooSimilar(bluff, answer string) bool {
	return Similarity(bluff, answer) > SimilarityThreshold
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
