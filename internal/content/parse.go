package content

import (
	"strings"
	"unicode"
)

const separator = "|"

// 模型偶爾會在欄位前加上標籤
var (
	questionLabels = []string{"Question :", "Question:"}
	answerLabels   = []string{"Réponse :", "Réponse:", "Answer :", "Answer:"}
)

// ParseQuestion 解析 QUESTION|ANSWER 或 QUESTION|ANSWER|IMAGE。
//
// 逐行尋找第一個含分隔符且問題與答案都不為空的行，最多切成三段並去掉空白；
// 只有問題欄位會去掉開頭的 "1." 或 "1)" 序號，答案轉成小寫。
// 找不到任何符合的行時回傳 false。
func ParseQuestion(text string) (Question, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, separator) {
			continue
		}

		parts := strings.SplitN(line, separator, 3)
		q := stripOrdinal(trimLabels(strings.TrimSpace(parts[0]), questionLabels))
		a := strings.ToLower(trimLabels(strings.TrimSpace(parts[1]), answerLabels))
		if q == "" || a == "" {
			continue
		}

		result := Question{Question: q, Answer: a}
		if len(parts) == 3 {
			if img := strings.TrimSpace(parts[2]); img != "_" {
				result.ImageRef = img
			}
		}
		return result, true
	}
	return Question{}, false
}

func trimLabels(s string, labels []string) string {
	for _, label := range labels {
		if strings.HasPrefix(s, label) {
			return strings.TrimSpace(strings.TrimPrefix(s, label))
		}
	}
	return s
}

// stripOrdinal 去掉 "N." 或 "N)" 開頭序號；後面必須接空白，"1.5 million" 這類小數不動
func stripOrdinal(s string) string {
	i := 0
	for i < len(s) && unicode.IsDigit(rune(s[i])) {
		i++
	}
	if i == 0 || i >= len(s) || (s[i] != '.' && s[i] != ')') {
		return s
	}
	rest := s[i+1:]
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		return s
	}
	return strings.TrimSpace(rest)
}
