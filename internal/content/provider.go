package content

import (
	"context"
	"errors"
	"strings"
)

// ErrProvider 外部生成服務失敗，只在本包內被吸收
var ErrProvider = errors.New("content provider error")

// Question Kalak 題目
type Question struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	ImageRef string `json:"image_ref,omitempty"`
}

var (
	// TechnicalErrorQuestion 生成失敗時使用的佔位題目
	TechnicalErrorQuestion = Question{Question: "Erreur technique", Answer: "erreur"}

	// DefaultQuestion 回應中找不到 QUESTION|ANSWER 行時使用
	DefaultQuestion = Question{Question: "Question par défaut ?", Answer: "réponse"}
)

// WordProvider 依類別生成一個臥底詞
type WordProvider interface {
	GetWord(ctx context.Context, category string) (string, error)
}

// QuestionProvider 依主題生成一題問答
type QuestionProvider interface {
	GetQuestion(ctx context.Context, theme string) (Question, error)
}

// Provider 同時提供兩種內容
type Provider interface {
	WordProvider
	QuestionProvider
}

// Generator 外部文字生成能力
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PromptProvider 把類別/主題套進提示模板後交給 Generator
type PromptProvider struct {
	gen            Generator
	wordPrompt     string
	questionPrompt string
}

// NewPromptProvider 模板中的 {category} 與 {theme} 會被替換
func NewPromptProvider(gen Generator, wordPrompt, questionPrompt string) *PromptProvider {
	return &PromptProvider{gen: gen, wordPrompt: wordPrompt, questionPrompt: questionPrompt}
}

func (p *PromptProvider) GetWord(ctx context.Context, category string) (string, error) {
	text, err := p.gen.Generate(ctx, strings.ReplaceAll(p.wordPrompt, "{category}", category))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (p *PromptProvider) GetQuestion(ctx context.Context, theme string) (Question, error) {
	text, err := p.gen.Generate(ctx, strings.ReplaceAll(p.questionPrompt, "{theme}", theme))
	if err != nil {
		return Question{}, err
	}
	q, ok := ParseQuestion(text)
	if !ok {
		return DefaultQuestion, nil
	}
	return q, nil
}

// CleanWord 去掉生成文字前後空白與結尾句點
func CleanWord(word string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(word), "."))
}
