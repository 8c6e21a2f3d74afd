package content

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

const (
	DefaultCategory = "Tout et n'importe quoi"
	DefaultTheme    = "Culture générale"
	DefaultTimeout  = 8 * time.Second
)

// DefaultBackupWords 生成失敗時的備援詞
var DefaultBackupWords = []string{
	"La Tour Eiffel", "Un Kangourou", "Napoléon", "Une Pizza",
	"Un Chirurgien", "Une Brosse à dents", "Mars (la planète)",
	"Un Vampire", "Le Titanic", "Une Fourchette", "Un Youtubeur",
}

// Rand 隨機來源
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Options Source 的設定
type Options struct {
	Categories  []string
	Themes      []string
	BackupWords []string
	Timeout     time.Duration
	Rand        Rand
}

// Source 包裝 Provider，加上逾時與備援，永遠回傳可用內容
type Source struct {
	provider Provider
	opts     Options
	logger   *slog.Logger
}

func NewSource(provider Provider, opts Options, logger *slog.Logger) *Source {
	if len(opts.BackupWords) == 0 {
		opts.BackupWords = DefaultBackupWords
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Rand == nil {
		opts.Rand = globalRand{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{provider: provider, opts: opts, logger: logger}
}

// SpyWord 隨機選一個類別取得臥底詞，失敗時從備援詞中挑一個
func (s *Source) SpyWord(ctx context.Context) string {
	category := s.pick(s.opts.Categories, DefaultCategory)

	word, err := withTimeout(ctx, s.opts.Timeout, func(ctx context.Context) (string, error) {
		return s.provider.GetWord(ctx, category)
	})
	if err == nil {
		if word = CleanWord(word); word != "" {
			return word
		}
		err = fmt.Errorf("%w: empty word", ErrProvider)
	}

	backup := s.opts.BackupWords[s.opts.Rand.IntN(len(s.opts.BackupWords))]
	s.logger.Warn("word generation failed, using backup word", "category", category, "error", err)
	return backup
}

// KalakQuestion 隨機選一個主題取得題目，失敗時回傳技術錯誤佔位題
func (s *Source) KalakQuestion(ctx context.Context) Question {
	theme := s.pick(s.opts.Themes, DefaultTheme)

	q, err := withTimeout(ctx, s.opts.Timeout, func(ctx context.Context) (Question, error) {
		return s.provider.GetQuestion(ctx, theme)
	})
	if err != nil {
		s.logger.Warn("question generation failed, using placeholder", "theme", theme, "error", err)
		return TechnicalErrorQuestion
	}
	return q
}

func (s *Source) pick(list []string, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	return list[s.opts.Rand.IntN(len(list))]
}

// withTimeout 即使 provider 忽略 context 也會在逾時後立即返回
func withTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrProvider, ctx.Err())
	}
}
