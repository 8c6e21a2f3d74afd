package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

// fakeGenerator 記錄收到的 prompt，依設定回傳文字或錯誤
type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	delay   time.Duration
	prompts []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.delay > 0 {
		// 故意不理會 ctx，模擬卡住的服務
		time.Sleep(g.delay)
	}
	return g.text, g.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSource(gen Generator, opts Options) *Source {
	if opts.Rand == nil {
		opts.Rand = firstRand{}
	}
	provider := NewPromptProvider(gen, "mot pour {category}", "question sur {theme}")
	return NewSource(provider, opts, discardLogger())
}

func TestSpyWord(t *testing.T) {
	gen := &fakeGenerator{text: " Un Kangourou. "}
	src := newTestSource(gen, Options{Categories: []string{"Animaux", "Métiers"}})

	assert.Equal(t, "Un Kangourou", src.SpyWord(context.Background()))
	assert.Equal(t, []string{"mot pour Animaux"}, gen.prompts)
}

func TestSpyWordDefaultCategory(t *testing.T) {
	gen := &fakeGenerator{text: "Pizza"}
	src := newTestSource(gen, Options{})

	src.SpyWord(context.Background())
	assert.Equal(t, []string{"mot pour " + DefaultCategory}, gen.prompts)
}

func TestSpyWordFallback(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"provider error", &fakeGenerator{err: errors.New("quota exceeded")}},
		{"empty word", &fakeGenerator{text: " ... "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSource(tt.gen, Options{BackupWords: []string{"Une Fourchette"}})
			assert.Equal(t, "Une Fourchette", src.SpyWord(context.Background()))
		})
	}
}

func TestSpyWordTimeout(t *testing.T) {
	gen := &fakeGenerator{text: "Trop tard", delay: time.Second}
	src := newTestSource(gen, Options{Timeout: 20 * time.Millisecond})

	start := time.Now()
	word := src.SpyWord(context.Background())

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, DefaultBackupWords[0], word)
}

func TestKalakQuestion(t *testing.T) {
	gen := &fakeGenerator{text: "Plus haute montagne ?|Everest|_"}
	src := newTestSource(gen, Options{Themes: []string{"Géographie"}})

	q := src.KalakQuestion(context.Background())

	assert.Equal(t, Question{Question: "Plus haute montagne ?", Answer: "everest"}, q)
	assert.Equal(t, []string{"question sur Géographie"}, gen.prompts)
}

func TestKalakQuestionFallbacks(t *testing.T) {
	t.Run("provider error gives placeholder", func(t *testing.T) {
		src := newTestSource(&fakeGenerator{err: errors.New("down")}, Options{})
		assert.Equal(t, TechnicalErrorQuestion, src.KalakQuestion(context.Background()))
	})

	t.Run("timeout gives placeholder", func(t *testing.T) {
		gen := &fakeGenerator{text: "Q ?|R", delay: time.Second}
		src := newTestSource(gen, Options{Timeout: 20 * time.Millisecond})
		assert.Equal(t, TechnicalErrorQuestion, src.KalakQuestion(context.Background()))
	})

	t.Run("unparseable response gives default question", func(t *testing.T) {
		src := newTestSource(&fakeGenerator{text: "Je ne sais pas."}, Options{})
		assert.Equal(t, DefaultQuestion, src.KalakQuestion(context.Background()))
	})
}

func TestHTTPGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch {
		case r.Header.Get("Authorization") != "Bearer key":
			w.WriteHeader(http.StatusUnauthorized)
		case strings.Contains(string(body), "vide"):
			_, _ = w.Write([]byte(`{"text": "  "}`))
		default:
			_, _ = w.Write([]byte(`{"text": "Capitale ?|Paris"}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	text, err := NewHTTPGenerator(srv.URL, "key", srv.Client()).Generate(ctx, "question")
	require.NoError(t, err)
	assert.Equal(t, "Capitale ?|Paris", text)

	_, err = NewHTTPGenerator(srv.URL, "key", srv.Client()).Generate(ctx, "vide")
	assert.ErrorIs(t, err, ErrProvider)

	_, err = NewHTTPGenerator(srv.URL, "wrong", srv.Client()).Generate(ctx, "question")
	assert.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "401")
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrProvider)
}
