package geminiservice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestBuildNarrativePrompt(t *testing.T) {
	prompt := BuildNarrativePrompt(PromptContext{
		Age:         47,
		Gender:      "female",
		Country:     "Japan",
		Language:    "Japanese",
		Glucose:     f(104.5),
		Cholesterol: nil,
		UricAcid:    f(6),
	})

	assert.True(t, strings.HasPrefix(prompt,
		"You're a doctor, analyze the following blood test results for a 47-year-old female from Japan in Japanese language:"))
	assert.Contains(t, prompt, "Blood Sugar: 104.5 mg/dL\n")
	assert.Contains(t, prompt, "Cholesterol: not provided\n")
	assert.Contains(t, prompt, "Gout: 6 mg/dL\n")
	assert.Contains(t, prompt, "Overall Health Assessment:")
	assert.Contains(t, prompt, "Lifestyle Recommendations:")
	assert.NotContains(t, prompt, "mg/dL mg/dL")
}

func TestBuildNarrativePromptDefaults(t *testing.T) {
	prompt := BuildNarrativePrompt(PromptContext{Age: 30})
	assert.Contains(t, prompt, "30-year-old person from an unspecified country in English language")
	assert.Equal(t, 3, strings.Count(prompt, ": not provided"))
}

func TestCacheKeyIsStable(t *testing.T) {
	a := CacheKey(BuildNarrativePrompt(PromptContext{Age: 40, Glucose: f(90)}))
	b := CacheKey(BuildNarrativePrompt(PromptContext{Age: 40, Glucose: f(90)}))
	c := CacheKey(BuildNarrativePrompt(PromptContext{Age: 40, Glucose: f(91)}))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Blood Sugar:\n"), genai.Text("Normal")}},
		}},
	}
	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Blood Sugar:\nNormal", text)

	_, err = responseText(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("  ")}}}},
	})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = responseText(nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNewGeminiNarratorRequiresKey(t *testing.T) {
	_, err := NewGeminiNarrator(context.Background(), "", "gemini-1.5-flash")
	assert.Error(t, err)
}

type countingGenerator struct {
	calls   int
	prompts []string
	reply   string
	err     error
}

func (g *countingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func TestCachedNarratorServesRepeatsFromCache(t *testing.T) {
	gen := &countingGenerator{reply: "Blood Sugar:\nNormal"}
	cache, err := NewLRUCache(8)
	require.NoError(t, err)
	n := NewCachedNarrator(gen, cache)
	ctx := context.Background()
	pc := PromptContext{Age: 52, Gender: "male", Country: "France", Glucose: f(99)}

	first, err := n.GenerateNarrative(ctx, pc)
	require.NoError(t, err)
	second, err := n.GenerateNarrative(ctx, pc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, BuildNarrativePrompt(pc), gen.prompts[0])

	pc.Language = "French"
	_, err = n.GenerateNarrative(ctx, pc)
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls)
}

func TestCachedNarratorDoesNotCacheFailures(t *testing.T) {
	boom := errors.New("quota exceeded")
	gen := &countingGenerator{err: boom}
	cache, err := NewLRUCache(8)
	require.NoError(t, err)
	n := NewCachedNarrator(gen, cache)

	_, err = n.GenerateNarrative(context.Background(), PromptContext{Age: 20})
	assert.ErrorIs(t, err, boom)
	_, err = n.GenerateNarrative(context.Background(), PromptContext{Age: 20})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, gen.calls)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("cache down")
}
func (brokenCache) Set(context.Context, string, string) error { return errors.New("cache down") }

func TestCachedNarratorToleratesCacheFailure(t *testing.T) {
	gen := &countingGenerator{reply: "ok"}
	n := NewCachedNarrator(gen, brokenCache{})

	text, err := n.GenerateNarrative(context.Background(), PromptContext{Age: 20})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

// fakeRedis implements the two commands RedisCache uses.
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
	ttl  map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (r *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := r.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (r *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	r.data[key] = value.(string)
	r.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisCache(t *testing.T) {
	backend := newFakeRedis()
	c := NewRedisCacheFromClient(backend, time.Hour)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "abc", "narrative"))
	assert.Equal(t, "narrative", backend.data[redisKeyPrefix+"abc"])
	assert.Equal(t, time.Hour, backend.ttl[redisKeyPrefix+"abc"])

	v, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "narrative", v)
}

func TestLRUCacheEvicts(t *testing.T) {
	c, err := NewLRUCache(1)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "1"))
	require.NoError(t, c.Set(ctx, "b", "2"))

	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	v, ok, _ := c.Get(ctx, "b")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, err = NewLRUCache(0)
	assert.Error(t, err)
}
