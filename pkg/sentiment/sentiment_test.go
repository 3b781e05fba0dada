package sentiment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/chorus/pkg/sentiment"
)

func newClassifier(t *testing.T) *sentiment.Classifier {
	t.Helper()
	cfg := &sentiment.Config{}
	require.NoError(t, cfg.Finalize(nil))
	return sentiment.New(cfg)
}

func TestLabelThresholds(t *testing.T) {
	c := newClassifier(t)

	tests := []struct {
		name     string
		compound float64
		want     sentiment.Label
	}{
		{"strongly positive", 0.9, sentiment.Positive},
		{"positive boundary", 0.05, sentiment.Positive},
		{"just below positive boundary", 0.0499, sentiment.Neutral},
		{"zero", 0, sentiment.Neutral},
		{"just above negative boundary", -0.0499, sentiment.Neutral},
		{"negative boundary", -0.05, sentiment.Negative},
		{"strongly negative", -0.9, sentiment.Negative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Label(tt.compound))
		})
	}
}

func TestClassify(t *testing.T) {
	c := newClassifier(t)

	t.Run("positive comment", func(t *testing.T) {
		r := c.Classify("I love this!")
		assert.Equal(t, sentiment.Positive, r.Label)
		assert.Greater(t, r.Compound, 0.05)
		assert.Greater(t, r.Positive, 0.0)
	})

	t.Run("negative comment", func(t *testing.T) {
		r := c.Classify("This is terrible.")
		assert.Equal(t, sentiment.Negative, r.Label)
		assert.Less(t, r.Compound, -0.05)
		assert.Greater(t, r.Negative, 0.0)
	})

	t.Run("neutral comment", func(t *testing.T) {
		r := c.Classify("I watched it on Tuesday.")
		assert.Equal(t, sentiment.Neutral, r.Label)
		assert.InDelta(t, 0, r.Compound, 0.0001)
	})

	t.Run("label agrees with compound score", func(t *testing.T) {
		for _, text := range []string{
			"Absolutely fantastic work, thank you",
			"worst upload ever, so boring",
			"first",
		} {
			r := c.Classify(text)
			assert.Equal(t, c.Label(r.Compound), r.Label, text)
		}
	})

	t.Run("scores are proportions", func(t *testing.T) {
		r := c.Classify("Great video but the audio is awful")
		assert.InDelta(t, 1.0, r.Positive+r.Negative+r.Neutral, 0.01)
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text unchanged", "nice video", "nice video"},
		{"collapses whitespace", "  so   good \n\t ", "so good"},
		{"drops urls", "see https://example.com/watch?v=1 now", "see now"},
		{"drops bare www links", "visit www.example.com today", "visit today"},
		{"decodes entities", "I&#39;m here", "I'm here"},
		{"line breaks become spaces", "first line<br>second line", "first line second line"},
		{
			"drops link anchors",
			`love it <a href="https://youtu.be/x">https://youtu.be/x</a> great`,
			"love it great",
		},
		{
			"keeps timestamp text",
			`<a href="https://www.youtube.com/watch?v=CnEOLuCojY0&amp;t=60">1:00</a> best part`,
			"1:00 best part",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sentiment.Normalize(tt.in))
		})
	}
}

func TestClassifyIgnoresAnchors(t *testing.T) {
	c := sentiment.New(&sentiment.Config{})

	plain := c.Classify("love it great")
	linked := c.Classify(`love it <a href="https://youtu.be/x">https://youtu.be/x</a> great`)

	assert.Equal(t, plain, linked)
}

func TestParseLabel(t *testing.T) {
	for _, s := range []string{"positive", "negative", "neutral"} {
		l, err := sentiment.ParseLabel(s)
		require.NoError(t, err)
		assert.Equal(t, sentiment.Label(s), l)
	}

	_, err := sentiment.ParseLabel("mixed")
	assert.ErrorIs(t, err, sentiment.ErrInvalidLabel)
}

func threshold(v float64) *float64 { return &v }

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &sentiment.Config{}
		require.NoError(t, cfg.Finalize(nil))
		assert.Equal(t, sentiment.DefaultPositiveThreshold, cfg.Positive())
		assert.Equal(t, sentiment.DefaultNegativeThreshold, cfg.Negative())
	})

	t.Run("explicit zero is kept", func(t *testing.T) {
		cfg := &sentiment.Config{PositiveThreshold: threshold(0)}
		require.NoError(t, cfg.Finalize(nil))
		assert.Equal(t, 0.0, cfg.Positive())

		c := sentiment.New(cfg)
		assert.Equal(t, sentiment.Positive, c.Label(0))
		assert.Equal(t, sentiment.Neutral, c.Label(-0.01))
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("TEST_POS", "0.2")
		t.Setenv("TEST_NEG", "-0.2")
		cfg := &sentiment.Config{}
		require.NoError(t, cfg.Finalize(&sentiment.Env{
			PositiveThreshold: "TEST_POS",
			NegativeThreshold: "TEST_NEG",
		}))
		assert.Equal(t, 0.2, cfg.Positive())
		assert.Equal(t, -0.2, cfg.Negative())
	})

	t.Run("env zero is kept", func(t *testing.T) {
		t.Setenv("TEST_POS", "0")
		cfg := &sentiment.Config{}
		require.NoError(t, cfg.Finalize(&sentiment.Env{PositiveThreshold: "TEST_POS"}))
		assert.Equal(t, 0.0, cfg.Positive())
	})

	t.Run("unparseable env rejected", func(t *testing.T) {
		t.Setenv("TEST_NEG", "minus-a-bit")
		cfg := &sentiment.Config{}
		err := cfg.Finalize(&sentiment.Env{NegativeThreshold: "TEST_NEG"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TEST_NEG")
	})

	t.Run("inverted thresholds rejected", func(t *testing.T) {
		cfg := &sentiment.Config{PositiveThreshold: threshold(-0.1), NegativeThreshold: threshold(0.1)}
		assert.Error(t, cfg.Finalize(nil))
	})

	t.Run("out of range rejected", func(t *testing.T) {
		cfg := &sentiment.Config{PositiveThreshold: threshold(1.5)}
		assert.Error(t, cfg.Finalize(nil))
	})
}

func TestConfigMerge(t *testing.T) {
	base := &sentiment.Config{PositiveThreshold: threshold(0.1), NegativeThreshold: threshold(-0.1)}
	base.Merge(&sentiment.Config{PositiveThreshold: threshold(0)})

	assert.Equal(t, 0.0, base.Positive())
	assert.Equal(t, -0.1, base.Negative())
}
