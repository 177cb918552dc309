package knowledge

import (
	"math"
	"testing"
)

func TestEmbedText_Normalized(t *testing.T) {
	vec := EmbedText("deep breathing exercises can reduce anxiety")
	var sum float64
	for _, v := range vec {
		sum += float64(v * v)
	}
	if math.Abs(math.Sqrt(sum)-1.0) > 1e-4 {
		t.Errorf("vector norm = %f, want 1.0", math.Sqrt(sum))
	}
}

func TestEmbedText_EmptyIsZeroVector(t *testing.T) {
	vec := EmbedText("   ")
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("empty text vector has non-zero component at %d", i)
		}
	}
}

func TestEmbedText_Deterministic(t *testing.T) {
	a := EmbedText("mindfulness meditation")
	b := EmbedText("mindfulness meditation")
	if CosineSimilarity(a, b) < 0.9999 {
		t.Error("same text must embed identically")
	}
}

func TestCosineSimilarity_RelatedTextScoresHigher(t *testing.T) {
	query := EmbedText("I cannot sleep and feel tired")
	sleepDoc := EmbedText("sleep hygiene practices help with insomnia and tiredness at night")
	stressDoc := EmbedText("time management strategies and setting boundaries at work")

	if CosineSimilarity(query, sleepDoc) <= CosineSimilarity(query, stressDoc) {
		t.Error("sleep document should score higher than an unrelated one for a sleep query")
	}
}

func TestCosineSimilarity_EmptyVectors(t *testing.T) {
	if got := CosineSimilarity(nil, EmbedText("x")); got != 0 {
		t.Errorf("similarity with nil vector = %f, want 0", got)
	}
}
