package knowledge

import (
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// The index embeds chunks and queries locally with a hashed character-trigram
// representation. No inference runtime is required, which keeps retrieval
// available even when the model tier is not.
const (
	embeddingModelID = "mindwell-chargram-384-v1"
	embeddingDims    = 384
)

var wordPattern = regexp.MustCompile(`[a-z0-9_\-]+`)

// EmbedText returns the normalized embedding vector for text.
func EmbedText(text string) []float32 {
	vec := make([]float32, embeddingDims)
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return vec
	}

	padded := "#" + normalized + "#"
	for i := 0; i+3 <= len(padded); i++ {
		bump(vec, padded[i:i+3], 1)
	}
	for _, word := range wordPattern.FindAllString(normalized, -1) {
		bump(vec, "w:"+word, 1.25)
	}

	normalize(vec)
	return vec
}

func bump(vec []float32, key string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	sum := h.Sum64()
	vec[int(sum%uint64(len(vec)))] += weight
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v * v)
	}
	n := math.Sqrt(sum)
	if n == 0 {
		return
	}
	inv := float32(1.0 / n)
	for i := range vec {
		vec[i] *= inv
	}
}

// CosineSimilarity of two normalized vectors reduces to their dot product.
func CosineSimilarity(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i] * b[i])
	}
	return dot
}
