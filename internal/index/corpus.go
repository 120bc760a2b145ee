package index

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Document is one (url, combined text) pair handed to Fit.
type Document struct {
	URL  string
	Text string
}

// Config bounds the vocabulary built by Fit.
type Config struct {
	MaxFeatures int     // vocabulary cap, most frequent terms win
	MinDocFreq  int     // a term must appear in at least this many documents
	MaxDocRatio float64 // ...and in at most this share of the corpus
}

// CorpusIndex is a TF-IDF vector space over the corpus with one row per
// URL. It is built once per run and only read afterwards; similarity
// lookups for URLs absent at fit time return a neutral 0, never an error.
type CorpusIndex struct {
	cfg          Config
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}

	fitted  bool
	rows    map[string]int
	vectors [][]float64
}

// New creates an unfit corpus index.
func New(cfg Config) *CorpusIndex {
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = 500
	}
	if cfg.MinDocFreq <= 0 {
		cfg.MinDocFreq = 2
	}
	if cfg.MaxDocRatio <= 0 || cfg.MaxDocRatio > 1 {
		cfg.MaxDocRatio = 0.8
	}
	return &CorpusIndex{
		cfg:          cfg,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Fitted reports whether Fit produced a usable vector space.
func (x *CorpusIndex) Fitted() bool { return x.fitted }

// Fit builds the vocabulary and one normalized TF-IDF vector per
// document. An empty corpus, all-empty texts, or a fully filtered
// vocabulary leaves the index unfit.
func (x *CorpusIndex) Fit(docs []Document) {
	x.fitted = false
	x.rows = nil
	x.vectors = nil
	if len(docs) == 0 {
		return
	}
	empty := true
	for _, d := range docs {
		if strings.TrimSpace(d.Text) != "" {
			empty = false
			break
		}
	}
	if empty {
		return
	}

	// Term streams per document: unigrams plus bigrams of adjacent
	// kept tokens, stop-words removed first.
	streams := make([][]string, len(docs))
	df := make(map[string]int)
	tf := make(map[string]int)
	for i, d := range docs {
		terms := x.terms(d.Text)
		streams[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			tf[t]++
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	// Keep terms inside the document-frequency window.
	n := len(docs)
	maxDF := x.cfg.MaxDocRatio * float64(n)
	kept := make([]string, 0, len(df))
	for term, freq := range df {
		if freq < x.cfg.MinDocFreq || float64(freq) > maxDF {
			continue
		}
		kept = append(kept, term)
	}
	if len(kept) == 0 {
		return
	}

	// Cap the vocabulary at the most frequent terms, alphabetical on
	// ties so Fit is deterministic.
	if len(kept) > x.cfg.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if tf[kept[i]] != tf[kept[j]] {
				return tf[kept[i]] > tf[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:x.cfg.MaxFeatures]
	}
	sort.Strings(kept)

	vocabulary := make(map[string]int, len(kept))
	idf := make([]float64, len(kept))
	for i, term := range kept {
		vocabulary[term] = i
		// Smoothed IDF
		idf[i] = math.Log((1+float64(n))/(1+float64(df[term]))) + 1.0
	}

	x.rows = make(map[string]int, n)
	x.vectors = make([][]float64, n)
	for i, d := range docs {
		x.rows[d.URL] = i
		x.vectors[i] = vectorize(streams[i], vocabulary, idf)
	}
	x.fitted = true
}

// Similarity returns the cosine similarity between two document vectors
// scaled to [0,100]. Unfit index or unknown URL yields 0.
func (x *CorpusIndex) Similarity(urlA, urlB string) float64 {
	if !x.fitted {
		return 0
	}
	i, ok := x.rows[urlA]
	if !ok {
		return 0
	}
	j, ok := x.rows[urlB]
	if !ok {
		return 0
	}
	s := dot(x.vectors[i], x.vectors[j]) * 100
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func (x *CorpusIndex) terms(text string) []string {
	lower := strings.ToLower(text)
	raw := x.tokenPattern.FindAllString(lower, -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, isStop := x.stopwords[t]; isStop {
			continue
		}
		tokens = append(tokens, t)
	}
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

func vectorize(terms []string, vocabulary map[string]int, idf []float64) []float64 {
	vec := make([]float64, len(idf))
	counts := make(map[int]int)
	total := 0
	for _, t := range terms {
		if idx, ok := vocabulary[t]; ok {
			counts[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range counts {
		vec[idx] = float64(count) / float64(total) * idf[idx]
	}
	// L2 normalize
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
