// Package locator resolves a target snippet to the best-matching span in a
// haystack, trying progressively looser strategies.
//
// Strategies run in strict precedence order and the first hit wins; they are
// never combined or voted, so behavior stays deterministic and auditable.
// Each strategy carries a fixed confidence constant (scaled by the overlap
// score for the window-based strategies). Within a strategy, ties are broken
// by earliest offset in the haystack. When every strategy misses, Locate
// returns nil: an unlocatable snippet is an expected outcome, not an error.
package locator

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"go.uber.org/zap"

	"github.com/hyperjump/tensaku/internal/llm"
	"github.com/hyperjump/tensaku/internal/models"
)

// Strategy names, in cascade order.
const (
	StrategyExact       = "exact"
	StrategyExactShort  = "exact-short"
	StrategyPunctuation = "punctuation-normalized"
	StrategyQuotes      = "quotes-normalized"
	StrategyCaseShort   = "case-insensitive-short"
	StrategyPartial     = "partial"
	StrategyWindow      = "sliding-window"
	StrategyFuzzyIndex  = "fuzzy-index"
	StrategyLLM         = "llm"
)

// Per-strategy confidence constants.
const (
	ConfidenceExact       = 1.0
	ConfidencePunctuation = 0.95
	ConfidenceQuotes      = 0.9
	ConfidenceCaseShort   = 0.85
	ConfidencePartial     = 0.7
	ConfidenceWindowBase  = 0.5
	ConfidenceFuzzyBase   = 0.4
	ConfidenceLLM         = 0.3
)

// Config holds the locator's tunable thresholds. The cutoffs are empirical;
// they are exposed here rather than hard-coded so they can be validated
// against a fixture corpus.
type Config struct {
	// ShortTargetLen is the byte length under which a target is "short":
	// exact matches then require word boundaries, to avoid spurious partial
	// hits inside longer words.
	ShortTargetLen int
	// CaseShortMaxLen is the maximum target length (in runes) for the
	// case-insensitive strategy.
	CaseShortMaxLen int
	// PartialMinTargetLen is the minimum target byte length for the partial
	// (truncated-quote) strategy.
	PartialMinTargetLen int
	// PartialFraction is the fraction of the target used as the prefix to
	// search for in the partial strategy.
	PartialFraction float64
	// PartialMinPrefixLen floors the prefix length in bytes.
	PartialMinPrefixLen int
	// WindowMinScore is the minimum similarity for a sliding-window hit.
	WindowMinScore float64
	// FuzzyFloor is the minimum similarity for a fuzzy-index hit.
	FuzzyFloor float64
	// CacheSize is the located-span LRU capacity; 0 disables caching.
	CacheSize int
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		ShortTargetLen:      30,
		CaseShortMaxLen:     64,
		PartialMinTargetLen: 50,
		PartialFraction:     0.4,
		PartialMinPrefixLen: 20,
		WindowMinScore:      0.35,
		FuzzyFloor:          0.4,
		CacheSize:           256,
	}
}

// Options are the per-call matching switches.
type Options struct {
	// NormalizeQuotes enables the quotes-normalized strategy.
	NormalizeQuotes bool
	// PartialMatch enables the partial/prefix strategy for truncated quotes.
	PartialMatch bool
	// UseLLMFallback enables the model-assisted strategy when all
	// deterministic strategies fail.
	UseLLMFallback bool
	// IncludeExplanation logs the model's explanation for an LLM hit.
	IncludeExplanation bool
}

// Locator runs the strategy cascade. It is safe for concurrent use: all
// state is read-only after construction except the internal cache, which
// synchronizes itself.
type Locator struct {
	cfg      Config
	searcher llm.Searcher
	cache    *spanCache
	logger   *zap.Logger
}

// New creates a locator. searcher may be nil, which disables the LLM
// strategy regardless of options; logger may be nil.
func New(cfg Config, searcher llm.Searcher, logger *zap.Logger) *Locator {
	def := DefaultConfig()
	if cfg.ShortTargetLen <= 0 {
		cfg.ShortTargetLen = def.ShortTargetLen
	}
	if cfg.CaseShortMaxLen <= 0 {
		cfg.CaseShortMaxLen = def.CaseShortMaxLen
	}
	if cfg.PartialMinTargetLen <= 0 {
		cfg.PartialMinTargetLen = def.PartialMinTargetLen
	}
	if cfg.PartialFraction <= 0 || cfg.PartialFraction > 1 {
		cfg.PartialFraction = def.PartialFraction
	}
	if cfg.PartialMinPrefixLen <= 0 {
		cfg.PartialMinPrefixLen = def.PartialMinPrefixLen
	}
	if cfg.WindowMinScore <= 0 {
		cfg.WindowMinScore = def.WindowMinScore
	}
	if cfg.FuzzyFloor <= 0 {
		cfg.FuzzyFloor = def.FuzzyFloor
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{
		cfg:      cfg,
		searcher: searcher,
		cache:    newSpanCache(cfg.CacheSize),
		logger:   logger,
	}
}

// Locate returns the best-matching span for target in haystack, or nil when
// no strategy produces a match. The caller must treat nil as "finding
// unlocatable", never as an error.
func (l *Locator) Locate(ctx context.Context, target, haystack string, opts Options) *models.LocatedSpan {
	target = strings.TrimSpace(target)
	if target == "" || haystack == "" {
		return nil
	}

	key := cacheKey(target, haystack, opts)
	if span, ok := l.cache.Get(key); ok {
		return span
	}

	span := l.cascade(ctx, target, haystack, opts)
	if span != nil {
		l.cache.Set(key, span)
	}
	return span
}

func (l *Locator) cascade(ctx context.Context, target, haystack string, opts Options) *models.LocatedSpan {
	if span := l.exact(target, haystack); span != nil {
		return span
	}
	if span := l.normalized(target, haystack, identity, StrategyPunctuation, ConfidencePunctuation); span != nil {
		return span
	}
	if opts.NormalizeQuotes {
		if span := l.normalized(target, haystack, asciiQuotes, StrategyQuotes, ConfidenceQuotes); span != nil {
			return span
		}
	}
	if utf8.RuneCountInString(target) <= l.cfg.CaseShortMaxLen {
		if span := l.normalized(target, haystack, lowerRune, StrategyCaseShort, ConfidenceCaseShort); span != nil {
			return span
		}
	}
	if opts.PartialMatch {
		if span := l.partial(target, haystack); span != nil {
			return span
		}
	}
	if span := l.slidingWindow(target, haystack); span != nil {
		return span
	}
	if span := l.fuzzyIndex(target, haystack); span != nil {
		return span
	}
	if opts.UseLLMFallback && l.searcher != nil {
		if span := l.llmFallback(ctx, target, haystack, opts); span != nil {
			return span
		}
	}
	return nil
}

// exact implements the two literal strategies. Targets at or above
// ShortTargetLen match anywhere; shorter targets additionally require word
// boundaries on both sides, which avoids anchoring "rate" inside "strategy".
func (l *Locator) exact(target, haystack string) *models.LocatedSpan {
	if len(target) >= l.cfg.ShortTargetLen {
		if i := strings.Index(haystack, target); i >= 0 {
			return span(haystack, i, i+len(target), StrategyExact, ConfidenceExact)
		}
		return nil
	}
	for i := 0; ; {
		j := strings.Index(haystack[i:], target)
		if j < 0 {
			return nil
		}
		start := i + j
		end := start + len(target)
		if wordBoundaryBefore(haystack, start) && wordBoundaryAfter(haystack, end) {
			return span(haystack, start, end, StrategyExactShort, ConfidenceExact)
		}
		i = start + 1
		if i >= len(haystack) {
			return nil
		}
	}
}

// normalized matches target against haystack after applying transform and
// whitespace collapsing to both, mapping the hit back to original offsets.
func (l *Locator) normalized(target, haystack string, transform func(rune) rune, strategy string, confidence float64) *models.LocatedSpan {
	normTarget := normalizeTarget(target, transform, true)
	if normTarget == "" {
		return nil
	}
	m := buildMapped(haystack, transform, true)
	start, end, ok := m.find(normTarget)
	if !ok {
		return nil
	}
	return span(haystack, start, end, strategy, confidence)
}

// partial matches the target's leading fraction, for quotes truncated by the
// extraction step.
func (l *Locator) partial(target, haystack string) *models.LocatedSpan {
	if len(target) < l.cfg.PartialMinTargetLen {
		return nil
	}
	n := int(float64(len(target)) * l.cfg.PartialFraction)
	if n < l.cfg.PartialMinPrefixLen {
		n = l.cfg.PartialMinPrefixLen
	}
	// Back off to a rune boundary.
	for n > 0 && isContinuation(target[n]) {
		n--
	}
	prefix := strings.TrimSpace(target[:n])
	if prefix == "" {
		return nil
	}
	if i := strings.Index(haystack, prefix); i >= 0 {
		return span(haystack, i, i+len(prefix), StrategyPartial, ConfidencePartial)
	}
	return nil
}

// slidingWindow slides a target-sized window across the haystack and scores
// each position with character-bigram overlap (Sorensen-Dice). The best
// window above WindowMinScore wins; equal scores keep the earliest offset.
func (l *Locator) slidingWindow(target, haystack string) *models.LocatedSpan {
	start, end, score, ok := bestWindow(target, haystack)
	if !ok || score < l.cfg.WindowMinScore {
		return nil
	}
	conf := ConfidenceWindowBase + 0.2*score
	if conf > 0.7 {
		conf = 0.7
	}
	return span(haystack, start, end, StrategyWindow, conf)
}

// fuzzyIndex builds a transient bleve index over the haystack's lines, asks
// it for the line most resembling the target, then recovers offsets by
// scoring windows around that line.
func (l *Locator) fuzzyIndex(target, haystack string) *models.LocatedSpan {
	f, err := newFuzzyLineIndex(haystack)
	if err != nil {
		l.logger.Debug("fuzzy line index unavailable", zap.Error(err))
		return nil
	}
	defer f.Close()

	line, ok := f.bestLine(target)
	if !ok {
		return nil
	}
	region, base := f.region(line)
	start, end, score, ok := bestWindow(target, region)
	if !ok || score < l.cfg.FuzzyFloor {
		return nil
	}
	conf := ConfidenceFuzzyBase + 0.2*score
	if conf > 0.6 {
		conf = 0.6
	}
	return span(haystack, base+start, base+end, StrategyFuzzyIndex, conf)
}

// llmFallback asks the external text-understanding collaborator for a best
// guess and validates it: the returned quote must itself be found in the
// haystack (exactly or after normalization) before it is trusted.
func (l *Locator) llmFallback(ctx context.Context, target, haystack string, opts Options) *models.LocatedSpan {
	m, err := l.searcher.FindText(ctx, target, haystack)
	if err != nil {
		// Collaborator failure degrades to "strategy unavailable".
		l.logger.Debug("llm fallback unavailable", zap.Error(err))
		return nil
	}
	if m == nil {
		return nil
	}
	quote := strings.TrimSpace(m.QuotedText)
	if quote == "" {
		return nil
	}
	conf := ConfidenceLLM
	if m.Confidence > 0 {
		conf = m.Confidence
	}
	if opts.IncludeExplanation && m.Explanation != "" {
		l.logger.Debug("llm match explanation", zap.String("explanation", m.Explanation))
	}
	if i := strings.Index(haystack, quote); i >= 0 {
		return span(haystack, i, i+len(quote), StrategyLLM, conf)
	}
	normQuote := normalizeTarget(quote, identity, true)
	if start, end, ok := buildMapped(haystack, identity, true).find(normQuote); ok {
		return span(haystack, start, end, StrategyLLM, conf)
	}
	l.logger.Debug("llm quote not found in haystack, discarding",
		zap.String("quote", firstN(quote, 80)))
	return nil
}

// bestWindow finds the target-sized window in text with the highest
// Sorensen-Dice character-bigram similarity to target. Later windows replace
// the best only on a strictly higher score, so ties keep the earliest offset.
func bestWindow(target, text string) (start, end int, score float64, ok bool) {
	wlen := len(target)
	if wlen == 0 || len(text) == 0 {
		return 0, 0, 0, false
	}
	if wlen >= len(text) {
		sim, err := edlib.StringsSimilarity(target, text, edlib.SorensenDice)
		if err != nil {
			return 0, 0, 0, false
		}
		return 0, len(text), float64(sim), true
	}
	step := wlen / 8
	if step < 1 {
		step = 1
	}
	best := -1.0
	for pos := 0; pos <= len(text)-wlen; pos += step {
		s := alignForward(text, pos)
		e := alignForward(text, s+wlen)
		if e > len(text) {
			e = len(text)
		}
		if s >= e {
			break
		}
		sim, err := edlib.StringsSimilarity(target, text[s:e], edlib.SorensenDice)
		if err != nil {
			continue
		}
		if float64(sim) > best {
			best = float64(sim)
			start, end = s, e
		}
	}
	// Tail window flush against the end of the text.
	s := alignForward(text, len(text)-wlen)
	if sim, err := edlib.StringsSimilarity(target, text[s:], edlib.SorensenDice); err == nil && float64(sim) > best {
		best = float64(sim)
		start, end = s, len(text)
	}
	if best < 0 {
		return 0, 0, 0, false
	}
	return start, end, best, true
}

// span builds a LocatedSpan, guarding the offset invariant.
func span(haystack string, start, end int, strategy string, confidence float64) *models.LocatedSpan {
	if start < 0 || end > len(haystack) || start >= end {
		return nil
	}
	return &models.LocatedSpan{
		StartOffset: start,
		EndOffset:   end,
		MatchedText: haystack[start:end],
		Strategy:    strategy,
		Confidence:  confidence,
	}
}

func wordBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func wordBoundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

// alignForward advances i to the next rune boundary in s.
func alignForward(s string, i int) int {
	for i < len(s) && isContinuation(s[i]) {
		i++
	}
	return i
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && isContinuation(s[n]) {
		n--
	}
	return s[:n]
}
