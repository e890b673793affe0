// Package engine runs one recognition request through the matching pipeline:
//
//	COLLECTING_EVIDENCE -> MATCHING -> RANKING -> (FALLBACK) -> DONE
//
// An Engine holds the catalog, the alias index and the fallback policy. All
// three are read-only after New, so one Engine serves any number of
// concurrent requests. Every request gets a fresh id used only to correlate
// its log lines.
package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ironsheep/app-finder-mcp/internal/catalog"
	"github.com/ironsheep/app-finder-mcp/internal/config"
	"github.com/ironsheep/app-finder-mcp/internal/fallback"
	"github.com/ironsheep/app-finder-mcp/internal/index"
	"github.com/ironsheep/app-finder-mcp/internal/logger"
	"github.com/ironsheep/app-finder-mcp/internal/match"
	"github.com/ironsheep/app-finder-mcp/internal/rank"
)

// Request states, used in debug logs.
const (
	StateCollecting = "COLLECTING_EVIDENCE"
	StateMatching   = "MATCHING"
	StateRanking    = "RANKING"
	StateFallback   = "FALLBACK"
	StateDone       = "DONE"
)

// Evidence kinds reported in a Report.
const (
	KindNone      = "none"
	KindText      = "text"
	KindColor     = "color"
	KindTextColor = "text+color"
)

// OCR methods known to the calibration table.
const (
	MethodOCRSpace   = "ocr_space"
	MethodTesseract  = "tesseract"
	MethodSimulation = "simulation"
)

// Calibration bounds for text confidences. These and the method factors are
// tuning values, adjust them against real OCR output.
const (
	calibratedMin = 40
	calibratedMax = 99
	otherFactor   = 0.8
)

// ErrNoEvidence is returned by outer surfaces for a request that carries
// neither text nor colors.
var ErrNoEvidence = errors.New("request has no text or color evidence")

var methodFactors = map[string]float64{
	MethodOCRSpace:   1.0,
	MethodTesseract:  0.9,
	MethodSimulation: 0.6,
}

// Options are per-request knobs. Zero values take the engine defaults.
type Options struct {
	Cap           int
	MinConfidence int
	Fuzzy         bool
	Calibrate     bool
	// RequestID labels the report and its log lines. Empty generates one.
	RequestID string
}

// TextEvidence is an OCR result.
type TextEvidence struct {
	Text string `json:"text"`
	// OCRConfidence is the recognizer's own score, 0-100. Zero means
	// unknown and is treated as full confidence.
	OCRConfidence float64 `json:"ocr_confidence,omitempty"`
	// Method names the recognizer that produced Text.
	Method string `json:"method,omitempty"`
}

// Evidence is everything collected for one request.
type Evidence struct {
	Text   *TextEvidence
	Colors []catalog.RGB
}

func (ev Evidence) kind() string {
	hasText := ev.Text != nil && strings.TrimSpace(ev.Text.Text) != ""
	hasColor := len(ev.Colors) > 0
	switch {
	case hasText && hasColor:
		return KindTextColor
	case hasText:
		return KindText
	case hasColor:
		return KindColor
	default:
		return KindNone
	}
}

// Report is the outcome of one request.
type Report struct {
	RequestID      string        `json:"request_id"`
	Results        []rank.Result `json:"results"`
	Fallback       bool          `json:"fallback"`
	FallbackReason string        `json:"fallback_reason,omitempty"`
	EvidenceKind   string        `json:"evidence_kind"`
	OCRMethod      string        `json:"ocr_method,omitempty"`
}

// Engine is the shared, immutable matching core.
type Engine struct {
	cat      *catalog.Catalog
	idx      *index.Index
	policy   fallback.Policy
	defaults Options
}

// Load resolves the catalog named by cfg (or the embedded one) and builds
// an engine over it.
func Load(cfg config.Config) (*Engine, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if cfg.Catalog.Path != "" {
		cat, err = catalog.LoadFile(cfg.Catalog.Path)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return New(cat, cfg)
}

// New builds the alias index and fallback policy for cat.
func New(cat *catalog.Catalog, cfg config.Config) (*Engine, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, catalog.ErrEmptyCatalog
	}

	policy, missing := fallback.New(cat, cfg.Fallback.Apps)
	for _, name := range missing {
		logger.Warn().Str("component", "engine").Str("app", name).Msg("fallback app not in catalog, skipped")
	}
	if len(cfg.Fallback.Apps) == len(missing) && len(cat.Popular()) == 0 {
		logger.Warn().Str("component", "engine").Msg("catalog has no popularity ranks, fallback uses catalog order")
	}
	if cfg.Fallback.Count > 0 {
		policy.Count = cfg.Fallback.Count
	}
	if cfg.Matching.MinConfidence > 0 {
		policy.MinConfidence = cfg.Matching.MinConfidence
	}
	if cfg.Fallback.Seed != 0 {
		policy.Selector = fallback.Shuffled(rand.NewPCG(cfg.Fallback.Seed, cfg.Fallback.Seed>>1|1))
	}

	e := &Engine{
		cat:    cat,
		idx:    index.Build(cat),
		policy: policy,
		defaults: Options{
			Cap:           cfg.Matching.Cap,
			MinConfidence: policy.MinConfidence,
			Fuzzy:         cfg.Matching.Fuzzy,
			Calibrate:     cfg.Matching.Calibrate,
		},
	}

	logger.Info().
		Int("apps", cat.Len()).
		Int("keys", e.idx.Len()).
		Int("fallback_pool", len(policy.Pool)).
		Msg("matching engine ready")

	return e, nil
}

// Catalog returns the catalog the engine matches against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Index returns the alias index.
func (e *Engine) Index() *index.Index {
	return e.idx
}

// Lookup finds a catalog entry by canonical name or any indexed alias.
func (e *Engine) Lookup(name string) (catalog.Entry, bool) {
	if entry, ok := e.cat.Lookup(name); ok {
		return entry, true
	}
	if k, ok := e.idx.Lookup(name); ok {
		return e.cat.Lookup(k.Name)
	}
	return catalog.Entry{}, false
}

// RecognizeText matches OCR text.
func (e *Engine) RecognizeText(te TextEvidence, opts Options) Report {
	return e.Recognize(Evidence{Text: &te}, opts)
}

// RecognizeColors matches sampled colors.
func (e *Engine) RecognizeColors(colors []catalog.RGB, opts Options) Report {
	return e.Recognize(Evidence{Colors: colors}, opts)
}

// Recognize runs both matchers on whatever evidence is present and merges
// their candidates. The report always has at least one result.
func (e *Engine) Recognize(ev Evidence, opts Options) Report {
	opts = e.resolve(opts)
	rep := Report{
		RequestID:    opts.RequestID,
		EvidenceKind: ev.kind(),
	}
	if ev.Text != nil {
		rep.OCRMethod = ev.Text.Method
	}
	log := logger.With().Str("request_id", rep.RequestID).Logger()
	state(&log, StateCollecting).Str("evidence", rep.EvidenceKind).Msg("evidence received")

	state(&log, StateMatching).Msg("matching")
	var cands []match.Candidate
	if ev.Text != nil {
		text := match.Text(ev.Text.Text, e.idx, match.TextOptions{Fuzzy: opts.Fuzzy})
		if opts.Calibrate {
			Calibrate(text, *ev.Text)
		}
		cands = append(cands, text...)
	}
	if len(ev.Colors) > 0 {
		cands = append(cands, match.Colors(ev.Colors, e.cat)...)
	}

	state(&log, StateRanking).Int("candidates", len(cands)).Msg("ranking")
	rep.Results = rank.Rank(cands, opts.Cap)

	policy := e.policy
	policy.MinConfidence = opts.MinConfidence
	if policy.Triggered(rep.Results) {
		reason := fallbackReason(rep.EvidenceKind, cands)
		state(&log, StateFallback).Str("reason", reason).Msg("evidence too weak")
		substitute := policy.EnsureNonEmpty(rep.Results, reason)
		if len(substitute) > 0 && substitute[0].DetectionMethod == rank.MethodFallback {
			rep.Fallback = true
			rep.FallbackReason = reason
			rep.Results = substitute[:min(len(substitute), rank.EffectiveCap(opts.Cap))]
		}
	}

	if rep.Results == nil {
		rep.Results = []rank.Result{}
	}
	state(&log, StateDone).Int("results", len(rep.Results)).Bool("fallback", rep.Fallback).Msg("request complete")
	return rep
}

func (e *Engine) resolve(opts Options) Options {
	if opts.Cap == 0 {
		opts.Cap = e.defaults.Cap
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = e.defaults.MinConfidence
	}
	if opts.RequestID == "" {
		opts.RequestID = uuid.NewString()
	}
	opts.Fuzzy = opts.Fuzzy || e.defaults.Fuzzy
	opts.Calibrate = opts.Calibrate || e.defaults.Calibrate
	return opts
}

func fallbackReason(kind string, cands []match.Candidate) string {
	switch {
	case kind == KindNone:
		return fallback.ReasonNoEvidence
	case len(cands) == 0:
		return fallback.ReasonNoMatches
	default:
		return fallback.ReasonLowConfidence
	}
}

func state(log *zerolog.Logger, s string) *zerolog.Event {
	return log.Debug().Str("state", s)
}

// MethodFactor is the calibration multiplier for an OCR method.
func MethodFactor(method string) float64 {
	if f, ok := methodFactors[strings.ToLower(method)]; ok {
		return f
	}
	return otherFactor
}

// Calibrate scales text confidences by how much the OCR source is trusted:
// the method factor times OCRConfidence/100, clamped to [40, 99].
func Calibrate(cands []match.Candidate, te TextEvidence) {
	ocr := te.OCRConfidence
	if ocr <= 0 || ocr > 100 {
		ocr = 100
	}
	factor := MethodFactor(te.Method) * ocr / 100
	for i := range cands {
		v := int(math.Round(float64(cands[i].Confidence) * factor))
		cands[i].Confidence = max(calibratedMin, min(calibratedMax, v))
	}
}
