package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rlch/jsonls"
	"github.com/rlch/jsonls/textindex"
)

// Analyzer runs the diagnostics update cycle for a document: index the text,
// parse it with recovery, render every syntax error, publish the result.
//
// An Analyzer holds no per-document state and is safe for concurrent use as
// long as its Parser is.
type Analyzer struct {
	parser  Parser
	logger  *zap.Logger
	source  string
	onPhase PhaseHook
}

// NewAnalyzer creates an analyzer that reports diagnostics under DefaultSource.
func NewAnalyzer(parser Parser, logger *zap.Logger) *Analyzer {
	return NewAnalyzerWithSource(parser, logger, DefaultSource)
}

// NewAnalyzerWithSource creates an analyzer with a custom diagnostic source.
func NewAnalyzerWithSource(parser Parser, logger *zap.Logger, source string) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}

	if source == "" {
		source = DefaultSource
	}

	return &Analyzer{
		parser: parser,
		logger: logger,
		source: source,
	}
}

// Phase is a step of the update cycle.
type Phase int

// PhaseHook observes the phase transitions of every cycle. uri is empty for
// Analyze calls.
type PhaseHook func(uri string, phase Phase)

// OnPhase registers hook to be called on every phase transition. It must be
// set before the analyzer is shared.
func (a *Analyzer) OnPhase(hook PhaseHook) {
	a.onPhase = hook
}

// Update cycle phases, in order. Every cycle starts and ends in PhaseIdle.
const (
	PhaseIdle Phase = iota
	PhaseIndexing
	PhaseParsing
	PhaseRendering
	PhasePublishing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseIndexing:
		return "indexing"
	case PhaseParsing:
		return "parsing"
	case PhaseRendering:
		return "rendering"
	case PhasePublishing:
		return "publishing"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Publisher receives the diagnostics of a completed cycle. A publish for a
// version replaces everything published earlier for that document, and a
// Publisher must drop results for versions older than one it already has.
type Publisher interface {
	Publish(ctx context.Context, uri string, version int32, diagnostics []Diagnostic)
}

// Update is one full-text change of a document.
type Update struct {
	URI     string
	Version int32
	Text    string
}

// Update runs a complete cycle for u and publishes the result, including an
// empty diagnostic set so that stale errors are cleared.
//
// If a span cannot be mapped onto the text the cycle is aborted: the error is
// logged and returned and nothing is published, leaving the previous
// diagnostics for the document in place.
func (a *Analyzer) Update(ctx context.Context, u Update, pub Publisher) (*AnalyzedFile, error) {
	log := a.logger.With(zap.String("uri", u.URI), zap.Int32("version", u.Version))

	result, err := a.analyze(u.URI, u.Text, log)
	if err != nil {
		log.Error("Diagnostics cycle aborted", zap.Error(err))
		a.enter(log, u.URI, PhaseIdle)

		return nil, err
	}

	a.enter(log, u.URI, PhasePublishing)
	pub.Publish(ctx, u.URI, u.Version, result.Diagnostics)
	a.enter(log, u.URI, PhaseIdle)

	return result, nil
}

// Analyze indexes, parses and renders text without publishing. Running it
// twice on the same text yields identical diagnostics.
func (a *Analyzer) Analyze(text string) (*AnalyzedFile, error) {
	result, err := a.analyze("", text, a.logger)
	a.enter(a.logger, "", PhaseIdle)

	return result, err
}

func (a *Analyzer) analyze(uri, text string, log *zap.Logger) (*AnalyzedFile, error) {
	a.enter(log, uri, PhaseIndexing)

	idx := textindex.New(text)

	a.enter(log, uri, PhaseParsing)

	value, errs := a.parser.ParseWithRecovery(text)

	a.enter(log, uri, PhaseRendering)

	diagnostics := make([]Diagnostic, 0, len(errs))

	for i, e := range errs {
		rng, err := SpanToRange(idx, e.Span)
		if err != nil {
			return nil, fmt.Errorf("syntax error %d: %w", i, err)
		}

		diagnostics = append(diagnostics, Diagnostic{
			Range:    rng,
			Severity: SeverityError,
			Message:  Message(e),
			Code:     CodeSyntaxError,
			Source:   a.source,
		})
	}

	log.Debug("Rendered diagnostics", zap.Int("count", len(diagnostics)))

	return &AnalyzedFile{Value: value, Diagnostics: diagnostics}, nil
}

func (a *Analyzer) enter(log *zap.Logger, uri string, phase Phase) {
	log.Debug("Diagnostics phase", zap.Stringer("phase", phase))

	if a.onPhase != nil {
		a.onPhase(uri, phase)
	}
}

// SpanToRange maps a rune-offset span onto line/column positions. An inverted
// span or an offset outside the text yields textindex.ErrOutOfRange.
func SpanToRange(idx *textindex.Index, span jsonls.Span) (Range, error) {
	if span.Start > span.End {
		return Range{}, fmt.Errorf("%w: span %s is inverted", textindex.ErrOutOfRange, span)
	}

	start, err := idx.Position(span.Start)
	if err != nil {
		return Range{}, err
	}

	end, err := idx.Position(span.End)
	if err != nil {
		return Range{}, err
	}

	return Range{Start: start, End: end}, nil
}
