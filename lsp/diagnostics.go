package lsp

import (
	"context"

	"fortio.org/safecast"
	"github.com/puzpuzpuz/xsync/v3"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/jsonls/analysis"
)

// Publisher sends diagnostics to the client. It remembers the newest version
// published per document and drops results for older versions, so a slow
// cycle can never overwrite the diagnostics of a newer one.
type Publisher struct {
	client   protocol.Client
	logger   *zap.Logger
	versions *xsync.MapOf[protocol.DocumentURI, int32]
}

// NewPublisher creates a publisher for client.
func NewPublisher(client protocol.Client, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:   client,
		logger:   logger,
		versions: xsync.NewMapOf[protocol.DocumentURI, int32](),
	}
}

// Publish implements analysis.Publisher.
func (p *Publisher) Publish(ctx context.Context, uri string, version int32, diagnostics []analysis.Diagnostic) {
	docURI := protocol.DocumentURI(uri)

	converted := make([]protocol.Diagnostic, 0, len(diagnostics))

	for _, d := range diagnostics {
		lspDiag, err := convertDiagnostic(d)
		if err != nil {
			p.logger.Error("Failed to convert diagnostic",
				zap.String("uri", uri),
				zap.String("message", d.Message),
				zap.Error(err))

			return
		}

		converted = append(converted, lspDiag)
	}

	// Only a publish that can go out moves the gate.
	if !p.accept(docURI, version) {
		p.logger.Debug("Dropping stale diagnostics",
			zap.String("uri", uri),
			zap.Int32("version", version))

		return
	}

	params := &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: converted,
	}

	if v, err := safecast.Conv[uint32](version); err == nil {
		params.Version = v
	} else {
		p.logger.Warn("Publishing without version", zap.Int32("version", version), zap.Error(err))
	}

	err := p.client.PublishDiagnostics(ctx, params)
	if err != nil {
		p.logger.Error("Failed to publish diagnostics", zap.String("uri", uri), zap.Error(err))

		return
	}

	p.logger.Debug("Published diagnostics",
		zap.String("uri", uri),
		zap.Int32("version", version),
		zap.Int("count", len(converted)))
}

// Clear publishes an empty diagnostic set for uri and forgets its version, so
// a reopened document starts over at any version.
func (p *Publisher) Clear(ctx context.Context, uri protocol.DocumentURI) {
	p.versions.Delete(uri)

	err := p.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		p.logger.Error("Failed to clear diagnostics", zap.String("uri", string(uri)), zap.Error(err))
	}
}

// accept records version for uri unless a newer version was already published.
// Republishing the current version is allowed.
func (p *Publisher) accept(uri protocol.DocumentURI, version int32) bool {
	accepted := false

	p.versions.Compute(uri, func(last int32, loaded bool) (int32, bool) {
		if loaded && version < last {
			return last, false
		}

		accepted = true

		return version, false
	})

	return accepted
}

// convertDiagnostic converts an analysis.Diagnostic to an LSP protocol.Diagnostic.
func convertDiagnostic(d analysis.Diagnostic) (protocol.Diagnostic, error) {
	rng, err := toProtocolRange(d.Range)
	if err != nil {
		return protocol.Diagnostic{}, err
	}

	return protocol.Diagnostic{
		Range:    rng,
		Severity: convertSeverity(d.Severity),
		Code:     d.Code,
		Source:   d.Source,
		Message:  d.Message,
	}, nil
}

// convertSeverity converts analysis severity to LSP severity.
func convertSeverity(sev analysis.DiagnosticSeverity) protocol.DiagnosticSeverity {
	switch sev {
	case analysis.SeverityError:
		return protocol.DiagnosticSeverityError
	case analysis.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case analysis.SeverityInformation:
		return protocol.DiagnosticSeverityInformation
	case analysis.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}
