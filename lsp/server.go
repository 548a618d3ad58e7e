// Package lsp implements a Language Server Protocol server for JSON documents.
package lsp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/jsonls"
	"github.com/rlch/jsonls/analysis"
	"github.com/rlch/jsonls/textindex"
)

// ServerName is reported to clients in the initialize response.
const ServerName = "jsonls"

// ServerVersion is reported to clients in the initialize response.
const ServerVersion = "0.1.0"

// Options configures a Server.
type Options struct {
	// Source labels every published diagnostic. Defaults to analysis.DefaultSource.
	Source string

	// Completion holds extra snippets offered next to the JSON keywords.
	Completion []string

	// Parser overrides the parser used for update cycles. Defaults to analysis.JSONParser.
	Parser analysis.Parser
}

// OptionsFromConfig builds server options from a loaded config file.
func OptionsFromConfig(cfg *jsonls.Config) Options {
	if cfg == nil {
		return Options{}
	}

	return Options{Source: cfg.Source, Completion: cfg.Completion}
}

var _ protocol.Server = (*Server)(nil)

// ErrShutdown is returned for requests that arrive after shutdown.
var ErrShutdown = errors.New("server is shut down")

// Server implements the LSP Server interface for JSON.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	analyzer  *analysis.Analyzer
	publisher *Publisher

	completionExtras []string

	// Server state
	shutdown         bool
	workspaceFolders []protocol.WorkspaceFolder
}

// Document represents an open document in the server.
type Document struct {
	URI     protocol.DocumentURI
	Version int32
	Content string
	Index   *textindex.Index

	// Analysis is the result of the last successful update cycle. It is nil
	// until a cycle completes.
	Analysis *analysis.AnalyzedFile
}

// Root returns the parsed tree of the last successful cycle, or nil.
func (d *Document) Root() *jsonls.Value {
	if d.Analysis == nil {
		return nil
	}

	root, _ := d.Analysis.Value.(*jsonls.Value)

	return root
}

// NewServer creates a new LSP server.
func NewServer(client protocol.Client, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	parser := opts.Parser
	if parser == nil {
		parser = analysis.JSONParser
	}

	return &Server{
		client:           client,
		logger:           logger,
		documents:        make(map[protocol.DocumentURI]*Document),
		analyzer:         analysis.NewAnalyzerWithSource(parser, logger, opts.Source),
		publisher:        NewPublisher(client, logger),
		completionExtras: opts.Completion,
	}
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.String("rootURI", string(params.RootURI)))

	s.mu.Lock()
	s.workspaceFolders = append([]protocol.WorkspaceFolder(nil), params.WorkspaceFolders...)
	s.mu.Unlock()

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			HoverProvider: true,
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{":", "[", ","},
				ResolveProvider:   false,
			},
			DocumentSymbolProvider:     true,
			FoldingRangeProvider:       true,
			DocumentFormattingProvider: true,
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{CommandRevalidate},
			},
			Workspace: &protocol.ServerCapabilitiesWorkspace{
				WorkspaceFolders: &protocol.ServerCapabilitiesWorkspaceFolders{
					Supported:           true,
					ChangeNotifications: true,
				},
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(ctx context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")

	s.logMessage(ctx, protocol.MessageTypeInfo, ServerName+" "+ServerVersion+" initialized")

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutdown")

	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()

	s.logMessage(ctx, protocol.MessageTypeInfo, ServerName+" shutting down")

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The main loop should handle exiting after this
	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown {
		return ErrShutdown
	}

	doc := &Document{
		URI:     params.TextDocument.URI,
		Version: params.TextDocument.Version,
		Content: params.TextDocument.Text,
		Index:   textindex.New(params.TextDocument.Text),
	}
	s.documents[params.TextDocument.URI] = doc

	s.runCycle(ctx, doc)

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.logger.Info("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown {
		return ErrShutdown
	}

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return nil
	}

	// Full sync - take the last content change (should only be one with full sync)
	if len(params.ContentChanges) == 0 {
		return nil
	}

	doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
	doc.Version = params.TextDocument.Version
	doc.Index = textindex.New(doc.Content)

	s.runCycle(ctx, doc)

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, params.TextDocument.URI)

	// Clear diagnostics for closed document
	s.publisher.Clear(ctx, params.TextDocument.URI)

	s.logMessage(ctx, protocol.MessageTypeInfo, "closed "+string(params.TextDocument.URI))

	return nil
}

// DidSave handles textDocument/didSave notifications. Full sync already
// delivered the saved text through DidChange.
func (s *Server) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Debug("DidSave", zap.String("uri", string(params.TextDocument.URI)))

	s.logMessage(ctx, protocol.MessageTypeInfo, "saved "+string(params.TextDocument.URI))

	return nil
}

// DidChangeConfiguration handles workspace/didChangeConfiguration. Settings
// come from .jsonls.yaml, so the pushed settings are only acknowledged.
func (s *Server) DidChangeConfiguration(ctx context.Context, _ *protocol.DidChangeConfigurationParams) error {
	s.logger.Info("DidChangeConfiguration")

	s.logMessage(ctx, protocol.MessageTypeInfo, "configuration changed")

	return nil
}

// DidChangeWatchedFiles handles workspace/didChangeWatchedFiles.
func (s *Server) DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	s.logger.Info("DidChangeWatchedFiles", zap.Int("changes", len(params.Changes)))

	s.logMessage(ctx, protocol.MessageTypeInfo, fmt.Sprintf("%d watched files changed", len(params.Changes)))

	return nil
}

// DidChangeWorkspaceFolders handles workspace/didChangeWorkspaceFolders.
func (s *Server) DidChangeWorkspaceFolders(ctx context.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make(map[string]bool, len(params.Event.Removed))
	for _, f := range params.Event.Removed {
		removed[f.URI] = true
	}

	folders := s.workspaceFolders[:0]

	for _, f := range s.workspaceFolders {
		if !removed[f.URI] {
			folders = append(folders, f)
		}
	}

	s.workspaceFolders = append(folders, params.Event.Added...)

	s.logger.Info("Workspace folders changed", zap.Int("count", len(s.workspaceFolders)))

	s.logMessage(ctx, protocol.MessageTypeInfo, "workspace folders changed")

	return nil
}

// WorkspaceFolders returns the folders the client reported.
func (s *Server) WorkspaceFolders() []protocol.WorkspaceFolder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]protocol.WorkspaceFolder(nil), s.workspaceFolders...)
}

// runCycle analyzes doc and publishes its diagnostics. Callers hold s.mu.
func (s *Server) runCycle(ctx context.Context, doc *Document) {
	result, err := s.analyzer.Update(ctx, analysis.Update{
		URI:     string(doc.URI),
		Version: doc.Version,
		Text:    doc.Content,
	}, s.publisher)
	if err != nil {
		s.logMessage(ctx, protocol.MessageTypeError,
			fmt.Sprintf("diagnostics for %s version %d failed: %v", doc.URI, doc.Version, err))

		// The old tree no longer matches doc.Index.
		doc.Analysis = nil

		return
	}

	doc.Analysis = result
}

// running reports ErrShutdown once Shutdown has been received.
func (s *Server) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.shutdown {
		return ErrShutdown
	}

	return nil
}

// getDocument returns a document by URI (read-locked).
func (s *Server) getDocument(uri protocol.DocumentURI) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]

	return doc, ok
}

// logMessage sends window/logMessage to the client.
func (s *Server) logMessage(ctx context.Context, typ protocol.MessageType, message string) {
	err := s.client.LogMessage(ctx, &protocol.LogMessageParams{
		Type:    typ,
		Message: message,
	})
	if err != nil {
		s.logger.Warn("Failed to send log message", zap.Error(err))
	}
}
