package lsp

import (
	"context"
	"errors"
	"fmt"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// CommandRevalidate re-runs the diagnostics cycle for open documents. With a
// document URI as its only argument it revalidates just that document.
const CommandRevalidate = "jsonls.revalidate"

// ErrUnknownCommand is returned for commands the server does not provide.
var ErrUnknownCommand = errors.New("unknown command")

// ExecuteCommand handles workspace/executeCommand requests.
func (s *Server) ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (any, error) {
	s.logger.Info("ExecuteCommand", zap.String("command", params.Command))

	if err := s.running(); err != nil {
		return nil, err
	}

	switch params.Command {
	case CommandRevalidate:
		result, err := s.revalidate(ctx, params.Arguments)
		if err != nil {
			return nil, err
		}

		s.logMessage(ctx, protocol.MessageTypeInfo, "command executed: "+params.Command)

		return result, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, params.Command)
	}
}

// revalidate runs a fresh cycle at each document's current version and
// returns the number of documents revalidated.
func (s *Server) revalidate(ctx context.Context, args []any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(args) > 0 {
		uri, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%s: argument must be a document URI, got %T", CommandRevalidate, args[0])
		}

		doc, ok := s.documents[protocol.DocumentURI(uri)]
		if !ok {
			return 0, nil
		}

		s.runCycle(ctx, doc)

		return 1, nil
	}

	for _, doc := range s.documents {
		s.runCycle(ctx, doc)
	}

	return len(s.documents), nil
}
