package main

import (
	"context"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkl-lang/pkl-core/internal/collector"
	"github.com/pkl-lang/pkl-core/internal/readers"
	"github.com/pkl-lang/pkl-core/internal/transport"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Speak the MessageTransport protocol over stdin/stdout.",
	Long:  "Run as an embedded evaluator core behind an external host process, exchanging MessagePack-framed control messages on stdin/stdout (spec section 6).",
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd)

		s, err := newSession(opts)
		if err != nil {
			fail(err)
		}
		defer s.Close()

		if err := serve(s, transport.NewConn(stdio{})); err != nil {
			fail(err)
		}

		os.Exit(exitSuccess)
	},
}

func init() {
	registerCommonFlags(serverCmd)
	rootCmd.AddCommand(serverCmd)
}

// stdio pairs stdin and stdout into the single io.ReadWriter Conn wants.
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

// serve loops receiving messages from conn and dispatching each to its
// handler until CloseExternalProcess arrives or the stream closes.
func serve(s *session, conn *transport.Conn) error {
	ctx := context.Background()

	for {
		msg, err := conn.Receive(ctx)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		if msg.Type == transport.CloseExternalProcess {
			return nil
		}

		resp := dispatch(s, msg)
		if err := conn.Send(resp); err != nil {
			return err
		}
	}
}

func dispatch(s *session, msg transport.Message) transport.Message {
	reqID, _ := msg.RequestID()

	switch msg.Type {
	case transport.InitializeModuleReaderRequest:
		return reply(transport.InitializeModuleReaderResponse, reqID, map[string]any{"isLocal": true})
	case transport.InitializeResourceReaderRequest:
		return reply(transport.InitializeResourceReaderResponse, reqID, map[string]any{"isLocal": true})
	case transport.ListModulesRequest:
		return handleList(s, reqID, msg, transport.ListModulesResponse, true)
	case transport.ListResourcesRequest:
		return handleList(s, reqID, msg, transport.ListResourcesResponse, false)
	case transport.ReadModuleRequest:
		return handleRead(s, reqID, msg, transport.ReadModuleResponse, true)
	case transport.ReadResourceRequest:
		return handleRead(s, reqID, msg, transport.ReadResourceResponse, false)
	case transport.EvaluateRequest:
		return errReply(transport.EvaluateResponse, reqID,
			"evaluation requires a parser collaborator upstream of this core")
	default:
		return errReply(msg.Type, reqID, "unsupported request type")
	}
}

func handleList(s *session, reqID uint64, msg transport.Message, respType transport.MessageType, module bool) transport.Message {
	uri, _ := msg.Payload["uri"].(string)

	u, err := url.Parse(uri)
	if err != nil {
		return errReply(respType, reqID, err.Error())
	}

	var elements []readers.PathElement
	if module {
		reader, ok := s.registry.ModuleReader(u.Scheme)
		if !ok {
			return errReply(respType, reqID, "no module reader for scheme "+u.Scheme)
		}
		elements, err = reader.ListElements(context.Background(), uri)
	} else {
		reader, ok := s.registry.ResourceReader(u.Scheme)
		if !ok {
			return errReply(respType, reqID, "no resource reader for scheme "+u.Scheme)
		}
		elements, err = reader.ListElements(context.Background(), uri)
	}
	if err != nil {
		return errReply(respType, reqID, err.Error())
	}

	names := make([]string, len(elements))
	dirs := make([]bool, len(elements))
	for i, e := range elements {
		names[i] = e.Name
		dirs[i] = e.IsDirectory
	}

	return reply(respType, reqID, map[string]any{"names": names, "isDirectory": dirs})
}

func handleRead(s *session, reqID uint64, msg transport.Message, respType transport.MessageType, module bool) transport.Message {
	uri, _ := msg.Payload["uri"].(string)

	if module {
		if err := s.security.CheckImportModule(s.evaluator.ModuleURI, uri); err != nil {
			return errReply(respType, reqID, err.Error())
		}
	} else {
		if err := s.security.CheckReadResource(s.evaluator.ModuleURI, uri); err != nil {
			return errReply(respType, reqID, err.Error())
		}
	}

	u, err := url.Parse(uri)
	if err != nil {
		return errReply(respType, reqID, err.Error())
	}

	var contents []byte
	if module {
		reader, ok := s.registry.ModuleReader(u.Scheme)
		if !ok {
			return errReply(respType, reqID, "no module reader for scheme "+u.Scheme)
		}
		resolved, rerr := reader.Resolve(context.Background(), uri)
		if rerr != nil {
			return errReply(respType, reqID, rerr.Error())
		}
		contents, err = reader.ReadSource(context.Background(), resolved)
	} else {
		reader, ok := s.registry.ResourceReader(u.Scheme)
		if !ok {
			return errReply(respType, reqID, "no resource reader for scheme "+u.Scheme)
		}
		contents, err = reader.Read(context.Background(), uri)
	}
	if err != nil {
		return errReply(respType, reqID, err.Error())
	}

	if module && s.cache != nil {
		if _, cerr := s.cache.Put(uri, contents, collector.Meta{SourceURI: uri}); cerr != nil {
			s.evaluator.Log.WithError(cerr).Warn("failed to populate module cache")
		}
	}

	return reply(respType, reqID, map[string]any{"contents": contents})
}

func reply(t transport.MessageType, reqID uint64, extra map[string]any) transport.Message {
	payload := map[string]any{"requestId": reqID}
	for k, v := range extra {
		payload[k] = v
	}
	return transport.Message{Type: t, Payload: payload}
}

func errReply(t transport.MessageType, reqID uint64, msg string) transport.Message {
	return transport.Message{Type: t, Payload: map[string]any{"requestId": reqID, "error": msg}}
}
