// Package transport implements the MessageTransport server protocol of spec
// section 6: a bidirectional stream of MessagePack-encoded control messages
// used when the evaluator is embedded behind an external host process
// rather than linked directly into a caller.
package transport

import (
	"bufio"
	"context"
	"io"
	"sync/atomic"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pkl-lang/pkl-core/internal/diag"
)

// MessageType enumerates the server protocol messages of spec section 6.
type MessageType int

const (
	InitializeModuleReaderRequest MessageType = iota + 1
	InitializeModuleReaderResponse
	InitializeResourceReaderRequest
	InitializeResourceReaderResponse
	ListModulesRequest
	ListModulesResponse
	ListResourcesRequest
	ListResourcesResponse
	ReadModuleRequest
	ReadModuleResponse
	ReadResourceRequest
	ReadResourceResponse
	EvaluateRequest
	EvaluateResponse
	CloseExternalProcess
)

// RequestID is a request/evaluator correlation identifier, matching spec
// section 6's `requestId` field exactly (a uint64 the response echoes back
// unchanged).
type RequestID = uint64

// NewRequestID is a thin constructor kept for call-site symmetry with the
// rest of this package's typed helpers.
func NewRequestID(id uint64) RequestID {
	return id
}

// Message is one `[type:int, payload:map]` wire entry (spec section 6).
// Payload always carries `requestId` and, for requests, `evaluatorId`;
// responses carry the matching `requestId` plus either a success payload or
// an `error` string, per spec section 6's "Responses include either a
// success payload or an error string".
type Message struct {
	Type    MessageType
	Payload map[string]any
}

// RequestID returns the requestId field recorded in m.Payload, or false if
// absent (e.g. a malformed message that reached this far regardless).
func (m Message) RequestID() (uint64, bool) {
	return uint64Field(m.Payload, "requestId")
}

// EvaluatorID returns the evaluatorId field recorded in m.Payload.
func (m Message) EvaluatorID() (uint64, bool) {
	return uint64Field(m.Payload, "evaluatorId")
}

// Error returns the `error` field of a response payload, if present.
func (m Message) Error() (string, bool) {
	v, ok := m.Payload["error"]
	if !ok {
		return "", false
	}

	s, ok := v.(string)
	return s, ok
}

func uint64Field(payload map[string]any, key string) (uint64, bool) {
	v, ok := payload[key]
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case uint64:
		return n, true
	case int64:
		return uint64(n), true
	case int:
		return uint64(n), true
	default:
		return 0, false
	}
}

// Conn is a single bidirectional MessageTransport stream.
type Conn struct {
	r       *bufio.Reader
	w       io.Writer
	nextReq atomic.Uint64
}

// NewConn wraps rw as a MessageTransport connection.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{r: bufio.NewReader(rw), w: rw}
}

// NextRequestID allocates a fresh RequestID unique to this connection.
func (c *Conn) NextRequestID() RequestID {
	return NewRequestID(c.nextReq.Add(1))
}

// Send writes one Message to the stream as a MessagePack `[type, payload]`
// array.
func (c *Conn) Send(msg Message) error {
	enc := msgpack.NewEncoder(c.w)

	if err := enc.EncodeArrayLen(2); err != nil {
		return diag.New(diag.KindIOError, "writing transport message: %v", err)
	}

	if err := enc.EncodeInt64(int64(msg.Type)); err != nil {
		return diag.New(diag.KindIOError, "writing transport message type: %v", err)
	}

	if err := enc.Encode(msg.Payload); err != nil {
		return diag.New(diag.KindIOError, "writing transport message payload: %v", err)
	}

	return nil
}

// Receive reads one Message from the stream, blocking until a full message
// arrives, the stream closes, or ctx is cancelled.
func (c *Conn) Receive(ctx context.Context) (Message, error) {
	type result struct {
		msg Message
		err error
	}

	done := make(chan result, 1)

	go func() {
		msg, err := c.receiveOne()
		done <- result{msg, err}
	}()

	select {
	case <-ctx.Done():
		return Message{}, diag.New(diag.KindCancelled, "transport receive cancelled: %v", ctx.Err())
	case r := <-done:
		return r.msg, r.err
	}
}

func (c *Conn) receiveOne() (Message, error) {
	dec := msgpack.NewDecoder(c.r)

	n, err := dec.DecodeArrayLen()
	if err != nil {
		if err == io.EOF {
			return Message{}, io.EOF
		}
		return Message{}, diag.New(diag.KindInvalidEncoding, "malformed transport message: %v", err)
	}

	if n != 2 {
		return Message{}, diag.New(diag.KindInvalidEncoding, "transport message has %d elements, want 2", n)
	}

	rawType, err := dec.DecodeInt64()
	if err != nil {
		return Message{}, diag.New(diag.KindInvalidEncoding, "decoding transport message type: %v", err)
	}

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return Message{}, diag.New(diag.KindInvalidEncoding, "decoding transport message payload: %v", err)
	}

	msgType := MessageType(rawType)
	if !msgType.valid() {
		return Message{}, diag.New(diag.KindInvalidEncoding, "unknown transport message type %d", rawType)
	}

	return Message{Type: msgType, Payload: payload}, nil
}

func (t MessageType) valid() bool {
	return t >= InitializeModuleReaderRequest && t <= CloseExternalProcess
}
