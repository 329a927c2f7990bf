package transport

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestSendReceiveRoundTrips(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	clientConn := NewConn(client)
	serverConn := NewConn(server)

	want := Message{
		Type: EvaluateRequest,
		Payload: map[string]any{
			"requestId":   uint64(7),
			"evaluatorId": uint64(1),
			"moduleUri":   "repl:text",
		},
	}

	errc := make(chan error, 1)
	go func() { errc <- clientConn.Send(want) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := serverConn.Receive(ctx)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got.Type != want.Type {
		t.Errorf("Type = %v, want %v", got.Type, want.Type)
	}

	reqID, ok := got.RequestID()
	if !ok || reqID != 7 {
		t.Errorf("RequestID() = %v, %v, want 7, true", reqID, ok)
	}

	evalID, ok := got.EvaluatorID()
	if !ok || evalID != 1 {
		t.Errorf("EvaluatorID() = %v, %v, want 1, true", evalID, ok)
	}
}

func TestReceiveRejectsUnknownMessageType(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	clientConn := NewConn(client)
	serverConn := NewConn(server)

	bad := Message{Type: MessageType(999), Payload: map[string]any{"requestId": uint64(1)}}

	go clientConn.Send(bad)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := serverConn.Receive(ctx); err == nil {
		t.Fatalf("expected error for unknown message type")
	}
}

func TestNextRequestIDIncrements(t *testing.T) {
	_, server := net.Pipe()
	defer server.Close()

	conn := NewConn(server)

	a := conn.NextRequestID()
	b := conn.NextRequestID()

	if b != a+1 {
		t.Errorf("NextRequestID: got %d then %d, want consecutive", a, b)
	}
}
