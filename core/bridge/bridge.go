// Package bridge forwards bus events to external consumers, such as a
// UI process listening on a websocket or a log file collecting a JSON
// transcript of a session.
package bridge

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/fridayvoice/friday-core/core/events"
)

// Sink receives encoded events from Forward. Implementations must be
// safe to call from a single goroutine; Forward never sends
// concurrently to the same sink.
type Sink interface {
	Send(event events.Event) error
	Close() error
}

// WriterSink encodes each event as a single JSON line on the
// underlying writer.
type WriterSink struct {
	writer io.Writer
}

func NewWriterSink(writer io.Writer) *WriterSink {
	return &WriterSink{writer: writer}
}

func (s *WriterSink) Send(event events.Event) error {
	data, err := events.Encode(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if _, err := s.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// Close is a no-op; the caller owns the underlying writer.
func (s *WriterSink) Close() error { return nil }

// WebSocketSink forwards each event as a JSON text message over a
// websocket connection.
type WebSocketSink struct {
	conn *websocket.Conn

	closeOnce sync.Once
	closeErr  error
}

// DialWebSocket connects to a websocket endpoint, typically a UI
// process subscribed to session events.
func DialWebSocket(ctx context.Context, url string) (*WebSocketSink, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return &WebSocketSink{conn: conn}, nil
}

func (s *WebSocketSink) Send(event events.Event) error {
	data, err := events.Encode(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}
	return nil
}

func (s *WebSocketSink) Close() error {
	s.closeOnce.Do(func() {
		err := s.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		if closeErr := s.conn.Close(); err == nil {
			err = closeErr
		}
		s.closeErr = err
	})
	return s.closeErr
}

// Forward drains the event stream into the given sinks and returns
// once the stream is closed. A sink that fails to deliver an event is
// logged and kept; it keeps receiving subsequent events.
func Forward(stream <-chan events.Event, sinks ...Sink) {
	for event := range stream {
		for _, sink := range sinks {
			if err := sink.Send(event); err != nil {
				logger.Warn("Failed to forward event",
					"kind", event.Kind(),
					"error", err,
				)
			}
		}
	}
}
