package events

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/suiteplan/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// SocketEvent is the socket.io event name every build event is emitted on.
const SocketEvent = "build_event"

// SocketIOReporter emits events to a socket.io server.
type SocketIOReporter struct {
	io *socket.Socket
}

// DialSocketIO connects to rawURL (scheme://host/path, optionally with a
// namespace given as the "namespace" query parameter) and waits up to
// timeout for the connection.
func DialSocketIO(ctx context.Context, rawURL string, timeout time.Duration) (*SocketIOReporter, error) {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", rawURL)
	logger.Info("Connecting event sink...")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse events URL: %w", err)
	}
	namespace := parsedURL.Query().Get("namespace")
	if namespace == "" {
		namespace = "/"
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Event sink connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		if err == nil {
			err = fmt.Errorf("%v", errs[0])
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &SocketIOReporter{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

func (r *SocketIOReporter) Report(ctx context.Context, ev Event) {
	if !r.io.Connected() {
		ctxlog.FromContext(ctx).Debug("Event sink disconnected, dropping event.", "event", string(ev.Type))
		return
	}
	r.io.Emit(SocketEvent, ev)
}

func (r *SocketIOReporter) Close() error {
	r.io.Disconnect()
	return nil
}
