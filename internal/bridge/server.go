// Package bridge exposes the command surface to the UI layer over a loopback
// WebSocket and forwards shell events to every connected client.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"antigravity-voice/internal/commands"
	"antigravity-voice/internal/events"
)

// maxDelayMs is the largest delay_ms that fits in a time.Duration.
const maxDelayMs = math.MaxInt64 / int64(time.Millisecond)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

// Server routes bridge requests to Commands.
type Server struct {
	cmds    Commands
	bus     *events.Bus
	token   string
	origins map[string]bool

	upgrader websocket.Upgrader
	srv      *http.Server
	ln       net.Listener
	wg       sync.WaitGroup
}

// NewServer creates a Server with a fresh session token. Browser clients are
// accepted only from allowedOrigins; clients that send no Origin header are
// always accepted.
func NewServer(cmds Commands, bus *events.Bus, allowedOrigins []string) *Server {
	s := &Server{
		cmds:    cmds,
		bus:     bus,
		token:   uuid.NewString(),
		origins: make(map[string]bool, len(allowedOrigins)),
	}
	for _, o := range allowedOrigins {
		s.origins[o] = true
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Token returns the session token clients must present.
func (s *Server) Token() string { return s.token }

// Handler returns the HTTP handler serving the bridge.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// Listen binds addr and serves in the background. Binding errors are
// returned directly so that startup can fail.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bridge listen %s: %w", addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("bridge stopped", "err", err)
		}
	}()
	slog.Info("bridge listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Close stops accepting connections and waits for in-flight commands.
func (s *Server) Close(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	err := s.srv.Shutdown(ctx)
	s.wg.Wait()
	return err
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || s.origins[origin]
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan Response
	done chan struct{}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("token") != s.token {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("bridge upgrade failed", "err", err, "origin", r.Header.Get("Origin"))
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan Response, sendBuffer),
		done: make(chan struct{}),
	}
	evs, cancel := s.bus.Subscribe()
	slog.Info("bridge client connected", "client", c.id, "clients", s.bus.Subscribers())

	go s.writePump(c, evs)
	s.readPump(c)

	cancel()
	slog.Info("bridge client disconnected", "client", c.id)
}

// readPump reads requests until the connection fails. Every request runs in
// its own goroutine so a long type_text does not hold up the others.
func (s *Server) readPump(c *client) {
	defer func() {
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("bridge read failed", "client", c.id, "err", err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			// The frame is unusable but the connection is not.
			resp := Response{Type: TypeError, ID: requestID(data), Message: "invalid request: " + err.Error()}
			select {
			case c.send <- resp:
			case <-c.done:
			}
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			resp := s.dispatch(req)
			select {
			case c.send <- resp:
			case <-c.done:
			}
		}()
	}
}

// writePump is the only writer on the connection.
func (s *Server) writePump(c *client, evs <-chan events.Event) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		var msg Response
		select {
		case <-c.done:
			return
		case msg = <-c.send:
		case ev, ok := <-evs:
			if !ok {
				return
			}
			msg = Response{Type: TypeEvent, Event: ev.Name}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		}

		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(req Request) Response {
	result, err := s.call(req.Cmd, req.Args)
	if err != nil {
		slog.Debug("bridge command failed", "cmd", req.Cmd, "err", err)
		return Response{Type: TypeError, ID: req.ID, Message: err.Error()}
	}

	data, err := json.Marshal(result)
	if err != nil {
		return Response{Type: TypeError, ID: req.ID, Message: err.Error()}
	}
	return Response{Type: TypeResult, ID: req.ID, Result: data}
}

func (s *Server) call(cmd string, raw json.RawMessage) (any, error) {
	switch cmd {
	case commands.CopyToClipboard:
		text, err := decodeText(cmd, raw)
		if err != nil {
			return nil, err
		}
		return nil, s.cmds.CopyToClipboard(text)

	case commands.GetClipboardText:
		return s.cmds.GetClipboardText()

	case commands.SimulatePaste:
		return nil, s.cmds.SimulatePaste()

	case commands.CopyAndPaste:
		text, err := decodeText(cmd, raw)
		if err != nil {
			return nil, err
		}
		return nil, s.cmds.CopyAndPaste(text)

	case commands.TypeText:
		var args TypeTextArgs
		if err := decodeArgs(cmd, raw, &args); err != nil {
			return nil, err
		}
		if args.Text == nil {
			return nil, missingArg(cmd, "text")
		}
		var delay *time.Duration
		if args.DelayMs != nil {
			if *args.DelayMs > maxDelayMs {
				return nil, fmt.Errorf("invalid args for command %s: delay_ms %d is too large", cmd, *args.DelayMs)
			}
			d := time.Duration(*args.DelayMs) * time.Millisecond
			delay = &d
		}
		return nil, s.cmds.TypeText(*args.Text, delay)

	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

// requestID salvages the id of a frame that failed to decode, so the client
// can still match the error to its call.
func requestID(data []byte) string {
	var head struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(data, &head) != nil {
		return ""
	}
	return head.ID
}

func decodeText(cmd string, raw json.RawMessage) (string, error) {
	var args TextArgs
	if err := decodeArgs(cmd, raw, &args); err != nil {
		return "", err
	}
	if args.Text == nil {
		return "", missingArg(cmd, "text")
	}
	return *args.Text, nil
}

func decodeArgs(cmd string, raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid args for command %s: %w", cmd, err)
	}
	return nil
}

func missingArg(cmd, key string) error {
	return fmt.Errorf("invalid args for command %s: missing required key %s", cmd, key)
}
