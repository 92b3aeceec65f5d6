package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"antigravity-voice/internal/events"
)

// ErrClosed is returned by Call once the connection is gone.
var ErrClosed = errors.New("bridge connection closed")

// Client calls the command surface of a running shell.
type Client struct {
	conn   *websocket.Conn
	writeM sync.Mutex

	mu      sync.Mutex
	pending map[string]chan Response
	err     error

	events chan events.Event
	done   chan struct{}
}

// Dial connects to the bridge at addr ("host:port") with the session token.
func Dial(ctx context.Context, addr, token string) (*Client, error) {
	return dial(ctx, addr, token, nil)
}

// DialSession connects to the bridge described by the session file of the
// running shell.
func DialSession(ctx context.Context) (*Client, error) {
	path, err := SessionPath()
	if err != nil {
		return nil, err
	}
	s, err := ReadSession(path)
	if err != nil {
		return nil, err
	}
	return Dial(ctx, s.Addr, s.Token)
}

func dial(ctx context.Context, addr, token string, header http.Header) (*Client, error) {
	u := url.URL{
		Scheme:   "ws",
		Host:     addr,
		Path:     "/ws",
		RawQuery: url.Values{"token": {token}}.Encode(),
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("bridge dial %s: %w (HTTP %d)", addr, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("bridge dial %s: %w", addr, err)
	}

	c := &Client{
		conn:    conn,
		pending: make(map[string]chan Response),
		events:  make(chan events.Event, 16),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events returns shell events. Events that arrive while the channel is full
// are dropped. The channel is closed when the connection ends.
func (c *Client) Events() <-chan events.Event { return c.events }

// Call invokes cmd with args and decodes the result into out (may be nil).
// A command failure is returned as *RemoteError.
func (c *Client) Call(ctx context.Context, cmd string, args, out any) error {
	req := Request{ID: uuid.NewString(), Cmd: cmd}
	if args != nil {
		raw, err := json.Marshal(args)
		if err != nil {
			return err
		}
		req.Args = raw
	}

	ch := make(chan Response, 1)
	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		return c.err
	}
	c.pending[req.ID] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
	}()

	c.writeM.Lock()
	err := c.conn.WriteJSON(req)
	c.writeM.Unlock()
	if err != nil {
		return fmt.Errorf("bridge send: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return c.closedErr()
	case resp := <-ch:
		if resp.Type == TypeError {
			return &RemoteError{Cmd: cmd, Message: resp.Message}
		}
		if out == nil || len(resp.Result) == 0 {
			return nil
		}
		return json.Unmarshal(resp.Result, out)
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	c.writeM.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeM.Unlock()
	return c.conn.Close()
}

func (c *Client) readLoop() {
	defer close(c.events)
	defer close(c.done)

	for {
		var resp Response
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.mu.Lock()
			c.err = fmt.Errorf("%w: %v", ErrClosed, err)
			c.mu.Unlock()
			return
		}

		if resp.Type == TypeEvent {
			select {
			case c.events <- events.Event{Name: resp.Event}:
			default:
			}
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		c.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	return ErrClosed
}
