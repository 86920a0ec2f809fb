// Package discord provides a client for Discord's local IPC socket,
// enabling Rich Presence updates via the SET_ACTIVITY command.
//
// The [Client] type owns the socket through a single background goroutine:
// all frame I/O happens there, callers only hand over the latest presence
// snapshot and never block on the network. Platform-specific socket
// discovery is handled by conn_unix.go and conn_windows.go.
package discord

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"
)

// ///////////////////////////////////////////////
// Timeouts
// ///////////////////////////////////////////////

const (
	// connectTimeout bounds a single socket dial.
	connectTimeout = 1 * time.Second
	// recvTimeout bounds each frame read and write on an established
	// connection. A timeout is a connection failure, not a protocol error.
	recvTimeout = 5 * time.Second
	// DefaultRetryDelay is the pause between reconnection attempts.
	DefaultRetryDelay = 5 * time.Second
)

// ///////////////////////////////////////////////
// Data Types
// ///////////////////////////////////////////////

// Timestamps holds the start timestamp for an activity.
type Timestamps struct {
	Start int64 `json:"start,omitempty"`
}

// Assets holds image keys and tooltip text for an activity.
type Assets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

// Activity represents a Discord Rich Presence activity. The Assets pointer
// stays nil when no asset keys are set so the JSON omits the whole object.
type Activity struct {
	Details    string      `json:"details,omitempty"`
	State      string      `json:"state,omitempty"`
	Timestamps *Timestamps `json:"timestamps,omitempty"`
	Assets     *Assets     `json:"assets,omitempty"`
}

// ///////////////////////////////////////////////
// Client
// ///////////////////////////////////////////////

// Client maintains a connection to Discord's IPC socket from a dedicated
// owner goroutine. Presence updates are fire-and-forget: [Client.SetActivity]
// records the snapshot and wakes the owner, which transmits it when a
// connection is available and retransmits it after every reconnect so the
// display is never stale.
type Client struct {
	// appID is the Discord application (OAuth2 client) identifier.
	appID string
	// retryDelay is the fixed pause before each reconnection attempt.
	retryDelay time.Duration
	// dial establishes the raw socket connection. Overridable in tests.
	dial func() (net.Conn, error)

	// kick wakes the owner goroutine after a snapshot change. Buffered to 1
	// so rapid updates coalesce; the owner always reads the latest snapshot.
	kick chan struct{}
	// done is closed by [Client.Close] to stop the owner goroutine.
	done chan struct{}
	// stopped is closed by the owner goroutine on exit.
	stopped chan struct{}
	// once ensures [Client.Close] is idempotent.
	once sync.Once

	// mu protects the fields below, shared between callers and the owner.
	mu sync.Mutex
	// snapshot is the last requested activity; nil means "clear presence".
	snapshot *Activity
	// hasSnapshot distinguishes a pending clear from nothing requested.
	hasSnapshot bool
	// connected reports whether a handshaken connection is up.
	connected bool
}

// NewClient creates a Discord IPC client for the given application ID. The
// connection owner does not start until [Client.Start] is called.
func NewClient(appID string, retryDelay time.Duration) *Client {
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Client{
		appID:      appID,
		retryDelay: retryDelay,
		dial:       dialIPC,
		kick:       make(chan struct{}, 1),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Start launches the connection owner goroutine, which connects, handshakes,
// and reconnects in the background until [Client.Close].
func (c *Client) Start() {
	go c.run()
}

// SetActivity records activity as the latest presence snapshot and wakes the
// owner goroutine. A nil activity clears presence. Never blocks on the
// network; while disconnected the snapshot is held and sent after the next
// successful handshake.
func (c *Client) SetActivity(activity *Activity) {
	c.mu.Lock()
	c.snapshot = activity
	c.hasSnapshot = true
	c.mu.Unlock()

	select {
	case c.kick <- struct{}{}:
	default:
		// A wake-up is already pending; the owner reads the latest snapshot.
	}
}

// Connected reports whether the client currently holds a handshaken
// connection.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close stops the owner goroutine, sending a best-effort Close frame if a
// connection is up, and waits for the owner to exit.
func (c *Client) Close() error {
	c.once.Do(func() { close(c.done) })
	<-c.stopped
	return nil
}

// ///////////////////////////////////////////////
// Connection Owner
// ///////////////////////////////////////////////

// run is the connection owner loop. It is the only goroutine that touches
// the socket: connect/handshake, snapshot transmission, and reconnect
// scheduling all happen here, so socket calls never stall the orchestrator.
func (c *Client) run() {
	defer close(c.stopped)

	var conn net.Conn

	// Fires immediately for the first connect attempt, then only after
	// failures, spaced by retryDelay. Never a busy loop.
	retry := time.NewTimer(0)
	defer retry.Stop()

	for {
		select {
		case <-c.done:
			if conn != nil {
				c.sendClose(conn)
				conn.Close()
			}
			return

		case <-retry.C:
			if conn != nil {
				continue
			}
			nc, err := c.connect()
			if err != nil {
				slog.Debug("discord connect failed", "error", err)
				retry.Reset(c.retryDelay)
				continue
			}
			conn = nc
			c.setConnected(true)
			slog.Info("connected to Discord")
			// Resend the held snapshot right away so presence is not
			// stale until the next orchestrator tick.
			if err := c.flush(conn); err != nil {
				slog.Warn("resend after reconnect failed", "error", err)
				conn.Close()
				conn = nil
				c.setConnected(false)
				retry.Reset(c.retryDelay)
			}

		case <-c.kick:
			if conn == nil {
				continue
			}
			if err := c.flush(conn); err != nil {
				slog.Warn("presence update failed, reconnecting", "error", err)
				conn.Close()
				conn = nil
				c.setConnected(false)
				retry.Reset(c.retryDelay)
			}
		}
	}
}

// setConnected updates the shared connection flag.
func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// flush transmits the latest snapshot, if any. The snapshot is kept after a
// successful send so it can be replayed on the next reconnect.
func (c *Client) flush(conn net.Conn) error {
	c.mu.Lock()
	activity, ok := c.snapshot, c.hasSnapshot
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.setActivity(conn, activity)
}

// connect dials the IPC socket and performs the handshake, returning a ready
// connection or an error.
func (c *Client) connect() (net.Conn, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	if err := c.handshake(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// handshake sends the initial handshake frame and validates that Discord
// answers with a DISPATCH/READY event. Anything else — decode failure,
// unexpected payload, Close opcode, timeout — is a handshake failure.
func (c *Client) handshake(conn net.Conn) error {
	payload, err := json.Marshal(map[string]any{
		"v":         1,
		"client_id": c.appID,
	})
	if err != nil {
		return fmt.Errorf("marshaling handshake: %w", err)
	}
	if err := writeFrame(conn, OpHandshake, payload); err != nil {
		return fmt.Errorf("writing handshake: %w", err)
	}

	opcode, respData, err := readFrame(conn)
	if err != nil {
		return fmt.Errorf("reading handshake response: %w", err)
	}
	if opcode != OpFrame {
		return fmt.Errorf("unexpected handshake response opcode: %d", opcode)
	}

	var resp struct {
		Cmd string `json:"cmd"`
		Evt string `json:"evt"`
	}
	if err := json.Unmarshal(respData, &resp); err != nil {
		return fmt.Errorf("parsing handshake response: %w", err)
	}
	if resp.Cmd != "DISPATCH" || resp.Evt != "READY" {
		return fmt.Errorf("handshake rejected: cmd=%q evt=%q", resp.Cmd, resp.Evt)
	}
	return nil
}

// setActivity sends a SET_ACTIVITY command and awaits the correlated
// response. A nil activity clears presence. Send or receive failures and
// protocol violations (Close opcode, nonce mismatch) surface as errors so
// the owner tears the connection down; an evt=ERROR response is logged but
// keeps the connection, since the frame exchange itself succeeded.
func (c *Client) setActivity(conn net.Conn, activity *Activity) error {
	nonce := newNonce()
	args := map[string]any{
		"pid":      os.Getpid(),
		"activity": activity,
	}
	payload, err := json.Marshal(map[string]any{
		"cmd":   "SET_ACTIVITY",
		"args":  args,
		"nonce": nonce,
	})
	if err != nil {
		return fmt.Errorf("marshaling command: %w", err)
	}
	if err := writeFrame(conn, OpFrame, payload); err != nil {
		return fmt.Errorf("writing command: %w", err)
	}

	opcode, respData, err := readFrame(conn)
	if err != nil {
		return fmt.Errorf("reading command response: %w", err)
	}
	if opcode != OpFrame {
		return fmt.Errorf("unexpected response opcode: %d", opcode)
	}

	var resp struct {
		Nonce string `json:"nonce"`
		Evt   string `json:"evt"`
		Data  struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respData, &resp); err != nil {
		return fmt.Errorf("parsing command response: %w", err)
	}
	if resp.Nonce != nonce {
		return fmt.Errorf("response nonce mismatch: got %q", resp.Nonce)
	}
	if resp.Evt == "ERROR" {
		slog.Warn("discord rejected activity", "message", resp.Data.Message)
	}
	return nil
}

// sendClose writes a Close frame with an empty JSON payload. Best effort:
// errors are ignored because the process is already shutting down.
func (c *Client) sendClose(conn net.Conn) {
	_ = writeFrame(conn, OpClose, []byte("{}"))
}

// writeFrame encodes and writes one frame as a single logical write with a
// bounded deadline.
func writeFrame(conn net.Conn, opcode Opcode, payload []byte) error {
	frame, err := EncodeFrame(opcode, payload)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(recvTimeout))
	_, err = conn.Write(frame)
	return err
}

// readFrame reads one frame with a bounded deadline.
func readFrame(conn net.Conn) (Opcode, []byte, error) {
	_ = conn.SetReadDeadline(time.Now().Add(recvTimeout))
	return DecodeFrame(conn)
}

// newNonce returns a random 16-byte value, hex-encoded, used to correlate a
// command frame with its response.
func newNonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
