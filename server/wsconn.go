// Package server exposes a document's engine over HTTP and a
// websocket change feed, so that several front ends can watch the
// same version history without polling.
//
// The conn type is adapted from the teacher's websocket.Conn (websocket/websocket.go):
// the same goroutine-pair send/recv design and closing handshake, but
// narrowed to the one message this service ever pushes, a version
// number, instead of a general JSON envelope.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendTimeout      = 5 * time.Second
	closeRecvTimeout = 5 * time.Second
	handshakeTimeout = 5 * time.Second
)

// A HandshakeError is returned if dialing a watch stream fails the
// websocket handshake.
type HandshakeError struct {
	Status     string
	StatusCode int
}

func (e HandshakeError) Error() string { return e.Status }

var upgrader = websocket.Upgrader{
	HandshakeTimeout: handshakeTimeout,
	CheckOrigin:      func(*http.Request) bool { return true },
}

// A conn is a websocket connection carrying VersionNotice messages in
// one direction. All of its methods are safe for concurrent use.
type conn struct {
	ws             *websocket.Conn
	send           chan sendReq
	recv           chan recvMsg
	sendCloseOnce  sync.Once
	sendCloseError error
}

// VersionNotice is pushed to a watcher every time a session's cursor
// moves to a new or different version.
type VersionNotice struct {
	Version int64 `json:"version"`
}

func dialConn(u *url.URL) (*conn, error) {
	ws, resp, err := websocket.DefaultDialer.Dial(u.String(), make(http.Header))
	if err == websocket.ErrBadHandshake && resp.StatusCode != http.StatusOK {
		return nil, HandshakeError{Status: resp.Status, StatusCode: resp.StatusCode}
	}
	if err != nil {
		return nil, err
	}
	return newConn(ws), nil
}

func upgradeConn(w http.ResponseWriter, req *http.Request) (*conn, error) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		return nil, err
	}
	return newConn(ws), nil
}

func newConn(ws *websocket.Conn) *conn {
	c := &conn{
		ws:   ws,
		send: make(chan sendReq, 10),
		recv: make(chan recvMsg, 10),
	}
	go c.goSend()
	go c.goRecv()
	return c
}

// Close closes the connection, unblocking any blocked Recv, and waits
// for the closing handshake or closeRecvTimeout, whichever comes
// first. Close should not be called more than once.
func (c *conn) Close() error {
	close(c.send)

	err := c.sendClose()
	timer := time.NewTimer(closeRecvTimeout)
	if err != nil {
		timer.Stop()
		c.ws.Close()
	}

	for {
		select {
		case _, ok := <-c.recv:
			if !ok {
				if timer.Stop() {
					err = c.ws.Close()
				}
				return err
			}
		case <-timer.C:
			err = c.ws.Close()
		}
	}
}

// Send sends a VersionNotice. Send must not be called on a closed
// connection.
func (c *conn) Send(n VersionNotice) error {
	result := make(chan error)
	c.send <- sendReq{notice: n, result: result}
	return <-result
}

type sendReq struct {
	notice VersionNotice
	result chan<- error
}

func (c *conn) goSend() {
	for req := range c.send {
		dl := time.Now().Add(sendTimeout)
		c.ws.SetWriteDeadline(dl)
		err := c.ws.WriteJSON(req.notice)
		req.result <- err
	}
}

// Recv receives the next VersionNotice. It returns io.EOF once the
// connection is closed. Recv must be called continually by anyone
// holding a conn so that ping/pong control frames are serviced.
func (c *conn) Recv() (VersionNotice, error) {
	r, ok := <-c.recv
	if !ok {
		return VersionNotice{}, io.EOF
	}
	return r.notice, r.err
}

type recvMsg struct {
	notice VersionNotice
	err    error
}

func (c *conn) goRecv() {
	defer close(c.recv)
	for {
		messageType, p, err := c.ws.ReadMessage()
		if messageType == websocket.TextMessage {
			var n VersionNotice
			if jsonErr := json.Unmarshal(p, &n); jsonErr != nil && err == nil {
				err = jsonErr
			}
			c.recv <- recvMsg{notice: n, err: err}
		}
		if err != nil {
			c.sendClose()
			return
		}
	}
}

func (c *conn) sendClose() error {
	c.sendCloseOnce.Do(func() {
		dl := time.Now().Add(sendTimeout)
		c.sendCloseError = c.ws.WriteControl(websocket.CloseMessage, nil, dl)
		if c.sendCloseError == websocket.ErrCloseSent {
			c.sendCloseError = nil
		}
	})
	return c.sendCloseError
}
