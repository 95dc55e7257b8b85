package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
)

// ErrNotFound indicates that a session does not exist.
var ErrNotFound = errors.New("session not found")

func request(u *url.URL, method string, body io.Reader, resp interface{}) error {
	httpReq, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return err
	}
	httpResp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return responseError(httpResp)
	}
	if resp == nil {
		return nil
	}
	return json.NewDecoder(httpResp.Body).Decode(resp)
}

func responseError(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	data, _ := ioutil.ReadAll(resp.Body)
	return errors.New(resp.Status + ": " + string(data))
}

// CreateSession does a PUT. u is expected to point at a server's
// /session path.
func CreateSession(u *url.URL) (SessionInfo, error) {
	var info SessionInfo
	err := request(u, http.MethodPut, nil, &info)
	return info, err
}

// RunCommand does a POST of one command (plus any payload lines) to a
// session and returns its printed output and resulting version. u is
// expected to point at a session's /command path.
func RunCommand(u *url.URL, commandText string) (CommandResponse, error) {
	var resp CommandResponse
	err := request(u, http.MethodPost, bytes.NewBufferString(commandText), &resp)
	return resp, err
}

// CloseSession does a DELETE. u is expected to point at a session path.
func CloseSession(u *url.URL) error {
	return request(u, http.MethodDelete, nil, nil)
}

// A Stream reads the sequence of VersionNotices pushed for a session.
type Stream struct {
	conn *conn
}

// Watch dials a session's watch endpoint and returns a Stream.
// u must use the ws:// or wss:// scheme, e.g.
// ws://host:port/session/<id>/watch.
func Watch(u *url.URL) (*Stream, error) {
	c, err := dialConn(u)
	if err != nil {
		return nil, err
	}
	return &Stream{conn: c}, nil
}

// Next returns the next VersionNotice from the stream.
func (s *Stream) Next() (VersionNotice, error) { return s.conn.Recv() }

// Close closes the stream. It should not be used afterward.
func (s *Stream) Close() error { return s.conn.Close() }
