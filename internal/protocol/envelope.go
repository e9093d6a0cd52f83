// Package protocol defines the wire format shared by the GophMail server and
// client: a closed set of request/response headers, their payload shapes, and
// the length-prefixed framing that carries them over TCP.
//
// Every message on the wire is one frame containing the JSON encoding of an
// Envelope. Requests and responses alternate strictly: the client sends one
// envelope and reads exactly one envelope back (except BYE, which has no
// response).
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmail/internal/common"
)

// Header identifies the kind of an envelope. The set is closed; the server
// dispatches on it exhaustively and answers ErrInvalidRequest for anything
// else.
type Header string

const (
	HeaderAuthRegister Header = "AUTH_REGISTER"
	HeaderAuthLogin    Header = "AUTH_LOGIN"
	HeaderAuthLogout   Header = "AUTH_LOGOUT"
	HeaderBye          Header = "BYE"
	HeaderInboxRequest Header = "INBOX_READING_REQUEST"
	HeaderInboxChoice  Header = "INBOX_READING_CHOICE"
	HeaderEmailSending Header = "EMAIL_SENDING"
	HeaderStatsRequest Header = "STATS_REQUEST"
	HeaderOK           Header = "OK"
	HeaderError        Header = "ERROR"
)

// Envelope is the unit exchanged over the transport. Payload is omitted for
// headers that carry none.
type Envelope struct {
	Header  Header          `json:"header"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AuthPayload carries registration and login credentials.
type AuthPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChoicePayload selects one entry from the inbox listing that immediately
// preceded it. Choice is 1-based.
type ChoicePayload struct {
	Choice int `json:"choice"`
}

// EmailPayload is a full mail record: the EMAIL_SENDING request body and the
// OK response body for an inbox choice.
type EmailPayload struct {
	Sender      string `json:"sender"`
	Destination string `json:"destination"`
	Subject     string `json:"subject"`
	Date        string `json:"date"`
	Content     string `json:"content"`
}

// EmailListPayload carries pre-formatted one-line inbox summaries, newest
// first, numbered from 1.
type EmailListPayload struct {
	EmailList []string `json:"email_list"`
}

// StatsPayload reports the number of stored mail records and their total
// on-disk size in bytes.
type StatsPayload struct {
	Count int   `json:"count"`
	Size  int64 `json:"size"`
}

// ErrorPayload carries a human-readable failure message.
type ErrorPayload struct {
	ErrorMessage string `json:"error_message"`
}

// NewEnvelope builds an envelope with the given payload. A nil payload
// produces an envelope with the payload field omitted.
func NewEnvelope(h Header, payload any) (*Envelope, error) {
	env := &Envelope{Header: h}
	if payload == nil {
		return env, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", h, err)
	}
	env.Payload = raw
	return env, nil
}

// NewErrorEnvelope builds an ERROR envelope from an error value.
func NewErrorEnvelope(err error) *Envelope {
	env, _ := NewEnvelope(HeaderError, ErrorPayload{ErrorMessage: err.Error()})
	return env
}

// Encode serializes the envelope to its wire bytes.
func (e *Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEnvelope parses wire bytes into an envelope. The payload stays raw;
// use DecodePayload to bind it to a concrete shape.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidRequest, err)
	}
	if env.Header == "" {
		return nil, fmt.Errorf("%w: missing header", common.ErrInvalidRequest)
	}
	return &env, nil
}

// DecodePayload binds the envelope's raw payload to dst. A missing payload
// is an ErrInvalidRequest, not a zero value: every header that takes a
// payload requires one.
func (e *Envelope) DecodePayload(dst any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%w: missing %s payload", common.ErrInvalidRequest, e.Header)
	}
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return fmt.Errorf("%w: malformed %s payload", common.ErrInvalidRequest, e.Header)
	}
	return nil
}

// TimestampLayout is the date format stored in mail records and shown to
// users. All timestamps are UTC.
const TimestampLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// CurrentUTCTime returns the current time formatted with TimestampLayout.
func CurrentUTCTime() string {
	return time.Now().UTC().Format(TimestampLayout)
}
