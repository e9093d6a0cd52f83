// Package client implements the wire-protocol client: one method per request
// kind, each performing exactly one framed request/response exchange.
package client

import (
	"fmt"
	"net"
	"time"

	"github.com/dmitrijs2005/gophmail/internal/protocol"
)

type Client struct {
	nc net.Conn
}

// Dial connects to the mail server.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	nc, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &Client{nc: nc}, nil
}

// Close closes the connection without notifying the server. Prefer Bye for
// a graceful disconnect.
func (c *Client) Close() error {
	return c.nc.Close()
}

// exchange sends one request and reads the single response envelope. An
// ERROR response is mapped to a ServerError carrying the server's message.
func (c *Client) exchange(h protocol.Header, payload any) (*protocol.Envelope, error) {
	env, err := protocol.NewEnvelope(h, payload)
	if err != nil {
		return nil, err
	}
	if err := protocol.SendEnvelope(c.nc, env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := protocol.ReceiveEnvelope(c.nc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch resp.Header {
	case protocol.HeaderOK:
		return resp, nil
	case protocol.HeaderError:
		var p protocol.ErrorPayload
		if err := resp.DecodePayload(&p); err != nil {
			return nil, ErrInvalidResponse
		}
		return nil, &ServerError{Message: p.ErrorMessage}
	default:
		return nil, ErrInvalidResponse
	}
}

// Register creates an account. On success the server has already bound this
// connection's session to the new user.
func (c *Client) Register(username, password string) error {
	_, err := c.exchange(protocol.HeaderAuthRegister, protocol.AuthPayload{
		Username: username,
		Password: password,
	})
	return err
}

// Login authenticates this connection's session.
func (c *Client) Login(username, password string) error {
	_, err := c.exchange(protocol.HeaderAuthLogin, protocol.AuthPayload{
		Username: username,
		Password: password,
	})
	return err
}

// Logout makes the session anonymous again.
func (c *Client) Logout() error {
	_, err := c.exchange(protocol.HeaderAuthLogout, nil)
	return err
}

// Bye notifies the server and closes the connection. No response is read:
// the server closes its side without answering.
func (c *Client) Bye() error {
	env, err := protocol.NewEnvelope(protocol.HeaderBye, nil)
	if err != nil {
		return err
	}
	if err := protocol.SendEnvelope(c.nc, env); err != nil {
		c.nc.Close()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return c.nc.Close()
}

// Inbox returns the inbox summaries, newest first, numbered from 1.
func (c *Client) Inbox() ([]string, error) {
	resp, err := c.exchange(protocol.HeaderInboxRequest, nil)
	if err != nil {
		return nil, err
	}
	var p protocol.EmailListPayload
	if err := resp.DecodePayload(&p); err != nil {
		return nil, ErrInvalidResponse
	}
	return p.EmailList, nil
}

// Email fetches the full record for a 1-based inbox choice.
func (c *Client) Email(choice int) (*protocol.EmailPayload, error) {
	resp, err := c.exchange(protocol.HeaderInboxChoice, protocol.ChoicePayload{Choice: choice})
	if err != nil {
		return nil, err
	}
	var p protocol.EmailPayload
	if err := resp.DecodePayload(&p); err != nil {
		return nil, ErrInvalidResponse
	}
	return &p, nil
}

// Send submits an outbound message.
func (c *Client) Send(email protocol.EmailPayload) error {
	_, err := c.exchange(protocol.HeaderEmailSending, email)
	return err
}

// Stats returns the mailbox statistics for the logged-in user.
func (c *Client) Stats() (*protocol.StatsPayload, error) {
	resp, err := c.exchange(protocol.HeaderStatsRequest, nil)
	if err != nil {
		return nil, err
	}
	var p protocol.StatsPayload
	if err := resp.DecodePayload(&p); err != nil {
		return nil, ErrInvalidResponse
	}
	return &p, nil
}
