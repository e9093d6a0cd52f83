package tcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophmail/internal/common"
	"github.com/dmitrijs2005/gophmail/internal/protocol"
	"github.com/dmitrijs2005/gophmail/internal/server/mailbox"
)

var errAlreadyAuthenticated = errors.New("already authenticated")

// canonicalUsername is the form sessions bind and mailboxes are keyed by.
func canonicalUsername(u string) string {
	return strings.ToLower(u)
}

// summaryLine formats one inbox listing entry.
func summaryLine(s mailbox.Summary) string {
	return fmt.Sprintf("#%d %s - %s - %s", s.Seq, s.Sender, s.Subject, s.Date)
}

// dispatch routes one request envelope to its handler and returns the
// response envelope. Every service error is recovered here and turned into
// an ERROR envelope; nothing a client sends can crash the loop.
func (s *Server) dispatch(ctx context.Context, id uuid.UUID, env *protocol.Envelope) *protocol.Envelope {
	sess := s.sessions.Get(id)

	switch env.Header {
	case protocol.HeaderAuthRegister:
		return s.handleRegister(ctx, id, env)
	case protocol.HeaderAuthLogin:
		return s.handleLogin(ctx, id, env)
	case protocol.HeaderAuthLogout:
		s.logger.Info(ctx, "Logout", "conn", id, "username", sess.Username)
		s.sessions.Clear(id)
		return s.ok(nil)
	case protocol.HeaderInboxRequest:
		return s.handleInboxRequest(ctx, id)
	case protocol.HeaderInboxChoice:
		return s.handleInboxChoice(ctx, id, env)
	case protocol.HeaderEmailSending:
		return s.handleEmailSending(ctx, id, env)
	case protocol.HeaderStatsRequest:
		return s.handleStatsRequest(ctx, id)
	default:
		s.logger.Warn(ctx, "Unknown request header", "conn", id, "header", string(env.Header))
		return protocol.NewErrorEnvelope(common.ErrInvalidRequest)
	}
}

// ok builds an OK envelope; payload encoding of our own response types
// cannot fail.
func (s *Server) ok(payload any) *protocol.Envelope {
	env, _ := protocol.NewEnvelope(protocol.HeaderOK, payload)
	return env
}

// requireUser returns the session's username, or an error when the session
// is anonymous. Handlers that need authentication call it first and mutate
// nothing on failure.
func (s *Server) requireUser(id uuid.UUID) (string, error) {
	sess := s.sessions.Get(id)
	if !sess.Authenticated() {
		return "", common.ErrUnauthorized
	}
	return sess.Username, nil
}

func (s *Server) handleRegister(ctx context.Context, id uuid.UUID, env *protocol.Envelope) *protocol.Envelope {
	s.logger.Info(ctx, "Registration request", "conn", id)

	if s.sessions.Get(id).Authenticated() {
		return protocol.NewErrorEnvelope(errAlreadyAuthenticated)
	}

	var p protocol.AuthPayload
	if err := env.DecodePayload(&p); err != nil {
		return protocol.NewErrorEnvelope(err)
	}

	if err := s.auth.Register(ctx, p.Username, p.Password); err != nil {
		s.logger.Info(ctx, "Registration refused", "conn", id, "error", err.Error())
		return protocol.NewErrorEnvelope(err)
	}

	// Auto-login after registration; the canonical lower-cased form is
	// bound, so the stamped sender address always matches the mailbox key.
	username := canonicalUsername(p.Username)
	s.sessions.Bind(id, username)
	s.logger.Info(ctx, "Registered", "conn", id, "username", username)
	return s.ok(nil)
}

func (s *Server) handleLogin(ctx context.Context, id uuid.UUID, env *protocol.Envelope) *protocol.Envelope {

	if s.sessions.Get(id).Authenticated() {
		return protocol.NewErrorEnvelope(errAlreadyAuthenticated)
	}

	var p protocol.AuthPayload
	if err := env.DecodePayload(&p); err != nil {
		return protocol.NewErrorEnvelope(err)
	}

	if err := s.auth.Login(ctx, p.Username, p.Password); err != nil {
		s.logger.Info(ctx, "Login refused", "conn", id, "error", err.Error())
		return protocol.NewErrorEnvelope(err)
	}

	username := canonicalUsername(p.Username)
	s.sessions.Bind(id, username)
	s.logger.Info(ctx, "Login", "conn", id, "username", username)
	return s.ok(nil)
}

func (s *Server) handleInboxRequest(ctx context.Context, id uuid.UUID) *protocol.Envelope {
	username, err := s.requireUser(id)
	if err != nil {
		return protocol.NewErrorEnvelope(err)
	}

	summaries, err := s.store.List(username)
	if err != nil {
		s.logger.Error(ctx, "Listing inbox failed", "conn", id, "error", err.Error())
		return protocol.NewErrorEnvelope(common.ErrInternal)
	}

	list := make([]string, 0, len(summaries))
	for _, sum := range summaries {
		list = append(list, summaryLine(sum))
	}
	return s.ok(protocol.EmailListPayload{EmailList: list})
}

func (s *Server) handleInboxChoice(ctx context.Context, id uuid.UUID, env *protocol.Envelope) *protocol.Envelope {
	username, err := s.requireUser(id)
	if err != nil {
		return protocol.NewErrorEnvelope(err)
	}

	var p protocol.ChoicePayload
	if err := env.DecodePayload(&p); err != nil {
		return protocol.NewErrorEnvelope(err)
	}

	r, err := s.store.Get(username, p.Choice)
	if err != nil {
		if !errors.Is(err, common.ErrInvalidChoice) {
			s.logger.Error(ctx, "Reading mail record failed", "conn", id, "error", err.Error())
			err = common.ErrInternal
		}
		return protocol.NewErrorEnvelope(err)
	}

	return s.ok(protocol.EmailPayload{
		Sender:      r.Sender,
		Destination: r.Destination,
		Subject:     r.Subject,
		Date:        r.Date,
		Content:     r.Content,
	})
}

func (s *Server) handleEmailSending(ctx context.Context, id uuid.UUID, env *protocol.Envelope) *protocol.Envelope {
	username, err := s.requireUser(id)
	if err != nil {
		return protocol.NewErrorEnvelope(err)
	}

	var p protocol.EmailPayload
	if err := env.DecodePayload(&p); err != nil {
		return protocol.NewErrorEnvelope(err)
	}

	date := p.Date
	if date == "" {
		date = protocol.CurrentUTCTime()
	}

	// The sender is stamped from the authenticated session, never trusted
	// from the payload.
	record := mailbox.Record{
		Sender:      username + "@" + s.router.Domain(),
		Destination: p.Destination,
		Subject:     p.Subject,
		Date:        date,
		Content:     p.Content,
	}

	if err := s.router.Send(ctx, record); err != nil {
		s.logger.Info(ctx, "Delivery failed", "conn", id, "destination", p.Destination, "error", err.Error())
		return protocol.NewErrorEnvelope(err)
	}

	s.logger.Info(ctx, "Delivered", "conn", id, "destination", p.Destination)
	return s.ok(nil)
}

func (s *Server) handleStatsRequest(ctx context.Context, id uuid.UUID) *protocol.Envelope {
	username, err := s.requireUser(id)
	if err != nil {
		return protocol.NewErrorEnvelope(err)
	}

	st, err := s.store.Stats(username)
	if err != nil {
		s.logger.Error(ctx, "Computing stats failed", "conn", id, "error", err.Error())
		return protocol.NewErrorEnvelope(common.ErrInternal)
	}
	return s.ok(protocol.StatsPayload{Count: st.Count, Size: st.Size})
}
