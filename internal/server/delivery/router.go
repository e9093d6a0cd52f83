// Package delivery routes outbound mail: local recipients get the record in
// their mailbox, unknown local recipients send it to the lost mailbox, and
// foreign domains are rejected outright.
package delivery

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophmail/internal/common"
	"github.com/dmitrijs2005/gophmail/internal/server/mailbox"
)

// MailStore is the subset of the mailbox store the router needs.
type MailStore interface {
	Exists(username string) bool
	Store(mailbox string, r mailbox.Record) error
}

type Router struct {
	store  MailStore
	domain string
}

// NewRouter builds a router authoritative for the given mail domain.
func NewRouter(store MailStore, domain string) *Router {
	return &Router{store: store, domain: domain}
}

// Domain returns the single domain this server is authoritative for.
func (r *Router) Domain() string {
	return r.domain
}

// SplitAddress parses "local-part@domain". The local part may not be empty
// and exactly one '@' separator is required.
func SplitAddress(address string) (local, domain string, err error) {
	i := strings.IndexByte(address, '@')
	if i <= 0 || i != strings.LastIndexByte(address, '@') {
		return "", "", common.ErrMalformedAddress
	}
	return address[:i], address[i+1:], nil
}

// Send delivers the record according to its destination:
//   - malformed destination: ErrMalformedAddress, nothing written;
//   - foreign domain: ErrForeignDomain, nothing written;
//   - known local recipient: record stored in their mailbox, nil;
//   - unknown local recipient: record stored in the lost mailbox as
//     best-effort bookkeeping, ErrUnknownRecipient either way.
func (r *Router) Send(ctx context.Context, record mailbox.Record) error {
	local, domain, err := SplitAddress(record.Destination)
	if err != nil {
		return err
	}
	if !strings.EqualFold(domain, r.domain) {
		return common.ErrForeignDomain
	}

	if !r.store.Exists(local) {
		if err := r.store.Store(mailbox.LostMailbox, record); err != nil {
			return fmt.Errorf("storing lost record: %w", err)
		}
		return common.ErrUnknownRecipient
	}

	return r.store.Store(local, record)
}

var _ MailStore = (*mailbox.Store)(nil)
