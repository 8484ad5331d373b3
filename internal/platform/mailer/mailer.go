package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned before any network activity when a required
// sender setting is missing.
var ErrNotConfigured = errors.New("mailer not configured")

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NormalizeBody replaces non-breaking spaces, which some clients render as
// mojibake, with plain spaces.
func NormalizeBody(html string) string {
	html = strings.ReplaceAll(html, "\u00a0", " ")
	return strings.ReplaceAll(html, "&nbsp;", " ")
}

func missing(fields ...[2]string) error {
	var names []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			names = append(names, f[0])
		}
	}
	if len(names) == 0 {
		return nil
	}
	return fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(names, ", "))
}

// Unconfigured fails every send with ErrNotConfigured; it stands in when no
// provider is set so the error surfaces at the point of use.
type Unconfigured struct {
	Reason string
}

func (u Unconfigured) Send(context.Context, Message) error {
	if u.Reason == "" {
		return ErrNotConfigured
	}
	return fmt.Errorf("%w: %s", ErrNotConfigured, u.Reason)
}
