// Package session fetches the logged-in user once and hands it to
// whoever needs role context. Consumers take a *Session at
// construction; nothing reads it from a global.
package session

import (
	"context"
	"fmt"

	"tableflip.dev/dispatch/pkg/gateway"
	"tableflip.dev/dispatch/pkg/task"
)

// UserInfoClient is the slice of the gateway needed to establish who is
// calling.
type UserInfoClient interface {
	UserInfo(ctx context.Context) (*task.UserSession, error)
}

// Session is the resolved caller identity for this process run.
type Session struct {
	User task.UserSession
}

// Establish resolves the current user from the server. An expired
// cookie surfaces as gateway.ErrSessionExpired for the caller to turn
// into a login hint.
func Establish(ctx context.Context, c UserInfoClient) (*Session, error) {
	u, err := c.UserInfo(ctx)
	if err != nil {
		return nil, err
	}
	if u.Role == "" {
		return nil, fmt.Errorf("session: server reported no role for %q", u.Username)
	}
	return &Session{User: *u}, nil
}

// Role is the caller's role, possibly one this client does not know;
// action gating degrades rather than failing on those.
func (s *Session) Role() task.Role {
	return s.User.Role
}

// Static builds a session without a server round trip, for tests and
// offline rendering.
func Static(u task.UserSession) *Session {
	return &Session{User: u}
}

var _ UserInfoClient = (*gateway.Client)(nil)
