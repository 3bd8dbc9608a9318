package services

import (
	"context"

	"storefront/internal/events"
	"storefront/internal/session"
)

func publish(ctx context.Context, bus *events.Bus, topic events.Topic, sess *session.Session) {
	if bus == nil || sess == nil {
		return
	}
	bus.Publish(ctx, events.Notification{
		Topic:     topic,
		SessionID: sess.ID,
		Token:     sess.Token(session.ScopeUser),
	})
}

func userToken(sess *session.Session) (string, error) {
	if sess == nil {
		return "", ErrLoginRequired
	}
	tok := sess.Token(session.ScopeUser)
	if tok == "" {
		return "", ErrLoginRequired
	}
	return tok, nil
}

func adminToken(sess *session.Session) (string, error) {
	if sess == nil {
		return "", ErrAdminRequired
	}
	tok := sess.Token(session.ScopeAdmin)
	if tok == "" {
		return "", ErrAdminRequired
	}
	return tok, nil
}
