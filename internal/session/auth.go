package session

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fpick/internal/auth"
	"github.com/HaiFongPan/fpick/internal/metrics"
	"github.com/HaiFongPan/fpick/internal/picker"
)

// Login failure messages
const (
	MsgLoginIncorrect = "Username or password is incorrect"
	MsgAuthFailed     = "Authentication failed"
)

// VerifyFunc checks a username and password
type VerifyFunc func(username, password string) bool

// LoginFunc identifies the current user, returning "" on failure
type LoginFunc func(ctx context.Context, host Host) (string, error)

// BasicAuth returns the user of a valid stored token, or asks for a
// username and password until verify accepts them and stores a new token.
func BasicAuth(ctx context.Context, host Host, verify VerifyFunc, signer *auth.Signer) (string, error) {
	return authenticate(ctx, host, func(ctx context.Context, host Host) (string, error) {
		values, _, err := form(ctx, host, "Login", []Field{
			{Name: "username", Label: "Username", Required: true},
			{Name: "password", Label: "Password", Type: "password"},
		}, false)
		if err != nil {
			return "", err
		}
		if !verify(values["username"], values["password"]) {
			metrics.RecordAuthAttempt(false)
			notify(host, picker.LevelError, MsgLoginIncorrect)
			return "", nil
		}
		metrics.RecordAuthAttempt(true)
		return values["username"], nil
	}, signer, "")
}

// CustomAuth is BasicAuth with the login step supplied by the caller. The
// login is retried until it names a user.
func CustomAuth(ctx context.Context, host Host, login LoginFunc, signer *auth.Signer) (string, error) {
	return authenticate(ctx, host, login, signer, MsgAuthFailed)
}

func authenticate(ctx context.Context, host Host, login LoginFunc, signer *auth.Signer, failMessage string) (string, error) {
	storage, ok := host.(Storage)
	if !ok {
		return "", fmt.Errorf("auth: %w", ErrUnsupported)
	}

	token, found, err := storage.GetItem(signer.TokenName())
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if found && token != "" {
		username, err := signer.Verify(token)
		if err == nil {
			logrus.Debugf("session: authenticated %s from stored token", username)
			return username, nil
		}
		logrus.Debugf("session: stored token rejected: %v", err)
	}

	for {
		username, err := login(ctx, host)
		if err != nil {
			return "", err
		}
		if username == "" {
			if failMessage != "" {
				notify(host, picker.LevelError, failMessage)
			}
			continue
		}

		signed, err := signer.Sign(username)
		if err != nil {
			return "", err
		}
		if err := storage.SetItem(signer.TokenName(), signed); err != nil {
			return "", fmt.Errorf("failed to store token: %w", err)
		}
		logrus.Infof("session: %s logged in", username)
		return username, nil
	}
}

// RevokeAuth clears the stored token so the next auth call prompts again
func RevokeAuth(host Host, tokenName string) error {
	storage, ok := host.(Storage)
	if !ok {
		return fmt.Errorf("auth: %w", ErrUnsupported)
	}
	return storage.SetItem(tokenName, "")
}
