package auth

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/adapter"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/repository"
	"github.com/m-mizutani/seefood/pkg/utils/logging"
)

const (
	TokenKey = "@seefood_token"
	UserKey  = "@seefood_user"
)

// Client is the part of the SeeFood API used for login
type Client interface {
	Login(ctx context.Context, username, password string) (*adapter.LoginResult, error)
}

// UseCase keeps the session token and user profile in the repository so
// that a later run can restore the login.
type UseCase struct {
	client  Client
	repo    repository.Repository
	session *model.Session
}

func New(client Client, repo repository.Repository, session *model.Session) *UseCase {
	return &UseCase{
		client:  client,
		repo:    repo,
		session: session,
	}
}

// Login authenticates and persists the session. A failure to persist is
// logged; the session stays usable for this run.
func (u *UseCase) Login(ctx context.Context, username, password string) (model.User, error) {
	if username == "" || password == "" {
		return nil, goerr.New("username and password are required")
	}

	result, err := u.client.Login(ctx, username, password)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to login", goerr.V("username", username))
	}

	logger := logging.From(ctx)
	if result.Token == "" {
		logger.Warn("login response carried no token", "username", username)
	} else {
		u.session.Set(result.Token)
		if err := u.repo.Set(ctx, TokenKey, result.Token); err != nil {
			logger.Error("failed to save token", "error", err)
		}
	}

	data, err := json.Marshal(result.User)
	if err != nil {
		logger.Error("failed to encode user", "error", goerr.Wrap(err, "failed to marshal user"))
	} else if err := u.repo.Set(ctx, UserKey, string(data)); err != nil {
		logger.Error("failed to save user", "error", err)
	}

	return result.User, nil
}

// Restore loads a saved login into the session. It returns nil without error
// when nothing is saved.
func (u *UseCase) Restore(ctx context.Context) (model.User, error) {
	token, found, err := u.repo.Get(ctx, TokenKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read token")
	}
	if found && token != "" {
		u.session.Set(token)
	}

	raw, found, err := u.repo.Get(ctx, UserKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read user")
	}
	if !found || raw == "" {
		return nil, nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logging.From(ctx).Warn("ignoring broken saved user", "error", err)
		return nil, nil
	}
	return user, nil
}

// Logout clears the session and removes the saved login
func (u *UseCase) Logout(ctx context.Context) error {
	u.session.Clear()
	if err := u.repo.Remove(ctx, TokenKey); err != nil {
		return goerr.Wrap(err, "failed to remove token")
	}
	if err := u.repo.Remove(ctx, UserKey); err != nil {
		return goerr.Wrap(err, "failed to remove user")
	}
	return nil
}
