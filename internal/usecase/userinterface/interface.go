package userinterface

import (
	"context"

	domain "users-ui/internal/domain/user"
)

// Usecase defines the operations a browser session can perform on its view.
type Usecase interface {
	Mount(ctx context.Context, session, backend string) (*State, error)
	Refresh(ctx context.Context, session, backend string) (*State, error)
	CreateUser(ctx context.Context, session, backend string, in CreateForm) (*State, error)
	UpdateUser(ctx context.Context, session, backend string, in UpdateForm) (*State, error)
	DeleteUser(ctx context.Context, session, backend string, id int64) (*State, error)
}

// Backend is the remote users service the view mirrors.
type Backend interface {
	ListUsers(ctx context.Context, backend string) ([]domain.User, error)                    // GET collection
	CreateUser(ctx context.Context, backend string, in domain.Payload) (*domain.User, error) // POST collection
	UpdateUser(ctx context.Context, backend, id string, in domain.Payload) error             // PUT item
	DeleteUser(ctx context.Context, backend string, id int64) error                          // DELETE item
	BaseURL() string                                                                         // base URL requests go to
}

// StateStore persists view state between requests of the same session.
type StateStore interface {
	// Load returns nil when no state is stored under key.
	Load(ctx context.Context, key string) (*State, error)

	// Save stores state under key, replacing any previous value.
	Save(ctx context.Context, key string, state *State) error
}
