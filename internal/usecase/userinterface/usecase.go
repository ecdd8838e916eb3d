package userinterface

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	domain "users-ui/internal/domain/user"
	apperrors "users-ui/pkg/errors"
	"users-ui/pkg/logger"
)

// Service keeps one view state per session and backend name, mirroring the
// remote users collection. Backend failures are logged and never returned;
// only state store failures reach the caller.
type Service struct {
	backend Backend     // Remote users service
	store   StateStore  // Per-session view state
	log     *zap.Logger // Diagnostic log for failed backend calls
	locks   *keyedMutex // Serialises state changes per session
}

var _ Usecase = (*Service)(nil)

// New creates a new Service with the provided backend, state store, and logger.
func New(b Backend, s StateStore, log *zap.Logger) *Service {
	return &Service{backend: b, store: s, log: log, locks: newKeyedMutex()}
}

// Mount returns the view state, fetching the list first when the session has
// never fetched it or when the backend name or base URL changed since.
func (uc *Service) Mount(ctx context.Context, session, backend string) (*State, error) {
	key := stateKey(session, backend)

	unlock := uc.locks.Lock(key)
	state, err := uc.store.Load(ctx, key)
	unlock()
	if err != nil {
		return nil, fmt.Errorf("load view state: %w", err)
	}

	if !state.stale(backend, uc.backend.BaseURL()) {
		return state, nil
	}

	return uc.fetch(ctx, key, backend)
}

// Refresh fetches the list regardless of what is already stored.
func (uc *Service) Refresh(ctx context.Context, session, backend string) (*State, error) {
	return uc.fetch(ctx, stateKey(session, backend), backend)
}

// fetch replaces the list with the reversed backend listing. On failure the
// previous state is kept.
func (uc *Service) fetch(ctx context.Context, key, backend string) (*State, error) {
	log := uc.logger(ctx, backend)
	baseURL := uc.backend.BaseURL()

	users, fetchErr := uc.backend.ListUsers(ctx, backend)

	return uc.apply(ctx, key, backend, func(state *State) {
		if fetchErr != nil {
			log.Error("error fetching users", zap.String("base_url", baseURL), zap.Error(fetchErr))
			return
		}

		reverse(users)
		state.Users = users
		state.Fetched = true
		state.BackendName = backend
		state.BaseURL = baseURL
		log.Debug("users fetched", zap.Int("count", len(users)))
	})
}

// CreateUser posts the form to the backend and prepends the created record.
// On failure the form stays populated and the list is unchanged.
func (uc *Service) CreateUser(ctx context.Context, session, backend string, in CreateForm) (*State, error) {
	log := uc.logger(ctx, backend)

	created, createErr := uc.backend.CreateUser(ctx, backend, domain.Payload{Name: in.Name, Email: in.Email})

	return uc.apply(ctx, stateKey(session, backend), backend, func(state *State) {
		if createErr != nil {
			log.Error("error creating user", zap.String("name", in.Name), zap.String("email", in.Email), zap.Error(createErr))
			state.NewUser = in
			return
		}

		state.Users = append([]domain.User{*created}, state.Users...)
		state.NewUser = CreateForm{}
		log.Info("user created", zap.Int64("id", created.ID))
	})
}

// UpdateUser sends the new name and email for the typed id, then rewrites
// every local entry whose id equals it. An id that is not a number matches
// no local entry.
func (uc *Service) UpdateUser(ctx context.Context, session, backend string, in UpdateForm) (*State, error) {
	log := uc.logger(ctx, backend)

	updateErr := uc.backend.UpdateUser(ctx, backend, in.ID, domain.Payload{Name: in.Name, Email: in.Email})

	return uc.apply(ctx, stateKey(session, backend), backend, func(state *State) {
		if updateErr != nil {
			log.Error("error updating user", zap.String("id", in.ID), zap.Int("status", apperrors.StatusCode(updateErr)), zap.Error(updateErr))
			state.UpdateUser = in
			return
		}

		state.UpdateUser = UpdateForm{}

		id, ok := parseID(in.ID)
		if !ok {
			log.Warn("updated user id is not numeric, list left unchanged", zap.String("id", in.ID))
			return
		}
		for i := range state.Users {
			if state.Users[i].ID == id {
				state.Users[i].Name = in.Name
				state.Users[i].Email = in.Email
			}
		}
		log.Info("user updated", zap.Int64("id", id))
	})
}

// DeleteUser deletes the record on the backend and drops it from the list.
func (uc *Service) DeleteUser(ctx context.Context, session, backend string, id int64) (*State, error) {
	log := uc.logger(ctx, backend)

	deleteErr := uc.backend.DeleteUser(ctx, backend, id)

	return uc.apply(ctx, stateKey(session, backend), backend, func(state *State) {
		if deleteErr != nil {
			log.Error("error deleting user", zap.Int64("id", id), zap.Int("status", apperrors.StatusCode(deleteErr)), zap.Error(deleteErr))
			return
		}

		kept := state.Users[:0]
		for _, u := range state.Users {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		state.Users = kept
		log.Info("user deleted", zap.Int64("id", id))
	})
}

// apply loads the current state under the session lock, runs fn on it and
// saves the result. The lock is never held across a backend call, so the
// last response to land wins.
func (uc *Service) apply(ctx context.Context, key, backend string, fn func(*State)) (*State, error) {
	unlock := uc.locks.Lock(key)
	defer unlock()

	state, err := uc.store.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load view state: %w", err)
	}
	if state == nil {
		state = &State{BackendName: backend, Users: []domain.User{}}
	}

	fn(state)

	if err := uc.store.Save(ctx, key, state); err != nil {
		return nil, fmt.Errorf("save view state: %w", err)
	}
	return state, nil
}

func (uc *Service) logger(ctx context.Context, backend string) *zap.Logger {
	return logger.WithContext(ctx, uc.log).With(zap.String("backend", backend))
}

func reverse(users []domain.User) {
	for i, j := 0, len(users)-1; i < j; i, j = i+1, j-1 {
		users[i], users[j] = users[j], users[i]
	}
}

// parseID reads the leading integer of raw, so "2abc" and "2.0" both give 2.
// Leading whitespace and a sign are accepted, as is a 0x prefix for hex.
func parseID(raw string) (int64, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}

	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, s = 16, s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	id, err := strconv.ParseInt(sign+s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16:
		return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return false
}
