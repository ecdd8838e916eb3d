package userinterface

import (
	domain "users-ui/internal/domain/user"
)

// CreateForm holds the fields of the "Add User" form.
type CreateForm struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

// UpdateForm holds the fields of the "Update User" form. ID is kept as typed.
type UpdateForm struct {
	ID    string `json:"id" form:"id"`
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

// State is the view state of one UserInterface for one browser session.
// Users is ordered newest first.
type State struct {
	BackendName string        `json:"backend_name"`
	BaseURL     string        `json:"base_url"`
	Fetched     bool          `json:"fetched"`
	Users       []domain.User `json:"users"`
	NewUser     CreateForm    `json:"new_user"`
	UpdateUser  UpdateForm    `json:"update_user"`
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	if s.Users != nil {
		out.Users = make([]domain.User, len(s.Users))
		copy(out.Users, s.Users)
	}
	return &out
}

// stale reports whether s was not fetched against the given backend name
// and base URL.
func (s *State) stale(backend, baseURL string) bool {
	return s == nil || !s.Fetched || s.BackendName != backend || s.BaseURL != baseURL
}

// stateKey scopes view state to one session and one backend name.
func stateKey(session, backend string) string {
	return session + ":" + backend
}
