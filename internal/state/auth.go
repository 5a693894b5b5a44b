package state

import "github.com/kanriapp/kanri/internal/user"

// AuthState mirrors the client-side authentication state.
type AuthState struct {
	CurrentUser     *user.User
	IsAuthenticated bool
	Loading         bool
}

// SetCurrentUser marks a user as logged in.
type SetCurrentUser struct {
	User *user.User
}

// ClearCurrentUser logs the current user out.
type ClearCurrentUser struct{}

// SetAuthLoading toggles the auth loading flag.
type SetAuthLoading struct {
	Loading bool
}

// ReduceAuth is the pure reducer for AuthState.
func ReduceAuth(s AuthState, a Action) AuthState {
	switch a := a.(type) {
	case SetCurrentUser:
		return AuthState{CurrentUser: a.User, IsAuthenticated: a.User != nil}
	case ClearCurrentUser:
		return AuthState{}
	case SetAuthLoading:
		s.Loading = a.Loading
		return s
	default:
		return s
	}
}

// NewAuthStore returns a store seeded with the logged-out state.
func NewAuthStore() *Store[AuthState] {
	return NewStore(AuthState{}, ReduceAuth)
}
