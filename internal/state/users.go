package state

import "github.com/kanriapp/kanri/internal/user"

// UsersState mirrors the client-side user listing state.
type UsersState struct {
	List    []user.User
	Loading bool
	Error   string
}

// SetUsers replaces the listing and clears loading and error flags.
type SetUsers struct {
	Users []user.User
}

// AddUser appends a user to the listing.
type AddUser struct {
	User user.User
}

// UpdateUser replaces the entry with the same ID, if present.
type UpdateUser struct {
	User user.User
}

// RemoveUser drops the entry with the given ID.
type RemoveUser struct {
	ID string
}

// SetUsersLoading toggles the listing loading flag.
type SetUsersLoading struct {
	Loading bool
}

// SetUsersError records a listing error and clears loading.
type SetUsersError struct {
	Error string
}

// ReduceUsers is the pure reducer for UsersState.
func ReduceUsers(s UsersState, a Action) UsersState {
	switch a := a.(type) {
	case SetUsers:
		return UsersState{List: a.Users}
	case AddUser:
		next := make([]user.User, 0, len(s.List)+1)
		next = append(next, s.List...)
		next = append(next, a.User)
		s.List = next
		return s
	case UpdateUser:
		next := make([]user.User, len(s.List))
		copy(next, s.List)
		for i := range next {
			if next[i].ID == a.User.ID {
				next[i] = a.User
			}
		}
		s.List = next
		return s
	case RemoveUser:
		next := make([]user.User, 0, len(s.List))
		for _, u := range s.List {
			if u.ID != a.ID {
				next = append(next, u)
			}
		}
		s.List = next
		return s
	case SetUsersLoading:
		s.Loading = a.Loading
		return s
	case SetUsersError:
		s.Error = a.Error
		s.Loading = false
		return s
	default:
		return s
	}
}

// NewUsersStore returns a store seeded with an empty listing.
func NewUsersStore() *Store[UsersState] {
	return NewStore(UsersState{}, ReduceUsers)
}
