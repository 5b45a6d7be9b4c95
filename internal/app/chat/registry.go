package chat

import (
	"errors"

	"rtcrelay/internal/app/user"
)

// ErrAlreadyInitialized is returned when an endpoint sends initialize-session twice.
var ErrAlreadyInitialized = errors.New("endpoint already initialized")

// Registry is the set of initialized users, keyed by endpoint id, in join order.
// It is owned by the hub goroutine and is not safe for concurrent use.
type Registry struct {
	users map[string]user.User
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[string]user.User)}
}

// Initialize admits a user for endpointID.
func (r *Registry) Initialize(endpointID, displayName string) (user.User, error) {
	if _, ok := r.users[endpointID]; ok {
		return user.User{}, ErrAlreadyInitialized
	}

	u := user.User{EndpointID: endpointID, DisplayName: displayName}
	r.users[endpointID] = u
	r.order = append(r.order, endpointID)

	return u, nil
}

// Remove deletes and returns the user of endpointID, if any.
func (r *Registry) Remove(endpointID string) (user.User, bool) {
	u, ok := r.users[endpointID]
	if !ok {
		return user.User{}, false
	}

	delete(r.users, endpointID)
	for i, id := range r.order {
		if id == endpointID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return u, true
}

// Find returns the user of endpointID.
func (r *Registry) Find(endpointID string) (user.User, bool) {
	u, ok := r.users[endpointID]
	return u, ok
}

// List returns the users in join order.
func (r *Registry) List() []user.User {
	out := make([]user.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id])
	}
	return out
}

// Len returns the number of users.
func (r *Registry) Len() int {
	return len(r.users)
}
