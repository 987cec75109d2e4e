package models

// Actor is the identity on whose behalf an operation executes. It is
// passed explicitly into the service layer rather than read from any
// ambient request state.
type Actor struct {
	ID      uint64
	IsAdmin bool
}
