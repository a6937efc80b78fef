// Package services holds the user directory: the client-side list of users
// and the operations that keep it consistent with the backend.
//
// Each operation kind (load, get, add, update, delete) runs at most once at
// a time; a second call while one is in flight fails with ErrInFlight. The
// list is never changed before the server answers, and never changed when
// it answers with an error.
package services
