// Package models holds the user record exchanged with the backend, the
// create/update request body, and client-side input validation.
//
// Validation failures are reported as *ValidationError naming the offending
// field; callers match them with errors.As.
package models
