// Package display renders users and operation outcomes for the operator:
// a locale-aware Formatter for lists and timestamps, and ErrorMessage,
// which maps every client error to one readable line.
package display
