package domain

import "strings"

// LoginKind is the classification of a user-entered login string.
type LoginKind string

const (
	LoginNumber   LoginKind = "number"
	LoginEmail    LoginKind = "email"
	LoginUsername LoginKind = "username"
)

// ClassifyLogin decides what a raw login string denotes. Rules are checked
// in order, first match wins:
//
//  1. prefix "+11111"      → LoginNumber
//  2. contains "@"         → LoginEmail
//  3. anything else        → LoginUsername
//
// The function is pure and total; classification is re-evaluated on every
// edit of a login field and is never sticky.
func ClassifyLogin(login string) LoginKind {
	switch {
	case strings.HasPrefix(login, LetteraPrefix):
		return LoginNumber
	case strings.Contains(login, "@"):
		return LoginEmail
	default:
		return LoginUsername
	}
}
