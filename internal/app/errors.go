package app

import "errors"

var (
	ErrNotSignedIn = errors.New("not signed in; run `learnsimply login <email>` or `learnsimply signup <email>`")
	ErrNotAdmin    = errors.New("admin access required")
)
