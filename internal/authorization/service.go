package authorization

import (
	"context"
	"errors"
)

// Service answers "may this actor perform this action on this object
// class". Actors are "user:<id>" strings; roles derive from the user
// record's admin flag.
type Service interface {
	Authorize(ctx context.Context, actor string, object string, action string) error
}

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)
