package service

import "errors"

// Errors shared by several services.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateName     = errors.New("name already exists")
	ErrDependencyExists  = errors.New("resource is still referenced")
)
