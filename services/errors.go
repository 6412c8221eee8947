package services

import "errors"

// Validation errors are contract violations: they are raised before any
// backend call and always reach the caller unwrapped.
var (
	ErrTournamentInvalid = errors.New("tournament is missing id or name")
	ErrTeamInvalid       = errors.New("team is missing id or name")
	ErrMatchInvalid      = errors.New("match is missing id or team reference")

	ErrRemoteUnavailable = errors.New("remote store is not available")
	ErrNothingToMigrate  = errors.New("local cache holds no tournaments to migrate")

	ErrInvalidCredentials = errors.New("invalid password")
)
