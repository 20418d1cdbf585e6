package service

import "errors"

var (
	ErrSessionAlreadyActive = errors.New("a focus session is already active")
	ErrNoActiveSession      = errors.New("no active focus session")
	ErrSessionNotFound      = errors.New("session not found")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5 stars")
	ErrInvalidTimeRange     = errors.New("end time is before start time")
	ErrHistoryUnavailable   = errors.New("history analysis is not configured")
	ErrSessionExists        = errors.New("a session with this id already exists")
	ErrSessionAlreadyRated  = errors.New("session is already rated")
)
