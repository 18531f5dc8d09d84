package apperrors

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrRSVPNotFound        = errors.New("rsvp not found")
	ErrNoEventsForHost     = errors.New("no events found for this email address")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidEventType    = errors.New("invalid event type")
	ErrRSVPClosed          = errors.New("rsvp is closed for this event")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidImage        = errors.New("please select an image file")
	ErrImageTooLarge       = errors.New("image must be less than 5MB")
	ErrInternalServerError = errors.New("internal server error")
)
