package auth

import "errors"

var (
	// ErrInvalidToken is returned when a session token is malformed or its
	// signature does not verify.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a session token is past its validity.
	ErrExpiredToken = errors.New("token expired")
	// ErrUnknownIdentity is returned when a token references an identity
	// that does not exist in the user directory.
	ErrUnknownIdentity = errors.New("unknown identity")
	// ErrBanned is returned when the identity carries the ban flag.
	ErrBanned = errors.New("identity banned")
	// ErrForbidden is returned when a non-admin caller invokes an
	// admin-only action.
	ErrForbidden = errors.New("forbidden")
	// ErrCredentialRejected is returned when the external identity
	// provider refuses the presented credential.
	ErrCredentialRejected = errors.New("credential rejected by identity provider")
)
