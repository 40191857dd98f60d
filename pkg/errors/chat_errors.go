package errors

var (
	// Domain errors — used in usecase/repository
	ErrUsernameTaken     = AlreadyExists("username is already taken")
	ErrUserNotFound      = NotFound("user not found")
	ErrInvalidUsername   = InvalidArg("username must be 3-32 chars, lowercase letters, numbers and underscores only")
	ErrInvalidLogin      = Unauthorized("invalid username or password")
	ErrInvalidCredential = Unauthorized("invalid or expired token")
	ErrSenderMismatch    = Forbidden("sender does not match authenticated identity")
	ErrPubKeyOwnership   = Forbidden("public key can only be set by its owner")
	ErrEmptyMessage      = InvalidArg("message text cannot be empty")
	ErrEmptyRecipient    = InvalidArg("recipient is required")
)

func ErrRegistrationFailed(cause error) error {
	return Wrap(CodeInternal, "registration failed", cause)
}

func ErrMessageNotStored(cause error) error {
	return Wrap(CodeInternal, "failed to persist message", cause)
}
