package errors

var (
	ErrInvalidAmount = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
	}
	ErrInsufficientFunds = &DomainError{
		Kind:    KindValidation,
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient funds",
	}
	ErrSelfTransfer = &DomainError{
		Kind:    KindValidation,
		Code:    "SELF_TRANSFER",
		Message: "cannot transfer to self",
	}
	ErrWalletNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrRecipientNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "RECIPIENT_NOT_FOUND",
		Message: "recipient wallet not found",
	}
	ErrWalletExists = &DomainError{
		Kind:    KindConflict,
		Code:    "WALLET_EXISTS",
		Message: "wallet already exists",
	}
	ErrTransactionNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrDuplicateReference = &DomainError{
		Kind:    KindConflict,
		Code:    "DUPLICATE_REFERENCE",
		Message: "transaction reference already exists",
	}
	ErrInvalidSignature = &DomainError{
		Kind:    KindUnauthorized,
		Code:    "INVALID_SIGNATURE",
		Message: "invalid signature",
	}
	ErrInvalidPayload = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_PAYLOAD",
		Message: "invalid notification payload",
	}
	ErrUnauthorized = &DomainError{
		Kind:    KindUnauthorized,
		Code:    "UNAUTHORIZED",
		Message: "unauthorized",
	}
	ErrForbidden = &DomainError{
		Kind:    KindForbidden,
		Code:    "FORBIDDEN",
		Message: "insufficient permissions",
	}
)
