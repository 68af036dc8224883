package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserInactive         = errors.New("user is inactive")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image exceeds maximum allowed size")
	ErrDraftNotOpen         = errors.New("draft is not open")
	ErrDraftHasNoImages     = errors.New("draft has no images to publish")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrProductInactive      = errors.New("product is not available")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
)
