package domain

// UserRole defines the account roles.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

// DraftStatus represents the lifecycle of a product draft.
type DraftStatus string

const (
	DraftStatusOpen      DraftStatus = "open"
	DraftStatusPublished DraftStatus = "published"
	DraftStatusDiscarded DraftStatus = "discarded"
)

// OrderStatus represents the lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid reports whether the status is a known order status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ImageFormat represents the allowed image upload formats.
type ImageFormat string

const (
	ImageFormatJPEG ImageFormat = "jpeg"
	ImageFormatPNG  ImageFormat = "png"
	ImageFormatGIF  ImageFormat = "gif"
	ImageFormatWebP ImageFormat = "webp"
)

// AllowedImageContentTypes maps MIME content types to ImageFormat.
var AllowedImageContentTypes = map[string]ImageFormat{
	"image/jpeg": ImageFormatJPEG,
	"image/png":  ImageFormatPNG,
	"image/gif":  ImageFormatGIF,
	"image/webp": ImageFormatWebP,
}

// AllowedImageExtensions maps file extensions (without dot) to ImageFormat.
var AllowedImageExtensions = map[string]ImageFormat{
	"jpg":  ImageFormatJPEG,
	"jpeg": ImageFormatJPEG,
	"png":  ImageFormatPNG,
	"gif":  ImageFormatGIF,
	"webp": ImageFormatWebP,
}
