package product

import (
	"mime"
	"strings"
)

// MaxImageSize is the upload limit (5 MiB).
const MaxImageSize = 5 * 1024 * 1024

// acceptedImageTypes maps accepted media types to display names.
var acceptedImageTypes = map[string]string{
	"image/jpeg": "JPEG",
	"image/jpg":  "JPEG",
	"image/png":  "PNG",
	"image/webp": "WebP",
}

// Persian validation messages
const (
	MsgImageRequired = "تصویر الزامی است"
	MsgImageType     = "فرمت فایل مجاز نیست. فقط JPG، PNG و WebP پذیرفته می‌شود."
	MsgImageTooLarge = "حجم فایل نباید بیشتر از 5 مگابایت باشد."
)

// ValidationError rejects an upload before any network call
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsAcceptedImageType reports whether mimeType is JPEG, PNG or WebP.
func IsAcceptedImageType(mimeType string) bool {
	_, ok := acceptedImageTypes[CanonicalMIMEType(mimeType)]
	return ok
}

// CanonicalMIMEType lowercases mimeType and strips parameters.
func CanonicalMIMEType(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mt
	}
	return strings.ToLower(mimeType)
}

// ValidateImage checks the declared media type and byte size of an upload.
func ValidateImage(mimeType string, size int64) error {
	if size <= 0 {
		return &ValidationError{Message: MsgImageRequired}
	}
	if !IsAcceptedImageType(mimeType) {
		return &ValidationError{Message: MsgImageType}
	}
	if size > MaxImageSize {
		return &ValidationError{Message: MsgImageTooLarge}
	}
	return nil
}
