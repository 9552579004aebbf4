package ai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
// RateLimited analysis errors match it with errors.Is.
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// Kind classifies an analysis failure.
type Kind string

const (
	KindInvalidCredential Kind = "invalid_credential"
	KindRateLimited       Kind = "rate_limited"
	KindUnsupportedImage  Kind = "unsupported_image"
	KindMalformedResponse Kind = "malformed_response"
	KindInvalidShape      Kind = "invalid_shape"
	KindUnknown           Kind = "unknown"
)

// Persian user-facing messages per kind
const (
	MsgInvalidCredential = "کلید API نامعتبر است. لطفاً کلید صحیح را وارد کنید."
	MsgRateLimited       = "محدودیت استفاده از سرویس. لطفاً بعداً تلاش کنید."
	MsgUnsupportedImage  = "فرمت تصویر پشتیبانی نمی‌شود. لطفاً تصویر JPG، PNG یا WebP آپلود کنید."
	MsgMalformedResponse = "خطا در تفسیر پاسخ سرویس هوش مصنوعی"
	MsgEmptyResponse     = "پاسخ خالی از سرویس هوش مصنوعی دریافت شد"
	MsgInvalidShape      = "ساختار پاسخ سرویس هوش مصنوعی نامعتبر است"
	MsgUnknown           = "خطای غیرمنتظره در تحلیل تصویر. لطفاً دوباره تلاش کنید."
)

// AnalysisError is returned by the analysis client. Message is safe to show the
// user; Detail and Err are for server logs only.
type AnalysisError struct {
	Kind    Kind
	Message string
	Detail  string
	Err     error
}

// NewError builds an AnalysisError with the default message for kind.
func NewError(kind Kind, detail string, err error) *AnalysisError {
	return &AnalysisError{Kind: kind, Message: messageFor(kind), Detail: detail, Err: err}
}

func (e *AnalysisError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ai analysis failed (%s)", e.Kind)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrQuotaExceeded) match rate limit failures.
func (e *AnalysisError) Is(target error) bool {
	return target == ErrQuotaExceeded && e.Kind == KindRateLimited
}

func messageFor(kind Kind) string {
	switch kind {
	case KindInvalidCredential:
		return MsgInvalidCredential
	case KindRateLimited:
		return MsgRateLimited
	case KindUnsupportedImage:
		return MsgUnsupportedImage
	case KindMalformedResponse:
		return MsgMalformedResponse
	case KindInvalidShape:
		return MsgInvalidShape
	default:
		return MsgUnknown
	}
}

// keyword hints taken from provider error texts, checked in order
var classifyHints = []struct {
	kind     Kind
	keywords []string
}{
	{KindInvalidCredential, []string{"api_key", "api key", "unauthenticated", "permission_denied"}},
	{KindRateLimited, []string{"quota", "rate limit", "ratelimit", "resource_exhausted", "too many requests", "limit"}},
	{KindUnsupportedImage, []string{"image", "mime", "format"}},
}

// Classify maps a provider failure to an AnalysisError. Errors that are
// already classified are returned unchanged.
func Classify(err error) *AnalysisError {
	if err == nil {
		return nil
	}
	var aErr *AnalysisError
	if errors.As(err, &aErr) {
		return aErr
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return NewError(KindRateLimited, "", err)
	}

	text := strings.ToLower(err.Error())
	for _, h := range classifyHints {
		for _, k := range h.keywords {
			if strings.Contains(text, k) {
				return NewError(h.kind, "", err)
			}
		}
	}
	return NewError(KindUnknown, "", err)
}
