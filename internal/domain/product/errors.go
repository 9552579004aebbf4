package product

import "errors"

// ErrNotFound is returned by Repository.Get when the id is unknown.
var ErrNotFound = errors.New("product analysis not found")

// Persian messages for the history endpoints.
const (
	MsgDeleted       = "آیتم با موفقیت حذف شد"
	MsgNotFound      = "آیتم یافت نشد"
	MsgHistoryFailed = "خطا در دریافت تاریخچه"
	MsgDeleteFailed  = "خطا در حذف آیتم"
	MsgGenerateFail  = "خطا در تولید محتوا"
)

// MsgInvalidID is returned for a history id that is not a positive integer.
const MsgInvalidID = "شناسه نامعتبر است"
