package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind: API yanıtlarında dönen sabit hata türü.
// Client bu değere göre davranır, mesaj sadece insan için.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindInsufficientStock Kind = "insufficient_stock"
	KindNotFound          Kind = "not_found"
	KindInvalidTransition Kind = "invalid_transition"
	KindConflict          Kind = "conflict"
	KindPersistence       Kind = "persistence"
)

// ItemError: Çok kalemli işlemlerde (transfer oluşturma/onaylama) kalem
// bazında hata detayı. Liste olarak döner, tek string'e birleştirilmez.
type ItemError struct {
	Index       int    `json:"index"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	BranchID    uint   `json:"branch_id,omitempty"`
	Requested   int    `json:"requested,omitempty"`
	Available   int    `json:"available,omitempty"`
	Message     string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Items   []ItemError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func InvalidTransition(format string, args ...any) *Error {
	return New(KindInvalidTransition, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

// InsufficientStock: mevcut/istenen miktarları taşır ki caller kullanıcıya
// ne kadar stok kaldığını gösterebilsin.
func InsufficientStock(available, requested int, format string, args ...any) *Error {
	e := New(KindInsufficientStock, format, args...)
	e.Items = []ItemError{{Available: available, Requested: requested, Message: e.Message}}
	return e
}

// InsufficientItems: toplu doğrulamada biriken kalem hataları.
func InsufficientItems(items []ItemError) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("%d kalem için stok yetersiz veya geçersiz", len(items)),
		Items:   items,
	}
}

// ValidationItems: kalem bazlı doğrulama hataları (stok dışı sebepler dahil).
func ValidationItems(items []ItemError) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%d kalem doğrulamadan geçemedi", len(items)),
		Items:   items,
	}
}

func Persistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

// IsKind: sarılı hata zincirinde verilen türde bir *Error var mı?
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus: hata türünün HTTP karşılığı.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindInsufficientStock, KindInvalidTransition:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
