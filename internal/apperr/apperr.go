// Package apperr описывает типизированные ошибки ядра: вызывающая сторона
// отображает Kind в код транспорта сама.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindBadRequest Kind = "bad_request"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal"
)

type Error struct {
	Kind    Kind
	Field   string // поле запроса, если ошибка к нему относится
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(field, msg string) error {
	return &Error{Kind: KindBadRequest, Field: field, Message: msg}
}

func Conflict(field, msg string) error {
	return &Error{Kind: KindConflict, Field: field, Message: msg}
}

// NotFound: ссылка на сущность не разрешилась.
func NotFound(entity, field string) error {
	return &Error{Kind: KindNotFound, Field: field, Message: entity + " not found"}
}

func Internal(err error, msg string) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// Wrap оставляет *Error как есть, остальное заворачивает в Internal.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return Internal(err, msg)
}

// KindOf возвращает "" для nil и KindInternal для нетипизированных ошибок.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func Is(err error, k Kind) bool { return err != nil && KindOf(err) == k }

// FieldOf возвращает поле, к которому относится ошибка.
func FieldOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Field
	}
	return ""
}
