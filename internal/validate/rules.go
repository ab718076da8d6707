// Package validate собирает проверки полей в упорядоченные наборы правил.
// Первое нарушенное правило прерывает проверку.
package validate

import (
	"regexp"
	"strings"

	"github.com/Spok95/warehouse-ops/internal/apperr"
)

// Rule: предикат над входом; Check возвращает true, если всё в порядке.
type Rule[T any] struct {
	Field   string
	Message string
	Check   func(T) bool
}

type Rules[T any] struct {
	rules []Rule[T]
}

func New[T any](rules ...Rule[T]) *Rules[T] {
	return &Rules[T]{rules: append([]Rule[T](nil), rules...)}
}

// Register добавляет правила в конец набора.
func (r *Rules[T]) Register(rules ...Rule[T]) *Rules[T] {
	r.rules = append(r.rules, rules...)
	return r
}

// Extend возвращает копию набора с дополнительными правилами.
func (r *Rules[T]) Extend(rules ...Rule[T]) *Rules[T] {
	return New(r.rules...).Register(rules...)
}

func (r *Rules[T]) Validate(v T) error {
	for _, rule := range r.rules {
		if !rule.Check(v) {
			return apperr.BadRequest(rule.Field, rule.Message)
		}
	}
	return nil
}

func Required[T any](field string, get func(T) string) Rule[T] {
	return Rule[T]{
		Field:   field,
		Message: field + " is required",
		Check:   func(v T) bool { return strings.TrimSpace(get(v)) != "" },
	}
}

func Present[T any, P any](field string, get func(T) *P) Rule[T] {
	return Rule[T]{
		Field:   field,
		Message: field + " is required",
		Check:   func(v T) bool { return get(v) != nil },
	}
}

// OneOf пропускает пустое значение: для него действует значение по умолчанию.
func OneOf[T any, V ~string](field string, get func(T) V, allowed ...V) Rule[T] {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return Rule[T]{
		Field:   field,
		Message: "Invalid " + field + ". Must be one of: " + strings.Join(names, ", "),
		Check: func(v T) bool {
			got := get(v)
			if got == "" {
				return true
			}
			for _, a := range allowed {
				if got == a {
					return true
				}
			}
			return false
		},
	}
}

func Between[T any](field string, get func(T) int64, lo, hi int64, msg string) Rule[T] {
	return Rule[T]{
		Field:   field,
		Message: msg,
		Check: func(v T) bool {
			n := get(v)
			return n >= lo && n <= hi
		},
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsEmail(s string) bool { return emailPattern.MatchString(s) }

// Email проверяет формат, пустое значение оставляет правилу Required.
func Email[T any](field string, get func(T) string, msg string) Rule[T] {
	return Rule[T]{
		Field:   field,
		Message: msg,
		Check: func(v T) bool {
			s := get(v)
			return s == "" || IsEmail(s)
		},
	}
}
