package app

import (
	"fmt"
	"strings"
)

// FieldError ошибка валидации одного поля: имя поля и причина
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DomainValidationError агрегат всех ошибок валидации одной попытки
// редактирования. Ошибки собираются, а не прерывают проверку на первой,
// чтобы форма могла показать их все сразу.
type DomainValidationError struct {
	Fields []FieldError
}

func (e *DomainValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fe.Error())
	}
	return strings.Join(parts, "; ")
}

// Add добавляет ошибку поля
func (e *DomainValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Append добавляет готовые ошибки полей
func (e *DomainValidationError) Append(errs ...FieldError) {
	e.Fields = append(e.Fields, errs...)
}

// HasErrors сообщает, была ли зафиксирована хотя бы одна ошибка
func (e *DomainValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Has проверяет наличие ошибки по конкретному полю
func (e *DomainValidationError) Has(field string) bool {
	for _, fe := range e.Fields {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// ByField группирует сообщения по имени поля для слоя представления
func (e *DomainValidationError) ByField() map[string][]string {
	out := make(map[string][]string, len(e.Fields))
	for _, fe := range e.Fields {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}
