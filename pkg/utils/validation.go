package utils

import (
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ESTDOM/profile_service/pkg/locale"
)

// MaxDocumentSize максимальный размер фото документа в байтах (5MB)
const MaxDocumentSize = 5 * 1024 * 1024

var (
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex        = regexp.MustCompile(`^\+7\d{10}$`)
	digitsRegex       = regexp.MustCompile(`^\d+$`)
	cyrillicRegex     = regexp.MustCompile(`^[а-яА-ЯёЁ]+$`)
	cyrillicNameRegex = regexp.MustCompile(`^[а-яА-ЯёЁ\s]+$`)
	accountRegex      = regexp.MustCompile(`^[0-9A-Za-z-]+$`)
)

// Валидация email
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	return len(email) > 0 && len(email) <= 254 && emailRegex.MatchString(email)
}

// Валидация номера телефона в формате +7XXXXXXXXXX
func ValidatePhone(value string) error {
	if !phoneRegex.MatchString(value) {
		return errors.New(locale.Get("phone_invalid"))
	}
	return nil
}

// Валидация ИНН: ровно 12 цифр
func ValidateINN(value string) error {
	if len(value) != 12 {
		return errors.New(locale.Get("inn_length"))
	}
	if !digitsRegex.MatchString(value) {
		return errors.New(locale.Get("inn_digits"))
	}
	return nil
}

// Валидация серии и номера паспорта: ровно 11 символов.
// Считаем символы, не байты: документ может быть не только российским.
func ValidatePassport(value string) error {
	if utf8.RuneCountInString(value) != 11 {
		return errors.New(locale.Get("passport_length"))
	}
	return nil
}

// Валидация почтового индекса: ровно 6 цифр
func ValidatePostalCode(value string) error {
	if len(value) != 6 {
		return errors.New(locale.Get("postal_code_length"))
	}
	if !digitsRegex.MatchString(value) {
		return errors.New(locale.Get("postal_code_digits"))
	}
	return nil
}

// Валидация стоимости: только цифры, строго больше нуля.
// Возвращает распарсенное значение.
func ValidatePrice(value string) (int, error) {
	if !digitsRegex.MatchString(value) {
		return 0, errors.New(locale.Get("price_digits"))
	}
	price, err := strconv.Atoi(value)
	if err != nil || price <= 0 {
		return 0, errors.New(locale.Get("price_positive"))
	}
	return price, nil
}

// Валидация имени/фамилии/отчества: только русские буквы
func IsCyrillicName(value string) bool {
	return cyrillicRegex.MatchString(value)
}

// Валидация ФИО партнёра: русские буквы и пробелы
func IsCyrillicFullName(value string) bool {
	return cyrillicNameRegex.MatchString(value)
}

// Валидация номера счёта: цифры, латинские буквы и дефис
func ValidateAccountID(value string) error {
	if !accountRegex.MatchString(value) {
		return errors.New(locale.Get("account_id_invalid"))
	}
	return nil
}

// Валидация размера фото документа
func ValidateDocumentSize(size int64) error {
	if size > MaxDocumentSize {
		return errors.New(locale.Get("document_too_large"))
	}
	return nil
}

// DocumentExt возвращает расширение файла в нижнем регистре без точки
func DocumentExt(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
