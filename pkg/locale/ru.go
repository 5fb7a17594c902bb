package locale

import "fmt"

// Messages содержит все сообщения на русском языке
var Messages = map[string]string{
	// Общие сообщения
	"success":           "Успешно",
	"error":             "Ошибка",
	"invalid_request":   "Неверный запрос",
	"internal_error":    "Внутренняя ошибка сервера",
	"field_required":    "Это поле обязательно",
	"profile_updated":   "Данные успешно обновлены. Повторное редактирование запрещено",
	"edit_locked":       "Редактирование заблокировано. Обратитесь к администратору",
	"profile_not_found": "Профиль не найден",
	"user_not_found":    "Пользователь не найден",

	// Регистрация
	"registration_successful": "Регистрация выполнена успешно",
	"registration_failed":     "Ошибка регистрации",
	"email_already_exists":    "Пользователь с таким email уже существует",
	"terms_not_accepted":      "Необходимо принять условия обработки персональных данных",

	// Валидация полей профиля
	"email_invalid":         "Неверный формат email",
	"phone_invalid":         "Номер телефона должен быть в формате +7XXXXXXXXXX",
	"inn_length":            "ИНН должен содержать 12 цифр",
	"inn_digits":            "ИНН должен содержать только цифры",
	"passport_length":       "Серия и номер паспорта должны содержать 11 символов",
	"price_digits":          "Стоимость должна содержать только цифры",
	"price_positive":        "Стоимость должна быть положительным числом",
	"first_name_cyrillic":   "Имя может содержать только русские буквы",
	"last_name_cyrillic":    "Фамилия может содержать только русские буквы",
	"surname_cyrillic":      "Отчество может содержать только русские буквы",
	"partner_name_cyrillic": "ФИО партнёра может содержать только русские буквы и пробелы",
	"account_id_invalid":    "Номер счёта может содержать только цифры и латинские буквы и дефис",
	"document_type_unknown": "Неизвестный тип документа",
	"purchase_type_unknown": "Неизвестный тип покупки",
	"date_invalid":          "Неверный формат даты",
	"date_of_issue_order":   "Дата выдачи не может быть раньше даты рождения",

	// Валидация адреса
	"postal_code_length": "Почтовый индекс должен содержать 6 цифр",
	"postal_code_digits": "Почтовый индекс должен содержать только цифры",

	// Документы
	"document_too_large":     "Максимальный размер файла 5MB",
	"document_upload_failed": "Не удалось сохранить файл. Попробуйте отправить форму ещё раз",
	"document_not_found":     "Документ не найден",

	// Мониторинг
	"service_healthy":       "Сервис работает нормально",
	"service_unhealthy":     "Проблемы с сервисом",
	"database_connected":    "База данных подключена",
	"database_disconnected": "База данных отключена",
	"redis_connected":       "Redis подключен",
	"redis_disconnected":    "Redis отключен",
	"storage_connected":     "Хранилище файлов подключено",
	"storage_disconnected":  "Хранилище файлов отключено",
}

// Get возвращает сообщение по ключу, или ключ если сообщение не найдено
func Get(key string) string {
	if msg, exists := Messages[key]; exists {
		return msg
	}
	return key
}

// Getf возвращает форматированное сообщение
func Getf(key string, args ...interface{}) string {
	msg := Get(key)
	return fmt.Sprintf(msg, args...)
}

// Has проверяет, существует ли сообщение для данного ключа
func Has(key string) bool {
	_, exists := Messages[key]
	return exists
}
