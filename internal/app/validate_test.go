package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ESTDOM/profile_service/pkg/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(value string) *time.Time {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestProfileFieldViolations(t *testing.T) {
	// Тест пустой анкеты: пустые значения не считаются ошибкой
	t.Run("empty profile is valid", func(t *testing.T) {
		p := &Profile{}
		assert.Empty(t, p.FieldViolations())
	})

	// Тест заполненной корректной анкеты
	t.Run("filled valid profile", func(t *testing.T) {
		p := &Profile{
			Surname:        "Иванович",
			Phone:          "+71234567890",
			DocumentType:   DocumentPassport,
			IDDocument:     "1234 567890",
			INN:            "123456789012",
			TypeOfPurchase: PurchaseSecondary,
			Price:          "5000000",
			PriceInQueue:   "4500000",
			BirthDate:      date("2000-01-01"),
			DateOfIssue:    date("2020-01-01"),
			IDCoor:         "4081-7810",
			PartnerName:    "Иванова Анна",
			PartnerPhone:   "+79876543210",
		}
		assert.Empty(t, p.FieldViolations())
	})

	// Тест: собираются все нарушенные поля, а не только первое
	t.Run("collects every violated field", func(t *testing.T) {
		p := &Profile{
			Phone:      "81234567890",
			INN:        "12345",
			IDDocument: "123",
			Price:      "0",
		}
		errs := p.FieldViolations()
		require.Len(t, errs, 4)

		verr := &DomainValidationError{Fields: errs}
		assert.True(t, verr.Has("phone"))
		assert.True(t, verr.Has("inn"))
		assert.True(t, verr.Has("id_document"))
		assert.True(t, verr.Has("price"))
	})

	// Тест сверки дат: только когда заполнены обе
	t.Run("date ordering", func(t *testing.T) {
		p := &Profile{BirthDate: date("2000-01-01"), DateOfIssue: date("1999-01-01")}
		errs := p.FieldViolations()
		require.Len(t, errs, 1)
		assert.Equal(t, "date_of_issue", errs[0].Field)
		assert.Equal(t, locale.Get("date_of_issue_order"), errs[0].Message)

		// дата выдачи равна дате рождения - тоже ошибка
		p = &Profile{BirthDate: date("2000-01-01"), DateOfIssue: date("2000-01-01")}
		assert.Len(t, p.FieldViolations(), 1)

		// одна из дат отсутствует - на этом уровне не ошибка
		p = &Profile{BirthDate: date("2000-01-01")}
		assert.Empty(t, p.FieldViolations())
		p = &Profile{DateOfIssue: date("1999-01-01")}
		assert.Empty(t, p.FieldViolations())
	})

	// Тест неизвестных значений перечислений
	t.Run("unknown enum values", func(t *testing.T) {
		p := &Profile{DocumentType: "Водительское", TypeOfPurchase: "Ипотека"}
		errs := p.FieldViolations()
		require.Len(t, errs, 2)
	})
}

func TestProfileAddressFieldViolations(t *testing.T) {
	// Тест полного валидного адреса
	t.Run("valid address", func(t *testing.T) {
		a := &ProfileAddress{
			RegRegion:     "Московская область",
			RegCity:       "Москва",
			RegAddress:    "ул. Ленина, д. 1, кв. 2",
			RegHouse:      "1",
			RegApartment:  "2",
			RegPostalCode: "123456",
		}
		assert.Empty(t, a.FieldViolations())
	})

	// Тест: страна и улица необязательны, остальные поля регистрации обязательны
	t.Run("required registration fields", func(t *testing.T) {
		a := &ProfileAddress{RegCountry: "Россия", RegStreet: "Ленина"}
		errs := a.FieldViolations()

		verr := &DomainValidationError{Fields: errs}
		for _, field := range []string{"reg_region", "reg_city", "reg_address", "reg_house", "reg_apartment", "reg_postal_code"} {
			assert.True(t, verr.Has(field), "missing error for %s", field)
		}
		assert.False(t, verr.Has("reg_country"))
		assert.False(t, verr.Has("reg_street"))
	})

	// Тест формата почтовых индексов
	t.Run("postal code format", func(t *testing.T) {
		a := &ProfileAddress{
			RegRegion:     "Регион",
			RegCity:       "Город",
			RegAddress:    "Адрес",
			RegHouse:      "1",
			RegApartment:  "1",
			RegPostalCode: "12345",
			ActPostalCode: "abcdef",
		}
		errs := a.FieldViolations()
		verr := &DomainValidationError{Fields: errs}
		assert.True(t, verr.Has("reg_postal_code"))
		assert.True(t, verr.Has("act_postal_code"))
	})
}

func TestDomainValidationError(t *testing.T) {
	verr := &DomainValidationError{}
	assert.False(t, verr.HasErrors())

	verr.Add("phone", locale.Get("phone_invalid"))
	verr.Add("phone", locale.Get("field_required"))
	verr.Add("inn", locale.Get("inn_length"))

	assert.True(t, verr.HasErrors())
	assert.True(t, verr.Has("phone"))
	assert.False(t, verr.Has("price"))

	byField := verr.ByField()
	assert.Len(t, byField["phone"], 2)
	assert.Len(t, byField["inn"], 1)
	assert.Contains(t, verr.Error(), "inn")
}

func TestNewAuditEntry(t *testing.T) {
	agree := true
	p := &Profile{
		ID:            7,
		UserID:        3,
		INN:           "123456789012",
		Price:         "5000000",
		BirthDate:     date("2000-01-01"),
		DocumentPhoto: "documents/3/abc.jpg",
		AgreeToTerms:  &agree,
	}

	entry, err := NewAuditEntry(p)
	require.NoError(t, err)
	assert.Equal(t, uint(7), entry.ProfileID)
	assert.Equal(t, uint(3), entry.UserID)

	var snapshot map[string]string
	require.NoError(t, json.Unmarshal([]byte(entry.Fields), &snapshot))
	assert.Equal(t, "123456789012", snapshot["inn"])
	assert.Equal(t, "5000000", snapshot["price"])
	assert.Equal(t, "2000-01-01", snapshot["birth_date"])
	assert.Equal(t, "", snapshot["date_of_issue"])
	// в снимок попадает только ссылка, не содержимое файла
	assert.Equal(t, "documents/3/abc.jpg", snapshot["document_photo"])
	assert.Equal(t, "true", snapshot["agree_to_terms"])

	// без указателя согласие в снимке пустое
	entry, err = NewAuditEntry(&Profile{})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(entry.Fields), &snapshot))
	assert.Equal(t, "", snapshot["agree_to_terms"])
}
