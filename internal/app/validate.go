package app

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ESTDOM/profile_service/pkg/locale"
	"github.com/ESTDOM/profile_service/pkg/utils"
)

// FieldViolations проверяет структурные инварианты профиля и возвращает все
// нарушенные поля разом. Пустые значения здесь не считаются ошибкой:
// обязательность заполненных однажды полей проверяет координатор.
func (p *Profile) FieldViolations() []FieldError {
	var errs []FieldError

	if p.Surname != "" && !utils.IsCyrillicName(p.Surname) {
		errs = append(errs, FieldError{"surname", locale.Get("surname_cyrillic")})
	}
	if p.Phone != "" {
		if err := utils.ValidatePhone(p.Phone); err != nil {
			errs = append(errs, FieldError{"phone", err.Error()})
		}
	}
	if p.DocumentType != "" && p.DocumentType != DocumentPassport {
		errs = append(errs, FieldError{"document_type", locale.Get("document_type_unknown")})
	}
	if p.IDDocument != "" {
		if err := utils.ValidatePassport(p.IDDocument); err != nil {
			errs = append(errs, FieldError{"id_document", err.Error()})
		}
	}
	if p.INN != "" {
		if err := utils.ValidateINN(p.INN); err != nil {
			errs = append(errs, FieldError{"inn", err.Error()})
		}
	}
	if p.TypeOfPurchase != "" && p.TypeOfPurchase != PurchasePrimary && p.TypeOfPurchase != PurchaseSecondary {
		errs = append(errs, FieldError{"type_of_purchase", locale.Get("purchase_type_unknown")})
	}
	if p.Price != "" {
		if _, err := utils.ValidatePrice(p.Price); err != nil {
			errs = append(errs, FieldError{"price", err.Error()})
		}
	}
	if p.PriceInQueue != "" {
		if _, err := utils.ValidatePrice(p.PriceInQueue); err != nil {
			errs = append(errs, FieldError{"price_in_queue", err.Error()})
		}
	}
	if p.IDCoor != "" {
		if err := utils.ValidateAccountID(p.IDCoor); err != nil {
			errs = append(errs, FieldError{"id_coor", err.Error()})
		}
	}
	if p.PartnerName != "" && !utils.IsCyrillicFullName(p.PartnerName) {
		errs = append(errs, FieldError{"partner_name", locale.Get("partner_name_cyrillic")})
	}
	if p.PartnerPhone != "" {
		if err := utils.ValidatePhone(p.PartnerPhone); err != nil {
			errs = append(errs, FieldError{"partner_phone", err.Error()})
		}
	}

	// Сравнение дат только когда заполнены обе
	if p.BirthDate != nil && p.DateOfIssue != nil && !p.DateOfIssue.After(*p.BirthDate) {
		errs = append(errs, FieldError{"date_of_issue", locale.Get("date_of_issue_order")})
	}

	return errs
}

// FieldViolations проверяет адрес: обязательные поля регистрации и формат
// почтовых индексов.
func (a *ProfileAddress) FieldViolations() []FieldError {
	var errs []FieldError

	required := []struct {
		field string
		value string
	}{
		{"reg_region", a.RegRegion},
		{"reg_city", a.RegCity},
		{"reg_address", a.RegAddress},
		{"reg_house", a.RegHouse},
		{"reg_apartment", a.RegApartment},
		{"reg_postal_code", a.RegPostalCode},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, FieldError{r.field, locale.Get("field_required")})
		}
	}

	if a.RegPostalCode != "" {
		if err := utils.ValidatePostalCode(a.RegPostalCode); err != nil {
			errs = append(errs, FieldError{"reg_postal_code", err.Error()})
		}
	}
	if a.ActPostalCode != "" {
		if err := utils.ValidatePostalCode(a.ActPostalCode); err != nil {
			errs = append(errs, FieldError{"act_postal_code", err.Error()})
		}
	}

	return errs
}

// NewAuditEntry делает снимок текущих значений полей профиля. Фото документа
// попадает в снимок ссылкой, не байтами.
func NewAuditEntry(p *Profile) (*ProfileAuditEntry, error) {
	agree := ""
	if p.AgreeToTerms != nil {
		agree = strconv.FormatBool(*p.AgreeToTerms)
	}

	snapshot := map[string]string{
		"surname":          p.Surname,
		"phone":            p.Phone,
		"document_type":    p.DocumentType,
		"id_document":      p.IDDocument,
		"inn":              p.INN,
		"type_of_purchase": p.TypeOfPurchase,
		"price":            p.Price,
		"price_in_queue":   p.PriceInQueue,
		"birth_date":       FormatDate(p.BirthDate),
		"date_of_issue":    FormatDate(p.DateOfIssue),
		"id_coor":          p.IDCoor,
		"partner_name":     p.PartnerName,
		"partner_phone":    p.PartnerPhone,
		"document_photo":   p.DocumentPhoto,
		"agree_to_terms":   agree,
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit snapshot: %w", err)
	}

	return &ProfileAuditEntry{
		ProfileID: p.ID,
		UserID:    p.UserID,
		Fields:    string(raw),
	}, nil
}
