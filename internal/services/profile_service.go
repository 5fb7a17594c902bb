// internal/services/profile_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ESTDOM/profile_service/internal/app"
	"github.com/ESTDOM/profile_service/internal/config"
	"github.com/ESTDOM/profile_service/pkg/locale"
	"github.com/ESTDOM/profile_service/pkg/logger"
	"github.com/ESTDOM/profile_service/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProfileService координирует анкету и адрес: обе формы проверяются целиком
// до единственной атомарной записи, после которой редактирование
// блокируется безвозвратно.
type ProfileService struct {
	db      *gorm.DB
	redis   *redis.Client
	config  *config.Config
	storage BlobStorageInterface
	logger  *zap.Logger
}

func NewProfileService(
	db *gorm.DB,
	redis *redis.Client,
	config *config.Config,
	storage BlobStorageInterface,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		db:      db,
		redis:   redis,
		config:  config,
		storage: storage,
		logger:  logger,
	}
}

// Регистрация пользователя. Вместе с пользователем синхронно создаётся
// пустая анкета с телефоном и согласием из формы регистрации.
func (s *ProfileService) RegisterIdentity(ctx context.Context, req RegisterIdentityRequest) (*app.User, error) {
	if err := s.validateRegisterRequest(req); err != nil {
		return nil, err
	}

	// Проверка существования пользователя
	var count int64
	s.db.WithContext(ctx).Model(&app.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return nil, ErrUserExists
	}

	user := &app.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			// Две одновременные регистрации проходят проверку выше,
			// дубликат ловит уникальный индекс по email
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return s.provisionProfile(tx, user.ID, req.Phone, req.AgreeToTerms)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return user, nil
}

// GetOrCreateProfile возвращает анкету пользователя, создавая пустую при
// отсутствии. Идемпотентна: повторный вызов не создаёт вторую анкету.
func (s *ProfileService) GetOrCreateProfile(ctx context.Context, userID uint) (*app.Profile, error) {
	var profile app.Profile
	err := s.db.WithContext(ctx).
		Where(app.Profile{UserID: userID}).
		Attrs(app.Profile{CanEdit: true, DocumentType: app.DocumentPassport, TypeOfPurchase: app.PurchasePrimary}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get or create profile: %w", err)
	}
	return &profile, nil
}

// provisionProfile хук после создания пользователя: get-or-create по
// user_id, чтобы повторный вызов не создал вторую анкету
func (s *ProfileService) provisionProfile(tx *gorm.DB, userID uint, phone string, agree bool) error {
	var profile app.Profile
	err := tx.Where(app.Profile{UserID: userID}).
		Attrs(app.Profile{CanEdit: true, DocumentType: app.DocumentPassport, TypeOfPurchase: app.PurchasePrimary}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return fmt.Errorf("failed to provision profile: %w", err)
	}

	updates := map[string]interface{}{}
	if phone != "" {
		updates["phone"] = phone
	}
	updates["agree_to_terms"] = agree
	return tx.Model(&profile).Updates(updates).Error
}

// SubmitEdit принимает обе формы, проверяет их целиком и фиксирует
// атомарно. Протокол:
//  1. анкета уже заблокирована - сразу ErrEditLocked;
//  2. значения форм связываются с рабочими копиями анкеты и адреса;
//  3. пополевые проверки обеих сущностей;
//  4. однажды заполненные поля обязаны остаться заполненными;
//  5. сверка дат;
//  6. любая ошибка - возврат всех ошибок без побочных эффектов;
//  7. иначе одна транзакция: имя пользователя, анкета с can_edit=false,
//     адрес, запись аудита;
//  8. успех - анкета после перехода.
func (s *ProfileService) SubmitEdit(ctx context.Context, userID uint, form ProfileForm, addrForm AddressForm, doc *DocumentUpload) (*app.Profile, error) {
	var stored app.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if !stored.CanEdit {
		return nil, ErrEditLocked
	}

	verr := &app.DomainValidationError{}

	// Рабочие копии: до конца валидации сохранённые сущности не трогаем
	profile := stored
	s.bindProfileForm(&profile, form, verr)

	address, addressExists, err := s.loadOrNewAddress(ctx, userID)
	if err != nil {
		return nil, err
	}
	bindAddressForm(address, addrForm)

	if form.FirstName == "" {
		verr.Add("first_name", locale.Get("field_required"))
	} else if !utils.IsCyrillicName(form.FirstName) {
		verr.Add("first_name", locale.Get("first_name_cyrillic"))
	}
	if form.LastName == "" {
		verr.Add("last_name", locale.Get("field_required"))
	} else if !utils.IsCyrillicName(form.LastName) {
		verr.Add("last_name", locale.Get("last_name_cyrillic"))
	}

	verr.Append(profile.FieldViolations()...)
	verr.Append(address.FieldViolations()...)

	s.checkCommittedFields(&stored, form, verr)

	if doc != nil {
		if err := utils.ValidateDocumentSize(int64(len(doc.Data))); err != nil {
			verr.Add("document_photo", err.Error())
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	// Запись в хранилище - синхронный внешний вызов; его сбой отменяет
	// всю фиксацию. Ссылка сохраняется только при успешной транзакции.
	if doc != nil {
		ref, err := s.storage.Save(ctx, userID, doc.Filename, doc.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
		}
		profile.DocumentPhoto = ref
	}

	profile.CanEdit = false

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Имя пользователя живёт на Identity, но пишется вместе с анкетой
		if err := tx.Model(&app.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"first_name": form.FirstName,
			"last_name":  form.LastName,
		}).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		// Условный UPDATE сериализует переход EDITABLE -> LOCKED: из двух
		// одновременных попыток ровно одна увидит can_edit=true
		res := tx.Model(&app.Profile{}).
			Where("id = ? AND can_edit = ?", stored.ID, true).
			Updates(profileUpdateColumns(&profile))
		if res.Error != nil {
			return fmt.Errorf("failed to update profile: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrEditLocked
		}

		if addressExists {
			if err := tx.Model(&app.ProfileAddress{}).
				Where("user_id = ?", userID).
				Updates(addressUpdateColumns(address)).Error; err != nil {
				return fmt.Errorf("failed to update address: %w", err)
			}
		} else {
			if err := tx.Create(address).Error; err != nil {
				return fmt.Errorf("failed to create address: %w", err)
			}
		}

		entry, err := app.NewAuditEntry(&profile)
		if err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		if errors.Is(err, ErrEditLocked) {
			return nil, ErrEditLocked
		}
		return nil, err
	}

	s.cacheEditable(ctx, userID, false)

	logger.CommitLog(s.logger, userID, profile.ID, "submit_edit", "success", map[string]interface{}{
		"document_photo": profile.DocumentPhoto != "",
	})

	return &profile, nil
}

// IsEditable сообщает, разрешено ли редактирование анкеты пользователя.
// Состояние блокировки кэшируется в Redis.
func (s *ProfileService) IsEditable(ctx context.Context, userID uint) (bool, error) {
	key := editableCacheKey(userID)
	if val, err := s.redis.Get(ctx, key).Result(); err == nil {
		return val == "1", nil
	}

	var profile app.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProfileNotFound
		}
		return false, fmt.Errorf("failed to load profile: %w", err)
	}

	// SetNX: прочитанное из БД значение не должно затереть свежий
	// cacheEditable(false) параллельной фиксации
	val := "0"
	if profile.CanEdit {
		val = "1"
	}
	if err := s.redis.SetNX(ctx, key, val, s.config.Cache.EditableTTL).Err(); err != nil {
		s.logger.Warn("Failed to cache editable flag", zap.Uint("user_id", userID), zap.Error(err))
	}
	return profile.CanEdit, nil
}

// ListAudit возвращает записи аудита анкеты от старых к новым
func (s *ProfileService) ListAudit(ctx context.Context, profileID uint) ([]app.ProfileAuditEntry, error) {
	var entries []app.ProfileAuditEntry
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// GetProfileByUsername находит анкету по внешнему имени пользователя (email)
func (s *ProfileService) GetProfileByUsername(ctx context.Context, email string) (*app.Profile, error) {
	var user app.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return s.GetOrCreateProfile(ctx, user.ID)
}

// DocumentPreview отдаёт содержимое фото документа по его ссылке
func (s *ProfileService) DocumentPreview(ctx context.Context, ref string) (io.ReadCloser, error) {
	if ref == "" {
		return nil, ErrDocumentNotFound
	}
	rc, err := s.storage.Open(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentNotFound, err)
	}
	return rc, nil
}

// Вспомогательные методы

func (s *ProfileService) validateRegisterRequest(req RegisterIdentityRequest) error {
	verr := &app.DomainValidationError{}

	if !utils.IsValidEmail(req.Email) {
		verr.Add("email", locale.Get("email_invalid"))
	}
	if req.FirstName == "" {
		verr.Add("first_name", locale.Get("field_required"))
	} else if !utils.IsCyrillicName(req.FirstName) {
		verr.Add("first_name", locale.Get("first_name_cyrillic"))
	}
	if req.LastName == "" {
		verr.Add("last_name", locale.Get("field_required"))
	} else if !utils.IsCyrillicName(req.LastName) {
		verr.Add("last_name", locale.Get("last_name_cyrillic"))
	}
	if req.Phone == "" {
		verr.Add("phone", locale.Get("field_required"))
	} else if err := utils.ValidatePhone(req.Phone); err != nil {
		verr.Add("phone", err.Error())
	}
	if !req.AgreeToTerms {
		verr.Add("agree_to_terms", locale.Get("terms_not_accepted"))
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// bindProfileForm переносит значения формы на рабочую копию. Фото документа
// не трогаем: при отсутствии новой загрузки сохранённая ссылка остаётся.
func (s *ProfileService) bindProfileForm(p *app.Profile, form ProfileForm, verr *app.DomainValidationError) {
	p.Surname = strings.TrimSpace(form.Surname)
	p.Phone = strings.TrimSpace(form.Phone)
	p.DocumentType = strings.TrimSpace(form.DocumentType)
	p.IDDocument = strings.TrimSpace(form.IDDocument)
	p.INN = strings.TrimSpace(form.INN)
	p.TypeOfPurchase = strings.TrimSpace(form.TypeOfPurchase)
	p.Price = strings.TrimSpace(form.Price)
	p.PriceInQueue = strings.TrimSpace(form.PriceInQueue)
	p.IDCoor = strings.TrimSpace(form.IDCoor)
	p.PartnerName = strings.TrimSpace(form.PartnerName)
	p.PartnerPhone = strings.TrimSpace(form.PartnerPhone)

	p.BirthDate = parseFormDate(form.BirthDate, "birth_date", verr)
	p.DateOfIssue = parseFormDate(form.DateOfIssue, "date_of_issue", verr)
}

func parseFormDate(value, field string, verr *app.DomainValidationError) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := time.Parse(app.DateLayout, value)
	if err != nil {
		verr.Add(field, locale.Get("date_invalid"))
		return nil
	}
	return &t
}

func bindAddressForm(a *app.ProfileAddress, form AddressForm) {
	a.RegCountry = strings.TrimSpace(form.RegCountry)
	a.RegRegion = strings.TrimSpace(form.RegRegion)
	a.RegCity = strings.TrimSpace(form.RegCity)
	a.RegAddress = strings.TrimSpace(form.RegAddress)
	a.RegStreet = strings.TrimSpace(form.RegStreet)
	a.RegHouse = strings.TrimSpace(form.RegHouse)
	a.RegApartment = strings.TrimSpace(form.RegApartment)
	a.RegPostalCode = strings.TrimSpace(form.RegPostalCode)

	a.ActCountry = strings.TrimSpace(form.ActCountry)
	a.ActRegion = strings.TrimSpace(form.ActRegion)
	a.ActCity = strings.TrimSpace(form.ActCity)
	a.ActAddress = strings.TrimSpace(form.ActAddress)
	a.ActStreet = strings.TrimSpace(form.ActStreet)
	a.ActHouse = strings.TrimSpace(form.ActHouse)
	a.ActApartment = strings.TrimSpace(form.ActApartment)
	a.ActPostalCode = strings.TrimSpace(form.ActPostalCode)

	a.IsApproved = form.IsApproved
}

// checkCommittedFields: обязательность - производный предикат от
// сохранённой анкеты, вычисляется заново на каждой отправке
func (s *ProfileService) checkCommittedFields(stored *app.Profile, form ProfileForm, verr *app.DomainValidationError) {
	committed := []struct {
		field     string
		stored    string
		submitted string
	}{
		{"document_type", stored.DocumentType, form.DocumentType},
		{"id_document", stored.IDDocument, form.IDDocument},
		{"inn", stored.INN, form.INN},
		{"type_of_purchase", stored.TypeOfPurchase, form.TypeOfPurchase},
		{"price", stored.Price, form.Price},
		{"price_in_queue", stored.PriceInQueue, form.PriceInQueue},
		{"birth_date", app.FormatDate(stored.BirthDate), form.BirthDate},
		{"date_of_issue", app.FormatDate(stored.DateOfIssue), form.DateOfIssue},
		{"id_coor", stored.IDCoor, form.IDCoor},
		{"partner_name", stored.PartnerName, form.PartnerName},
	}

	// document_photo тоже однажды-заполненное поле, но в списке его нет:
	// bindProfileForm не трогает сохранённую ссылку без новой загрузки,
	// поэтому очистить её отправкой невозможно

	for _, c := range committed {
		if c.stored != "" && strings.TrimSpace(c.submitted) == "" {
			verr.Add(c.field, locale.Get("field_required"))
		}
	}
}

func (s *ProfileService) loadOrNewAddress(ctx context.Context, userID uint) (*app.ProfileAddress, bool, error) {
	var address app.ProfileAddress
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&address).Error
	if err == nil {
		return &address, true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Адреса ещё нет - создаём в памяти, не сохраняя
		return &app.ProfileAddress{UserID: userID}, false, nil
	}
	return nil, false, fmt.Errorf("failed to load address: %w", err)
}

// profileUpdateColumns перечисляет колонки явно: Updates со структурой
// пропустил бы нулевые значения, включая can_edit=false
func profileUpdateColumns(p *app.Profile) map[string]interface{} {
	return map[string]interface{}{
		"surname":          p.Surname,
		"phone":            p.Phone,
		"document_type":    p.DocumentType,
		"id_document":      p.IDDocument,
		"inn":              p.INN,
		"type_of_purchase": p.TypeOfPurchase,
		"price":            p.Price,
		"price_in_queue":   p.PriceInQueue,
		"birth_date":       p.BirthDate,
		"date_of_issue":    p.DateOfIssue,
		"id_coor":          p.IDCoor,
		"partner_name":     p.PartnerName,
		"partner_phone":    p.PartnerPhone,
		"document_photo":   p.DocumentPhoto,
		"can_edit":         false,
	}
}

func addressUpdateColumns(a *app.ProfileAddress) map[string]interface{} {
	return map[string]interface{}{
		"reg_country":     a.RegCountry,
		"reg_region":      a.RegRegion,
		"reg_city":        a.RegCity,
		"reg_address":     a.RegAddress,
		"reg_street":      a.RegStreet,
		"reg_house":       a.RegHouse,
		"reg_apartment":   a.RegApartment,
		"reg_postal_code": a.RegPostalCode,
		"act_country":     a.ActCountry,
		"act_region":      a.ActRegion,
		"act_city":        a.ActCity,
		"act_address":     a.ActAddress,
		"act_street":      a.ActStreet,
		"act_house":       a.ActHouse,
		"act_apartment":   a.ActApartment,
		"act_postal_code": a.ActPostalCode,
		"is_approved":     a.IsApproved,
	}
}

func editableCacheKey(userID uint) string {
	return fmt.Sprintf("profile:editable:%d", userID)
}

func (s *ProfileService) cacheEditable(ctx context.Context, userID uint, editable bool) {
	val := "0"
	if editable {
		val = "1"
	}
	if err := s.redis.Set(ctx, editableCacheKey(userID), val, s.config.Cache.EditableTTL).Err(); err != nil {
		s.logger.Warn("Failed to cache editable flag", zap.Uint("user_id", userID), zap.Error(err))
	}
}
