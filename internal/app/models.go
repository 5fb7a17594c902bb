package app

import "time"

// DateLayout формат дат в формах (ISO, как отдаёт <input type="date">)
const DateLayout = "2006-01-02"

// Типы документов
const (
	DocumentPassport = "Паспорт"
)

// Типы покупки
const (
	PurchasePrimary   = "Первичный"
	PurchaseSecondary = "Вторичный"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile анкета покупателя. Создаётся пустой вместе с пользователем,
// изменяется только через ProfileService и после первой успешной фиксации
// блокируется (CanEdit=false).
type Profile struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"uniqueIndex;not null"`
	User   User `gorm:"constraint:OnDelete:CASCADE"`

	Surname        string // отчество
	Phone          string
	AgreeToTerms   *bool  `gorm:"default:true"`
	DocumentType   string `gorm:"default:Паспорт"`
	IDDocument     string `gorm:"column:id_document"` // серия и номер паспорта
	INN            string `gorm:"column:inn"`
	TypeOfPurchase string `gorm:"default:Первичный"`
	Price          string
	PriceInQueue   string
	BirthDate      *time.Time `gorm:"type:date"`
	DateOfIssue    *time.Time `gorm:"type:date"`
	IDCoor         string     `gorm:"column:id_coor"` // номер счёта для выплат
	PartnerName    string
	PartnerPhone   string
	DocumentPhoto  string // ссылка на объект в хранилище, не сами байты
	CanEdit        bool   `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileAddress адрес регистрации и проживания, один-к-одному с
// пользователем. Создаётся в памяти при первой попытке редактирования и
// сохраняется только в успешной фиксации.
type ProfileAddress struct {
	UserID uint `gorm:"primaryKey"`

	RegCountry    string
	RegRegion     string
	RegCity       string
	RegAddress    string
	RegStreet     string
	RegHouse      string
	RegApartment  string
	RegPostalCode string

	ActCountry    string
	ActRegion     string
	ActCity       string
	ActAddress    string
	ActStreet     string
	ActHouse      string
	ActApartment  string
	ActPostalCode string

	IsApproved bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileAuditEntry неизменяемый снимок полей профиля на момент фиксации.
// Записи только добавляются, упорядочены по времени создания.
type ProfileAuditEntry struct {
	ID        uint   `gorm:"primaryKey"`
	ProfileID uint   `gorm:"index;not null"`
	UserID    uint   `gorm:"index"`
	Fields    string `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
}

// FormatDate форматирует дату формы, пустая строка для nil
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
