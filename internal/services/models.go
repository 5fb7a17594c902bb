package services

// Структуры запросов (должны соответствовать полям форм слоя представления)

// ProfileForm сырые значения формы анкеты. Даты приходят строками
// YYYY-MM-DD, как их отдаёт <input type="date">.
type ProfileForm struct {
	FirstName      string
	LastName       string
	Surname        string
	Phone          string
	DocumentType   string
	IDDocument     string
	INN            string
	TypeOfPurchase string
	Price          string
	PriceInQueue   string
	BirthDate      string
	DateOfIssue    string
	IDCoor         string
	PartnerName    string
	PartnerPhone   string
}

// AddressForm сырые значения адресной формы
type AddressForm struct {
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
}

// DocumentUpload загруженное фото документа
type DocumentUpload struct {
	Filename string
	Data     []byte
}

// RegisterIdentityRequest данные регистрации нового пользователя
type RegisterIdentityRequest struct {
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	AgreeToTerms bool
}
