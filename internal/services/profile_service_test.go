package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/ESTDOM/profile_service/internal/app"
	"github.com/ESTDOM/profile_service/pkg/locale"
	"github.com/ESTDOM/profile_service/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBlobStorage хранилище документов в памяти для тестов
type fakeBlobStorage struct {
	mu    sync.Mutex
	saved map[string][]byte
	fail  bool
}

func newFakeStorage() *fakeBlobStorage {
	return &fakeBlobStorage{saved: make(map[string][]byte)}
}

func (f *fakeBlobStorage) Save(ctx context.Context, userID uint, filename string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("bucket unavailable")
	}
	ref := fmt.Sprintf("documents/%d/token%d", userID, len(f.saved))
	if ext := utils.DocumentExt(filename); ext != "" {
		ref += "." + ext
	}
	f.saved[ref] = data
	return ref, nil
}

func (f *fakeBlobStorage) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.saved[ref]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestValidateRegisterRequest(t *testing.T) {
	s := &ProfileService{}

	// Тест валидной регистрации
	t.Run("valid request", func(t *testing.T) {
		err := s.validateRegisterRequest(RegisterIdentityRequest{
			Email:        "ivanov@example.com",
			FirstName:    "Иван",
			LastName:     "Иванов",
			Phone:        "+71234567890",
			AgreeToTerms: true,
		})
		assert.NoError(t, err)
	})

	// Тест: все ошибки полей собираются разом
	t.Run("collects all field errors", func(t *testing.T) {
		err := s.validateRegisterRequest(RegisterIdentityRequest{
			Email:     "not-an-email",
			FirstName: "Ivan",
			Phone:     "81234567890",
		})
		require.Error(t, err)

		var verr *app.DomainValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Has("email"))
		assert.True(t, verr.Has("first_name"))
		assert.True(t, verr.Has("last_name"))
		assert.True(t, verr.Has("phone"))
		assert.True(t, verr.Has("agree_to_terms"))
	})
}

func TestBindProfileForm(t *testing.T) {
	s := &ProfileService{}

	// Тест переноса значений и обрезки пробелов
	t.Run("binds and trims values", func(t *testing.T) {
		p := app.Profile{DocumentPhoto: "documents/1/old.jpg"}
		verr := &app.DomainValidationError{}

		s.bindProfileForm(&p, ProfileForm{
			Surname:     " Иванович ",
			INN:         "123456789012",
			BirthDate:   "2000-01-01",
			DateOfIssue: "2020-01-01",
		}, verr)

		assert.False(t, verr.HasErrors())
		assert.Equal(t, "Иванович", p.Surname)
		assert.Equal(t, "123456789012", p.INN)
		assert.Equal(t, "2000-01-01", app.FormatDate(p.BirthDate))
		assert.Equal(t, "2020-01-01", app.FormatDate(p.DateOfIssue))
		// без новой загрузки сохранённая ссылка на фото остаётся
		assert.Equal(t, "documents/1/old.jpg", p.DocumentPhoto)
	})

	// Тест нечитаемой даты
	t.Run("invalid date format", func(t *testing.T) {
		p := app.Profile{}
		verr := &app.DomainValidationError{}

		s.bindProfileForm(&p, ProfileForm{BirthDate: "01.01.2000"}, verr)

		assert.True(t, verr.Has("birth_date"))
		assert.Nil(t, p.BirthDate)
	})
}

func TestCheckCommittedFields(t *testing.T) {
	s := &ProfileService{}

	// Тест: однажды заполненное поле обязано остаться заполненным
	t.Run("filled field cannot become blank", func(t *testing.T) {
		stored := &app.Profile{INN: "123456789012", Price: "5000000"}
		verr := &app.DomainValidationError{}

		s.checkCommittedFields(stored, ProfileForm{Price: "5000000"}, verr)

		require.True(t, verr.HasErrors())
		assert.True(t, verr.Has("inn"))
		assert.False(t, verr.Has("price"))
		assert.Equal(t, []string{locale.Get("field_required")}, verr.ByField()["inn"])
	})

	// Тест пустой сохранённой анкеты: ничего не обязательно
	t.Run("empty stored profile requires nothing", func(t *testing.T) {
		verr := &app.DomainValidationError{}
		s.checkCommittedFields(&app.Profile{}, ProfileForm{}, verr)
		assert.False(t, verr.HasErrors())
	})

	// Тест дат как однажды заполненных полей
	t.Run("dates are committed fields", func(t *testing.T) {
		birth := "2000-01-01"
		stored := &app.Profile{}
		verr := &app.DomainValidationError{}
		s.bindProfileForm(stored, ProfileForm{BirthDate: birth}, verr)
		require.False(t, verr.HasErrors())

		s.checkCommittedFields(stored, ProfileForm{}, verr)
		assert.True(t, verr.Has("birth_date"))
		assert.False(t, verr.Has("date_of_issue"))
	})

	// Тест фото документа: без новой загрузки ссылка переносится
	// связыванием, поэтому опустеть не может и ошибки не даёт
	t.Run("document photo carries over", func(t *testing.T) {
		stored := &app.Profile{DocumentPhoto: "documents/1/old.jpg"}
		working := *stored
		verr := &app.DomainValidationError{}

		s.bindProfileForm(&working, ProfileForm{}, verr)
		s.checkCommittedFields(stored, ProfileForm{}, verr)

		assert.False(t, verr.Has("document_photo"))
		assert.Equal(t, "documents/1/old.jpg", working.DocumentPhoto)
	})
}

func TestDocumentPreview(t *testing.T) {
	storage := newFakeStorage()
	s := &ProfileService{storage: storage}
	ctx := context.Background()

	// Тест пустой ссылки
	t.Run("empty reference", func(t *testing.T) {
		_, err := s.DocumentPreview(ctx, "")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	// Тест чтения сохранённого документа
	t.Run("round trip", func(t *testing.T) {
		ref, err := storage.Save(ctx, 1, "passport.JPG", []byte("image-bytes"))
		require.NoError(t, err)
		assert.Contains(t, ref, "documents/1/")
		assert.Contains(t, ref, ".jpg")

		rc, err := s.DocumentPreview(ctx, ref)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, []byte("image-bytes"), data)
	})

	// Тест несуществующей ссылки
	t.Run("unknown reference", func(t *testing.T) {
		_, err := s.DocumentPreview(ctx, "documents/1/missing.jpg")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})
}
