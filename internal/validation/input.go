package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinProjectNameLength = 1
	MaxProjectNameLength = 200
	MaxDescriptionLength = 5000
	MinGalleryNameLength = 1
	MaxGalleryNameLength = 200
	MaxCommentLength     = 2000
	MinClientIDLength    = 8
	MaxClientIDLength    = 64
	MaxFilenameLength    = 255
	MaxBatchSize         = 200
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateProjectName проверяет имя проекта или коллекции.
func ValidateProjectName(name string) error {
	if err := ValidateNonEmpty("имя проекта", name); err != nil {
		return err
	}
	return ValidateLength("имя проекта", strings.TrimSpace(name), MinProjectNameLength, MaxProjectNameLength)
}

// ValidateGalleryName проверяет имя клиентской галереи.
func ValidateGalleryName(name string) error {
	if err := ValidateNonEmpty("имя галереи", name); err != nil {
		return err
	}
	return ValidateLength("имя галереи", strings.TrimSpace(name), MinGalleryNameLength, MaxGalleryNameLength)
}

// ValidateDescription проверяет текст описания проекта.
func ValidateDescription(description string) error {
	return ValidateLength("описание", strings.TrimSpace(description), 0, MaxDescriptionLength)
}

// ValidateComment проверяет комментарий клиента к фотографии.
func ValidateComment(comment string) error {
	return ValidateLength("комментарий", strings.TrimSpace(comment), 0, MaxCommentLength)
}

// clientIDRegex — идентификатор клиента, который браузер хранит в cookie.
var clientIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateClientID проверяет идентификатор клиента галереи.
func ValidateClientID(clientID string) error {
	if clientID == "" {
		return fmt.Errorf("идентификатор клиента обязателен")
	}
	if err := ValidateLength("идентификатор клиента", clientID, MinClientIDLength, MaxClientIDLength); err != nil {
		return err
	}
	if !clientIDRegex.MatchString(clientID) {
		return fmt.Errorf("идентификатор клиента содержит недопустимые символы")
	}
	return nil
}

// shareHashRegex — ключ доступа к галерее: 32 hex-символа.
var shareHashRegex = regexp.MustCompile(`^[0-9a-f]{32}$`)

// ValidateShareHash проверяет формат ключа доступа к галерее.
func ValidateShareHash(hash string) error {
	if !shareHashRegex.MatchString(hash) {
		return fmt.Errorf("некорректный ключ доступа")
	}
	return nil
}

// ValidateFilenames проверяет список имён файлов пакетной загрузки.
func ValidateFilenames(filenames []string) error {
	if len(filenames) == 0 {
		return fmt.Errorf("список файлов пуст")
	}
	if len(filenames) > MaxBatchSize {
		return fmt.Errorf("за один раз можно загрузить не более %d файлов", MaxBatchSize)
	}
	for _, name := range filenames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("имя файла не может быть пустым")
		}
		if utf8.RuneCountInString(name) > MaxFilenameLength {
			return fmt.Errorf("имя файла не может быть длиннее %d символов", MaxFilenameLength)
		}
	}
	return nil
}
