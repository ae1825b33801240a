package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound в каталоге нет позиции с таким артикулом. Это результат, а не сбой.
var ErrNotFound = errors.New("catalog item not found")

// AuthError не удалось получить или обновить токен, либо сервис повторно отклонил его
type AuthError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *AuthError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("inventory auth failed: %s: %v", e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("inventory auth failed: status %d: %s", e.StatusCode, e.Message)
	default:
		return "inventory auth failed: " + e.Message
	}
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError ответ каталога со статусом вне 2xx (кроме 401 и 404)
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("inventory api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("inventory api error: status %d: %s", e.StatusCode, e.Body)
}

// IsAuthError проверяет, является ли ошибка (или одна из вложенных) AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
