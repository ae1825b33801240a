// Package sku содержит эвристику вариантов артикулов.
//
// Вариант - это базовый артикул с одной дополнительной заглавной буквой в конце
// (цвет, размер, упаковка): FA00F -> FA00. Правило приближенное: базовый артикул,
// который сам оканчивается на букву, будет ошибочно укорочен, а суффиксы из
// нескольких символов не распознаются. Вся логика изолирована здесь, чтобы
// правило можно было заменить, не трогая остальной конвейер.
package sku

import "strings"

// DeriveBase возвращает базовую форму артикула или сам артикул, если он не похож на вариант
func DeriveBase(s string) string {
	if IsVariant(s) {
		return s[:len(s)-1]
	}
	return s
}

// IsVariant проверяет шаблон ^[A-Z0-9]+[A-Z]$
func IsVariant(s string) bool {
	if len(s) < 2 {
		return false
	}
	for i := 0; i < len(s)-1; i++ {
		if !isUpperAlnum(s[i]) {
			return false
		}
	}
	return isUpper(s[len(s)-1])
}

// IsBlank пустой или состоящий из пробелов артикул не участвует в сопоставлении
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isUpperAlnum(c byte) bool {
	return isUpper(c) || (c >= '0' && c <= '9')
}
