package util

import (
	"github.com/go-playground/validator/v10"
)

// ValidateBookType 验证挂牌类型是否合法
func ValidateBookType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "sell", "exchange":
		return true
	}
	return false
}

// ValidateBookCondition 验证书籍品相是否合法
func ValidateBookCondition(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "new", "like_new", "good", "fair", "poor":
		return true
	}
	return false
}
