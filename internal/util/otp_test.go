package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGenerateOTPCode 测试验证码生成：固定长度，纯数字
func TestGenerateOTPCode(t *testing.T) {
	code, err := GenerateOTPCode(6)
	assert.NoError(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}

	// 两次生成的验证码极大概率不同，至少不会报错
	other, err := GenerateOTPCode(6)
	assert.NoError(t, err)
	assert.Len(t, other, 6)
}
