package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRegistryRegisterAndLookup 测试注册与查找
func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()

	c1 := &Client{}
	registry.Register(1, c1)

	assert.Equal(t, c1, registry.Lookup(1))
	assert.Nil(t, registry.Lookup(2))
	assert.Equal(t, 1, registry.Count())
}

// TestRegistryReplace 测试同一用户重复注册时旧连接被覆盖
func TestRegistryReplace(t *testing.T) {
	registry := NewRegistry()

	old := &Client{}
	registry.Register(1, old)

	// 同一用户的新连接覆盖旧连接
	fresh := &Client{}
	registry.Register(1, fresh)

	assert.Equal(t, fresh, registry.Lookup(1))
	assert.Equal(t, 1, registry.Count())

	// 旧连接断开时不应移除新连接的注册项
	registry.Unregister(old)
	assert.Equal(t, fresh, registry.Lookup(1))
}

// TestRegistryUnregister 测试连接断开后的注销
func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry()

	c1 := &Client{}
	c2 := &Client{}
	registry.Register(1, c1)
	registry.Register(2, c2)
	assert.Equal(t, 2, registry.Count())

	registry.Unregister(c1)
	assert.Nil(t, registry.Lookup(1))
	assert.Equal(t, c2, registry.Lookup(2))
	assert.Equal(t, 1, registry.Count())

	// 重复注销是空操作
	registry.Unregister(c1)
	assert.Equal(t, 1, registry.Count())
}
