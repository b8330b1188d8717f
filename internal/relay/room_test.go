package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRoomID 测试会话房间ID的生成规则
func TestRoomID(t *testing.T) {
	// 两个用户ID排序后拼接，顺序无关
	assert.Equal(t, "3_7", RoomID(3, 7))
	assert.Equal(t, "3_7", RoomID(7, 3))

	// 相同ID也能生成合法的房间ID
	assert.Equal(t, "5_5", RoomID(5, 5))
}

// TestRoomIDSymmetry 测试任意顺序生成的房间ID一致
func TestRoomIDSymmetry(t *testing.T) {
	pairs := [][2]int{{1, 2}, {100, 1}, {42, 42}, {999, 1000}}
	for _, p := range pairs {
		assert.Equal(t, RoomID(p[0], p[1]), RoomID(p[1], p[0]))
	}
}
