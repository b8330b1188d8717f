package relay

import (
	"fmt"
)

// RoomID 根据两个参与者的ID计算规范化的房间标识。
// 较小的ID在前，因此无论由哪一方发起，双方计算出的标识都相同。
func RoomID(a, b int) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}
