package service

import (
	"os"
	"testing"

	"shelfcycle-backend/internal/util"
)

func TestMain(m *testing.M) {
	util.InitLogger("error")
	os.Exit(m.Run())
}
