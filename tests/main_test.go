package tests

import (
	"os"
	"testing"
)

func TestMain(testMain *testing.M) {
	_ = os.Setenv("GIT_TERMINAL_PROMPT", "0")
	os.Exit(testMain.Run())
}
