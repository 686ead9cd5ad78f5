package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledPassesThrough(t *testing.T) {
	Disable()
	defer Enable()

	assert.Equal(t, "ok", Success("ok"))
	assert.Equal(t, "bad", Error("bad"))
	assert.Equal(t, "warn", Warning("warn"))
	assert.Equal(t, "cmd", Command("cmd"))
}

func TestEnabledWraps(t *testing.T) {
	Enable()
	defer Disable()

	assert.Equal(t, Green+"ok"+Reset, Success("ok"))
	assert.Equal(t, Red+"bad"+Reset, Error("bad"))
	assert.Equal(t, Cyan+"nightly"+Reset, JobName("nightly"))
	assert.Equal(t, Bold+DimCode+"cmd"+Reset, Command("cmd"))
}

func TestErrorfFormats(t *testing.T) {
	Disable()
	defer Enable()

	assert.Equal(t, "exit 3", Errorf("exit %d", 3))
}
