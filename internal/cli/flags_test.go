package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dtimer/internal/timer"
)

func TestDelayToken(t *testing.T) {
	assert.Equal(t, timer.RawNanoseconds(2500), delayToken("2500"))
	assert.Equal(t, timer.RawNanoseconds(-10), delayToken("-10"))
	assert.Equal(t, timer.UnitString("100us"), delayToken(" 100us "))
	assert.Equal(t, timer.UnitString("1.5"), delayToken("1.5"))
}

func TestDelayValue(t *testing.T) {
	var d delayValue
	assert.Equal(t, "", d.String())
	require.NoError(t, d.Set("10us"))
	assert.Equal(t, "10us", d.String())
	assert.Equal(t, "delay", d.Type())
}

func TestFrequencyValue(t *testing.T) {
	var f frequencyValue
	require.NoError(t, f.Set(" 50MHz"))
	assert.Equal(t, "50MHz", f.String())
	assert.Equal(t, "frequency", f.Type())
}

func TestKindValue(t *testing.T) {
	k := newKindValue("delay", "delay", "frequency")
	require.NoError(t, k.Set("frequency"))
	assert.Equal(t, "frequency", k.String())

	err := k.Set("voltage")
	require.Error(t, err)
	assert.Equal(t, "frequency", k.String(), "rejected value must not replace the current one")
}
