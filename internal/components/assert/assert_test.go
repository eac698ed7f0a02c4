package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type impl struct{}

func (*impl) Now() {}

func TestNotNil(t *testing.T) {
	var typedNil *impl
	var iface interface{ Now() } = typedNil

	require.PanicsWithValue(t, "expected clock to be not nil", func() { NotNil("clock", nil) })
	require.Panics(t, func() { NotNil("clock", iface) })
	require.NotPanics(t, func() { NotNil("clock", &impl{}) })
	require.NotPanics(t, func() { NotNil("clock", impl{}) })
}

func TestNotEmptyStr(t *testing.T) {
	require.PanicsWithValue(t, "expected base url to be non-empty", func() { NotEmptyStr("base url", "") })
	require.NotPanics(t, func() { NotEmptyStr("base url", "https://myclinic.bemp.app") })
}
