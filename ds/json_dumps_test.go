package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpJSON(t *testing.T) {
	lhm := NewLinkedHashMap[string, int]()
	lhm.Put("b", 2)
	lhm.Put("a", 1)

	s, err := DumpJSON(lhm)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 2,\n  \"a\": 1\n}\n", s)

	_, err = DumpJSON(func() {})
	assert.Error(t, err)
}

func TestErrUnreachableCode(t *testing.T) {
	assert.Equal(t, "cli.Dispatch: unreachable code", ErrUnreachableCode{Caller: "cli.Dispatch"}.Error())
}
