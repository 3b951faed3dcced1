package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alien-vm/internal/value"
)

func TestWriteAppendsCodeAndLine(t *testing.T) {
	c := New()
	c.WriteOp(OP_NIL, 1)
	c.Write(7, 2)

	assert.Equal(t, []byte{byte(OP_NIL), 7}, c.Code)
	assert.Equal(t, []int{1, 2}, c.Lines)
}

func TestAddConstantReturnsIndex(t *testing.T) {
	c := New()
	i0 := c.AddConstant(value.NewNumber(1))
	i1 := c.AddConstant(value.NewString("x"))

	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, []value.Value{value.NewNumber(1), value.NewString("x")}, c.ConstantValues())
}

func TestOpCodeStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "OP_RETURN", OP_RETURN.String())
	assert.Contains(t, OpCode(255).String(), "OP_UNKNOWN")
}
