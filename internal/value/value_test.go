package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	assert.False(t, Null().Truthy())
	assert.False(t, NewBool(false).Truthy())
	assert.True(t, NewBool(true).Truthy())
	assert.True(t, NewNumber(0).Truthy())
	assert.True(t, NewString("").Truthy())
}

func TestEqualByTypeAndValue(t *testing.T) {
	assert.True(t, Equal(Null(), Null()))
	assert.True(t, Equal(NewNumber(3), NewNumber(3)))
	assert.False(t, Equal(NewNumber(3), NewNumber(4)))
	assert.True(t, Equal(NewString("a"), NewString("a")))
	assert.False(t, Equal(NewNumber(1), NewString("1")))
}

func TestEqualObjIsIdentity(t *testing.T) {
	type box struct{ n int }
	a := &box{n: 1}
	b := &box{n: 1}
	assert.True(t, Equal(NewObj(a), NewObj(a)))
	assert.False(t, Equal(NewObj(a), NewObj(b)))
}

func TestNewObjPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewObj(nil) })
}

func TestStringFormatting(t *testing.T) {
	assert.Equal(t, "nil", Null().String())
	assert.Equal(t, "true", NewBool(true).String())
	assert.Equal(t, "3", NewNumber(3).String())
	assert.Equal(t, "3.5", NewNumber(3.5).String())
	assert.Equal(t, "hi", NewString("hi").String())
}
