package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFireDeliversInOrder(t *testing.T) {
	t.Cleanup(Flush)
	var got []string
	Listen("donation.recorded", func(p interface{}) { got = append(got, "a:"+p.(string)) })
	Listen("donation.recorded", func(p interface{}) { got = append(got, "b:"+p.(string)) })
	Listen("other", func(interface{}) { got = append(got, "never") })

	Fire("donation.recorded", "DN0001")
	assert.Equal(t, []string{"a:DN0001", "b:DN0001"}, got)
}

func TestFireSurvivesPanickingListener(t *testing.T) {
	t.Cleanup(Flush)
	called := false
	Listen("x", func(interface{}) { panic("listener bug") })
	Listen("x", func(interface{}) { called = true })

	assert.NotPanics(t, func() { Fire("x", nil) })
	assert.True(t, called)
}

func TestFlush(t *testing.T) {
	called := false
	Listen("z", func(interface{}) { called = true })
	Flush()
	Fire("z", nil)
	assert.False(t, called)
}
