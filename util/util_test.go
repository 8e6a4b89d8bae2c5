package util_test

import (
	"bytes"
	"testing"

	"github.com/autom8ter/grizzly/util"
	"github.com/stretchr/testify/assert"
)

func TestUtil(t *testing.T) {
	t.Run("yaml / json conversions", func(t *testing.T) {
		jsonData := []byte(`{"name":"events","capped":true}`)
		yml, err := util.JSONToYAML(jsonData)
		assert.Nil(t, err)
		back, err := util.YAMLToJSON(yml)
		assert.Nil(t, err)
		assert.JSONEq(t, string(jsonData), string(back))
	})
	t.Run("yaml to json passes json through", func(t *testing.T) {
		jsonData := []byte(`{"name":"events"}`)
		out, err := util.YAMLToJSON(jsonData)
		assert.Nil(t, err)
		assert.Equal(t, jsonData, out)
	})
	t.Run("json string", func(t *testing.T) {
		assert.Equal(t, `{"name":"events"}`, util.JSONString(map[string]any{"name": "events"}))
	})
	t.Run("decode", func(t *testing.T) {
		type config struct {
			Name   string `json:"name"`
			Capped bool   `json:"capped"`
		}
		var c config
		assert.Nil(t, util.Decode(map[string]any{"name": "events", "capped": "true"}, &c))
		assert.Equal(t, "events", c.Name)
		assert.True(t, c.Capped)
	})
	t.Run("validate", func(t *testing.T) {
		type usr struct {
			Name string `validate:"required"`
		}
		var u = usr{}
		assert.NotNil(t, util.ValidateStruct(&u))
		u.Name = "a name"
		assert.Nil(t, util.ValidateStruct(&u))
	})
	t.Run("encode value (float)", func(t *testing.T) {
		val1 := util.EncodeIndexValue(1.0)
		val2 := util.EncodeIndexValue(2.0)
		assert.Equal(t, -1, bytes.Compare(val1, val2))
	})
	t.Run("encode value (string)", func(t *testing.T) {
		val1 := util.EncodeIndexValue("hello")
		val2 := util.EncodeIndexValue("hellz")
		assert.Equal(t, -1, bytes.Compare(val1, val2))
	})
	t.Run("encode value (bool)", func(t *testing.T) {
		val1 := util.EncodeIndexValue(false)
		val2 := util.EncodeIndexValue(true)
		assert.Equal(t, -1, bytes.Compare(val1, val2))
	})
	t.Run("encode value (json)", func(t *testing.T) {
		val1 := util.EncodeIndexValue(map[string]any{"message": "hello"})
		val2 := util.EncodeIndexValue(map[string]any{"message": "hellz"})
		assert.Equal(t, -1, bytes.Compare(val1, val2))
	})
	t.Run("encode value (empty)", func(t *testing.T) {
		assert.Equal(t, 0, bytes.Compare(util.EncodeIndexValue(nil), util.EncodeIndexValue(nil)))
	})
}
