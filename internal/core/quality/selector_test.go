package quality

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePayload(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func TestSelectUsable(t *testing.T) {
	low := encodePayload(make([]byte, 10*1024))      // score 10
	high := encodePayload(randomBytes(t, 120*1024))  // score 90
	medium := encodePayload(randomBytes(t, 50*1024)) // score 75
	modest := encodePayload(randomBytes(t, 10*1024)) // score 60

	t.Run("filters below threshold and ranks descending", func(t *testing.T) {
		sel := SelectUsable([]string{low, modest, medium, high}, DefaultMinScore, 10)
		require.True(t, sel.OK)
		require.Len(t, sel.Selected, 3)
		assert.Equal(t, 90, sel.Selected[0].Score)
		assert.Equal(t, 75, sel.Selected[1].Score)
		assert.Equal(t, 60, sel.Selected[2].Score)
	})

	t.Run("caps at maxSelected", func(t *testing.T) {
		sel := SelectUsable([]string{modest, medium, high}, DefaultMinScore, 2)
		require.True(t, sel.OK)
		require.Len(t, sel.Selected, 2)
		assert.Equal(t, 90, sel.Selected[0].Score)
		assert.Equal(t, 75, sel.Selected[1].Score)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		sel := SelectUsable([]string{medium, high, medium}, DefaultMinScore, 10)
		require.True(t, sel.OK)
		require.Len(t, sel.Selected, 3)
		assert.Equal(t, high, sel.Selected[0].Payload)
		assert.Equal(t, medium, sel.Selected[1].Payload)
		assert.Equal(t, medium, sel.Selected[2].Payload)
	})

	t.Run("all below threshold", func(t *testing.T) {
		sel := SelectUsable([]string{low, low}, DefaultMinScore, 10)
		assert.False(t, sel.OK)
		assert.Empty(t, sel.Selected)
	})

	t.Run("undecodable payloads are skipped", func(t *testing.T) {
		sel := SelectUsable([]string{"!!! not base64 !!!", high}, DefaultMinScore, 10)
		require.True(t, sel.OK)
		require.Len(t, sel.Selected, 1)
		assert.Equal(t, high, sel.Selected[0].Payload)
	})

	t.Run("empty input", func(t *testing.T) {
		sel := SelectUsable(nil, DefaultMinScore, 10)
		assert.False(t, sel.OK)
	})
}

func TestStripPayloadHeader(t *testing.T) {
	assert.Equal(t, "abc123", StripPayloadHeader("data:image/jpeg;base64,abc123"))
	assert.Equal(t, "abc123", StripPayloadHeader("data:image/png;base64,abc123"))
	assert.Equal(t, "abc123", StripPayloadHeader("abc123"))
}

func TestDecodePayload(t *testing.T) {
	// 17 bytes, so the standard encoding needs padding.
	raw := []byte("fridge photo byte")

	t.Run("bare base64", func(t *testing.T) {
		data, err := DecodePayload(base64.StdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, data)
	})

	t.Run("data URI", func(t *testing.T) {
		data, err := DecodePayload("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, data)
	})

	t.Run("unpadded base64", func(t *testing.T) {
		data, err := DecodePayload(base64.RawStdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, data)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := DecodePayload("!!! not base64 !!!")
		assert.Error(t, err)
	})
}
