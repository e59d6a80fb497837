package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
	assert.True(t, IsValid("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))

	assert.False(t, IsValid(""))
	assert.False(t, IsValid("0x123"))
	assert.False(t, IsValid("not-an-address"))
	assert.False(t, IsValid("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAedFF"))
}

func TestNormalize_ChecksumFormat(t *testing.T) {
	// 大小写不同的写法规范化后是同一个身份键
	checksummed := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	got, err := Normalize("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	assert.Equal(t, checksummed, got)

	got, err = Normalize("0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED")
	require.NoError(t, err)
	assert.Equal(t, checksummed, got)

	got, err = Normalize(checksummed)
	require.NoError(t, err)
	assert.Equal(t, checksummed, got)
}

func TestNormalize_Invalid(t *testing.T) {
	_, err := Normalize("0xZZZ")
	require.Error(t, err)

	_, err = Normalize("")
	require.Error(t, err)
}
