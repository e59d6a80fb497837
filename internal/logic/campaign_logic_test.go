package logic

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignLookupKey_ContractAddress(t *testing.T) {
	// 合约地址走contract_address列，大小写不同的写法规范化为同一个键
	column, key, ok := campaignLookupKey("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.True(t, ok)
	assert.Equal(t, "contract_address", column)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", key)

	column, key, ok = campaignLookupKey("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.True(t, ok)
	assert.Equal(t, "contract_address", column)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", key)
}

func TestCampaignLookupKey_UUID(t *testing.T) {
	id := uuid.NewString()
	column, key, ok := campaignLookupKey(id)
	require.True(t, ok)
	assert.Equal(t, "id", column)
	assert.Equal(t, id, key)
}

func TestCampaignLookupKey_InvalidInput(t *testing.T) {
	// 既不是地址也不是uuid的文本不能进入id列查询，uuid列会报类型错误
	cases := []string{
		"",
		"not-a-uuid",
		"0x123",
		"12345",
	}
	for _, input := range cases {
		_, _, ok := campaignLookupKey(input)
		assert.False(t, ok, "input %q", input)
	}
}
