package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/w-h-a/bookflow/query"
)

func TestGrounded(t *testing.T) {
	src := "Eo Gió mở cửa từ 6 giờ, vé 20.000 đồng."

	assert.True(t, grounded("Vé vào Eo Gió là 20.000 đồng.", src))
	assert.True(t, grounded("Nên đi lúc 6 giờ sáng.", src))
	assert.False(t, grounded("Vé vào Eo Gió là 50.000 đồng.", src))
	assert.False(t, grounded("   ", src))
	assert.False(t, grounded("海滩 很美", src))
}

func TestGroundedRejectsInventedPrices(t *testing.T) {
	src := "Eo Gió là eo biển đẹp ở Quy Nhơn. Giá vé tham quan 20.000 đồng mỗi người."

	assert.False(t, grounded("Giá vé tham quan là 5 triệu đồng mỗi người.", src))
	assert.False(t, grounded("Vé chỉ 5k thôi.", src))
	assert.False(t, grounded("Cuối tuần giảm 5%.", src))
	assert.False(t, grounded("Giá khoảng 2 tỷ.", src))
	assert.False(t, grounded("Vé 9đ.", src))

	assert.True(t, grounded("Nên ở lại 3 ngày.", src))
	assert.True(t, grounded("Có 5 khu vực để tham quan.", src))
	assert.True(t, grounded("Phí dịch vụ là 5 triệu đồng.", "Phí dịch vụ 5 triệu đồng một đoàn."))
}

func TestParseRerank(t *testing.T) {
	assert.Equal(t, 2, parseRerank(`{"index": 2}`, 3))
	assert.Equal(t, 1, parseRerank("Kết quả: {\"index\":1} nhé", 3))
	assert.Equal(t, 0, parseRerank(`{"index": 7}`, 3))
	assert.Equal(t, 0, parseRerank("không biết", 3))
}

func TestDiscountText(t *testing.T) {
	assert.Equal(t, "giảm 15%", discountText(query.Promotion{DiscountType: "percentage", DiscountValue: 15}))
	assert.Equal(t, "giảm 200.000 đ", discountText(query.Promotion{DiscountType: "fixed_amount", DiscountValue: 200000}))
	assert.Empty(t, discountText(query.Promotion{}))
}

func TestSnippet(t *testing.T) {
	long := ""
	for i := 0; i < 100; i++ {
		long += "biển đẹp "
	}

	s := snippet(long)
	assert.Equal(t, "...", s[len(s)-3:])
	assert.Equal(t, "Câu một.", firstSentence("Câu một. Câu hai."))
}
