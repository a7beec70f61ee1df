package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchers(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
		src     string
		dst     string
		want    bool
	}{
		{"zero is exact", Matcher{}, "Name", "Name", true},
		{"exact", Exact(), "Name", "name", false},
		{"case insensitive", CaseInsensitive(), "Name", "NAME", true},
		{"prefix", Prefix("m_"), "field1", "m_field1", true},
		{"prefix reversed", Prefix("m_"), "m_field1", "field1", false},
		{"normalized", Normalized(), "order_id", "OrderID", true},
		{"custom", Func("suffix", func(src, dst string) bool { return src+"Dto" == dst }), "User", "UserDto", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.matcher.Match(tt.src, tt.dst))
		})
	}
}

func TestMatcherName(t *testing.T) {
	assert.Equal(t, "exact", Matcher{}.Name())
	assert.True(t, Matcher{}.IsZero())
	assert.Equal(t, "prefix:m_", Prefix("m_").Name())
	assert.Panics(t, func() { Func("nil", nil) })
}

func TestLongestPrefix(t *testing.T) {
	best, ok := LongestPrefix("CustomerAddressCity", []string{"Customer", "CustomerAddress", "Cust", ""})
	assert.True(t, ok)
	assert.Equal(t, "CustomerAddress", best)

	_, ok = LongestPrefix("Total", []string{"Customer"})
	assert.False(t, ok)
}

func TestSuggest(t *testing.T) {
	names := []string{"Name", "Number", "Price", "UserName"}

	assert.Equal(t, []string{"Name"}, Suggest("Nmae", names, 1))
	assert.Empty(t, Suggest("Completely", names, 3))

	ranked := RankCandidates("Numbr", names)
	assert.Equal(t, "Number", ranked.Best().Name)
}
