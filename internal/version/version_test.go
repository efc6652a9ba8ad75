package version

import (
	"testing"

	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Version
		wantErr bool
	}{
		{"1.5.7", Version{1, 5, 7}, false},
		{"v1.10.0", Version{1, 10, 0}, false},
		{" 0.12.31 ", Version{0, 12, 31}, false},
		{"1.5", Version{}, true},
		{"1.5.7-beta1", Version{}, true},
		{"latest", Version{}, true},
		{"", Version{}, true},
		{"1.x.0", Version{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, MustParse("1.9.0").Compare(MustParse("1.10.0")))
	assert.Equal(t, 1, MustParse("2.0.0").Compare(MustParse("1.99.99")))
	assert.Equal(t, 0, MustParse("1.5.7").Compare(MustParse("v1.5.7")))
	assert.Equal(t, -1, MustParse("1.5.7").Compare(MustParse("1.5.10")))
	assert.True(t, MustParse("0.15.5").Less(MustParse("1.0.0")))
}

func TestMax_NumericNotLexicographic(t *testing.T) {
	got, ok := Max([]string{"1.9.0", "1.10.0", "1.2.5"})
	require.True(t, ok)
	assert.Equal(t, "1.10.0", got)
}

func TestMax(t *testing.T) {
	tests := []struct {
		name   string
		input  []string
		want   string
		wantOK bool
	}{
		{"empty", nil, "", false},
		{"only garbage", []string{"foo", "1.2"}, "", false},
		{"single", []string{"0.11.14"}, "0.11.14", true},
		{"skips garbage", []string{"junk", "1.5.7", "1.5.10"}, "1.5.10", true},
		{"patch ordering", []string{"1.5.9", "1.5.10", "1.5.2"}, "1.5.10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Max(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortDescending(t *testing.T) {
	versions := []string{"1.2.5", "bogus", "1.10.0", "1.9.0", "0.15.5"}
	SortDescending(versions)
	assert.Equal(t, []string{"1.10.0", "1.9.0", "1.2.5", "0.15.5", "bogus"}, versions)
}

func TestIsLatest(t *testing.T) {
	assert.True(t, IsLatest("latest"))
	assert.True(t, IsLatest(" LATEST "))
	assert.False(t, IsLatest("1.5.7"))
	assert.False(t, IsLatest(""))
}
