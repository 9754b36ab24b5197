package namematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	m := New(DefaultConfig())

	tests := []struct {
		in   string
		want string
	}{
		{"RAJ TRADERS", "raj traders"},
		{"  Raj\t  Traders \n", "raj traders"},
		{"M/s. Raj Traders Pvt. Ltd.", "raj traders"},
		{"Mr. Sharma's Kitchen", "sharmas kitchen"},
		{"Sharma’s Kitchen", "sharmas kitchen"},
		{"Gupta & Sons", "gupta sons"},
		{"Gupta-Sons (Hisar)", "gupta sons hisar"},
		{"ＲＡＪ　ＴＲＡＤＥＲＳ", "raj traders"},
		{"Mr. M/s Raj Traders Pvt Ltd Pvt Ltd", "raj traders"},
		{"M/s", ""},
		{"...", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	m := New(DefaultConfig())
	for _, in := range []string{"M/s. Raj Traders Pvt. Ltd.", "Straße Foods", "Ｇｕｐｔａ & Sons", "Mr Mr Ltd"} {
		once := m.Normalize(in)
		assert.Equal(t, once, m.Normalize(once), in)
	}
}

func TestMatch(t *testing.T) {
	m := New(DefaultConfig())

	tests := []struct {
		name       string
		claimed    string
		document   string
		want       bool
		wantMethod Method
	}{
		{"case only", "Raj Traders", "RAJ TRADERS", true, MethodExact},
		{"affixes ignored", "Raj Traders", "M/s Raj Traders Pvt Ltd", true, MethodExact},
		{"token subset", "Raj Traders", "Raj Traders Sirsa", true, MethodTokenSubset},
		{"different business", "Raj Traders", "Raj Enterprises", false, MethodNone},
		{"only trivial shared token", "A", "A B", false, MethodNone},
		{"empty claimed", "", "Raj Traders", false, MethodNone},
		{"document empty after affixes", "Raj Traders", "M/s", false, MethodNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.claimed, tt.document)
			assert.Equal(t, tt.want, got.Matched)
			assert.Equal(t, tt.wantMethod, got.Method)

			reversed := m.Match(tt.document, tt.claimed)
			assert.Equal(t, got.Matched, reversed.Matched, "match must be symmetric")
		})
	}
}

func TestMatch_ReportsNormalizedNames(t *testing.T) {
	got := New(DefaultConfig()).Match("Raj Traders", "Raj Enterprises")
	assert.Equal(t, "raj traders", got.Claimed)
	assert.Equal(t, "raj enterprises", got.Document)
}

func TestMatch_MinTokenLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinTokenLength = 4
	m := New(cfg)

	assert.False(t, m.Match("Raj", "Raj Foods").Matched)
	assert.True(t, m.Match("Raj Foods", "Raj Foods Hisar").Matched)
}

func TestMatch_CustomAffixes(t *testing.T) {
	m := New(Config{Prefixes: []string{"Shri"}, Suffixes: []string{"& Co."}, MinTokenLength: 2})

	assert.Equal(t, "ram lal", m.Normalize("Shri Ram Lal & Co."))
	assert.Equal(t, "ms ram lal", m.Normalize("M/s Ram Lal"))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MinTokenLength = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Suffixes = append(cfg.Suffixes, "..")
	assert.Error(t, cfg.Validate())
}
