package langtag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"de", "de"},
		{"DE", "de"},
		{"fr_CA", "fr_CA"},
		{"fr-CA", "fr_CA"},
		{"pt-BR", "pt_BR"},
		{"pt-br", ""},
		{"DE_at", ""},
		{"De_AT", ""},
		{"", ""},
		{"deu", ""},
		{"de_DE@euro", ""},
		{"d", ""},
		{"zh_Hans", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			l := Parse(tt.in)
			assert.Equal(t, tt.want, l.String())
			assert.Equal(t, tt.want == "", l.Empty())
		})
	}
}

func TestIsSubsetOf(t *testing.T) {
	de := Language{Lang: "de"}
	deCH := Language{Lang: "de", Area: "CH"}
	deAT := Language{Lang: "de", Area: "AT"}
	fr := Language{Lang: "fr"}

	assert.True(t, de.IsSubsetOf(de))
	assert.True(t, deCH.IsSubsetOf(deCH))
	assert.True(t, de.IsSubsetOf(deCH))
	assert.True(t, de.IsSubsetOf(deAT))
	assert.True(t, deCH.IsSubsetOf(de))

	assert.False(t, deCH.IsSubsetOf(deAT))
	assert.False(t, de.IsSubsetOf(fr))
	assert.False(t, Language{}.IsSubsetOf(de))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "German", Parse("de").DisplayName())
	assert.Equal(t, "untranslated", Language{}.DisplayName())
}
