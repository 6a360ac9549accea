package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		accept   string
		override string
		want     language.Tag
	}{
		{"no header defaults to persian", "", "", language.Persian},
		{"auto with english header", "en-US,en;q=0.9", Auto, language.English},
		{"german header", "de-DE,de;q=0.8,en;q=0.5", "", language.German},
		{"unsupported header falls back", "ja-JP", "", language.Persian},
		{"override wins", "de-DE", "en", language.English},
		{"bad override is ignored", "de-DE", "??", language.German},
		{"garbage header", ";;;", "", language.Persian},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.accept, tt.override))
		})
	}
}

func TestStatusTextPersianByDefault(t *testing.T) {
	tag := Match("", "")
	assert.Equal(t, "تصویر با موفقیت فشرده شد!", StatusText(tag, shrink.Status{Kind: shrink.KindSuccess, Code: shrink.CodeCompressed}))
	assert.Equal(t, "rtl", Dir(tag))
	assert.Equal(t, "fa", Code(tag))
}

func TestStatusTextFailureCarriesDetail(t *testing.T) {
	status := shrink.Status{Kind: shrink.KindError, Code: shrink.CodeCompressionFailed, Detail: "decoder exploded"}

	assert.Equal(t, "خطا در فشرده‌سازی: decoder exploded", StatusText(language.Persian, status))
	assert.Equal(t, "Compression failed: decoder exploded", StatusText(language.English, status))
}

func TestStatusTextEmpty(t *testing.T) {
	assert.Empty(t, StatusText(language.English, shrink.Status{}))
}

func TestCatalogsAreComplete(t *testing.T) {
	for key := range catalogs["fa"] {
		for _, lang := range []string{"en", "de"} {
			_, ok := catalogs[lang][key]
			assert.True(t, ok, "%s missing %s", lang, key)
		}
	}
}

func TestTranslatorFallsBackToKey(t *testing.T) {
	tr := Translator{Tag: language.German}
	assert.Equal(t, "Herunterladen", tr.T("page.download"))
	assert.Equal(t, "page.nope", tr.T("page.nope"))
	assert.Equal(t, "ltr", tr.Dir())
	assert.Equal(t, "de", tr.Lang())
}
