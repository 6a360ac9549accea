package i18n

import (
	"golang.org/x/text/language"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

// Auto lets the Accept-Language header decide
const Auto = "auto"

// Supported languages, the first one is the fallback
var Supported = []language.Tag{
	language.Persian,
	language.English,
	language.German,
}

var matcher = language.NewMatcher(Supported)

// Match picks the catalog language. A non-empty override (a ?lang= value or a
// fixed APP_LANGUAGE) wins over the Accept-Language header.
func Match(acceptLanguage, override string) language.Tag {
	if override != "" && override != Auto {
		if tag, err := language.Parse(override); err == nil {
			_, idx, conf := matcher.Match(tag)
			if conf != language.No {
				return Supported[idx]
			}
		}
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Supported[0]
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Supported[0]
	}
	return Supported[idx]
}

// Dir is the text direction for the html dir attribute
func Dir(tag language.Tag) string {
	if tag == language.Persian {
		return "rtl"
	}
	return "ltr"
}

// Code returns the short language code, e.g. "fa"
func Code(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// T looks up a UI string. Unknown keys fall back to the default catalog and
// finally to the key itself.
func T(tag language.Tag, key string) string {
	if s, ok := catalogFor(tag)[key]; ok {
		return s
	}
	if s, ok := catalogs[Code(Supported[0])][key]; ok {
		return s
	}
	return key
}

// StatusText renders a controller status. Failures append their detail.
func StatusText(tag language.Tag, status shrink.Status) string {
	if status.IsZero() {
		return ""
	}
	text := T(tag, "status."+string(status.Code))
	if status.Code == shrink.CodeCompressionFailed && status.Detail != "" {
		return text + ": " + status.Detail
	}
	return text
}

// Translator is bound to one language, for use inside templates
type Translator struct {
	Tag language.Tag
}

func (t Translator) T(key string) string {
	return T(t.Tag, key)
}

func (t Translator) Status(status shrink.Status) string {
	return StatusText(t.Tag, status)
}

func (t Translator) Lang() string {
	return Code(t.Tag)
}

func (t Translator) Dir() string {
	return Dir(t.Tag)
}

func catalogFor(tag language.Tag) map[string]string {
	if c, ok := catalogs[Code(tag)]; ok {
		return c
	}
	return catalogs[Code(Supported[0])]
}
