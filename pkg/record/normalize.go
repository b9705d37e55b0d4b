package record

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// englishNames maps lowercased English language names to their base
// language, built lazily from the registered two-letter codes.
var (
	englishNamesOnce sync.Once
	englishNames     map[string]language.Base
)

// bibliographicCodes maps the ISO 639-2/B codes that differ from the
// terminological codes. MARC data uses the bibliographic variants, but
// BCP 47 parsing only accepts the terminological ones.
var bibliographicCodes = map[string]string{
	"alb": "sq", "arm": "hy", "baq": "eu", "bur": "my",
	"chi": "zh", "cze": "cs", "dut": "nl", "fre": "fr",
	"geo": "ka", "ger": "de", "gre": "el", "ice": "is",
	"mac": "mk", "mao": "mi", "may": "ms", "per": "fa",
	"rum": "ro", "slo": "sk", "tib": "bo", "wel": "cy",
}

func buildEnglishNames() {
	englishNames = make(map[string]language.Base)
	namer := display.English.Languages()
	for a := byte('a'); a <= 'z'; a++ {
		for b := byte('a'); b <= 'z'; b++ {
			base, err := language.ParseBase(string([]byte{a, b}))
			if err != nil {
				continue
			}
			tag, err := language.Parse(base.String())
			if err != nil {
				continue
			}
			name := namer.Name(tag)
			if name == "" {
				continue
			}
			englishNames[strings.ToLower(name)] = base
		}
	}
}

// LookupLanguage resolves a language indication, either an ISO 639
// code or an English language name, to an ISO 639-3 code and an
// English display name. Catalogs are wildly inconsistent here, so the
// lookup is case-insensitive and tolerant of surrounding whitespace.
func LookupLanguage(text string) (code, name string, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", "", false
	}

	lowered := strings.ToLower(trimmed)
	if alias, found := bibliographicCodes[lowered]; found {
		lowered = alias
	}
	if base, err := language.ParseBase(lowered); err == nil {
		return describeBase(base)
	}

	englishNamesOnce.Do(buildEnglishNames)
	if base, found := englishNames[strings.ToLower(trimmed)]; found {
		return describeBase(base)
	}
	return "", "", false
}

func describeBase(base language.Base) (string, string, bool) {
	code := base.ISO3()
	if code == "" {
		return "", "", false
	}
	name := ""
	if tag, err := language.Parse(base.String()); err == nil {
		name = display.English.Languages().Name(tag)
	}
	if name == "" {
		name = base.String()
	}
	return code, name, true
}
