package regexutil

import (
	"strings"

	"github.com/qorelang/qcore/value"
)

// ParseTransliteration expands a tr/from/to/ source pair into one
// single-rune mapping per character of "from", grounded on
// original_source's QoreTransliteration character-range expansion
// (include/qore/intern/QoreTransliteration.h): after range expansion,
// characters of "from" are paired positionally with characters of "to";
// if "to" is shorter, trailing "from" characters map to ToEmpty (delete
// on match); if "to" is empty entirely, every from-character deletes.
func ParseTransliteration(from, to string) []value.TranslitRange {
	fromRunes := expandRanges(from)
	toRunes := expandRanges(to)

	ranges := make([]value.TranslitRange, 0, len(fromRunes))
	for i, f := range fromRunes {
		if i < len(toRunes) {
			t := toRunes[i]
			ranges = append(ranges, value.TranslitRange{FromLo: f, FromHi: f, ToLo: t, ToHi: t})
		} else {
			ranges = append(ranges, value.TranslitRange{FromLo: f, FromHi: f, ToEmpty: true})
		}
	}
	return ranges
}

// expandRanges expands "a-z0-9_" style range syntax into individual runes,
// honoring `\-` as a literal hyphen.
func expandRanges(spec string) []rune {
	var out []rune
	runes := []rune(spec)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			out = append(out, runes[i+1])
			i++
			continue
		}
		if i+2 < len(runes) && runes[i+1] == '-' && runes[i+2] != '\\' {
			lo, hi := runes[i], runes[i+2]
			for r := lo; r <= hi; r++ {
				out = append(out, r)
			}
			i += 2
			continue
		}
		out = append(out, runes[i])
	}
	return out
}

// Apply runs a transliteration over target, replacing (or deleting, for
// ToEmpty ranges) each matching rune.
func Apply(ranges []value.TranslitRange, target string) string {
	var b strings.Builder
	for _, r := range target {
		mapped, deleted, matched := translitRune(ranges, r)
		if matched {
			if !deleted {
				b.WriteRune(mapped)
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func translitRune(ranges []value.TranslitRange, r rune) (mapped rune, deleted bool, matched bool) {
	for _, rg := range ranges {
		if r >= rg.FromLo && r <= rg.FromHi {
			if rg.ToEmpty {
				return 0, true, true
			}
			offset := r - rg.FromLo
			return rg.ToLo + offset, false, true
		}
	}
	return r, false, false
}
