// Package regexutil implements the compiled-pattern cache and the
// match/extract/substitute operations (spec §4.7), grounded on
// github.com/dlclark/regexp2 (a .NET-flavored, PCRE-compatible engine —
// the teacher's go.mod pulls regexp2 transitively for DDL parsing of
// vendor-specific column defaults; promoted here to a direct dependency)
// and cached with github.com/hashicorp/golang-lru/v2.
package regexutil

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Options mirrors the option bits spec §4.7 names: case-insensitive,
// dot-matches-all, extended, multi-line, plus the library-local "global"
// flag kept separate (SPEC_FULL.md §8 Open Question) since it controls
// substitute/extract repeat behavior, not match semantics.
type Options struct {
	CaseInsensitive bool
	DotAll          bool
	Extended        bool
	MultiLine       bool
	Global          bool
}

func (o Options) regexp2Options() regexp2.RegexOptions {
	opts := regexp2.None
	if o.CaseInsensitive {
		opts |= regexp2.IgnoreCase
	}
	if o.DotAll {
		opts |= regexp2.Singleline
	}
	if o.Extended {
		opts |= regexp2.IgnorePatternWhitespace
	}
	if o.MultiLine {
		opts |= regexp2.Multiline
	}
	return opts
}

func (o Options) String() string {
	var b strings.Builder
	if o.CaseInsensitive {
		b.WriteByte('i')
	}
	if o.DotAll {
		b.WriteByte('s')
	}
	if o.Extended {
		b.WriteByte('x')
	}
	if o.MultiLine {
		b.WriteByte('m')
	}
	if o.Global {
		b.WriteByte('g')
	}
	return b.String()
}

// Pattern is a compiled regex plus its originating source/options text,
// implementing value.Compiled so a value.Regex can hold it opaquely.
type Pattern struct {
	source  string
	options Options
	re      *regexp2.Regexp
}

func (p *Pattern) Source() string  { return p.source }
func (p *Pattern) Options() string { return p.options.String() }

// cache maps "source\x00options" to a compiled Pattern, avoiding
// recompilation of repeated literals (patterns are "compiled on first use",
// spec §4.7).
var cache, _ = lru.New[string, *Pattern](256)

func cacheKey(source string, opts Options) string {
	return source + "\x00" + opts.String()
}

// Compile returns a cached Pattern for (source, opts), compiling and
// caching it if this is the first use. UTF-8 is always enabled per
// spec §4.7.
func Compile(source string, opts Options) (*Pattern, error) {
	key := cacheKey(source, opts)
	if p, ok := cache.Get(key); ok {
		return p, nil
	}
	re, err := regexp2.Compile(source, opts.regexp2Options())
	if err != nil {
		return nil, err
	}
	p := &Pattern{source: source, options: opts, re: re}
	cache.Add(key, p)
	return p, nil
}

// Match reports whether target matches anywhere.
func (p *Pattern) Match(target string) bool {
	m, _ := p.re.FindStringMatch(target)
	return m != nil
}

// ExtractSubstrings returns captured groups for the first match (or, in
// Global mode, every match concatenated); unmatched groups appear as "",
// reported absent via the returned bool slice (spec §4.7: "unmatched
// groups appear as Nothing" — the caller maps absent entries to
// value.Nothing()).
func (p *Pattern) ExtractSubstrings(target string) ([]string, []bool) {
	var groups []string
	var present []bool

	m, _ := p.re.FindStringMatch(target)
	for m != nil {
		gs := m.Groups()
		for i := 1; i < len(gs); i++ {
			g := gs[i]
			if len(g.Captures) == 0 {
				groups = append(groups, "")
				present = append(present, false)
			} else {
				groups = append(groups, g.String())
				present = append(present, true)
			}
		}
		if !p.options.Global {
			break
		}
		m, _ = p.re.FindNextMatch(m)
	}
	return groups, present
}

// Substitute replaces matches of p in target with template, where `\$` is
// a literal dollar and `$N` references capture group N (references past
// the actual group count are dropped silently). In Global mode every
// match is replaced; otherwise only the first (spec §4.7).
func (p *Pattern) Substitute(target, template string) string {
	var b strings.Builder
	last := 0

	m, _ := p.re.FindStringMatch(target)
	for m != nil {
		start := m.Index
		b.WriteString(target[last : last+(start-last)])
		b.WriteString(expandTemplate(template, m))
		last = start + m.Length

		if !p.options.Global {
			break
		}
		next, _ := p.re.FindNextMatch(m)
		m = next
	}
	b.WriteString(target[last:])
	return b.String()
}

func expandTemplate(template string, m *regexp2.Match) string {
	var b strings.Builder
	groups := m.Groups()
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c == '\\' && i+1 < len(template) && template[i+1] == '$' {
			b.WriteByte('$')
			i++
			continue
		}
		if c == '$' && i+1 < len(template) && template[i+1] >= '0' && template[i+1] <= '9' {
			j := i + 1
			for j < len(template) && template[j] >= '0' && template[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(template[i+1 : j])
			if n < len(groups) {
				b.WriteString(groups[n].String())
			}
			i = j - 1
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
