package eventbus

import (
	"fmt"
	"regexp"
	"sync"
)

type matcherKind int

const (
	kindExact matcherKind = iota
	kindPattern
)

// Matcher tests candidate event names. It is either an exact name or a
// regular expression searched anywhere in the name.
type Matcher struct {
	kind matcherKind
	text string
	re   *lazyRegexp
}

// Exact returns a Matcher that matches name and nothing else.
func Exact(name string) Matcher {
	return Matcher{kind: kindExact, text: name}
}

// Pattern returns a Matcher that matches any name containing a match for re.
// The search is unanchored unless re anchors itself. A nil re yields a
// matcher whose Match reports ErrInvalidPattern.
func Pattern(re *regexp.Regexp) Matcher {
	if re == nil {
		return Matcher{kind: kindPattern}
	}
	return Matcher{kind: kindPattern, text: re.String(), re: &lazyRegexp{re: re, done: true}}
}

// Expr is like Pattern but compiles expr on first use. A malformed
// expression is reported by Match, not here.
func Expr(expr string) Matcher {
	return Matcher{kind: kindPattern, text: expr, re: &lazyRegexp{expr: expr}}
}

// Match reports whether name satisfies the matcher.
func (m Matcher) Match(name string) (bool, error) {
	if m.kind == kindExact {
		return m.text == name, nil
	}
	if m.re == nil {
		return false, fmt.Errorf("%w: nil regexp", ErrInvalidPattern)
	}
	re, err := m.re.get()
	if err != nil {
		return false, err
	}
	return re.MatchString(name), nil
}

// IsPattern reports whether m is a regular-expression matcher.
func (m Matcher) IsPattern() bool {
	return m.kind == kindPattern
}

// String returns the name, or the expression wrapped in slashes.
func (m Matcher) String() string {
	if m.kind == kindPattern {
		return "/" + m.text + "/"
	}
	return m.text
}

type lazyRegexp struct {
	once sync.Once
	expr string
	done bool
	re   *regexp.Regexp
	err  error
}

func (l *lazyRegexp) get() (*regexp.Regexp, error) {
	if l.done {
		return l.re, nil
	}
	l.once.Do(func() {
		l.re, l.err = regexp.Compile(l.expr)
		if l.err != nil {
			l.err = fmt.Errorf("%w %q: %v", ErrInvalidPattern, l.expr, l.err)
		}
	})
	return l.re, l.err
}
