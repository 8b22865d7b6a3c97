package common

import (
	"regexp"
	"sync"
)

// RegexCache compiles patterns once and shares them between goroutines.
type RegexCache struct {
	compiled sync.Map
}

type cachedRegex struct {
	re  *regexp.Regexp
	err error
}

// Compile returns the compiled pattern, compiling it on first use.
// Compilation errors are cached too.
func (c *RegexCache) Compile(pattern string) (*regexp.Regexp, error) {
	if v, ok := c.compiled.Load(pattern); ok {
		entry := v.(cachedRegex)
		return entry.re, entry.err
	}

	re, err := regexp.Compile(pattern)
	c.compiled.Store(pattern, cachedRegex{re: re, err: err})
	return re, err
}

// FullMatch reports whether the whole of text matches pattern.
func (c *RegexCache) FullMatch(pattern, text string) (bool, error) {
	re, err := c.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}
