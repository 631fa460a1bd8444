package route

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Params holds endpoint URI options.
type Params map[string]string

// ParseURI splits scheme:remaining?options. Option values are path
// unescaped so that '+' survives in patterns; RAW(...) values are kept
// verbatim.
func ParseURI(uri string) (scheme, remaining string, params Params, err error) {
	index := strings.IndexByte(uri, ':')
	if index <= 0 {
		return "", "", nil, fmt.Errorf("invalid endpoint uri %q: missing scheme", uri)
	}
	scheme = uri[:index]
	remaining = uri[index+1:]
	remaining = strings.TrimPrefix(remaining, "//")
	params = Params{}
	query := ""
	if q := strings.IndexByte(remaining, '?'); q >= 0 {
		query = remaining[q+1:]
		remaining = remaining[:q]
	}
	if query == "" {
		return scheme, remaining, params, nil
	}
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		if strings.HasPrefix(value, "RAW(") && strings.HasSuffix(value, ")") {
			params[name] = value[4 : len(value)-1]
			continue
		}
		if value, err = url.PathUnescape(value); err != nil {
			return "", "", nil, fmt.Errorf("invalid endpoint uri %q: option %s: %w", uri, name, err)
		}
		params[name] = value
	}
	return scheme, remaining, params, nil
}

// String returns the option or fallback.
func (p Params) String(name, fallback string) string {
	if value, ok := p[name]; ok {
		return value
	}
	return fallback
}

// Bool returns the option as a boolean or fallback when absent.
func (p Params) Bool(name string, fallback bool) (bool, error) {
	value, ok := p[name]
	if !ok || value == "" {
		return fallback, nil
	}
	flag, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("option %s: invalid boolean %q", name, value)
	}
	return flag, nil
}

// Int returns the option as an int or fallback when absent.
func (p Params) Int(name string, fallback int) (int, error) {
	value, ok := p[name]
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("option %s: invalid number %q", name, value)
	}
	return n, nil
}

// Duration returns the option as a duration or fallback when absent. Plain
// numbers are read as milliseconds.
func (p Params) Duration(name string, fallback time.Duration) (time.Duration, error) {
	value, ok := p[name]
	if !ok || value == "" {
		return fallback, nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("option %s: invalid duration %q", name, value)
	}
	return d, nil
}
