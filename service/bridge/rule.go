package bridge

import (
	"fmt"
	"regexp"
	"strings"
)

// CopyRule decides which exchange names are copied into process variables.
// The zero value copies nothing.
type CopyRule struct {
	all     bool
	pattern *regexp.Regexp
}

var (
	// CopyAll copies every name.
	CopyAll = CopyRule{all: true}
	// CopyNone copies nothing.
	CopyNone = CopyRule{}
)

// ParseCopyRule reads an option value: "true" copies everything, "false" or
// an empty value copies nothing, anything else is a regular expression that
// must match the whole name.
func ParseCopyRule(value string) (CopyRule, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "", strings.EqualFold(value, "false"):
		return CopyNone, nil
	case strings.EqualFold(value, "true"):
		return CopyAll, nil
	}
	pattern, err := regexp.Compile("^(?:" + value + ")$")
	if err != nil {
		return CopyNone, fmt.Errorf("invalid copy pattern %q: %w", value, err)
	}
	return CopyRule{pattern: pattern}, nil
}

// Allows reports whether name is copied.
func (r CopyRule) Allows(name string) bool {
	if r.all {
		return true
	}
	return r.pattern != nil && r.pattern.MatchString(name)
}

// Enabled reports whether the rule copies anything at all.
func (r CopyRule) Enabled() bool {
	return r.all || r.pattern != nil
}

func (r CopyRule) String() string {
	switch {
	case r.all:
		return "true"
	case r.pattern != nil:
		expr := r.pattern.String()
		return expr[len("^(?:") : len(expr)-len(")$")]
	}
	return "false"
}
