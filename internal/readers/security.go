package readers

import (
	"fmt"
	"regexp"
)

// RegexSecurityManager enforces the CLI's `allowed-modules`/`allowed-resources`
// options (spec section 6): an import or resource read is permitted only if
// the target URI matches at least one of the configured patterns.
type RegexSecurityManager struct {
	AllowedModules   []*regexp.Regexp
	AllowedResources []*regexp.Regexp
}

// NewRegexSecurityManager compiles the given pattern lists.
func NewRegexSecurityManager(allowedModules, allowedResources []string) (*RegexSecurityManager, error) {
	modules, err := compileAll(allowedModules)
	if err != nil {
		return nil, fmt.Errorf("allowed-modules: %w", err)
	}

	resources, err := compileAll(allowedResources)
	if err != nil {
		return nil, fmt.Errorf("allowed-resources: %w", err)
	}

	return &RegexSecurityManager{AllowedModules: modules, AllowedResources: resources}, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}

		out = append(out, re)
	}

	return out, nil
}

// CheckImportModule implements SecurityManager. An empty AllowedModules list
// permits everything, matching the CLI default of no `--allowed-modules`
// flag given.
func (s *RegexSecurityManager) CheckImportModule(from, to string) error {
	return checkAllowed(s.AllowedModules, to, "import")
}

// CheckReadResource implements SecurityManager.
func (s *RegexSecurityManager) CheckReadResource(from, to string) error {
	return checkAllowed(s.AllowedResources, to, "resource read")
}

func checkAllowed(patterns []*regexp.Regexp, uri, action string) error {
	if len(patterns) == 0 {
		return nil
	}

	for _, re := range patterns {
		if re.MatchString(uri) {
			return nil
		}
	}

	return fmt.Errorf("%s of %q denied: no allowed pattern matched", action, uri)
}
