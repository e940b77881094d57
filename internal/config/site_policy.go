package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/citypages/sentinel/internal/core"
)

var (
	ErrPolicyNotFound = errors.New("site policy file not found")
	ErrPolicyParsing  = errors.New("site policy parsing failed")
)

// LoadSitePolicy loads the optional .sentinel.yml site policy. A missing
// file is not an error condition for callers that are happy with the
// defaults; they can check for ErrPolicyNotFound explicitly.
func LoadSitePolicy(path string) (*core.SitePolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.DefaultSitePolicy(), ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to read site policy %s: %w", path, err)
	}

	policy := core.DefaultSitePolicy()
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPolicyParsing, err)
	}
	return policy, nil
}
