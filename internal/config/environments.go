package config

import (
	"errors"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/avask/termapi/internal/errdef"
	"github.com/avask/termapi/internal/vars"
)

// Environments maps an environment name (production, staging) to its
// variable set.
type Environments map[string]map[string]string

// LoadEnvironments reads the yaml environment file. A missing file is not an
// error; it just means no environments are defined.
func LoadEnvironments(path string) (Environments, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Environments{}, nil
	}
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeFilesystem, err, "read environments %s", path)
	}

	var envs Environments
	if err := yaml.Unmarshal(data, &envs); err != nil {
		return nil, errdef.Wrap(errdef.CodeValidation, err, "parse environments %s", path)
	}
	if envs == nil {
		envs = Environments{}
	}
	return envs, nil
}

func (e Environments) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Provider returns a vars provider for the named environment, or nil when
// the environment does not exist.
func (e Environments) Provider(name string) vars.Provider {
	values, ok := e[name]
	if !ok {
		return nil
	}
	return vars.NewMapProvider(name, values)
}
