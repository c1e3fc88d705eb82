package skills

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the construction options of the skill tool
type Config struct {
	// Directories are skill directories or containers of skills. A single
	// string is accepted wherever a list is expected.
	Directories []string `mapstructure:"directories" json:"directories" yaml:"directories"`
	// DescriptionTemplate overrides DefaultDescriptionTemplate
	DescriptionTemplate string `mapstructure:"description_template" json:"description_template,omitempty" yaml:"description_template,omitempty"`
	// Exclude lists doublestar patterns of directories to skip
	Exclude []string `mapstructure:"exclude" json:"exclude,omitempty" yaml:"exclude,omitempty"`
	// Allowed restricts the registry to these skill names when non-empty
	Allowed []string `mapstructure:"allowed" json:"allowed,omitempty" yaml:"allowed,omitempty"`
}

// Validate checks that the configuration names at least one directory
func (c Config) Validate() error {
	for _, dir := range c.Directories {
		if strings.TrimSpace(dir) == "" {
			return errors.Wrap(ErrInvalidRoot, "skill directory cannot be empty")
		}
	}
	if len(c.Directories) == 0 {
		return errors.Wrap(ErrInvalidRoot, "at least one skill directory is required")
	}
	return nil
}

// EnvPrefix is the prefix of environment variables overriding the
// configuration, e.g. SKILLKIT_SKILLS_DIRECTORIES.
const EnvPrefix = "SKILLKIT"

// stringToSingletonSlice turns a bare string into a one element list. Paths
// may contain commas, so the string is never split here.
func stringToSingletonSlice(from, to reflect.Kind, data any) (any, error) {
	if from != reflect.String || to != reflect.Slice {
		return data, nil
	}
	return []string{data.(string)}, nil
}

// DecodeConfig decodes a loosely typed value, such as a parsed YAML map,
// into a Config. List fields accept a list or a single string.
func DecodeConfig(raw any) (Config, error) {
	var config Config

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &config,
		DecodeHook:       mapstructure.DecodeHookFuncKind(stringToSingletonSlice),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return config, errors.Wrap(err, "failed to create skills config decoder")
	}

	if err := decoder.Decode(raw); err != nil {
		return config, errors.Wrap(err, "failed to decode skills configuration")
	}

	return config, nil
}

var (
	configKeys = []string{"directories", "description_template", "exclude", "allowed"}
	listKeys   = map[string]bool{"directories": true, "exclude": true, "allowed": true}
)

// ConfigFromViper reads the "skills" section of v. Keys are looked up one by
// one so that flags and environment variables override the config file.
// A list given through its environment variable is comma separated.
func ConfigFromViper(v *viper.Viper) (Config, error) {
	raw := make(map[string]any)
	for _, key := range configKeys {
		if !v.IsSet("skills." + key) {
			continue
		}
		value := v.Get("skills." + key)
		if s, ok := value.(string); ok && listKeys[key] && fromEnv(key, s) {
			value = splitList(s)
		}
		raw[key] = value
	}
	return DecodeConfig(raw)
}

func fromEnv(key, value string) bool {
	env, ok := os.LookupEnv(EnvPrefix + "_SKILLS_" + strings.ToUpper(key))
	return ok && env == value
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func expandHomePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve home directory for skill path")
	}

	if path == "~" {
		return homeDir, nil
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:]), nil
	}

	return "", errors.Errorf("unsupported skill path format: %s", path)
}
