package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/inonprince/zmk-glorious-lefty/pkg/errors"
)

// defaultConfigFile is the config file looked up in the working directory
// when --config is not given.
const defaultConfigFile = "klesync.toml"

// fileConfig mirrors the optional klesync.toml file. It only carries
// defaults for the four path options; flags always win.
type fileConfig struct {
	OldKeymap  string `toml:"old_keymap"`
	NewKeymap  string `toml:"new_keymap"`
	LayoutsIn  string `toml:"kle_in"`
	LayoutsOut string `toml:"kle_out"`
}

// loadConfig reads the config file at path. A missing file is only an error
// when the path was given explicitly; the implicit default file is optional.
func loadConfig(path string, explicit bool) (fileConfig, error) {
	var cfg fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config %s", path)
	}
	return cfg, nil
}
