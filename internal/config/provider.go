package config

import (
	"path/filepath"

	"tinydb/internal/respath"
)

// Paths captures resolved locations for a store.
type Paths struct {
	BaseDir    string // directory holding store files and tinydb.yaml
	ConfigFile string // path to tinydb.yaml
	StoreFile  string // path to <name>.tinydb
}

// Overrides holds values given on the command line. Empty fields leave the
// configured value alone.
type Overrides struct {
	Dir      string
	Name     string
	LogLevel string
	JSON     bool
}

// Resolve determines the base directory, loads tinydb.yaml from it, then
// applies environment variables and finally command line overrides.
//
// The base directory comes from, in order: the --dir flag, TINYDB_DIR,
// then the directory of the running executable. A dir key inside
// tinydb.yaml moves the store files but not the config file itself.
func Resolve(o Overrides) (Paths, Config, error) {
	var env Config
	ApplyEnvOverrides(&env)

	dirOverride := o.Dir
	if dirOverride == "" {
		dirOverride = env.Dir
	}
	base, err := respath.BaseDir(dirOverride)
	if err != nil {
		return Paths{}, Config{}, err
	}

	configFile := filepath.Join(base, FileName)
	cfg, err := Load(configFile)
	if err != nil {
		return Paths{}, Config{}, err
	}
	ApplyEnvOverrides(&cfg)
	if o.Name != "" {
		cfg.Name = o.Name
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.JSON {
		cfg.JSON = true
	}

	storeDir := base
	switch {
	case dirOverride != "":
		// Explicit flag or environment wins over the file.
	case cfg.Dir != "" && filepath.IsAbs(cfg.Dir):
		storeDir = cfg.Dir
	case cfg.Dir != "":
		storeDir = filepath.Join(base, cfg.Dir)
	}
	cfg.Dir = storeDir

	if err := Validate(cfg); err != nil {
		return Paths{}, Config{}, err
	}

	storeFile, err := respath.StorePath(storeDir, cfg.Name)
	if err != nil {
		return Paths{}, Config{}, err
	}

	return Paths{
		BaseDir:    base,
		ConfigFile: configFile,
		StoreFile:  storeFile,
	}, cfg, nil
}
