package fs

import "github.com/kelseyhightower/envconfig"

// Config holds the environment-tunable knobs that sit above the core
// file system: how chatty DPrintf is, and how big a chunk copyin/copyout
// move per read/write call. Neither affects on-disk semantics.
type Config struct {
	// DebugLevel sets the package debug verbosity (see SetDebugLevel).
	DebugLevel int `envconfig:"SFS_DEBUG_LEVEL" default:"0"`
	// CopyChunk is the chunk size copyin/copyout use, in bytes. The
	// default is 4*BUFSIZ with glibc's BUFSIZ of 8192.
	CopyChunk int `envconfig:"SFS_COPY_CHUNK" default:"32768"`
}

// LoadConfig decodes Config from the environment, applying defaults for
// anything unset.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
