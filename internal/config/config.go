// Package config resolves buddyctl's tunables from flags, environment
// variables, and an optional config file, layered the way the pack's own
// operationally-flavored CLIs do it (viper backed by a pflag.FlagSet).
package config

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mrostermann/buddypool/buddy"
)

// Config holds the values buddyctl needs before it calls buddy.Init: the
// requested pool size, and the four bounds that parameterize Init's own
// clamping (buddy.Bounds) — DefaultK, MinK, MaxK, SmallestK default to the
// core's package constants but are runtime-tunable per spec §3 "Bounds".
type Config struct {
	PoolSizeBytes uintptr
	DefaultK      uint
	MinK          uint
	MaxK          uint
	SmallestK     uint
	Verbose       bool
	ConfigFile    string
}

// Bounds converts the resolved K fields to a buddy.Bounds for buddy.Init.
func (c Config) Bounds() buddy.Bounds {
	return buddy.Bounds{
		DefaultK:  c.DefaultK,
		MinK:      c.MinK,
		MaxK:      c.MaxK,
		SmallestK: c.SmallestK,
	}
}

// BindFlags registers the flags Load reads back, on fs (typically a
// cobra.Command's Flags()).
func BindFlags(fs *pflag.FlagSet) {
	fs.Uint64("pool-size", 0, fmtDefaultKHelp())
	fs.Uint("default-k", buddy.DefaultK, "pool exponent used when --pool-size is 0")
	fs.Uint("min-k", buddy.MinK, "smallest pool exponent Init will honor")
	fs.Uint("max-k", buddy.MaxK, "ceiling on the pool exponent (clamped to buddy.MaxK)")
	fs.Uint("smallest-k", buddy.SmallestK, "smallest block Allocate will ever carve")
	fs.Bool("verbose", false, "enable debug-level structured logging")
	fs.String("config", "", "path to a buddypool.yaml config file")
}

func fmtDefaultKHelp() string {
	return "pool size in bytes (0 = buddy.DefaultK, currently 2^" +
		strconv.FormatUint(uint64(buddy.DefaultK), 10) + ")"
}

// Load resolves a Config from fs (already parsed) with precedence flags >
// BUDDYPOOL_* environment variables > buddypool.yaml (if found) > the
// core's built-in defaults.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("buddypool")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}

	if cf, _ := fs.GetString("config"); cf != "" {
		v.SetConfigFile(cf)
	} else {
		v.SetConfigName("buddypool")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, err
		}
	}

	return Config{
		PoolSizeBytes: uintptr(v.GetUint64("pool-size")),
		DefaultK:      v.GetUint("default-k"),
		MinK:          v.GetUint("min-k"),
		MaxK:          v.GetUint("max-k"),
		SmallestK:     v.GetUint("smallest-k"),
		Verbose:       v.GetBool("verbose"),
		ConfigFile:    v.ConfigFileUsed(),
	}, nil
}
