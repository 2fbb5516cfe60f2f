package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Shm    ShmConfig    `mapstructure:"shm"`
	Input  InputConfig  `mapstructure:"input"`
	Modbus ModbusConfig `mapstructure:"modbus"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

type ShmConfig struct {
	// NamePrefix is prepended to DO/DI/AO/AI to form the shared memory
	// object names, e.g. modbus_DO.
	NamePrefix string `mapstructure:"name_prefix"`
}

type InputConfig struct {
	// Numeral bases for the address and value fields; 0 auto-detects by
	// prefix (0x hex, 0 octal, 0b binary).
	AddressBase int `mapstructure:"address_base"`
	ValueBase   int `mapstructure:"value_base"`
}

// Modbus TCP target; used instead of shared memory when Address is set.
type ModbusConfig struct {
	Address string        `mapstructure:"address"`
	UnitID  uint8         `mapstructure:"unit_id"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	// HTTPPort enables the HTTP ingest API when > 0.
	HTTPPort        int           `mapstructure:"http_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Verbose   bool   `mapstructure:"verbose"`
	ScriptLog string `mapstructure:"script_log"` // path, empty disables
}

// Load reads the optional config file and merges environment variables
// (prefix SHMWRITE_) and command line flags on top. Flags win.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Defaults setzen
	v.SetDefault("shm.name_prefix", "modbus_")
	v.SetDefault("input.address_base", 0)
	v.SetDefault("input.value_base", 0)
	v.SetDefault("modbus.address", "")
	v.SetDefault("modbus.unit_id", 0)
	v.SetDefault("modbus.timeout", "1s")
	v.SetDefault("server.http_port", 0)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.verbose", false)
	v.SetDefault("log.script_log", "")

	v.AutomaticEnv()
	v.SetEnvPrefix("SHMWRITE")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		bindings := map[string]string{
			"shm.name_prefix":    "name-prefix",
			"input.address_base": "address-base",
			"input.value_base":   "value-base",
			"modbus.address":     "modbus",
			"modbus.unit_id":     "unit-id",
			"server.http_port":   "http-port",
			"log.verbose":        "verbose",
			"log.script_log":     "script-log",
		}
		for key, flag := range bindings {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	for _, base := range []int{c.Input.AddressBase, c.Input.ValueBase} {
		if base != 0 && (base < 2 || base > 36) {
			return fmt.Errorf("invalid numeral base %d: must be 0 or 2..36", base)
		}
	}
	if c.Shm.NamePrefix == "" && c.Modbus.Address == "" {
		return fmt.Errorf("either a shared memory name prefix or a modbus address is required")
	}
	return nil
}
