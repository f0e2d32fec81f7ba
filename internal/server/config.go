package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete daemon configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Table  TableSettings  `hcl:"table,block"`
	Seats  []SeatConfig   `hcl:"seat,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	DBPath   string `hcl:"db_path,optional"`
}

// TableSettings configures the blackjack table
type TableSettings struct {
	Ante        int   `hcl:"ante,optional"`
	AutoDelayMS int   `hcl:"auto_delay_ms,optional"`
	Seed        int64 `hcl:"seed,optional"`
	DealerBank  int   `hcl:"dealer_bank,optional"`
}

// SeatConfig seats a participant at startup
type SeatConfig struct {
	Name      string `hcl:"name,label"`
	Bank      int    `hcl:"bank,optional"`
	Automated bool   `hcl:"automated,optional"`
	Strategy  string `hcl:"strategy,optional"`
}

// DefaultConfig returns the default daemon configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8089,
			LogLevel: "info",
			DBPath:   "blackjack.db",
		},
		Table: TableSettings{
			Ante:        10,
			AutoDelayMS: 400,
			DealerBank:  1_000_000,
		},
	}
}

// LoadConfig loads daemon configuration from an HCL file. A missing file
// yields the defaults; blocks and attributes the file omits keep their
// default values.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return config, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %s", filename, diags.Error())
	}

	var raw struct {
		Server *ServerSettings `hcl:"server,block"`
		Table  *TableSettings  `hcl:"table,block"`
		Seats  []SeatConfig    `hcl:"seat,block"`
	}
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %s", filename, diags.Error())
	}

	if raw.Server != nil {
		config.Server = *raw.Server
	}
	if raw.Table != nil {
		config.Table = *raw.Table
	}
	config.Seats = raw.Seats
	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyDefaults fills zero-valued settings after a decode so a partial
// config block does not wipe the defaults for the attributes it omits.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Server.Address == "" {
		c.Server.Address = d.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = d.Server.LogLevel
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = d.Server.DBPath
	}
	if c.Table.Ante == 0 {
		c.Table.Ante = d.Table.Ante
	}
	if c.Table.AutoDelayMS == 0 {
		c.Table.AutoDelayMS = d.Table.AutoDelayMS
	}
	if c.Table.DealerBank == 0 {
		c.Table.DealerBank = d.Table.DealerBank
	}
}

func (c *Config) validate() error {
	if c.Table.Ante <= 0 {
		return fmt.Errorf("table ante must be positive, got %d", c.Table.Ante)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	for _, seat := range c.Seats {
		if seat.Bank < 0 {
			return fmt.Errorf("seat %q has negative bank", seat.Name)
		}
	}
	return nil
}
