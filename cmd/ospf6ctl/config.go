package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/golangsnmp/ospf6"
	"github.com/golangsnmp/ospf6/snmp"
)

// fileConfig is the YAML configuration file. Zero values leave the
// Manager defaults in place.
type fileConfig struct {
	Socket           string        `yaml:"socket"`
	Store            string        `yaml:"store"`
	RunningConfigTTL time.Duration `yaml:"runningConfigTTL"`
	Timeout          time.Duration `yaml:"timeout"`
	InstanceMax      uint32        `yaml:"instanceMax"`
	MIBRoot          string        `yaml:"mibRoot"`
	RateLimit        *struct {
		Limit float64 `yaml:"limit"`
		Burst int     `yaml:"burst"`
	} `yaml:"rateLimit"`
}

func loadConfig(path string) (fileConfig, error) {
	var conf fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("config %s: %w", path, err)
	}
	return conf, nil
}

func (f fileConfig) options() ([]ospf6.Option, error) {
	var opts []ospf6.Option
	if f.Socket != "" {
		opts = append(opts, ospf6.WithSocket(f.Socket))
	}
	if f.Store != "" {
		opts = append(opts, ospf6.WithStore(f.Store))
	}
	if f.RunningConfigTTL != 0 {
		opts = append(opts, ospf6.WithRunningConfigTTL(f.RunningConfigTTL))
	}
	if f.Timeout != 0 {
		opts = append(opts, ospf6.WithTimeout(f.Timeout))
	}
	if f.InstanceMax != 0 {
		opts = append(opts, ospf6.WithInstanceMax(ospf6.InstanceID(f.InstanceMax)))
	}
	if f.MIBRoot != "" {
		root, err := snmp.ParseOID(f.MIBRoot)
		if err != nil {
			return nil, fmt.Errorf("config mibRoot: %w", err)
		}
		opts = append(opts, ospf6.WithMIBRoot(root))
	}
	if f.RateLimit != nil {
		opts = append(opts, ospf6.WithRateLimit(rate.Limit(f.RateLimit.Limit), f.RateLimit.Burst))
	}
	return opts, nil
}
