// Package config loads the YAML description of an intersection run
package config

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/anggasct/crossway"
	"gopkg.in/yaml.v2"
)

// Lanes holds the raw text of the four lane count fields
type Lanes struct {
	Lane1 string `yaml:"lane1"`
	Lane2 string `yaml:"lane2"`
	Lane3 string `yaml:"lane3"`
	Lane4 string `yaml:"lane4"`
}

// Raw returns the lane text keyed by lane
func (l Lanes) Raw() map[crossway.LaneID]string {
	return map[crossway.LaneID]string{
		crossway.Lane1: l.Lane1,
		crossway.Lane2: l.Lane2,
		crossway.Lane3: l.Lane3,
		crossway.Lane4: l.Lane4,
	}
}

// Emergency designates a lane a number of seconds after the run starts
type Emergency struct {
	At   float64 `yaml:"at"`   // seconds after start
	Lane string  `yaml:"lane"` // "Lane 2", "2", "L2"
}

// LaneID returns the designated lane
func (e Emergency) LaneID() crossway.LaneID {
	return crossway.ParseLaneID(e.Lane)
}

// Config is the root of the YAML document
type Config struct {
	Lanes       Lanes       `yaml:"lanes"`
	Emergencies []Emergency `yaml:"emergencies,omitempty"`
	Realtime    bool        `yaml:"realtime,omitempty"` // wall clock instead of fast-forward
}

// Validate checks the emergency script. Lane counts are validated by the
// scheduler when the run starts.
func (c Config) Validate() error {
	for i, e := range c.Emergencies {
		if e.At < 0 {
			return crossway.NewConfigurationError("emergencies", fmt.Sprintf("entry %d: negative offset %v", i, e.At))
		}
		if !e.LaneID().Valid() {
			return crossway.NewConfigurationError("emergencies", fmt.Sprintf("entry %d: unknown lane %q", i, e.Lane))
		}
	}
	return nil
}

// Decode parses and validates a YAML document. Unknown keys are rejected.
func Decode(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, crossway.NewConfigurationError("yaml", err.Error())
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// DecodeBase64 decodes a base64 encoded YAML document
func DecodeBase64(s string) (Config, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Config{}, crossway.NewConfigurationError("base64", err.Error())
	}
	return Decode(data)
}

// Load reads and decodes a YAML file
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config file load: %w", err)
	}
	return Decode(data)
}
