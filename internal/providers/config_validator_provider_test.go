package providers

import (
	"decayd/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		Decay: structures.DecayConfig{
			RatePerHour:       0.02,
			MinDecayFraction:  0.02,
			ExpireFraction:    0.10,
			EmergencyCoeff:    4.0,
			ReputationFloor:   0.5,
			ReputationCeiling: 2.0,
		},
		Stake: structures.StakeConfig{
			MinStake: 10,
			MaxStake: 100000,
		},
		Reputation: structures.ReputationConfig{
			Max: 100,
		},
		Supply: structures.SupplyConfig{
			InitialSupply: 1000000000,
		},
		Storage: structures.StorageConfig{
			Dir:    "/tmp/decayd",
			NodeID: "node-1",
		},
		Scheduler: structures.SchedulerConfig{
			ScoreInterval:       60 * time.Second,
			ReplicationInterval: 30 * time.Second,
		},
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MissingNodeID(t *testing.T) {
	c := validConfig()
	c.Storage.NodeID = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MinStakeExceedsMax(t *testing.T) {
	c := validConfig()
	c.Stake.MinStake = 200000
	v := NewCnfValidator(c)
	err := v.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "maxStake")
}

func TestConfigValidator_NonPositiveReputationFloor(t *testing.T) {
	c := validConfig()
	c.Decay.ReputationFloor = -0.5
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_CeilingBelowFloor(t *testing.T) {
	c := validConfig()
	c.Decay.ReputationCeiling = 0.25
	v := NewCnfValidator(c)
	err := v.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reputationCeiling")
}

func TestConfigValidator_MinDecayFractionOutOfRange(t *testing.T) {
	c := validConfig()
	c.Decay.MinDecayFraction = 1.5
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())

	c = validConfig()
	c.Decay.MinDecayFraction = -0.1
	v = NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ExpireFractionOutOfRange(t *testing.T) {
	c := validConfig()
	c.Decay.ExpireFraction = 1.0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroSupply(t *testing.T) {
	c := validConfig()
	c.Supply.InitialSupply = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
