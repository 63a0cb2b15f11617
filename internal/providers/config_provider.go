package providers

import (
	"decayd/internal/structures"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "DECAYD_LOG_LEVEL")
	viper.BindEnv("scheduler.scoreInterval", "DECAYD_SCORE_INTERVAL")
	viper.BindEnv("scheduler.replicationInterval", "DECAYD_REPLICATION_INTERVAL")
	viper.BindEnv("storage.dir", "DECAYD_STORAGE_DIR")
	viper.BindEnv("storage.nodeId", "DECAYD_NODE_ID")
	viper.BindEnv("cache.enabled", "DECAYD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "DECAYD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyDefaults(&conf)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "TemporalStakeDecayEngine"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// applyDefaults fills in the scoring parameters that are allowed to be
// omitted from the config file. The canonical decay formula depends on
// every one of these being non-zero.
func applyDefaults(conf *structures.Config) {
	d := &conf.Decay
	if d.MinDecayFraction <= 0 {
		d.MinDecayFraction = 0.02
	}
	if d.ExpireFraction <= 0 {
		d.ExpireFraction = 0.10
	}
	if d.EmergencyCoeff <= 0 {
		d.EmergencyCoeff = 4.0
	}
	if d.LikeWeight <= 0 {
		d.LikeWeight = 1.0
	}
	if d.CommentWeight <= 0 {
		d.CommentWeight = 3.0
	}
	if d.ShareWeight <= 0 {
		d.ShareWeight = 5.0
	}
	if d.ViewWeight <= 0 {
		d.ViewWeight = 0.1
	}
	if d.EngagementNorm <= 0 {
		d.EngagementNorm = 100.0
	}

	s := &conf.Stake
	if s.RewardRate <= 0 {
		s.RewardRate = 0.001
	}
	if s.DedupeWindow <= 0 {
		s.DedupeWindow = 10 * time.Minute
	}
	if s.DedupeCacheSize <= 0 {
		s.DedupeCacheSize = 8 // MB
	}

	r := &conf.Reputation
	if r.InitialScore <= 0 {
		r.InitialScore = r.Max * 2 / 3
	}
	if r.DecayRatePerDay <= 0 {
		r.DecayRatePerDay = 0.05
	}
	if r.MaxGainPerUpdate <= 0 {
		r.MaxGainPerUpdate = 10.0
	}
	if r.EngagementAward <= 0 {
		r.EngagementAward = 0.5
	}
	if r.StakeAward <= 0 {
		r.StakeAward = 1.0
	}

	st := &conf.Storage
	if st.ReplicationFactor <= 0 {
		st.ReplicationFactor = 3
	}
	if st.VisibilityFloor <= 0 {
		st.VisibilityFloor = 5
	}
	if st.EvictionGrace <= 0 {
		st.EvictionGrace = 24 * time.Hour
	}
}
