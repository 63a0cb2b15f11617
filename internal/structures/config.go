package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type DecayConfig struct {
	RatePerHour       float64 `yaml:"ratePerHour" validate:"required|min:0"`
	MinDecayFraction  float64 `yaml:"minDecayFraction"`
	ExpireFraction    float64 `yaml:"expireFraction"`
	EmergencyCoeff    float64 `yaml:"emergencyCoeff"`
	ReputationFloor   float64 `yaml:"reputationFloor" validate:"required"`
	ReputationCeiling float64 `yaml:"reputationCeiling" validate:"required"`
	LikeWeight        float64 `yaml:"likeWeight"`
	CommentWeight     float64 `yaml:"commentWeight"`
	ShareWeight       float64 `yaml:"shareWeight"`
	ViewWeight        float64 `yaml:"viewWeight"`
	EngagementNorm    float64 `yaml:"engagementNorm"`
}

type StakeConfig struct {
	MinStake         int64         `yaml:"minStake" validate:"required|min:1"`
	MaxStake         int64         `yaml:"maxStake" validate:"required|min:1"`
	RewardRate       float64       `yaml:"rewardRate"`
	DailyRewardLimit int64         `yaml:"dailyRewardLimit"`
	TotalRewardLimit int64         `yaml:"totalRewardLimit"`
	DedupeWindow     time.Duration `yaml:"dedupeWindow"`
	DedupeCacheSize  int           `yaml:"dedupeCacheSize"`
}

type ReputationConfig struct {
	Max              float64 `yaml:"max" validate:"required|min:1"`
	InitialScore     float64 `yaml:"initialScore"`
	DecayRatePerDay  float64 `yaml:"decayRatePerDay"`
	MaxGainPerUpdate float64 `yaml:"maxGainPerUpdate"`
	EngagementAward  float64 `yaml:"engagementAward"`
	StakeAward       float64 `yaml:"stakeAward"`
}

type SupplyConfig struct {
	InitialSupply int64 `yaml:"initialSupply" validate:"required|min:1"`
}

type StorageConfig struct {
	Dir               string        `yaml:"dir" validate:"required|unixPath"`
	NodeID            string        `yaml:"nodeId" validate:"required"`
	ReplicationFactor int           `yaml:"replicationFactor"`
	VisibilityFloor   int           `yaml:"visibilityFloor"`
	EvictionGrace     time.Duration `yaml:"evictionGrace"`
	FeePerByte        int64         `yaml:"feePerByte"`
}

type SchedulerConfig struct {
	ScoreInterval       time.Duration `yaml:"scoreInterval" validate:"required|min:1"`
	ReplicationInterval time.Duration `yaml:"replicationInterval" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	Decay      DecayConfig      `yaml:"decay"`
	Stake      StakeConfig      `yaml:"stake"`
	Reputation ReputationConfig `yaml:"reputation"`
	Supply     SupplyConfig     `yaml:"supply"`
	Storage    StorageConfig    `yaml:"storage"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	WebServer  Server           `yaml:"webServer"`
	Logger     LoggerConfig     `yaml:"logger"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}
