package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	DecoderGocv   = "gocv"
	DecoderFFmpeg = "ffmpeg"

	MatcherFLANN      = "flann"
	MatcherBruteForce = "bf"
)

type Config struct {
	OutputDir        string  `env:"KEYFRAMES_OUTPUT_DIR"        envDefault:"frames"`
	Decoder          string  `env:"KEYFRAMES_DECODER"           envDefault:"gocv"`
	Matcher          string  `env:"KEYFRAMES_MATCHER"           envDefault:"flann"`
	HessianThreshold float64 `env:"KEYFRAMES_HESSIAN_THRESHOLD" envDefault:"400"`
	RatioThreshold   float64 `env:"KEYFRAMES_RATIO_THRESHOLD"   envDefault:"0.7"`
	LegacyFPSWrap    bool    `env:"KEYFRAMES_LEGACY_FPS_WRAP"   envDefault:"false"`
	JPEGQuality      int     `env:"KEYFRAMES_JPEG_QUALITY"      envDefault:"95"`
	Progress         bool    `env:"KEYFRAMES_PROGRESS"          envDefault:"true"`
	ArchivePath      string  `env:"KEYFRAMES_ARCHIVE_PATH"`

	MinIOEndpoint       string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey      string `env:"MINIO_ACCESS_KEY"       envDefault:"minioadmin"`
	MinIOSecretKey      string `env:"MINIO_SECRET_KEY"       envDefault:"minioadmin"`
	MinIOUseSSL         bool   `env:"MINIO_USE_SSL"          envDefault:"false"`
	MinIOKeyframeBucket string `env:"MINIO_KEYFRAME_BUCKET"  envDefault:"keyframes"`

	RabbitMQURL        string `env:"RABBITMQ_URL"`
	RabbitMQExchange   string `env:"RABBITMQ_EXCHANGE"    envDefault:"fiapx.video"`
	RabbitMQRoutingKey string `env:"RABBITMQ_ROUTING_KEY" envDefault:"keyframes.extracted"`

	DatabaseURL string `env:"DATABASE_URL"`

	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
	JaegerEndpoint string `env:"JAEGER_ENDPOINT"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no backend can run with. Scan parameters coming from
// the command line are deliberately not range checked.
func (c *Config) Validate() error {
	switch c.Decoder {
	case DecoderGocv, DecoderFFmpeg:
	default:
		return fmt.Errorf("unknown decoder %q (want %s or %s)", c.Decoder, DecoderGocv, DecoderFFmpeg)
	}
	switch c.Matcher {
	case MatcherFLANN, MatcherBruteForce:
	default:
		return fmt.Errorf("unknown matcher %q (want %s or %s)", c.Matcher, MatcherFLANN, MatcherBruteForce)
	}
	if c.HessianThreshold <= 0 {
		return fmt.Errorf("hessian threshold must be positive, got %v", c.HessianThreshold)
	}
	if c.RatioThreshold <= 0 || c.RatioThreshold > 1 {
		return fmt.Errorf("ratio threshold must be in (0,1], got %v", c.RatioThreshold)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be in [1,100], got %d", c.JPEGQuality)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output dir must not be empty")
	}
	return nil
}
