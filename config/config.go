package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/chanotai/library-lending/pkg/logger"
	"github.com/chanotai/library-lending/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

type JWT struct {
	SigningKey string        `yaml:"signingKey" envconfig:"JWT_SECRET" required:"true" json:"-"`
	TokenTTL   time.Duration `yaml:"tokenTTL" envconfig:"JWT_TTL" default:"720h"`
}

type Lending struct {
	LoanPeriod     time.Duration `yaml:"loanPeriod" envconfig:"LOAN_PERIOD" default:"168h"`
	ReturnSelfOnly bool          `yaml:"returnSelfOnly" envconfig:"RETURN_SELF_ONLY" default:"false"`
}

type Config struct {
	Server   HTTPServer  `yaml:"server"`
	Database postgres.DB `yaml:"db"`
	JWT      JWT         `yaml:"jwt"`
	Lending  Lending     `yaml:"lending"`
	Log      logger.Log  `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
