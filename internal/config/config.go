package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type RatesConfig struct {
	Env string 	   `yaml:"env"`
	HTTPServer 	   `yaml:"http_server"`
	RatesDB 	   `yaml:"rates_db"`
	LogConfig 	   `yaml:"log_config"`
	ValidatorNode  `yaml:"validator-node"`
	IndexerAPI 	   `yaml:"indexer-api"`
	KafkaService   `yaml:"kafka-service"`
	RateResolver   `yaml:"rate_resolver"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type RatesDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel 	string 	`yaml:"log_level"`
	LogFormat 	string 	`yaml:"log_format"`
	LogOutput 	string 	`yaml:"log_output"`
}

type ValidatorNode struct {
	RpcUrl    string `yaml:"rpc_url"`
	TimeoutMs int64  `yaml:"timeout_ms" env-default:"2500"`
}

type IndexerAPI struct {
	BaseUrl   string `yaml:"base_url"`
	ApiKey    string `yaml:"api_key" env:"INDEXER_API_KEY"`
	TimeoutMs int64  `yaml:"timeout_ms" env-default:"2500"`
}

type KafkaService struct {
	Host               string `yaml:"host"`
	Port               string `yaml:"port"`
	ExternalRatesTopic string `yaml:"external_rates_topic" env-default:"external-rates"`
	DegradationTopic   string `yaml:"degradation_topic" env-default:"rate-degradations"`
	GroupID            string `yaml:"group_id" env-default:"rates-service"`
}

type RateResolver struct {
	CacheTTLMs       int64             `yaml:"cache_ttl_ms" env-default:"3000"`
	NativeInstrument string            `yaml:"native_instrument" env-default:"$ZRA+0000"`
	// Safeguards are on unless explicitly disabled
	DisableSafeguards bool              `yaml:"disable_safeguards"`
	FallbackRates     map[string]string `yaml:"fallback_rates"`
	MinimumRates      map[string]string `yaml:"minimum_rates"`
	WarmupIntervalMs  int64             `yaml:"warmup_interval_ms" env-default:"60000"`
}

func MustLoad() *RatesConfig {

	// Processing env config variable and file
	configPath := os.Getenv("RATES_CONFIG_PATH")

	if configPath == ""{
		log.Fatalf("RATES_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil{
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg RatesConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil{
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
