// Copyright 2020 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

const (
	StoragePOSIX = "posix"
	StorageS3    = "s3"
	StorageGCS   = "gcs"
	StorageAzure = "azure"
)

// Config is the configuration for the supplygraph server and command line.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Model     ModelConfig     `mapstructure:"model"`
	S3        S3Config        `mapstructure:"s3"`
	GCS       GCSConfig       `mapstructure:"gcs"`
	Azure     AzureBlobConfig `mapstructure:"azure"`
	Server    ServerConfig    `mapstructure:"server"`
	Train     TrainConfig     `mapstructure:"train"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

// DatabaseConfig is the configuration for the graph store and the metadata store.
type DatabaseConfig struct {
	GraphStore     string        `mapstructure:"graph_store" validate:"required"`
	GraphUser      string        `mapstructure:"graph_user"`
	GraphPassword  string        `mapstructure:"graph_password"`
	GraphDatabase  string        `mapstructure:"graph_database"`
	GraphName      string        `mapstructure:"graph_name" validate:"required"`
	MetaStore      string        `mapstructure:"meta_store"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"gte=0"`
}

// ModelConfig locates the link prediction model artifact.
type ModelConfig struct {
	Storage string `mapstructure:"storage" validate:"oneof=posix s3 gcs azure"`
	Path    string `mapstructure:"path" validate:"required"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

type GCSConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type AzureBlobConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	AccountName      string `mapstructure:"account_name"`
	AccountKey       string `mapstructure:"account_key"`
	Endpoint         string `mapstructure:"endpoint"`
	Container        string `mapstructure:"container"`
	Prefix           string `mapstructure:"prefix"`
}

// ServerConfig is the configuration for the REST server.
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	APIKey   string `mapstructure:"api_key"`
	DefaultK int    `mapstructure:"default_k" validate:"gte=1"`
	MaxK     int    `mapstructure:"max_k" validate:"gtefield=DefaultK"`
}

// TrainConfig holds the default parameters of a training run.
type TrainConfig struct {
	NPos        int     `mapstructure:"n_pos" validate:"gte=1"`
	NNeg        int     `mapstructure:"n_neg" validate:"gte=1"`
	TestSize    float64 `mapstructure:"test_size" validate:"gt=0,lt=1"`
	RandomState int64   `mapstructure:"random_state"`
	MaxIter     int     `mapstructure:"max_iter" validate:"gte=1"`
	Reg         float64 `mapstructure:"reg" validate:"gte=0"`
}

type RecommendConfig struct {
	MaxCandidates int `mapstructure:"max_candidates" validate:"gte=1"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			GraphStore:     "neo4j://localhost:7687",
			GraphUser:      "neo4j",
			GraphDatabase:  "neo4j",
			GraphName:      "productCopurchase",
			MetaStore:      "sqlite://models/meta.db",
			ConnectTimeout: time.Minute,
		},
		Model: ModelConfig{
			Storage: StoragePOSIX,
			Path:    "models/link_predictor.bin",
		},
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     8080,
			DefaultK: 10,
			MaxK:     50,
		},
		Train: TrainConfig{
			NPos:        5000,
			NNeg:        5000,
			TestSize:    0.2,
			RandomState: 42,
			MaxIter:     200,
			Reg:         1,
		},
		Recommend: RecommendConfig{
			MaxCandidates: 2000,
		},
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [database]
	v.SetDefault("database.graph_store", defaultConfig.Database.GraphStore)
	v.SetDefault("database.graph_user", defaultConfig.Database.GraphUser)
	v.SetDefault("database.graph_database", defaultConfig.Database.GraphDatabase)
	v.SetDefault("database.graph_name", defaultConfig.Database.GraphName)
	v.SetDefault("database.meta_store", defaultConfig.Database.MetaStore)
	v.SetDefault("database.connect_timeout", defaultConfig.Database.ConnectTimeout)
	// [model]
	v.SetDefault("model.storage", defaultConfig.Model.Storage)
	v.SetDefault("model.path", defaultConfig.Model.Path)
	// [server]
	v.SetDefault("server.host", defaultConfig.Server.Host)
	v.SetDefault("server.port", defaultConfig.Server.Port)
	v.SetDefault("server.default_k", defaultConfig.Server.DefaultK)
	v.SetDefault("server.max_k", defaultConfig.Server.MaxK)
	// [train]
	v.SetDefault("train.n_pos", defaultConfig.Train.NPos)
	v.SetDefault("train.n_neg", defaultConfig.Train.NNeg)
	v.SetDefault("train.test_size", defaultConfig.Train.TestSize)
	v.SetDefault("train.random_state", defaultConfig.Train.RandomState)
	v.SetDefault("train.max_iter", defaultConfig.Train.MaxIter)
	v.SetDefault("train.reg", defaultConfig.Train.Reg)
	// [recommend]
	v.SetDefault("recommend.max_candidates", defaultConfig.Recommend.MaxCandidates)
}

type binding struct {
	key string
	env string
}

var bindings = []binding{
	{"database.graph_store", "SUPPLYGRAPH_GRAPH_STORE"},
	{"database.graph_user", "SUPPLYGRAPH_GRAPH_USER"},
	{"database.graph_password", "SUPPLYGRAPH_GRAPH_PASSWORD"},
	{"database.graph_database", "SUPPLYGRAPH_GRAPH_DATABASE"},
	{"database.meta_store", "SUPPLYGRAPH_META_STORE"},
	{"model.storage", "SUPPLYGRAPH_MODEL_STORAGE"},
	{"model.path", "ML_MODEL_PATH"},
	{"server.host", "SUPPLYGRAPH_SERVER_HOST"},
	{"server.port", "SUPPLYGRAPH_SERVER_PORT"},
	{"server.api_key", "SUPPLYGRAPH_SERVER_API_KEY"},
	{"s3.endpoint", "S3_ENDPOINT"},
	{"s3.access_key_id", "S3_ACCESS_KEY_ID"},
	{"s3.secret_access_key", "S3_SECRET_ACCESS_KEY"},
	{"gcs.credentials_file", "GCS_CREDENTIALS_FILE"},
	{"azure.connection_string", "AZURE_STORAGE_CONNECTION_STRING"},
	{"azure.account_name", "AZURE_STORAGE_ACCOUNT_NAME"},
	{"azure.account_key", "AZURE_STORAGE_ACCOUNT_KEY"},
}

// LoadConfig loads configuration from toml file. Defaults are used for missing keys and environment variables
// override both. An empty path loads defaults and environment variables only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	for _, b := range bindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate checks field constraints and the settings required by the selected artifact storage.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Annotate(err, "invalid config")
	}
	switch config.Model.Storage {
	case StorageS3:
		if config.S3.Endpoint == "" || config.S3.Bucket == "" {
			return errors.NotValidf("s3 storage without endpoint or bucket")
		}
	case StorageGCS:
		if config.GCS.Bucket == "" {
			return errors.NotValidf("gcs storage without bucket")
		}
	case StorageAzure:
		if config.Azure.Container == "" {
			return errors.NotValidf("azure storage without container")
		}
	}
	return nil
}
