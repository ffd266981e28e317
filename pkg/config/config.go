package config

import (
    "github.com/kelseyhightower/envconfig"
)

type Config struct {
    Port             string `envconfig:"PORT" default:"8080"`
    AWSRegion        string `envconfig:"AWS_REGION" default:"ap-northeast-2"`
    ProductTableName string `envconfig:"PRODUCT_TABLE_NAME" default:"products-table"`
    OrderTableName   string `envconfig:"ORDER_TABLE_NAME" default:"orders-table"`
    LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
    LocalMode        bool   `envconfig:"LOCAL_MODE" default:"true"` // in-memory stores, no AWS
    KafkaBrokers     string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
    KafkaEnabled     bool   `envconfig:"KAFKA_ENABLED" default:"false"`
}

func Load() (*Config, error) {
    var cfg Config
    if err := envconfig.Process("", &cfg); err != nil {
        return nil, err
    }
    return &cfg, nil
}
