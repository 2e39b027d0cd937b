package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
environment: test
mongo:
  uri: mongodb://localhost:27017
  database: statcan
statcan:
  table_id: "18100245"
cache:
  backend: memory
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	c, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Environment != "test" {
		t.Errorf("environment = %s", c.Environment)
	}
	if c.Mongo.Database != "statcan" {
		t.Errorf("mongo.database = %s", c.Mongo.Database)
	}
}

func TestLoadMissingMongoURI(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
mongo:
  database: statcan
statcan:
  table_id: "18100245"
`))
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadBadCacheBackend(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
mongo:
  uri: mongodb://localhost:27017
  database: statcan
statcan:
  table_id: "18100245"
cache:
  backend: memcached
`))
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://override:27017")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SERVER_PORT", "9090")
	c, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Mongo.URI != "mongodb://override:27017" {
		t.Errorf("mongo.uri = %s", c.Mongo.URI)
	}
	if len(c.Kafka.Brokers) != 2 || !c.Kafka.Enabled {
		t.Errorf("kafka override not applied: %+v", c.Kafka)
	}
	if c.Server.Port != 9090 {
		t.Errorf("server.port override not applied: %d", c.Server.Port)
	}
}

func TestDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Defaults()
	if c.StatCan.Lang != "en" {
		t.Errorf("statcan.lang default = %s", c.StatCan.Lang)
	}
	if c.StatCan.BatchSize != 1000 {
		t.Errorf("statcan.batch_size default = %d", c.StatCan.BatchSize)
	}
	if c.StatCan.BaseURL == "" {
		t.Error("statcan.base_url default empty")
	}
}
