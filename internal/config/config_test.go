package config

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	got := splitList(" http://a.test, ,http://b.test ")
	want := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if splitList("") != nil {
		t.Fatal("empty value should give no entries")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("PRINTER_WIDTH", "32")
	t.Setenv("SEED_SAMPLE_DATA", "true")

	cfg := Load()

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected lower-cased driver, got %q", cfg.Database.Driver)
	}
	if cfg.Printer.Width != 32 {
		t.Errorf("expected printer width 32, got %d", cfg.Printer.Width)
	}
	if !cfg.Seed.Enabled {
		t.Error("expected seeding to be enabled")
	}
	if cfg.Kafka.Topic != "bills.created" {
		t.Errorf("unexpected default topic %q", cfg.Kafka.Topic)
	}
}

func TestDSN(t *testing.T) {
	c := &DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", Timezone: "UTC"}
	want := "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC"
	if got := c.DSN(); got != want {
		t.Fatalf("got %q", got)
	}
}
