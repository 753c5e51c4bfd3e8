package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Store    Store    `koanf:"store"`
	Database Database `koanf:"db"`
	Alerts   Alerts   `koanf:"alerts"`
	Push     Push     `koanf:"push"`
}

type StoreBackend string

const (
	MemoryBackend   StoreBackend = "memory"
	SQLiteBackend   StoreBackend = "sqlite"
	PostgresBackend StoreBackend = "postgres"
)

type Store struct {
	Backend   StoreBackend `koanf:"backend"`
	Namespace string       `koanf:"namespace"`
	SQLite    SQLite       `koanf:"sqlite"`
}

type SQLite struct {
	Path string `koanf:"path"`
}

type Database struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Pass     string `koanf:"pass"`
	Name     string `koanf:"name"`
	Schema   string `koanf:"schema"`
	MaxConns int32  `koanf:"maxconns"`
	MinConns int32  `koanf:"minconns"`
}

type Alerts struct {
	// LowBalanceThreshold is the balance below which a low-balance alert is raised.
	LowBalanceThreshold float64       `koanf:"lowbalancethreshold"`
	Cooldown            time.Duration `koanf:"cooldown"`
	LogCapacity         int           `koanf:"logcapacity"`
	// Schedule is a robfig/cron spec, e.g. "@every 1h".
	Schedule        string `koanf:"schedule"`
	EvaluateOnStart bool   `koanf:"evaluateonstart"`
}

type Push struct {
	Enabled  bool     `koanf:"enabled"`
	Telegram Telegram `koanf:"telegram"`
}

type Telegram struct {
	Token  string `koanf:"token"`
	ChatId int64  `koanf:"chatid"`
}

func Defaults() Application {
	return Application{
		Host: "http://localhost:3000",
		Port: 8181,
		Store: Store{
			Backend:   SQLiteBackend,
			Namespace: "nivora",
			SQLite:    SQLite{Path: "data/nivora.db"},
		},
		Database: Database{
			Host:     "localhost",
			Port:     5432,
			User:     "nivora",
			Pass:     "",
			Name:     "nivora",
			Schema:   "public",
			MaxConns: 5,
			MinConns: 1,
		},
		Alerts: Alerts{
			LowBalanceThreshold: 1000,
			Cooldown:            24 * time.Hour,
			LogCapacity:         50,
			Schedule:            "@every 1h",
			EvaluateOnStart:     true,
		},
		Push: Push{
			Enabled: true,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "NIVORA_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "NIVORA_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
