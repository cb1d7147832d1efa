package config

import (
	"log"
	"os"
	"strconv"
	"sync/atomic"
)

type Config struct {
	Port          string
	DBDSN         string
	LogFile       string
	SystemActorID string
	Alerts        *AlertSettings
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "invtrack.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./invtrack.log"
	}
	sysActor := os.Getenv("SYSTEM_ACTOR_ID")
	if sysActor == "" {
		sysActor = "u-system"
	}

	cfg := Config{
		Port:          port,
		DBDSN:         dsn,
		LogFile:       logFile,
		SystemActorID: sysActor,
		Alerts:        NewAlertSettings(),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s SYSTEM_ACTOR_ID=%s", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.SystemActorID)
	return cfg
}

// AlertThresholds is one immutable snapshot of the alert configuration.
type AlertThresholds struct {
	ExpiryWindowDays  int
	ExpiryWarningDays int
	DefaultLowStock   int
}

// AlertSettings holds runtime-reloadable alert thresholds. Readers take a
// snapshot; Reload swaps it atomically so in-flight evaluations stay
// consistent.
type AlertSettings struct {
	cur atomic.Pointer[AlertThresholds]
}

func NewAlertSettings() *AlertSettings {
	s := &AlertSettings{}
	s.Reload()
	return s
}

func (s *AlertSettings) Current() AlertThresholds { return *s.cur.Load() }

// Reload re-reads thresholds from the environment.
func (s *AlertSettings) Reload() {
	t := AlertThresholds{
		ExpiryWindowDays:  envInt("EXPIRY_WINDOW_DAYS", 7),
		ExpiryWarningDays: envInt("EXPIRY_WARNING_DAYS", 3),
		DefaultLowStock:   envInt("DEFAULT_LOW_STOCK_THRESHOLD", 10),
	}
	s.cur.Store(&t)
	log.Printf("[config] alerts: window=%dd warning=%dd default_threshold=%d",
		t.ExpiryWindowDays, t.ExpiryWarningDays, t.DefaultLowStock)
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("[config] ignoring invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
