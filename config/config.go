package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	DBUrl         string
	DBPool        DBPool
	TokenSecret   string
	TokenTTL      time.Duration
	AdminUser     string
	AdminPassword string
	PublicDir     string
	PrivateDir    string
	Location      *time.Location
	LogFormat     string
	Debug         bool
}

// DBPool tunes the database/sql connection pool.
type DBPool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// ParseFlags reads the command line. Every flag defaults to an OB_*
// environment variable, which may also come from a .env file.
func ParseFlags() (Config, error) {
	return Parse(flag.CommandLine, os.Args[1:])
}

func Parse(fs *flag.FlagSet, args []string) (cfg Config, err error) {
	_ = godotenv.Load()

	var host string
	fs.StringVar(&host, "host", env("OB_HOST", "0.0.0.0"), "listen host name")
	var port uint
	fs.UintVar(&port, "port", envUint("OB_PORT", 8080), "listen port number")
	fs.StringVar(&cfg.DBUrl, "db-url", env("OB_DB_URL", "onboarding.sqlite"), "path to SQLite3 DB file")
	fs.IntVar(&cfg.DBPool.MaxOpenConns, "db-max-open", int(envUint("OB_DB_MAX_OPEN", 20)), "maximum open DB connections")
	fs.IntVar(&cfg.DBPool.MaxIdleConns, "db-max-idle", int(envUint("OB_DB_MAX_IDLE", 10)), "maximum idle DB connections")
	fs.DurationVar(&cfg.DBPool.ConnMaxIdleTime, "db-conn-idle-time", envDuration("OB_DB_CONN_IDLE_TIME", 5*time.Minute), "how long a DB connection may stay idle")
	fs.DurationVar(&cfg.DBPool.ConnMaxLifetime, "db-conn-lifetime", envDuration("OB_DB_CONN_LIFETIME", 2*time.Hour), "maximum lifetime of a DB connection")
	fs.StringVar(&cfg.TokenSecret, "token-secret", env("OB_TOKEN_SECRET", ""), "secret key for token encryption and decryption")
	var ttl uint
	fs.UintVar(&ttl, "token-ttl", envUint("OB_TOKEN_TTL", 3600), "token TTL in seconds")
	fs.StringVar(&cfg.AdminUser, "admin-user", env("OB_ADMIN_USER", "admin@empresa.com"), "administrator login")
	fs.StringVar(&cfg.AdminPassword, "admin-password", env("OB_ADMIN_PASSWORD", "admin123"), "administrator password")
	fs.StringVar(&cfg.PublicDir, "public-dir", env("OB_PUBLIC_DIR", "public"), "directory of the public site")
	fs.StringVar(&cfg.PrivateDir, "private-dir", env("OB_PRIVATE_DIR", "private"), "directory of the admin site")
	var tz string
	fs.StringVar(&tz, "timezone", env("OB_TIMEZONE", "America/Sao_Paulo"), "time zone of exported dates")
	fs.StringVar(&cfg.LogFormat, "log-format", env("OB_LOG_FORMAT", "text"), "log format (text or json)")
	fs.BoolVar(&cfg.Debug, "debug", env("OB_DEBUG", "") == "true", "log at DEBUG level")
	if err = fs.Parse(args); err != nil {
		return
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return
	}

	switch {
	case cfg.TokenSecret == "":
		err = errors.New("missing parameter -token-secret")
	case cfg.AdminUser == "" || cfg.AdminPassword == "":
		err = errors.New("missing administrator credentials")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint) uint {
	v, err := strconv.ParseUint(os.Getenv(key), 10, 0)
	if err != nil {
		return fallback
	}
	return uint(v)
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
