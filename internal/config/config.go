package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Addr         string        `json:"addr"`
	AllowOrigins []string      `json:"allow_origins"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	SSHAddr      string        `json:"ssh_addr"`
	HostKeyPath  string        `json:"host_key_path"`
	TermBinary   string        `json:"term_binary"`
}

func Default() Config {
	return Config{
		Addr:         ":3000",
		AllowOrigins: []string{"http://localhost:5173"},
		IdleTimeout:  30 * time.Minute,
		SSHAddr:      ":2222",
		HostKeyPath:  "",
		TermBinary:   "boardterm",
	}
}

// Load fills a Config from flags on fs, falling back to MOVELOG_* environment
// variables and then to Default. getenv is os.Getenv outside tests.
func Load(fs *flag.FlagSet, args []string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	def := Default()

	addr := fs.String("addr", envOr(getenv, "MOVELOG_ADDR", def.Addr), "HTTP listen address")
	origins := fs.String("allow-origins", envOr(getenv, "MOVELOG_ALLOW_ORIGINS", strings.Join(def.AllowOrigins, ",")), "comma-separated CORS and websocket origins")
	idle := fs.String("idle-timeout", envOr(getenv, "MOVELOG_IDLE_TIMEOUT", def.IdleTimeout.String()), "drop games idle for this long (0 keeps them)")
	sshAddr := fs.String("ssh-addr", envOr(getenv, "MOVELOG_SSH_ADDR", def.SSHAddr), "ssh listen address")
	hostKey := fs.String("host-key", envOr(getenv, "MOVELOG_HOST_KEY", def.HostKeyPath), "PEM host key for the ssh server")
	termBin := fs.String("term-bin", envOr(getenv, "MOVELOG_TERM_BIN", def.TermBinary), "terminal client spawned for ssh sessions")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	timeout, err := time.ParseDuration(*idle)
	if err != nil {
		return Config{}, fmt.Errorf("%w: idle timeout %q: %v", ErrInvalidConfig, *idle, err)
	}

	cfg := Config{
		Addr:         strings.TrimSpace(*addr),
		AllowOrigins: splitCSV(*origins),
		IdleTimeout:  timeout,
		SSHAddr:      strings.TrimSpace(*sshAddr),
		HostKeyPath:  strings.TrimSpace(*hostKey),
		TermBinary:   strings.TrimSpace(*termBin),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("%w: negative idle timeout", ErrInvalidConfig)
	}
	if len(c.AllowOrigins) == 0 {
		return fmt.Errorf("%w: no allowed origins", ErrInvalidConfig)
	}
	return nil
}

func envOr(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
