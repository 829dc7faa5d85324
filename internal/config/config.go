package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const DefaultMobileVerifyURL = "https://canvas.instructure.com/api/v1/mobile_verify.json"

type Config struct {
	// Canvas
	CanvasDomain          string `validate:"omitempty,hostname_port|hostname"`
	CanvasProtocol        string `validate:"oneof=http https"`
	CanvasAccessToken     string
	CanvasUserAgent       string `validate:"required"`
	CanvasMobileVerifyURL string `validate:"required,url"`

	// Local state
	UsersFile string `validate:"required"`

	// Loading
	CacheTTL   time.Duration `validate:"gte=0"`
	MaxWorkers int           `validate:"gte=1,lte=64"`
	PageSize   int           `validate:"gte=1,lte=100"`

	// SFTP
	SFTPHost                  string
	SFTPPort                  int `validate:"gte=1,lte=65535"`
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
	SFTPKnownHostsFile        string
}

// LoadEnvFile merges a .env file into the process environment. Variables already set win.
// A missing file is not an error when optional is true.
func LoadEnvFile(path string, optional bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func Load() Config {
	return Config{
		// Canvas
		CanvasDomain:          strings.TrimSuffix(os.Getenv("CANVAS_DOMAIN"), "/"),
		CanvasProtocol:        getenv("CANVAS_PROTOCOL", "https"),
		CanvasAccessToken:     os.Getenv("CANVAS_ACCESS_TOKEN"),
		CanvasUserAgent:       getenv("CANVAS_USER_AGENT", "canvas-syllabus"),
		CanvasMobileVerifyURL: getenv("CANVAS_MOBILE_VERIFY_URL", DefaultMobileVerifyURL),

		UsersFile: getenv("SYLLABUS_USERS_FILE", defaultUsersFile()),

		CacheTTL:   time.Duration(getenvInt("SYLLABUS_CACHE_TTL_SECONDS", 300)) * time.Second,
		MaxWorkers: getenvInt("SYLLABUS_MAX_WORKERS", 4),
		PageSize:   getenvInt("SYLLABUS_PAGE_SIZE", 100),

		// SFTP
		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
		SFTPKnownHostsFile:        getenv("SFTP_KNOWN_HOSTS", defaultKnownHosts()),
	}
}

var validate = validator.New()

// Validate checks ranges and formats. It does not require credentials; commands that
// need them check for themselves.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// SFTPConfigured reports whether enough SFTP settings exist to attempt an upload.
func (c Config) SFTPConfigured() bool {
	return c.SFTPHost != "" && c.SFTPUser != "" && c.SFTPPass != ""
}

func defaultUsersFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".canvas-syllabus", "users.json")
	}
	return filepath.Join(home, ".canvas-syllabus", "users.json")
}

func defaultKnownHosts() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".ssh", "known_hosts")
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
