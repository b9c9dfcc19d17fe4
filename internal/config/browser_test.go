package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoadBrowserConfig(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]string
		wantErr error
		check   func(t *testing.T, cfg *BrowserConfig)
	}{
		{
			name:   "defaults",
			values: map[string]string{"DOWNLOAD_DIR": "/tmp/dl"},
			check: func(t *testing.T, cfg *BrowserConfig) {
				if cfg.Name != BrowserChrome {
					t.Errorf("Expected browser %s, got %s", BrowserChrome, cfg.Name)
				}
				if cfg.Backend != BackendPlaywright {
					t.Errorf("Expected backend %s, got %s", BackendPlaywright, cfg.Backend)
				}
				if !cfg.Headless {
					t.Error("Expected headless by default")
				}
				if cfg.ImplicitWait != 5*time.Second {
					t.Errorf("Expected implicit wait 5s, got %v", cfg.ImplicitWait)
				}
				if cfg.PageLoadTimeout != 30*time.Second {
					t.Errorf("Expected page load timeout 30s, got %v", cfg.PageLoadTimeout)
				}
				if len(cfg.BlockedDomains) != len(DefaultBlockedDomains) {
					t.Errorf("Expected %d blocked domains, got %d", len(DefaultBlockedDomains), len(cfg.BlockedDomains))
				}
				if cfg.DownloadDir != "/tmp/dl" {
					t.Errorf("Expected download dir /tmp/dl, got %s", cfg.DownloadDir)
				}
			},
		},
		{
			name:   "browser name is case insensitive",
			values: map[string]string{"BROWSER": "Firefox"},
			check: func(t *testing.T, cfg *BrowserConfig) {
				if cfg.Name != BrowserFirefox {
					t.Errorf("Expected browser %s, got %s", BrowserFirefox, cfg.Name)
				}
			},
		},
		{
			name:    "unsupported browser",
			values:  map[string]string{"BROWSER": "safari"},
			wantErr: ErrUnsupportedBrowser,
		},
		{
			name:    "unsupported backend",
			values:  map[string]string{"BROWSER_BACKEND": "puppeteer"},
			wantErr: ErrUnsupportedBackend,
		},
		{
			name:    "webdriver requires endpoint",
			values:  map[string]string{"BROWSER_BACKEND": "webdriver"},
			wantErr: ErrMissingKey,
		},
		{
			name: "webdriver with endpoint",
			values: map[string]string{
				"BROWSER_BACKEND": "webdriver",
				"WEBDRIVER_URL":   "http://localhost:4444/wd/hub",
				"BROWSER":         "edge",
			},
			check: func(t *testing.T, cfg *BrowserConfig) {
				if cfg.WebDriverURL != "http://localhost:4444/wd/hub" {
					t.Errorf("unexpected webdriver url %s", cfg.WebDriverURL)
				}
			},
		},
		{
			name:   "ad blocking disabled",
			values: map[string]string{"BLOCK_ADS": "false"},
			check: func(t *testing.T, cfg *BrowserConfig) {
				if len(cfg.BlockedDomains) != 0 {
					t.Errorf("Expected no blocked domains, got %v", cfg.BlockedDomains)
				}
			},
		},
		{
			name:    "invalid timeout",
			values:  map[string]string{"PAGE_LOAD_TIMEOUT": "forever"},
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadBrowserConfig(FromMap(tt.values))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadBrowserConfig() error = %v, want %v", err, tt.wantErr)
				}
				if cfg != nil {
					t.Error("Expected nil config when error occurs")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadBrowserConfig() unexpected error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestValidateBrowser(t *testing.T) {
	for _, name := range SupportedBrowsers() {
		if err := ValidateBrowser(name); err != nil {
			t.Errorf("ValidateBrowser(%s) unexpected error = %v", name, err)
		}
	}

	err := ValidateBrowser("safari")
	if !errors.Is(err, ErrUnsupportedBrowser) {
		t.Fatalf("ValidateBrowser(safari) error = %v, want ErrUnsupportedBrowser", err)
	}
	if !strings.Contains(err.Error(), "safari") {
		t.Errorf("expected error to name the browser, got %q", err.Error())
	}
}

func TestLoadServerConfig(t *testing.T) {
	if cfg := LoadServerConfig(FromMap(nil).Getenv); cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg := LoadServerConfig(FromMap(map[string]string{"PORT": "9090"}).Getenv); cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
}

func TestLoadPostgresConfig(t *testing.T) {
	full := map[string]string{
		"POSTGRES_USER":     "postgres",
		"POSTGRES_PASSWORD": "postgres",
		"POSTGRES_DB":       "shopflow",
		"POSTGRES_HOSTNAME": "localhost",
	}

	cfg, err := LoadPostgresConfig(FromMap(full).Getenv)
	if err != nil {
		t.Fatalf("LoadPostgresConfig() unexpected error = %v", err)
	}
	want := "host=localhost user=postgres password=postgres dbname=shopflow sslmode=disable"
	if got := cfg.ConnectionString(); got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}

	for key := range full {
		t.Run("missing "+key, func(t *testing.T) {
			partial := FromMap(full)
			m := map[string]string{}
			for k := range full {
				if k != key {
					m[k] = partial.GetOr(k, "")
				}
			}
			_, err := LoadPostgresConfig(FromMap(m).Getenv)
			if !errors.Is(err, ErrMissingKey) {
				t.Errorf("expected ErrMissingKey for %s, got %v", key, err)
			}
		})
	}

	if PostgresConfigured(FromMap(nil).Getenv) {
		t.Error("expected journal to be unconfigured without POSTGRES_HOSTNAME")
	}
}
