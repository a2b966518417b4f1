package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/pable/go-statcast-diagnosis/internal/config"
)

var configEnvVars = []string{
	"STATDIAG_CONFIG",
	"STATDIAG_DB_PATH",
	"STATDIAG_LOG__LEVEL",
	"STATDIAG_LLM__PROVIDER",
	"STATDIAG_LLM__MODEL",
	"STATDIAG_LLM__API_KEY",
	"STATDIAG_LLM__BASE_URL",
	"STATDIAG_STATCAST__TIMEOUT",
	"STATDIAG_SERVER__ADDR",
	"ANTHROPIC_API_KEY",
	"OPENAI_API_KEY",
}

func clearConfigEnvVars(t *testing.T) {
	for _, k := range configEnvVars {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statdiag.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars(t)

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then the defaults are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LLM.Provider, convey.ShouldEqual, config.ProviderAnthropic)
				convey.So(cfg.LLM.Model, convey.ShouldBeEmpty)
				convey.So(cfg.LLM.BaseURL, convey.ShouldBeEmpty)
				convey.So(cfg.LLM.Temperature, convey.ShouldEqual, 0.7)
				convey.So(cfg.LLM.MaxTokens, convey.ShouldEqual, 6000)
				convey.So(cfg.Statcast.Timeout, convey.ShouldEqual, 30*time.Second)
				convey.So(cfg.Statcast.HistoryDays, convey.ShouldEqual, 20)
				convey.So(cfg.Server.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SeasonLabels(), convey.ShouldResemble, []string{"2024", "2023", "2022", "2021", "2020"})
			})
		})

		convey.Convey("When environment variables are set", func() {
			t.Setenv("STATDIAG_DB_PATH", "/tmp/x.db")
			t.Setenv("STATDIAG_LLM__MODEL", "claude-haiku-4-5")
			t.Setenv("STATDIAG_LLM__BASE_URL", "http://localhost:4000")
			t.Setenv("STATDIAG_STATCAST__TIMEOUT", "5s")
			t.Setenv("STATDIAG_SERVER__ADDR", ":9999")
			t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

			cfg, err := config.Load("")

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/x.db")
				convey.So(cfg.LLM.Model, convey.ShouldEqual, "claude-haiku-4-5")
				convey.So(cfg.LLM.BaseURL, convey.ShouldEqual, "http://localhost:4000")
				convey.So(cfg.Statcast.Timeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.Server.Addr, convey.ShouldEqual, ":9999")
				convey.So(cfg.LLM.APIKey, convey.ShouldEqual, "sk-ant-test")
			})
		})

		convey.Convey("When loading a YAML file", func() {
			path := writeConfig(t, `
db_path: /data/statcast.db
log:
  level: debug
  format: json
llm:
  provider: openai
  model: gpt-4o-mini
  temperature: 0.2
seasons:
  "2025":
    start: "2025-03-27"
    end: "2025-09-28"
`)
			t.Setenv("OPENAI_API_KEY", "sk-openai")
			t.Setenv("STATDIAG_LOG__LEVEL", "warn")

			cfg, err := config.Load(path)

			convey.Convey("Then file values apply and env still wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBPath, convey.ShouldEqual, "/data/statcast.db")
				convey.So(cfg.Log.Level, convey.ShouldEqual, "warn")
				convey.So(cfg.Log.Format, convey.ShouldEqual, "json")
				convey.So(cfg.LLM.Provider, convey.ShouldEqual, config.ProviderOpenAI)
				convey.So(cfg.LLM.APIKey, convey.ShouldEqual, "sk-openai")
				convey.So(cfg.LLM.MaxTokens, convey.ShouldEqual, 6000)

				s, err := cfg.SeasonRange("2025")
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.Start, convey.ShouldEqual, "2025-03-27")
			})
		})

		convey.Convey("When the config path comes from STATDIAG_CONFIG", func() {
			path := writeConfig(t, "server:\n  addr: \":7000\"\n")
			t.Setenv("STATDIAG_CONFIG", path)

			cfg, err := config.Load("")

			convey.Convey("Then the file is read", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Server.Addr, convey.ShouldEqual, ":7000")
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value is invalid", func() {
			t.Setenv("STATDIAG_LLM__PROVIDER", "gemini")

			_, err := config.Load("")

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
