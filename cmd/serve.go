package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/logger"
	"github.com/pable/go-statcast-diagnosis/internal/metrics"
	"github.com/pable/go-statcast-diagnosis/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diagnosis, recap and strategy HTTP API",
	Long: `Start the JSON API on server.addr (default :8080). Narrative endpoints
answer 503 when no LLM key is configured. Prometheus metrics are exposed on
/metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m := metrics.NewManager()
	svc, err := newService(db, m, false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(cfg, svc, m, logger.Named("server")).Run(ctx)
}
