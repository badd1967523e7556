package restab

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	mw "github.com/restab/restab/pkg/httputil/middleware"
	"github.com/restab/restab/pkg/metrics"
	"github.com/restab/restab/pkg/pgx"
	"github.com/restab/restab/pkg/rest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Starts a REST API server that provides read-only access to PostgreSQL tables through HTTP endpoints`,
	Run:   runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringP("pg.connString", "c", "", "PostgreSQL connection string")
	f.Int32("pg.maxConns", 0, "Maximum pooled connections")
	f.StringP("server.listenAddr", "l", "", "HTTP listen address")
	f.Bool("metrics.enabled", false, "Expose Prometheus metrics")
	f.String("metrics.addr", "", "Prometheus metrics listen address")

	viper.BindPFlags(f)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	if cfg == nil {
		log.Fatal("configuration not loaded")
	}

	connString := resolveConnString(viper.GetString("pg.connString"), cfg.PG.ConnString, os.Getenv("DATABASE_URL"))
	if connString == "" {
		log.Fatal("PostgreSQL connection string required")
	}

	// flag overrides
	if listenAddr := viper.GetString("server.listenAddr"); listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}
	if maxConns := viper.GetInt32("pg.maxConns"); maxConns > 0 {
		cfg.PG.MaxConns = maxConns
	}
	if viper.GetBool("metrics.enabled") {
		cfg.Metrics.Enabled = true
	}
	if addr := viper.GetString("metrics.addr"); addr != "" {
		cfg.Metrics.Addr = addr
	}

	logger := newLogger(logLevel)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgx.NewPool(ctx, pgx.Config{
		ConnString:     connString,
		MaxConns:       cfg.PG.MaxConns,
		ConnectTimeout: cfg.PG.ConnectTimeout,
	})
	if err != nil {
		log.Fatalf("failed to create connection pool: %v", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	server := rest.NewServer(pool, &rest.ServerOptions{
		Logger:       logger,
		QueryTimeout: cfg.PG.QueryTimeout,
	})

	server.AddMiddleware(
		mw.RequestID,
		mw.CORSWithOptions(nil),
		metrics.Handler,
	)
	if logLevel != "none" {
		server.AddMiddleware(mw.LoggerWithOptions(&mw.LoggerOptions{Logger: logger}))
	}

	var wg sync.WaitGroup
	if cfg.Metrics.Enabled {
		metrics.StartPrometheusServer(ctx, &wg, &metrics.PromServerOpts{Addr: cfg.Metrics.Addr})
	}

	// Handle graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Start(cfg.Server.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-stop
	log.Println("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}
	wg.Wait()

	log.Println("server gracefully stopped")
}

// resolveConnString picks the connection string by precedence: the -c
// flag, then the config file, then the DATABASE_URL environment
// variable. Empty means none was supplied.
func resolveConnString(flag, file, env string) string {
	if flag != "" {
		return flag
	}
	if file != "" {
		return file
	}
	return env
}

func newLogger(level string) *zap.Logger {
	if level == "none" {
		return zap.NewNop()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	return logger
}
