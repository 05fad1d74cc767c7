package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"procdiff/core/loader"
	"procdiff/core/logger"
	"procdiff/core/middleware/auth"
	"procdiff/core/middleware/rayid"
	"procdiff/core/report"
	"procdiff/core/source"
	"procdiff/feature/compare"
	"procdiff/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the comparison server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap()
		if err != nil {
			return err
		}
		logg := e.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		format, err := report.ParseFormat(e.cfg.Compare.Format)
		if err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             e.cfg.Server.BodyLimit(),
		})

		svc := compare.NewService(
			source.NewOpener(e.store, e.db),
			report.NewPublisher(e.store),
			compare.Options{
				Schema: e.schema,
				Rules:  e.cfg.Compare.Rules,
				Output: e.cfg.Compare.Output,
				Format: format,
				Prefix: e.cfg.Compare.ReportPrefix,
			},
			logg,
		)

		mgr := loader.NewManager()
		mgr.Register(compare.NewFeature(svc))
		mgr.Register(integrity.NewFeature(e.store, e.cfg.Storage.Bucket, logg, e.db, e.schema))

		// RayID first so every later log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: e.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", e.cfg.Server.Port))
			errCh <- app.Listen(e.cfg.Server.Address())
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-quit:
		}

		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
