package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/TFMV/cigraph/ingest"
	"github.com/TFMV/cigraph/models"
	"github.com/TFMV/cigraph/server"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(root *rootOptions) *cobra.Command {
	var (
		dataFile string
		company  string
		port     int
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive graph over HTTP",
		Long: "Serve the graph page, the render endpoints and the /ws event socket.\n" +
			"With --watch the payload file is reloaded whenever it changes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("watch") {
				cfg.Watch = watch
			}
			path := firstNonEmpty(dataFile, cfg.DataFile)

			onSelect := func(n models.NodeData) {
				logger.Info("selection delivered", "id", n.ID, "name", n.Name, "label", n.Label)
			}
			srv := server.New(server.Config{
				Port:           cfg.Server.Port,
				AllowAll:       cfg.Server.AllowAllOrigins,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Background:     cfg.Canvas.Background,
			}, cfg.ViewOptions(logger, onSelect))

			payload, source, err := loadPayload(path, company)
			if err != nil {
				return err
			}
			srv.SetPayload(payload)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 2)
			if cfg.Watch && path != "" {
				w, err := ingest.NewWatcher(path, func(p *models.GraphPayload) { srv.SetPayload(p.Subgraph(company)) },
					ingest.WithLogger(logger),
					ingest.WithOnError(func(err error) {
						if errors.Is(err, ingest.ErrFileRemoved) {
							logger.Warn("payload file removed; keeping the current graph", "path", path)
						}
					}),
				)
				if err != nil {
					return err
				}
				go func() {
					if err := w.Run(ctx); err != nil {
						errCh <- err
					}
				}()
			}

			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "  %s http://localhost:%d %s\n",
				brand.Sprint("cigraph"), cfg.Server.Port, subtle.Sprintf("(%s)", source))

			var runErr error
			select {
			case <-ctx.Done():
				logger.Info("shutting down")
			case runErr = <-errCh:
				logger.Error("server stopped", "err", runErr)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "Payload file (json, yaml or csv); defaults to data_file or the demo graph")
	cmd.Flags().StringVar(&company, "company", "", "Keep only edges whose source or target name contains this (case-insensitive)")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the payload file on change")
	return cmd
}
