package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"docstash/internal/blobstore"
	"docstash/internal/config"
	"docstash/internal/server"
	"docstash/internal/store"
	"docstash/internal/token"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the docstash API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}
			if cfg.Session.Secret == "" {
				return fmt.Errorf("session secret is required (set session.secret or DOCSTASH_SESSION_SECRET)")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			issuer, err := token.NewIssuer(cfg.Session.Secret, time.Duration(cfg.Session.TTLDays)*24*time.Hour)
			if err != nil {
				return err
			}

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			blobs, err := blobstore.NewLocalStore(cfg.StorageRoot)
			if err != nil {
				return err
			}

			srv := server.New(addr, st, blobs, issuer, logger)
			srv.Configure(server.Options{
				MaxUploadBytes:     cfg.Upload.MaxUploadBytes,
				MultipartMaxMemory: cfg.Upload.MultipartMaxMemory,
			})
			return srv.ListenAndServe()
		},
	}
}
