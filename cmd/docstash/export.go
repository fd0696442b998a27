package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"docstash/internal/config"
	"docstash/internal/store"
)

// exportUser is the YAML projection of one account. Password hashes are
// deliberately left out of exports.
type exportUser struct {
	ID        int64            `yaml:"id"`
	Username  string           `yaml:"username"`
	Email     string           `yaml:"email"`
	Documents []exportDocument `yaml:"documents,omitempty"`
}

type exportDocument struct {
	ID        int64        `yaml:"id"`
	Name      string       `yaml:"name"`
	Type      string       `yaml:"type"`
	BlobPath  string       `yaml:"blob_path"`
	CreatedAt time.Time    `yaml:"created_at"`
	UpdatedAt time.Time    `yaml:"updated_at"`
	Notes     []exportNote `yaml:"notes,omitempty"`
}

type exportNote struct {
	ID        int64     `yaml:"id"`
	Name      string    `yaml:"name"`
	Content   string    `yaml:"content"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

func newExportCmd(cfg *config.Config) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export users, document metadata, and notes as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			snapshot, err := buildExportSnapshot(cmd.Context(), st)
			if err != nil {
				return err
			}

			w := os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			enc := yaml.NewEncoder(w)
			defer enc.Close()
			return enc.Encode(map[string][]exportUser{"users": snapshot})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func buildExportSnapshot(ctx context.Context, st *store.Store) ([]exportUser, error) {
	users, err := st.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]exportUser, 0, len(users))
	for _, user := range users {
		entry := exportUser{ID: user.ID, Username: user.Username, Email: user.Email}

		docs, err := st.ListDocumentsByOwner(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("list documents for %s: %w", user.Username, err)
		}
		for _, doc := range docs {
			docEntry := exportDocument{
				ID:        doc.ID,
				Name:      doc.Name,
				Type:      doc.Type,
				BlobPath:  doc.BlobPath,
				CreatedAt: doc.CreatedAt,
				UpdatedAt: doc.UpdatedAt,
			}
			notes, err := st.ListNotesByDocument(ctx, doc.ID)
			if err != nil {
				return nil, fmt.Errorf("list notes for %s: %w", doc.Name, err)
			}
			for _, note := range notes {
				docEntry.Notes = append(docEntry.Notes, exportNote{
					ID:        note.ID,
					Name:      note.Name,
					Content:   note.Content,
					CreatedAt: note.CreatedAt,
					UpdatedAt: note.UpdatedAt,
				})
			}
			entry.Documents = append(entry.Documents, docEntry)
		}

		out = append(out, entry)
	}
	return out, nil
}
