package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/najdeno/internal/api"
	"github.com/erazemk/najdeno/internal/config"
	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// Default admin credentials, created when no admin account exists. A known
// weakness kept for compatibility with existing deployments; change the
// password immediately after first login.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "password"
)

var rootCmd = &cobra.Command{
	Use:   "najdeno",
	Short: "Lost-and-found web service",
	Long: `Najdeno is a small lost-and-found web service: finders submit found
items with a photo, users claim them, and admins moderate both.`,
	SilenceUsage: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and the default admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if _, err := os.Stat(cfg.DBPath); err == nil {
			return fmt.Errorf("database file %s already exists", cfg.DBPath)
		}

		database, err := openDatabase(cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		fmt.Printf("Database created: %s\n", cfg.DBPath)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if cfg.JWTSecret == "" {
			secret, err := generateSecret()
			if err != nil {
				return fmt.Errorf("generating JWT secret: %w", err)
			}
			cfg.JWTSecret = secret
			slog.Warn("JWT secret auto-generated, tokens will be invalidated on restart")
		}

		database, err := openDatabase(cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		handler := api.LoggingMiddleware(api.NewRouter(database, cfg.JWTSecret, cfg.UploadsDir))

		fmt.Printf("Server listening on %s\n", cfg.Addr)
		return http.ListenAndServe(cfg.Addr, handler)
	},
}

// openDatabase opens the store, runs migrations, and makes sure an admin
// account exists. Everything happens before the server accepts traffic.
func openDatabase(path string) (*sql.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, err
	}

	if err := ensureDefaultAdmin(context.Background(), database); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}

func ensureDefaultAdmin(ctx context.Context, database *sql.DB) error {
	exists, err := store.AdminExists(ctx, database)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing default admin password: %w", err)
	}

	if _, err := store.CreateUser(ctx, database, defaultAdminUsername, "", string(hash), model.RoleAdmin); err != nil {
		return fmt.Errorf("creating default admin: %w", err)
	}

	slog.Warn("default admin account created, change its password",
		"username", defaultAdminUsername, "password", defaultAdminPassword)
	return nil
}

// generateSecret creates a random JWT signing key.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func main() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
