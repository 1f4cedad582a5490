// Command seedadmin creates the root administrator or resets its password.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
	"go.uber.org/zap"

	"github.com/votaciones-campus/api/cmd/app"
	"github.com/votaciones-campus/api/internal/config"
	"github.com/votaciones-campus/api/internal/db"
	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/logger"
	"github.com/votaciones-campus/api/internal/repository"
	"github.com/votaciones-campus/api/internal/repository/dao"
	"github.com/votaciones-campus/api/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", app.ConfigPath, "path to the config file")
	numero := flag.String("numero", "root", "numero_colegiado of the administrator")
	name := flag.String("name", "Root", "full name used when the administrator is created")
	email := flag.String("email", "root@example.com", "email used when the administrator is created")
	password := flag.String("password", "", "new password (required)")
	flag.Parse()

	if *password == "" {
		flag.Usage()
		return fmt.Errorf("-password is required")
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("config.Load -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("logger.Init -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	postgresDB, err := db.OpenPostgres(conf.Postgres)
	if err != nil {
		return fmt.Errorf("db.OpenPostgres -> %w", err)
	}

	svc := service.NewAuthService(repository.NewUserRepository(dao.NewUserDAO(postgresDB)))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, created, err := svc.EnsureAdmin(ctx, domain.User{
		NumeroColegiado: *numero,
		NombreCompleto:  *name,
		Email:           *email,
		DPI:             "0000000000000",
		FechaNacimiento: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		Password:        *password,
	})
	if err != nil {
		return fmt.Errorf("svc.EnsureAdmin -> %w", err)
	}

	if created {
		zap.L().Info("administrator created", zap.Uint("id", admin.ID), zap.String("numero_colegiado", admin.NumeroColegiado))
	} else {
		zap.L().Info("administrator password reset", zap.Uint("id", admin.ID), zap.String("numero_colegiado", admin.NumeroColegiado))
	}

	return nil
}
