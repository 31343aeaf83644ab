package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/churchmanager/scheduler/internal/bootstrap"
	"github.com/churchmanager/scheduler/internal/config"
	"github.com/churchmanager/scheduler/internal/pkg/auth"
	"github.com/churchmanager/scheduler/internal/pkg/logger"
)

// Issues an admin API token signed with the configured JWT secret.
func main() {
	subject := flag.String("subject", "admin", "token subject, usually the operator name")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to jwt.access_token_expiration")
	configPath := flag.String("config", config.GetEnv(bootstrap.ConfigPathEnv, filepath.Join("configs", "config.yaml")), "config file")
	flag.Parse()

	// stdout carries only the token
	logger.Configure(logger.Config{Level: "info", Pretty: true, Output: os.Stderr})

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
		os.Exit(1)
	}

	exp := *ttl
	if exp <= 0 {
		exp = config.Duration(cfg.JWT.AccessTokenExpiration, time.Hour)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: exp,
		TokenIssuer:    cfg.JWT.Issuer,
	})

	token, expiresAt, err := jwtService.GenerateToken(*subject, auth.RoleAdmin)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to sign token")
		os.Exit(1)
	}

	logger.Info().Str("subject", *subject).Time("expiresAt", expiresAt).Msg("Admin token issued")
	fmt.Println(token)
}
