// Command seeduser creates or refreshes a back-office user, and optionally a
// cash register, so a fresh database can be used right away.
//
//	seeduser -email admin@stockpro.local -password 1234 -register "Main till"
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/sebassmtz/backend-stockpro/internal/config"
	"github.com/sebassmtz/backend-stockpro/internal/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	email := flag.String("email", "admin@stockpro.local", "user email (login)")
	username := flag.String("username", "", "username, defaults to the email local part")
	password := flag.String("password", "1234", "plain password")
	register := flag.String("register", "", "also create a cash register with this name")
	location := flag.String("location", "Front desk", "location of the seeded cash register")
	flag.Parse()

	if *username == "" {
		*username = strings.SplitN(*email, "@", 2)[0]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer infra.CloseDatabase(db)

	if cfg.RunMigrations {
		if err := infra.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("migrations")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	ctx := context.Background()
	result := db.WithContext(ctx).Exec(`
		INSERT INTO users (username, email, password, is_active)
		VALUES (?, ?, ?, true)
		ON CONFLICT (email) DO UPDATE
		SET password   = EXCLUDED.password,
		    username   = EXCLUDED.username,
		    is_active  = true,
		    updated_at = NOW()
	`, *username, *email, string(hash))
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("upsert user")
	}
	log.Info().Str("email", *email).Str("username", *username).Msg("user created/updated")

	if *register != "" {
		if err := db.WithContext(ctx).Exec(
			`INSERT INTO cash_registers (name, location) VALUES (?, ?)`, *register, *location,
		).Error; err != nil {
			log.Fatal().Err(err).Msg("insert cash register")
		}
		log.Info().Str("name", *register).Msg("cash register created")
	}
}
