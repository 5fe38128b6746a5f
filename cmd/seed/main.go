// Command seed resets the catalog and the users collection to a known state:
// one admin, one regular user and a handful of products owned by the admin.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/99minutos/catalog-system/internal/core/domain"
	"github.com/99minutos/catalog-system/internal/core/ports"
	"github.com/99minutos/catalog-system/internal/core/service"
	mongostore "github.com/99minutos/catalog-system/internal/infrastructure/db/mongo"
	"github.com/99minutos/catalog-system/internal/infrastructure/db/postgres"
	"github.com/99minutos/catalog-system/internal/pkg/config"
	"github.com/99minutos/catalog-system/pkg/logger"
)

type seedOptions struct {
	adminEmail    string
	adminPassword string
	skipUsers     bool
}

var seedProducts = []ports.CreateProductInput{
	{
		Title:  "Men's Chill Crew Neck Sweatshirt",
		Price:  75,
		Stock:  7,
		Sizes:  []string{"XS", "S", "M", "L", "XL", "XXL"},
		Gender: "men",
		Tags:   []string{"sweatshirt"},
		Images: []string{"1740176-00-A_0_2000.jpg", "1740176-00-A_1.jpg"},
	},
	{
		Title:  "T-Shirt Teslo",
		Price:  25,
		Stock:  12,
		Sizes:  []string{"S", "M", "L"},
		Gender: "unisex",
		Tags:   []string{"shirt"},
		Images: []string{"teslo-front.jpg", "teslo-back.jpg"},
	},
	{
		Title:  "Kids Cybertruck Hoodie",
		Price:  65,
		Stock:  10,
		Sizes:  []string{"XS", "S", "M"},
		Gender: "kid",
		Tags:   []string{"hoodie"},
		Images: []string{"1742702-00-A_0_2000.jpg"},
	},
	{
		Title:  "Women's Raven Slouchy Crew",
		Price:  110,
		Stock:  4,
		Sizes:  []string{"S", "M", "L"},
		Gender: "women",
		Tags:   []string{"sweatshirt", "crew"},
		Images: []string{},
	},
}

func main() {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset the catalog and the user accounts to a known state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&opts.adminEmail, "admin-email", envOr("SEED_ADMIN_EMAIL", "admin@catalog.local"), "email of the seeded admin")
	cmd.Flags().StringVar(&opts.adminPassword, "admin-password", envOr("SEED_ADMIN_PASSWORD", "Abc123"), "password of the seeded admin")
	cmd.Flags().BoolVar(&opts.skipUsers, "skip-users", false, "keep existing accounts; seeded products are owned by --admin-email")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts seedOptions) error {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "catalog-seed"})

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.Postgres.URL, postgres.Options{MaxOpenConns: 4})
	if err != nil {
		return fmt.Errorf("postgres unavailable: %w", err)
	}
	defer db.Close()

	mongoClient, mongoDB, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "catalog-seed"})
	if err != nil {
		return fmt.Errorf("mongodb unavailable: %w", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	authRepo := mongostore.NewAuthRepository(mongoDB)
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	products := service.NewProductService(postgres.NewProductStore(db), nil, nil, log)
	auth := service.NewAuthService(authRepo, cfg.JWTSecret, cfg.TokenTTL)

	removed, err := products.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("empty catalog: %w", err)
	}
	log.Info().Int64("products", removed).Msg("catalog emptied")

	var owner *domain.Identity
	if opts.skipUsers {
		admin, err := authRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(opts.adminEmail)))
		if err != nil {
			return fmt.Errorf("find admin %s: %w", opts.adminEmail, err)
		}
		owner = admin.Identity()
	} else {
		users, err := authRepo.DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("empty users: %w", err)
		}
		log.Info().Int64("users", users).Msg("users removed")

		accounts := []struct {
			in    ports.RegisterInput
			roles []domain.Role
		}{
			{ports.RegisterInput{Email: opts.adminEmail, Password: opts.adminPassword, FullName: "Catalog Admin"}, []domain.Role{domain.RoleAdmin, domain.RoleUser}},
			{ports.RegisterInput{Email: "user@catalog.local", Password: "Abc123", FullName: "Regular User"}, []domain.Role{domain.RoleUser}},
		}
		for _, a := range accounts {
			res, err := auth.Provision(ctx, a.in, a.roles)
			if err != nil {
				return fmt.Errorf("create user %s: %w", a.in.Email, err)
			}
			if owner == nil {
				owner = res.User.Identity()
			}
			log.Info().Str("email", res.User.Email).Strs("roles", domain.RoleNames(res.User.Roles)).Msg("user created")
		}
	}

	for _, in := range seedProducts {
		view, err := products.Create(ctx, in, owner)
		if err != nil {
			return fmt.Errorf("create product %q: %w", in.Title, err)
		}
		log.Info().Str("slug", view.Slug).Int("images", len(view.Images)).Msg("product created")
	}

	log.Info().Int("products", len(seedProducts)).Msg("seed executed")
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
