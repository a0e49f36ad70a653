package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recipebox/recipebox-api/internal/config"
	"github.com/recipebox/recipebox-api/internal/crypto"
	"github.com/recipebox/recipebox-api/internal/model"
	"github.com/recipebox/recipebox-api/internal/repository"
	"github.com/recipebox/recipebox-api/internal/service"
	"github.com/recipebox/recipebox-api/internal/validation"
)

const generatedPasswordLength = 20

func newAuthService(cfg config.Config, db *sql.DB) *service.AuthService {
	return service.NewAuthService(
		repository.NewUserRepository(db),
		crypto.NewHasher(crypto.DefaultHashParams()),
		crypto.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry),
		validation.New(),
		nil,
	)
}

// recipectl createsuperuser --email admin@example.com [--password ...] [--name ...]
func newCreateSuperuserCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an active staff account with superuser rights",
		RunE: func(cmd *cobra.Command, args []string) error {
			generated := password == ""
			if generated {
				var err error
				if password, err = crypto.GeneratePassword(generatedPasswordLength); err != nil {
					return err
				}
			}

			cfg, db, err := bootDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := newAuthService(cfg, db).CreateSuperuser(cmd.Context(), model.CreateUserRequest{
				Email:    email,
				Password: password,
				Name:     name,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "superuser %s created\n", user.Email)
			if generated {
				fmt.Fprintf(out, "generated password: %s\n", password)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password; generated when omitted")
	cmd.Flags().StringVar(&name, "name", "", "display name; defaults to the email")
	cmd.MarkFlagRequired("email")
	return cmd
}

// recipectl set-active --email user@example.com --active=false
func newSetActiveCmd() *cobra.Command {
	var email string
	var active bool

	cmd := &cobra.Command{
		Use:   "set-active",
		Short: "Enable or disable an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := newAuthService(cfg, db).SetActive(cmd.Context(), email, active); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s active=%t\n", service.NormalizeEmail(email), active)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().BoolVar(&active, "active", true, "whether the account may log in")
	cmd.MarkFlagRequired("email")
	return cmd
}
