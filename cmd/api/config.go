package main

import (
	"errors"
	"fmt"
	"github.com/ardanlabs/conf"
)

type Config struct {
	Port           string `conf:"default:8080,env:PORT"`
	DBCon          string `conf:"default:user=ps_user password=ps_password dbname=academy sslmode=disable host=localhost,env:DB_CONN"`
	JWTKey         string `conf:"default:your_secret_key,env:JWT_KEY"`
	CartDir        string `conf:"default:./data/carts,env:CART_DIR"`
	StorageDir     string `conf:"default:./data/storage,env:STORAGE_DIR"`
	PublicURL      string `conf:"default:http://localhost:8080,env:PUBLIC_URL"`
	AllowedOrigins string `conf:"default:http://localhost:5173,env:ALLOWED_ORIGINS"`
	SendgridKey    string `conf:"env:SENDGRID_KEY"`
	ConfirmEmail   bool   `conf:"default:false,env:CONFIRM_EMAIL"`
	StripeKey      string `conf:"env:STRIPE_KEY"`
	PaySuccessURL  string `conf:"default:http://localhost:5173/payment-success,env:PAY_SUCCESS_URL"`
	PayCancelURL   string `conf:"default:http://localhost:5173/payment,env:PAY_CANCEL_URL"`
	NewRelicKey    string `conf:"env:NEW_RELIC_LICENSE_KEY"`
}

func ReadConfig() (*Config, error) {
	var cfg Config
	help, err := conf.ParseOSArgs("APP", &cfg)

	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}
