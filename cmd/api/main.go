package main

import (
	"strconv"

	"course-academy/internal/auth"
	"course-academy/internal/cart"
	"course-academy/internal/database"
	"course-academy/internal/notifications"
	"course-academy/internal/payments"
	"course-academy/internal/storage"
	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sendgrid/sendgrid-go"
	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
)

func main() {
	log.Println("starting course academy server")

	_ = godotenv.Load()

	cfg, err := ReadConfig()
	if err != nil {
		log.Fatalf("reading config: %v", err)
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		log.Fatalf("converting port to integer: %v", err)
	}

	db, err := database.NewClient(cfg.DBCon)
	if err != nil {
		log.Fatalf("creating database client: %v", err)
	}
	defer db.Close()

	carts, err := cart.NewFileStore(cfg.CartDir)
	if err != nil {
		log.Fatalf("creating cart store: %v", err)
	}

	files, err := storage.NewFileStorage(cfg.StorageDir, cfg.PublicURL)
	if err != nil {
		log.Fatalf("creating file storage: %v", err)
	}

	var notifier auth.Notifier
	if cfg.SendgridKey != "" {
		notifier = notifications.NewSender(sendgrid.NewSendClient(cfg.SendgridKey))
	}

	stripe.Key = cfg.StripeKey
	paylink := payments.NewLinkCreator(cfg.PaySuccessURL, cfg.PayCancelURL)

	var nrApp *newrelic.Application
	if cfg.NewRelicKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName("course-academy"),
			newrelic.ConfigLicense(cfg.NewRelicKey),
		)
		if err != nil {
			log.Fatalf("creating newrelic application: %v", err)
		}
	}

	sessions := auth.NewService(db, cfg.JWTKey, notifier, cfg.ConfirmEmail)

	server := NewServer(port, db, sessions, carts, files, paylink, nrApp, cfg.AllowedOrigins)

	log.Fatal(server.Run())
}
