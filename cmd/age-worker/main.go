// The age-worker consumes transaction events from the message broker
// and applies them to the engine. It shares the database with the API
// process, only the delivery channel differs.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/moneyage/backend/internal/amqp"
	"github.com/moneyage/backend/internal/config"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/moneyage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if ok && logFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("MONEYAGE_CONFIG"))
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	err = os.MkdirAll(filepath.Dir(cfg.Database.Path), os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	err = models.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	moneyage.WatermarkFloorDays = cfg.Recalculation.WatermarkFloorDays

	client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = client.ConsumeEvents(ctx, func(msg amqp.EventMessage) error {
		return moneyage.HandleEvent(models.DB, msg.Event)
	})
	if err != nil && ctx.Err() == nil {
		log.Fatal().Msg(err.Error())
	}

	log.Info().Msg("worker shutdown complete")
}
