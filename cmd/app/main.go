package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"maxelo/attendance/foundation/web"
	"maxelo/attendance/internal/auth"
	"maxelo/attendance/internal/commands"
	"maxelo/attendance/internal/pkg/config"
	"maxelo/attendance/internal/pkg/logger"
	"maxelo/attendance/internal/pkg/repository/postgresql"
	"maxelo/attendance/internal/router"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run() error {
	var flags struct {
		ConfigFile string `conf:"default:config.yaml,help:path to the yaml config file"`
	}

	if err := conf.Parse(os.Args[1:], "ATTENDANCE", &flags); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, err := conf.Usage("ATTENDANCE", &flags)
			if err != nil {
				return errors.Wrap(err, "generating usage")
			}
			fmt.Println(usage)
			return commands.ErrHelp
		}
		return errors.Wrap(err, "parsing flags")
	}

	cfg, err := config.NewConfig(flags.ConfigFile)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	log := logger.New(cfg.Environment)

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return errors.Wrapf(err, "loading time zone %q", cfg.TimeZone)
	}

	postgresDB := postgresql.NewDatabase(cfg)
	defer postgresDB.Close()

	if err := postgresDB.Ping(); err != nil {
		return errors.Wrap(err, "connecting to postgres")
	}

	commands.MigrateUP(postgresDB)

	redisDB := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisDB.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "connecting to redis")
	}

	a := auth.New(cfg.JWTKey, auth.NewRedisStore(redisDB))

	app := web.NewApp()

	log.Info().Str("port", cfg.ServerPort).Str("time_zone", cfg.TimeZone).Msg("starting server")

	return router.NewRouter(app, postgresDB, redisDB, cfg.ServerPort, a, loc, log).Init()
}
