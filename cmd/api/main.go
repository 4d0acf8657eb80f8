package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	redisCache "github.com/aniladanir/waitlist-sms-service/internal/cache/redis"
	"github.com/aniladanir/waitlist-sms-service/internal/domain"
	"github.com/aniladanir/waitlist-sms-service/internal/generation"
	httpHandler "github.com/aniladanir/waitlist-sms-service/internal/handler/http"
	"github.com/aniladanir/waitlist-sms-service/internal/persistant/postgresql"
	"github.com/aniladanir/waitlist-sms-service/internal/ratelimit"
	signupRepo "github.com/aniladanir/waitlist-sms-service/internal/repository/signup"
	"github.com/aniladanir/waitlist-sms-service/internal/service"
	"github.com/aniladanir/waitlist-sms-service/internal/sms"
	"github.com/twilio/twilio-go/client"
	"gorm.io/gorm"
)

var (
	configFile = flag.String("config", "config.json", "config file path")
	envFile    = flag.String("env", ".env", "optional dotenv file with secrets")
)

func main() {
	// create root context
	appCtx, appCtxCancel := context.WithCancel(context.Background())
	defer appCtxCancel()

	// listen for terminate signal
	notifyCtx, stop := signal.NotifyContext(appCtx, syscall.SIGTERM, os.Interrupt)
	defer stop()

	// parse flags
	flag.Parse()

	// parse config
	config, err := ReadConfigJson(*configFile)
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}
	secrets, err := LoadSecrets(*envFile)
	if err != nil {
		log.Fatalf("failed to load secrets: %v", err)
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// initialize external dependencies
	db, rCache, err := initExternalDependencies(notifyCtx, config)
	if err != nil {
		log.Fatalf("failed to initialize external dependencies: %v", err)
	}

	// init signup repository, persistence is optional
	var repo signupRepo.Repository
	if db != nil {
		if rCache != nil {
			repo = signupRepo.NewSignupRepository(db, rCache)
		} else {
			repo = signupRepo.NewSignupRepository(db, nil)
		}
	} else {
		logger.Warn("no database configured, signups will not be persisted")
	}

	// init outbound sequence sender
	policy := service.DefaultPolicy()
	policy.MaxRetries = *config.SmsMaxRetry
	policy.Delay = config.SmsRetryDelay
	sequence := service.NewSequenceSender(
		sms.NewTwilioSender(secrets.TwilioAccountSID, secrets.TwilioAuthToken),
		config.SenderID,
		policy,
		config.SmsPacingDelay,
		service.Sleep,
		logger.With(slog.String("component", "sequenceSender")),
	)

	signups := service.NewSignupService(
		repo,
		sequence,
		service.SignupConfig{MinFillDuration: config.MinFillDuration},
		logger.With(slog.String("component", "signup")),
	)

	// init reply resolver
	var generator generation.Generator
	if secrets.OpenAIAPIKey != "" {
		generator = generation.NewOpenAIGenerator(secrets.OpenAIAPIKey, config.OpenAIModel)
	} else {
		logger.Warn("no openai api key configured, unknown trades get the fallback reply")
	}
	replies := service.NewReplyResolver(generator, logger.With(slog.String("component", "replyResolver")))

	// init http handler
	opts := httpHandler.Options{
		PublicBaseURL: config.PublicBaseURL,
		StaticDir:     config.StaticDir,
		Logger:        logger.With(slog.String("component", "http")),
	}
	if rCache != nil {
		opts.Limiter = ratelimit.NewLimiter(rCache, "signup", config.RateLimitWindow, config.RateLimitMax)
	}
	if config.ValidateWebhook {
		validator := client.NewRequestValidator(secrets.TwilioAuthToken)
		opts.WebhookValidator = &validator
	}
	httpHandler := httpHandler.NewHttpHandler(
		fmt.Sprintf(":%d", config.HttpPort),
		signups,
		replies,
		opts,
	)

	wg := sync.WaitGroup{}
	// run http handler
	wg.Go(func() {
		logger.Info("http server listening", "port", config.HttpPort)
		if err := httpHandler.Run(); err != nil {
			logger.Error("http server encountered with an error and closed", "error", err.Error())
		}
		// cancel app context if http handler fails
		appCtxCancel()
	})

	// graceful shutdown
	wg.Go(func() {
		<-notifyCtx.Done()
		logger.Info("application shutting down...")

		shutDownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		httpHandler.Shutdown(shutDownCtx)
		if db != nil {
			postgresql.Close(db)
		}
		if rCache != nil {
			rCache.Close()
		}
	})

	wg.Wait()
	os.Exit(0)
}

func initExternalDependencies(ctx context.Context, config *Config) (db *gorm.DB, rCache *redisCache.RedisCache, err error) {
	// initialize database
	if config.DbConnString != "" {
		db, err = postgresql.Initialize(ctx, config.DbConnString, []any{&domain.Signup{}, &domain.Delivery{}})
		if err != nil {
			return
		}
	}

	// initialize cache
	if config.RedisAddr != "" {
		rCache, err = redisCache.NewRedisCache(ctx, config.RedisAddr)
	}

	return
}
