package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/gorilla/mux"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"spotted/pkg/ad"
	"spotted/pkg/comment"
	"spotted/pkg/common"
	"spotted/pkg/config"
	"spotted/pkg/events"
	"spotted/pkg/logger"
	"spotted/pkg/middleware"
	"spotted/pkg/poll"
	"spotted/pkg/post"
	"spotted/pkg/report"
	"spotted/pkg/sessions"
	"spotted/pkg/user"
	"spotted/pkg/user/api"
	"spotted/pkg/voting"
)

type eventPublisher interface {
	post.IEventPublisher
	report.IHiddenPublisher
}

func main() {
	envFile := flag.String("env", ".env", "dotenv file with settings")
	seedOnly := flag.Bool("seed", false, "fill the databases with fake content and exit")
	flag.Parse()

	cfg := config.Load(*envFile)
	zl := logger.Run(cfg.LogLevel)
	defer zl.Sync()

	db, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("main: unable to open PostgreSQL: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("main: unable to reach PostgreSQL: %v", err)
	}

	redisPool := &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.DialURL(cfg.RedisAddr)
		},
	}
	defer redisPool.Close()

	mongoCtx, mongoCtxCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer mongoCtxCancel()
	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalln("main: can't connect to MongoDB,", err)
	}
	if err := mongoClient.Ping(mongoCtx, nil); err != nil {
		log.Fatalln("main: unable to connect to MongoDB,", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			zap.S().Errorf("main: failed disconnecting from MongoDB: %v", err)
		}
	}()

	var publisher eventPublisher = events.Nop{}
	nc, err := nats.Connect(cfg.NatsURL, nats.Name("spotted-api"))
	if err != nil {
		zap.S().Warnf("main: NATS unavailable, events are dropped: %v", err)
	} else {
		defer nc.Drain()
		publisher = events.NewNatsPublisher(nc, middleware.RequestId)
	}

	adsRepo := ad.NewAdRepo(mongoClient.Database(cfg.MongoDB).Collection("ads"))
	usersRepo := user.NewUserRepo(db)
	pollsRepo := poll.NewPollRepo(db)
	postsRepo := post.NewPostRepo(db, pollsRepo)
	votesRepo := voting.NewVoteRepo(db)
	commentsRepo := comment.NewCommentRepo(db)
	reportsRepo := report.NewReportRepo(db, cfg.ReportHideThreshold)

	if *seedOnly {
		if err := seed(context.Background(), usersRepo, postsRepo, votesRepo, commentsRepo, adsRepo, cfg); err != nil {
			log.Fatalln("main: seeding failed:", err)
		}
		zap.S().Info("seed: done")
		return
	}

	sessionManager := sessions.NewSessionManager(cfg.SecretKey, redisPool)
	otpStore := sessions.NewOTPStore(redisPool, cfg.OTPTTL, cfg.OTPDevCode)

	postHandler := post.NewPostHandler(postsRepo, votesRepo, commentsRepo, adsRepo, publisher, post.Options{
		GridMeters:      cfg.LocationGridMeters,
		PageSize:        cfg.FeedPageSize,
		CommentPageSize: cfg.CommentPageSize,
		TTL:             cfg.PostTTL,
		AdCity:          cfg.DefaultAdCity,
		SponsorEvery:    cfg.SponsorEvery,
	})
	userHandler := api.NewUserHandler(usersRepo, sessionManager, otpStore, api.LogSender{})
	pollHandler := poll.NewPollHandler(pollsRepo)
	reportHandler := report.NewReportHandler(reportsRepo, publisher)
	adHandler := ad.NewAdHandler(adsRepo, cfg.DefaultAdCity)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		common.WriteOK(w)
	}).Methods("GET")

	// Auth and profile
	r.HandleFunc("/auth/otp/request", userHandler.RequestOTP).Methods("POST")
	r.HandleFunc("/auth/otp/verify", userHandler.VerifyOTP).Methods("POST")
	r.HandleFunc("/profile", userHandler.UpdateProfile).Methods("POST")
	r.HandleFunc("/push/register", userHandler.RegisterPush).Methods("POST")

	// Feed and posts
	r.HandleFunc("/feed", postHandler.Feed).Methods("GET")
	r.HandleFunc("/posts", postHandler.Add).Methods("POST")
	r.HandleFunc("/posts/{post_id}", postHandler.Get).Methods("GET")
	r.HandleFunc("/posts/{post_id}/comments", postHandler.AddComment).Methods("POST")
	r.HandleFunc("/posts/{post_id}/vote", postHandler.Vote).Methods("POST")
	r.HandleFunc("/posts/{post_id}/vote", postHandler.Unvote).Methods("DELETE")

	// Moderation and polls
	r.HandleFunc("/reports", reportHandler.Add).Methods("POST")
	r.HandleFunc("/polls/{poll_id}", pollHandler.Get).Methods("GET")
	r.HandleFunc("/polls/{poll_id}/vote", pollHandler.Vote).Methods("POST")

	// Ads
	r.HandleFunc("/ads/next", adHandler.Next).Methods("GET")
	r.HandleFunc("/ads", adHandler.List).Methods("GET")
	r.HandleFunc("/ads", adHandler.Add).Methods("POST")
	r.HandleFunc("/ads/{ad_id}", adHandler.Update).Methods("PATCH")

	logMiddleware := middleware.NewLoggingMiddleware(zl)
	r.Use(logMiddleware.SetupTracing)
	r.Use(logMiddleware.SetupLogging)
	r.Use(logMiddleware.AccessLog)

	auth := middleware.NewAuthMiddleware(sessionManager, usersRepo, cfg.AllowAnon)
	r.Use(auth.Middleware)

	limiter := middleware.NewRateLimit(redisPool, cfg.RateLimitMax, cfg.RateLimitWindow)
	r.Use(limiter.Middleware)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zap.S().Infof("serving at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("main: server failed: %v", err)
		}
	}()

	<-ctx.Done()
	zap.S().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorf("main: graceful shutdown failed: %v", err)
	}
}
