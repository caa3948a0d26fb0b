package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"google.golang.org/grpc"

	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/config"
	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/delivery"
	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/handler"
	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/mobile-onboarding/shared/auth"
	"github.com/vasapolrittideah/mobile-onboarding/shared/interceptor"
	"github.com/vasapolrittideah/mobile-onboarding/shared/logger"
	"github.com/vasapolrittideah/mobile-onboarding/shared/mailer"
	"github.com/vasapolrittideah/mobile-onboarding/shared/otprpc"
	"github.com/vasapolrittideah/mobile-onboarding/shared/utilities"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logger.New("auth-service", "info", "json")
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()
	db := mongoClient.Database(cfg.Mongo.Database)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	var codeDelivery usecase.CodeDelivery = delivery.NewLog(log)
	if cfg.OTP.DevInbox != "" {
		codeDelivery = delivery.NewInbox(mailer.NewMailer(log), cfg.OTP.DevInbox, log)
	}

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Audience, cfg.Token.Issuer, cfg.Token.AccessTokenSecret)

	otpUsecase := usecase.NewOTPUsecase(
		repository.NewChallengeRedisRepository(redisClient),
		repository.NewUserMongoRepository(ctx, log, db),
		repository.NewSessionMongoRepository(db),
		codeDelivery,
		jwtAuth,
		cfg,
		log,
	)

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(interceptor.NewJWTInterceptor(jwtAuth, []string{
			otprpc.RequestOTPMethod,
			otprpc.VerifyOTPMethod,
		})),
	)
	otprpc.RegisterOTPServiceServer(grpcServer, handler.NewAuthGRPCHandler(otpUsecase, log))
	healthServer := utilities.RegisterHealthServer(grpcServer, otprpc.ServiceName)

	addr := net.JoinHostPort(cfg.GRPCHost, strconv.Itoa(cfg.GRPCPort))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("failed to listen")
	}

	if cfg.ConsulAddr != "" {
		deregister, err := utilities.RegisterWithConsul(utilities.ServiceRegistration{
			ConsulAddr: cfg.ConsulAddr,
			Name:       cfg.ServiceName,
			ID:         fmt.Sprintf("%s-%s", cfg.ServiceName, uuid.NewString()),
			Host:       cfg.GRPCHost,
			Port:       cfg.GRPCPort,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to register with consul")
		}
		defer deregister()
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("auth service listening")
		serveErr <- grpcServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down auth service")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error().Err(err).Msg("grpc server stopped unexpectedly")
		}
	}

	healthServer.Shutdown()
	grpcServer.GracefulStop()
}
