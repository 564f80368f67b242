package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	intconfig "github.com/PedidoBuscas/Buscas-sub000/internal/config"
	intdb "github.com/PedidoBuscas/Buscas-sub000/internal/db"
	router "github.com/PedidoBuscas/Buscas-sub000/internal/http"
	"github.com/PedidoBuscas/Buscas-sub000/internal/http/handlers"
	"github.com/PedidoBuscas/Buscas-sub000/internal/lifecycle"
	"github.com/PedidoBuscas/Buscas-sub000/internal/mailer"
	"github.com/PedidoBuscas/Buscas-sub000/internal/permission"
	"github.com/PedidoBuscas/Buscas-sub000/internal/repositories"
	"github.com/PedidoBuscas/Buscas-sub000/internal/services"
	"github.com/PedidoBuscas/Buscas-sub000/internal/session"
	"github.com/PedidoBuscas/Buscas-sub000/internal/storage"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	if env.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}

	db := intconfig.ConnectDB(env.DSN())
	defer intconfig.CloseDB()

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelBoot()
	if err := intdb.EnsureSchema(bootCtx, db); err != nil {
		logrus.Fatalf("failed to ensure schema: %v", err)
	}

	var files lifecycle.FileStore = storage.Unconfigured{}
	if env.MinioEndpoint != "" {
		store, err := storage.NewMinIOStore(bootCtx, storage.Config{
			Endpoint:  env.MinioEndpoint,
			AccessKey: env.MinioAccessKey,
			SecretKey: env.MinioSecretKey,
			Bucket:    env.MinioBucket,
			UseSSL:    env.MinioUseSSL,
			PublicURL: env.MinioPublicURL,
		})
		if err != nil {
			logrus.Fatalf("failed to init file store: %v", err)
		}
		files = store
	} else {
		logrus.Warn("MINIO_ENDPOINT not set, attachment uploads are disabled")
	}

	var mail mailer.Sender = mailer.NopMailer{}
	if env.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(mailer.Config{
			Host:     env.SMTPHost,
			Port:     env.SMTPPort,
			User:     env.SMTPUser,
			Password: env.SMTPPassword,
			From:     env.SMTPFrom,
		})
	} else {
		logrus.Warn("SMTP_HOST not set, e-mails are only logged")
	}

	var blacklist session.Blacklist = session.NewMemoryBlacklist()
	if env.RedisAddr != "" {
		rb, err := session.NewRedisBlacklist(bootCtx, env.RedisAddr, env.RedisPassword, env.RedisDB)
		if err != nil {
			logrus.Fatalf("failed to connect redis: %v", err)
		}
		defer rb.Close()
		blacklist = rb
	}

	requestRepo := repositories.RequestRepository{DB: db}
	roleRepo := repositories.RoleRepository{DB: db}
	userRepo := repositories.UserRepository{DB: db}
	resolver := permission.NewResolver(roleRepo)

	orchestrator := lifecycle.NewOrchestrator(requestRepo, files, mail, resolver, env.SuperAdminEmail)
	orchestrator.Users = userRepo

	auth := services.AuthService{
		Users:     userRepo,
		Blacklist: blacklist,
		Secret:    []byte(env.JWTSecret),
		TTL:       env.JWTTTL,
	}
	app := &handlers.App{
		Auth:            auth,
		Requests:        services.RequestService{Requests: requestRepo, Permissions: resolver},
		Reports:         services.ReportService{Searches: requestRepo, Consultants: roleRepo, Pages: resolver},
		Lifecycle:       orchestrator,
		Permissions:     resolver,
		SecureCookie:    env.GinMode == gin.ReleaseMode,
		SuperAdminEmail: env.SuperAdminEmail,
	}

	r := router.NewRouter(env, app)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.Infof("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("server shutdown failed: %v", err)
	}

	logrus.Info("server stopped")
}
