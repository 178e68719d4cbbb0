package main

import (
	"context"
	"os"
	"time"

	"instshop/internal/config"
	"instshop/internal/domain/model"
	"instshop/internal/handler"
	"instshop/internal/infra/db"
	"instshop/internal/infra/dedup"
	"instshop/internal/infra/payment"
	"instshop/internal/infra/queue"
	infraRepo "instshop/internal/infra/repository"
	"instshop/internal/notification"
	"instshop/internal/server"
	"instshop/internal/usecase"
	auth "instshop/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"tv":   tokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	//DB接続
	gormDB, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.PasswordReset{},
		&model.Category{},
		&model.Item{},
		&model.ItemSize{},
		&model.ItemColor{},
		&model.InventoryRecord{},
		&model.Basket{},
		&model.BasketItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.DeliveryInfo{},
		&model.PostDepartment{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	resetRepo := infraRepo.NewPasswordResetGormRepository(gormDB)
	itemRepo := infraRepo.NewItemGormRepository(gormDB)
	optionRepo := infraRepo.NewItemOptionGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	basketRepo := infraRepo.NewBasketGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	deliveryRepo := infraRepo.NewDeliveryInfoGormRepository(gormDB)
	postDepRepo := infraRepo.NewPostDepartmentGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//外部サービスのアダプタ
	stripeGW := payment.NewStripeGateway(
		cfg.StripeSecretKey,
		cfg.StripeWebhookSecret,
		cfg.CheckoutSuccessURL,
		cfg.CheckoutCancelURL,
	)
	taskQueue := queue.NewKafkaTaskQueue(cfg.KafkaBrokers, cfg.NotificationsTopic)
	defer taskQueue.Close()
	taskSource := queue.NewKafkaTaskSource(cfg.KafkaBrokers, cfg.NotificationsTopic, "instshop-notifications")
	defer taskSource.Close()
	eventStore := dedup.NewRedisEventStore(cfg.RedisAddr, cfg.RedisPassword, 0)
	defer eventStore.Close()

	//通知の送信部品
	var alertSender notification.AlertSender = notification.NopAlertSender{}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		alertSender = notification.NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID, nil)
	}
	var emailSender notification.EmailSender = notification.NopEmailSender{}
	if cfg.SMTPHost != "" {
		emailSender = notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPassword)
	}

	dispatcher := notification.NewDispatcher(
		orderRepo, orderItemRepo, deliveryRepo, postDepRepo,
		emailSender, alertSender,
		cfg.FEURL+"/verify-email",
		cfg.FEURL+"/password-reset",
		logger,
	)
	worker := notification.NewWorker(taskSource, dispatcher, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := worker.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("notification worker stopped")
		}
	}()

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	//refresh TTL
	refreshTTL := 14 * 24 * time.Hour

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, idGen, clock, taskQueue, logger)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, refreshTTL)
	logoutUC := auth.NewLogoutUsecase(userRepo, rtRepo)
	verifyUC := auth.NewVerifyEmailUsecase(userRepo)
	resetRequestUC := auth.NewRequestPasswordResetUsecase(userRepo, resetRepo, idGen, clock, taskQueue, time.Hour, logger)
	resetConfirmUC := auth.NewConfirmPasswordResetUsecase(userRepo, resetRepo, rtRepo, hasher, clock)

	catalogUC := usecase.NewCatalogUsecase(itemRepo, categoryRepo, inventoryRepo, optionRepo)
	basketUC := usecase.NewBasketUsecase(txManager, basketRepo, basketRepo, itemRepo, optionRepo)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, deliveryRepo, postDepRepo, stripeGW)
	webhookUC := usecase.NewWebhookUsecase(orderRepo, orderItemRepo, basketRepo, basketRepo, inventoryRepo, eventStore, taskQueue, logger)

	//Handler生成
	itemH := handler.NewItemHandler(catalogUC)
	basketH := handler.NewBasketHandler(basketUC)
	orderH := handler.NewOrderHandler(orderUC)
	webhookH := handler.NewWebhookHandler(stripeGW, webhookUC)
	authH := handler.NewAuthHandler(
		registerUC, loginUC, logoutUC, verifyUC, resetRequestUC, resetConfirmUC,
		refreshTTL, cfg.GoEnv == "prod",
	)

	//Server起動
	e := server.New(logger)
	server.RegisterRoutes(e, cfg, userRepo, logger, server.Handlers{
		Item:    itemH,
		Basket:  basketH,
		Order:   orderH,
		Webhook: webhookH,
		Auth:    authH,
	})

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	logger.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
