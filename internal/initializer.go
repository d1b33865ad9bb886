package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"mindwell-server/internal/managers"
	"mindwell-server/internal/routing"
	"mindwell-server/internal/scheduler"
	"mindwell-server/internal/schemas"
	"mindwell-server/internal/ws"
)

const envFile = ".env"

func Init() {
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	setLogLevel(os.Getenv("LOG_LEVEL"))

	pool := initializeDatabase()
	defer pool.Close()

	databaseMgr := managers.NewDatabaseManager(pool)
	mailMgr := managers.NewMailManager()
	jwtMgr := managers.NewJWTManager()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub(hubAuthFunc(jwtMgr), hubPersistFunc(databaseMgr))
	go hub.Run(ctx)

	dispatcher := scheduler.NewDispatcher(databaseMgr, hub)
	go dispatcher.Run(ctx)

	r := routing.InitRouter(databaseMgr, mailMgr, jwtMgr, hub)
	log.Info("Initialized router")

	// Handle interrupt signal gracefully
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)

		<-c
		log.Println("Server shutting down...")
		cancel()
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s...\n", port)
	err = http.ListenAndServe(":"+port, r)
	if err != nil {
		log.Fatal("Error starting server: ", err)
	}
}

// hubAuthFunc adapts the JWT manager for the websocket auth handshake.
func hubAuthFunc(jwtMgr managers.JWTMgr) ws.AuthFunc {
	return func(token string) (uuid.UUID, string, error) {
		claims, err := jwtMgr.ValidateJWT(token)
		if err != nil {
			return uuid.Nil, "", err
		}

		subject, err := claims.GetSubject()
		if err != nil {
			return uuid.Nil, "", err
		}
		userId, err := uuid.Parse(subject)
		if err != nil {
			return uuid.Nil, "", err
		}

		mapClaims, ok := claims.(jwt.MapClaims)
		if !ok {
			return uuid.Nil, "", errors.New("unexpected claims format")
		}
		username, _ := mapClaims["username"].(string)
		if username == "" {
			return uuid.Nil, "", errors.New("token has no username")
		}

		return userId, username, nil
	}
}

// hubPersistFunc stores messages arriving over the websocket the same way
// the REST route does.
func hubPersistFunc(databaseMgr managers.DatabaseMgr) ws.PersistFunc {
	return func(ctx context.Context, userId uuid.UUID, username, message string) (*schemas.ChatMessage, error) {
		chatMessage := &schemas.ChatMessage{
			MessageId: uuid.New(),
			UserId:    userId,
			Message:   message,
			Username:  username,
			CreatedAt: time.Now(),
		}

		queryString := "INSERT INTO community_chats (message_id, user_id, message, created_at) VALUES ($1, $2, $3, $4)"
		if _, err := databaseMgr.GetPool().Exec(ctx, queryString, chatMessage.MessageId, chatMessage.UserId,
			chatMessage.Message, chatMessage.CreatedAt); err != nil {
			return nil, err
		}

		return chatMessage, nil
	}
}

func initializeDatabase() *pgxpool.Pool {
	log.Info("Initializing database")

	var (
		dbHost     = os.Getenv("DB_HOST")
		dbPort     = os.Getenv("DB_PORT")
		dbUser     = os.Getenv("DB_USER")
		dbPassword = os.Getenv("DB_PASS")
		dbName     = os.Getenv("DB_NAME")
	)

	if dbHost == "" || dbPort == "" || dbUser == "" || dbPassword == "" || dbName == "" {
		log.Fatal("database environment variables not set")
	}

	url := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort, dbUser, dbPassword, dbName)
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Fatal("error configuring database: ", err)
	}

	config.MinConns = 5
	config.MaxConns = 30
	config.MaxConnIdleTime = time.Minute * 2
	config.HealthCheckPeriod = time.Minute * 1

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal("error connecting to database: ", err)
	}
	log.Info("Connected to database")
	return pool
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)
	log.SetOutput(os.Stdout)
}
