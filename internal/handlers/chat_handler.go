package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mindwell-server/internal/managers"
	"mindwell-server/internal/middleware"
	"mindwell-server/internal/schemas"
	"mindwell-server/internal/utils"
)

// chatHistoryLimit caps a single history fetch.
const chatHistoryLimit = 50

// ChatNotifier pushes a persisted message to connected websocket clients.
type ChatNotifier interface {
	BroadcastChat(message *schemas.ChatMessage)
}

type ChatHdl interface {
	GetChatMessages(c *gin.Context)
	CreateChatMessage(c *gin.Context)
}

type ChatHandler struct {
	DatabaseManager managers.DatabaseMgr
	Notifier        ChatNotifier
}

func NewChatHandler(databaseManager managers.DatabaseMgr, notifier ChatNotifier) ChatHdl {
	return &ChatHandler{
		DatabaseManager: databaseManager,
		Notifier:        notifier,
	}
}

// GetChatMessages returns the community chat history in chronological
// order, at most chatHistoryLimit messages, optionally only those created
// after the since timestamp.
func (handler *ChatHandler) GetChatMessages(c *gin.Context) {
	since := c.Query(utils.SinceParamKey)
	if since != "" {
		if _, err := time.Parse(time.RFC3339, since); err != nil {
			utils.WriteAndLogValidationError(c, []string{"since must be an RFC 3339 timestamp"})
			return
		}
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	filter := utils.NewQueryFilter().
		WhereIf(since != "", "cc.created_at >", since).
		Paginate(chatHistoryLimit, 0)

	queryString := filter.Build("SELECT cc.message_id, cc.user_id, cc.message, u.username, cc.created_at "+
		"FROM community_chats cc JOIN users u ON u.user_id = cc.user_id", "ORDER BY cc.created_at DESC")
	rows, err := tx.Query(transactionCtx, queryString, filter.Args()...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	messages := make([]schemas.ChatMessage, 0)
	for rows.Next() {
		message := schemas.ChatMessage{}
		if err = rows.Scan(&message.MessageId, &message.UserId, &message.Message,
			&message.Username, &message.CreatedAt); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		messages = append(messages, message)
	}
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	// The query reads newest first to apply the cap, clients want
	// chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	utils.WriteAndLogResponse(c, messages, http.StatusOK)
}

// CreateChatMessage persists a community chat message and relays it to the
// connected websocket clients.
func (handler *ChatHandler) CreateChatMessage(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.AuthenticationRequired, http.StatusUnauthorized, errors.New("no authenticated user in context"))
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	messageRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.CreateChatMessageRequest)

	message := schemas.ChatMessage{
		MessageId: uuid.New(),
		UserId:    user.UserId,
		Message:   messageRequest.Message,
		Username:  user.Username,
		CreatedAt: time.Now(),
	}

	queryString := "INSERT INTO community_chats (message_id, user_id, message, created_at) VALUES ($1, $2, $3, $4)"
	if _, err = tx.Exec(transactionCtx, queryString, message.MessageId, message.UserId,
		message.Message, message.CreatedAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	if handler.Notifier != nil {
		handler.Notifier.BroadcastChat(&message)
	}

	utils.WriteAndLogResponse(c, &message, http.StatusCreated)
}
