package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"mindwell-server/internal/managers"
	"mindwell-server/internal/middleware"
	"mindwell-server/internal/schemas"
	"mindwell-server/internal/utils"
)

type AuthHdl interface {
	Signup(c *gin.Context)
	Login(c *gin.Context)
	GetProfile(c *gin.Context)
	UpdateProfile(c *gin.Context)
}

type AuthHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	MailManager     managers.MailMgr
}

func NewAuthHandler(databaseManager managers.DatabaseMgr, jwtManager managers.JWTMgr, mailManager managers.MailMgr) AuthHdl {
	return &AuthHandler{
		DatabaseManager: databaseManager,
		JWTManager:      jwtManager,
		MailManager:     mailManager,
	}
}

// Signup creates a new account. Username and email must both be unused,
// the password is stored as a bcrypt hash and a signed token is returned
// right away so the client is logged in after signing up.
func (handler *AuthHandler) Signup(c *gin.Context) {
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	signupRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.SignupRequest)

	// Check if the username or email is taken
	var taken bool
	queryString := "SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)"
	if err = tx.QueryRow(transactionCtx, queryString, signupRequest.Username, signupRequest.Email).Scan(&taken); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if taken {
		err = errors.New("username or email already taken")
		utils.WriteAndLogError(c, schemas.UserAlreadyExists, http.StatusBadRequest, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(signupRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	userId := uuid.New()
	createdAt := time.Now()

	queryString = "INSERT INTO users (user_id, username, email, password_hash, name, birthday, gender, created_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8)"
	if _, err = tx.Exec(transactionCtx, queryString, userId, signupRequest.Username, signupRequest.Email,
		string(hashedPassword), optional(signupRequest.Name), optional(signupRequest.Birthday),
		optional(signupRequest.Gender), createdAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	token, err := handler.JWTManager.GenerateJWT(handler.JWTManager.GenerateClaims(userId.String(), signupRequest.Username))
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	// The welcome mail is best effort, the account exists either way.
	if mailErr := handler.MailManager.SendWelcomeMail(signupRequest.Email, signupRequest.Username); mailErr != nil {
		utils.LogMessageWithFields(c, "warn", "Could not send welcome mail: "+mailErr.Error())
	}

	response := &schemas.AuthResponseDTO{
		User: schemas.User{
			UserId:    userId,
			Username:  signupRequest.Username,
			Email:     signupRequest.Email,
			Name:      optional(signupRequest.Name),
			Birthday:  optional(signupRequest.Birthday),
			Gender:    optional(signupRequest.Gender),
			CreatedAt: &createdAt,
		},
		Token: token,
	}

	utils.WriteAndLogResponse(c, response, http.StatusCreated)
}

// Login authenticates by email and password. Unknown email and wrong
// password return the same response so the two cannot be told apart.
func (handler *AuthHandler) Login(c *gin.Context) {
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	loginRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	user := schemas.User{}
	queryString := "SELECT user_id, username, email, password_hash, name, birthday::text, gender FROM users WHERE email = $1"
	err = tx.QueryRow(transactionCtx, queryString, loginRequest.Email).
		Scan(&user.UserId, &user.Username, &user.Email, &user.PasswordHash, &user.Name, &user.Birthday, &user.Gender)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
		} else {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
		return
	}

	token, err := handler.JWTManager.GenerateJWT(handler.JWTManager.GenerateClaims(user.UserId.String(), user.Username))
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &schemas.AuthResponseDTO{User: user, Token: token}, http.StatusOK)
}

// GetProfile returns the profile of the user named in the path. Any
// authenticated user may look up any profile.
func (handler *AuthHandler) GetProfile(c *gin.Context) {
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	userId := c.Param(utils.UserIdKey)

	user := schemas.User{}
	queryString := "SELECT user_id, username, email, name, birthday::text, gender, created_at FROM users WHERE user_id = $1"
	err = tx.QueryRow(transactionCtx, queryString, userId).
		Scan(&user.UserId, &user.Username, &user.Email, &user.Name, &user.Birthday, &user.Gender, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
		} else {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &user, http.StatusOK)
}

// UpdateProfile updates the optional profile fields. Users can only change
// their own profile, absent fields keep their stored values.
func (handler *AuthHandler) UpdateProfile(c *gin.Context) {
	authenticatedUser, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.AuthenticationRequired, http.StatusUnauthorized, errors.New("no authenticated user in context"))
		return
	}

	userId := c.Param(utils.UserIdKey)
	if userId != authenticatedUser.UserId.String() {
		utils.WriteAndLogError(c, schemas.NotAuthorized, http.StatusForbidden,
			errors.New("attempt to update another user's profile"))
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	updateRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.UpdateProfileRequest)

	user := schemas.User{}
	queryString := "UPDATE users SET name = COALESCE($1, name), birthday = COALESCE($2::date, birthday), " +
		"gender = COALESCE($3, gender) WHERE user_id = $4 " +
		"RETURNING user_id, username, email, name, birthday::text, gender, created_at"
	err = tx.QueryRow(transactionCtx, queryString, updateRequest.Name, updateRequest.Birthday,
		updateRequest.Gender, userId).
		Scan(&user.UserId, &user.Username, &user.Email, &user.Name, &user.Birthday, &user.Gender, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
		} else {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &user, http.StatusOK)
}

// optional maps an empty string to nil so empty optional fields are stored
// as NULL instead of "".
func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
