package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mindwell-server/internal/managers"
	"mindwell-server/internal/managers/mocks"
)

func setupMocks(t *testing.T) (*mocks.MockDatabaseManager, managers.JWTMgr, *mocks.MockMailManager) {
	t.Helper()

	poolMock, err := pgxmock.NewPool()
	if err != nil {
		log.Errorf("Error creating mock database pool: %v", err)
	}

	databaseMgrMock := &mocks.MockDatabaseManager{}
	databaseMgrMock.On("GetPool").Return(poolMock)

	t.Setenv("ENVIRONMENT", "test")
	jwtMgr := managers.NewJWTManagerWithSecret("router-test-secret")

	mailMgrMock := &mocks.MockMailManager{}
	mailMgrMock.On("SendWelcomeMail", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	return databaseMgrMock, jwtMgr, mailMgrMock
}

func TestSignup(t *testing.T) {
	signupBody := map[string]interface{}{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "secret1",
	}

	t.Run("ValidSignup", func(t *testing.T) {
		databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
		router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, nil)
		server := httptest.NewServer(router)
		defer server.Close()

		poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
		poolMock.ExpectBegin()
		poolMock.ExpectQuery("SELECT EXISTS").
			WithArgs("testuser", "test@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		poolMock.ExpectExec("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "testuser", "test@example.com", pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		poolMock.ExpectCommit()

		expect := httpexpect.Default(t, server.URL)
		response := expect.POST("/api/auth/signup").WithJSON(signupBody).
			Expect().Status(http.StatusCreated).JSON().Object()

		response.Value("user").Object().HasValue("username", "testuser")
		response.Value("user").Object().HasValue("email", "test@example.com")

		// The returned token must verify and name the created user.
		token := response.Value("token").String().NotEmpty().Raw()
		claims, err := jwtMgr.ValidateJWT(token)
		require.NoError(t, err)
		subject, err := claims.GetSubject()
		require.NoError(t, err)
		require.Equal(t, response.Value("user").Object().Value("user_id").String().Raw(), subject)

		require.NoError(t, poolMock.ExpectationsWereMet())
	})

	t.Run("DuplicateUser", func(t *testing.T) {
		databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
		router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, nil)
		server := httptest.NewServer(router)
		defer server.Close()

		poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
		poolMock.ExpectBegin()
		poolMock.ExpectQuery("SELECT EXISTS").
			WithArgs("testuser", "test@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		poolMock.ExpectRollback()

		expect := httpexpect.Default(t, server.URL)
		response := expect.POST("/api/auth/signup").WithJSON(signupBody).
			Expect().Status(http.StatusBadRequest).JSON().Object()

		response.Value("error").Object().HasValue("code", "ERR-002")
		response.Value("error").Object().HasValue("message", "User already exists")

		require.NoError(t, poolMock.ExpectationsWereMet())
	})

	t.Run("PasswordTooShort", func(t *testing.T) {
		databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
		router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, nil)
		server := httptest.NewServer(router)
		defer server.Close()

		body := map[string]interface{}{
			"username": "testuser",
			"email":    "test@example.com",
			"password": "short",
		}

		expect := httpexpect.Default(t, server.URL)
		response := expect.POST("/api/auth/signup").WithJSON(body).
			Expect().Status(http.StatusBadRequest).JSON().Object()

		response.Value("error").Object().HasValue("code", "ERR-001")
		response.Value("details").Array().NotEmpty()
	})
}

func TestLogin(t *testing.T) {
	userId := uuid.New().String()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)

	t.Run("ValidLogin", func(t *testing.T) {
		databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
		router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, nil)
		server := httptest.NewServer(router)
		defer server.Close()

		poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
		poolMock.ExpectBegin()
		poolMock.ExpectQuery("SELECT user_id, username").
			WithArgs("test@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "username", "email", "password_hash", "name", "birthday", "gender"}).
				AddRow(userId, "testuser", "test@example.com", string(hash), nil, nil, nil))
		poolMock.ExpectCommit()

		expect := httpexpect.Default(t, server.URL)
		response := expect.POST("/api/auth/login").
			WithJSON(map[string]interface{}{"email": "test@example.com", "password": "secret1"}).
			Expect().Status(http.StatusOK).JSON().Object()

		response.Value("user").Object().HasValue("username", "testuser")
		response.Value("token").String().NotEmpty()

		require.NoError(t, poolMock.ExpectationsWereMet())
	})

	t.Run("WrongPassword", func(t *testing.T) {
		databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
		router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, nil)
		server := httptest.NewServer(router)
		defer server.Close()

		poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
		poolMock.ExpectBegin()
		poolMock.ExpectQuery("SELECT user_id, username").
			WithArgs("test@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "username", "email", "password_hash", "name", "birthday", "gender"}).
				AddRow(userId, "testuser", "test@example.com", string(hash), nil, nil, nil))
		poolMock.ExpectRollback()

		expect := httpexpect.Default(t, server.URL)
		response := expect.POST("/api/auth/login").
			WithJSON(map[string]interface{}{"email": "test@example.com", "password": "wrongpass"}).
			Expect().Status(http.StatusUnauthorized).JSON().Object()

		response.Value("error").Object().HasValue("code", "ERR-003")

		require.NoError(t, poolMock.ExpectationsWereMet())
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
		router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, nil)
		server := httptest.NewServer(router)
		defer server.Close()

		poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
		poolMock.ExpectBegin()
		poolMock.ExpectQuery("SELECT user_id, username").
			WithArgs("nobody@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "username", "email", "password_hash", "name", "birthday", "gender"}))
		poolMock.ExpectRollback()

		expect := httpexpect.Default(t, server.URL)
		response := expect.POST("/api/auth/login").
			WithJSON(map[string]interface{}{"email": "nobody@example.com", "password": "secret1"}).
			Expect().Status(http.StatusUnauthorized).JSON().Object()

		// Unknown email reads exactly like a wrong password.
		response.Value("error").Object().HasValue("code", "ERR-003")

		require.NoError(t, poolMock.ExpectationsWereMet())
	})
}

// expectAuthLookup queues the user resolution the auth middleware performs.
func expectAuthLookup(poolMock pgxmock.PgxPoolIface, userId, username string) {
	poolMock.ExpectQuery("SELECT user_id, username, email FROM users").
		WithArgs(userId).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "username", "email"}).
			AddRow(userId, username, username+"@example.com"))
}

func TestCreateMoodLog(t *testing.T) {
	userId := uuid.New().String()

	t.Run("ValidMoodLog", func(t *testing.T) {
		databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
		router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, nil)
		server := httptest.NewServer(router)
		defer server.Close()

		token, err := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims(userId, "testuser"))
		require.NoError(t, err)

		poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
		expectAuthLookup(poolMock, userId, "testuser")
		poolMock.ExpectBegin()
		poolMock.ExpectExec("INSERT INTO mood_logs").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 4, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		poolMock.ExpectExec("INSERT INTO log_history").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "mood", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		poolMock.ExpectCommit()

		expect := httpexpect.Default(t, server.URL)
		response := expect.POST("/api/mood-logs").
			WithHeader("Authorization", "Bearer "+token).
			WithJSON(map[string]interface{}{"mood_level": 4, "mood_note": "pretty good day"}).
			Expect().Status(http.StatusCreated).JSON().Object()

		// The entry is owned by the token's subject, not anything client-sent.
		response.HasValue("user_id", userId)
		response.HasValue("mood_level", 4)

		require.NoError(t, poolMock.ExpectationsWereMet())
	})

	t.Run("MoodLevelOutOfRange", func(t *testing.T) {
		for _, level := range []int{0, 6} {
			databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
			router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, nil)
			server := httptest.NewServer(router)

			token, err := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims(userId, "testuser"))
			require.NoError(t, err)

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
			expectAuthLookup(poolMock, userId, "testuser")

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/mood-logs").
				WithHeader("Authorization", "Bearer "+token).
				WithJSON(map[string]interface{}{"mood_level": level}).
				Expect().Status(http.StatusBadRequest).JSON().Object()

			response.Value("error").Object().HasValue("code", "ERR-001")

			require.NoError(t, poolMock.ExpectationsWereMet())
			server.Close()
		}
	})

	t.Run("MissingToken", func(t *testing.T) {
		databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
		router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, nil)
		server := httptest.NewServer(router)
		defer server.Close()

		poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

		expect := httpexpect.Default(t, server.URL)
		response := expect.POST("/api/mood-logs").
			WithJSON(map[string]interface{}{"mood_level": 3}).
			Expect().Status(http.StatusUnauthorized).JSON().Object()

		response.Value("error").Object().HasValue("code", "ERR-004")

		// No database call may happen before authentication.
		require.NoError(t, poolMock.ExpectationsWereMet())
	})
}

func TestCreateReminder(t *testing.T) {
	userId := uuid.New().String()

	t.Run("InvalidTimeOfDay", func(t *testing.T) {
		databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
		router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, nil)
		server := httptest.NewServer(router)
		defer server.Close()

		token, err := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims(userId, "testuser"))
		require.NoError(t, err)

		poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
		expectAuthLookup(poolMock, userId, "testuser")

		expect := httpexpect.Default(t, server.URL)
		response := expect.POST("/api/reminders").
			WithHeader("Authorization", "Bearer "+token).
			WithJSON(map[string]interface{}{
				"reminder_type": "mood",
				"reminder_text": "log your mood",
				"reminder_time": "25:00",
			}).
			Expect().Status(http.StatusBadRequest).JSON().Object()

		response.Value("error").Object().HasValue("code", "ERR-001")

		require.NoError(t, poolMock.ExpectationsWereMet())
	})

	t.Run("ValidReminder", func(t *testing.T) {
		databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
		router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, nil)
		server := httptest.NewServer(router)
		defer server.Close()

		token, err := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims(userId, "testuser"))
		require.NoError(t, err)

		poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
		expectAuthLookup(poolMock, userId, "testuser")
		poolMock.ExpectBegin()
		poolMock.ExpectExec("INSERT INTO reminders").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "mood", "log your mood", "09:30", true, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		poolMock.ExpectCommit()

		expect := httpexpect.Default(t, server.URL)
		response := expect.POST("/api/reminders").
			WithHeader("Authorization", "Bearer "+token).
			WithJSON(map[string]interface{}{
				"reminder_type": "mood",
				"reminder_text": "log your mood",
				"reminder_time": "9:30",
			}).
			Expect().Status(http.StatusCreated).JSON().Object()

		// Single-digit hours are normalized so the dispatcher matches them.
		response.HasValue("reminder_time", "09:30")
		response.HasValue("is_active", true)

		require.NoError(t, poolMock.ExpectationsWereMet())
	})
}

func TestHealth(t *testing.T) {
	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, nil)
	server := httptest.NewServer(router)
	defer server.Close()

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
	poolMock.ExpectPing()

	expect := httpexpect.Default(t, server.URL)
	expect.GET("/health").Expect().Status(http.StatusOK).
		JSON().Object().HasValue("status", "ok")

	require.NoError(t, poolMock.ExpectationsWereMet())
}
