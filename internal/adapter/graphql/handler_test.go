package graphql_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmarques/graphql-user-api/internal/adapter/database"
	"github.com/lmarques/graphql-user-api/internal/adapter/graphql"
	"github.com/lmarques/graphql-user-api/internal/app/user"
	"github.com/lmarques/graphql-user-api/internal/domain/model"
	"github.com/lmarques/graphql-user-api/internal/infra/metrics"
	"github.com/lmarques/graphql-user-api/internal/infra/middleware"
	"github.com/lmarques/graphql-user-api/internal/testutils"
	"github.com/lmarques/graphql-user-api/pkg/security"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// graphqlResponse espelha o envelope de resposta do handler
type graphqlResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Code           int    `json:"code"`
		Message        string `json:"message"`
		AdditionalInfo string `json:"additionalInfo"`
	} `json:"errors"`
}

type testAPI struct {
	router *gin.Engine
	repo   *database.UserRepository
	svc    *user.Service
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()

	ctx, cancel := testutils.ContextWithTimeout(t)
	defer cancel()

	logger := testutils.TestLogger(t)

	db, err := database.NewDatabase(ctx, database.Config{
		Driver:          "sqlite",
		DSN:             ":memory:",
		MaxIdleConns:    1,
		MaxOpenConns:    1,
		ConnMaxLifetime: time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := database.NewUserRepository(db.DB(), logger)

	km, err := security.NewKeyManager(
		[]byte(testSecret),
		security.DefaultTokenDuration,
		security.DefaultExtendedDuration,
		logger,
	)
	require.NoError(t, err)

	svc := user.NewService(repo, km, logger)

	apiMetrics := metrics.NewAPIMetricsWithRegistry(prometheus.NewRegistry())
	schema, err := graphql.NewSchema(svc, apiMetrics, logger)
	require.NoError(t, err)

	handler := graphql.NewHandler(schema, logger)
	mw := middleware.NewMiddleware(logger, apiMetrics)

	router := testutils.SetupTestRouter(t)
	router.Use(mw.ExtractBearer())
	router.POST("/graphql", handler.Serve)

	return &testAPI{router: router, repo: repo, svc: svc}
}

// seedUser insere um usuário direto no repositório com a senha Supersafe
func (api *testAPI) seedUser(t *testing.T, i int) string {
	t.Helper()

	ctx, cancel := testutils.ContextWithTimeout(t)
	defer cancel()

	digest, err := security.HashPassword("Supersafe")
	require.NoError(t, err)

	id := fmt.Sprintf("00000000-0000-0000-0000-%012d", i)
	require.NoError(t, api.repo.Insert(ctx, &model.UserEntity{
		ID:        id,
		Name:      fmt.Sprintf("user-%02d", i),
		Email:     fmt.Sprintf("user-%02d@example.com", i),
		Password:  digest,
		BirthDate: "01-01-1970",
		CPF:       "28",
	}))

	return id
}

// login executa o fluxo real de login e devolve o token
func (api *testAPI) login(t *testing.T, email string) string {
	t.Helper()

	ctx, cancel := testutils.ContextWithTimeout(t)
	defer cancel()

	result, err := api.svc.Login(ctx, email, "Supersafe", false)
	require.NoError(t, err)
	return result.Token
}

const loginMutation = `
	mutation Login($data: LoginInput!) {
		login(data: $data) {
			token
			user { id name email birthDate cpf }
		}
	}`

const createUserMutation = `
	mutation CreateUser($data: CreateUserInput!) {
		createUser(data: $data) { id name email birthDate cpf }
	}`

const getUserQuery = `
	query GetUser($data: GetUserInput!) {
		user(data: $data) { id name email }
	}`

const getUsersQuery = `
	query GetUsers($data: GetUsersInput!) {
		users(data: $data) {
			users { id name email }
			hasMore
			skippedUsers
			totalUsers
		}
	}`

func requireWireError(t *testing.T, resp *httptest.ResponseRecorder, code int) string {
	t.Helper()

	testutils.RequireHTTPStatus(t, resp, http.StatusOK)

	var parsed graphqlResponse
	testutils.ParseResponse(t, resp, &parsed)
	require.NotEmpty(t, parsed.Errors, "expected an error in the response, body: %s", resp.Body.String())
	assert.Equal(t, code, parsed.Errors[0].Code)
	return parsed.Errors[0].Message
}

func TestHello(t *testing.T) {
	api := setupAPI(t)

	resp := testutils.PostGraphQL(t, api.router, `query { hello }`, nil, "")
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)

	var parsed graphqlResponse
	testutils.ParseResponse(t, resp, &parsed)
	require.Empty(t, parsed.Errors)
	assert.Equal(t, "Hello!", parsed.Data["hello"])
}

func TestLoginMutation(t *testing.T) {
	t.Run("success returns a verifiable token and the user without password", func(t *testing.T) {
		api := setupAPI(t)
		id := api.seedUser(t, 1)

		resp := testutils.PostGraphQL(t, api.router, loginMutation, map[string]interface{}{
			"data": map[string]interface{}{
				"email":    "user-01@example.com",
				"password": "Supersafe",
			},
		}, "")
		testutils.RequireHTTPStatus(t, resp, http.StatusOK)

		var parsed graphqlResponse
		testutils.ParseResponse(t, resp, &parsed)
		require.Empty(t, parsed.Errors, "body: %s", resp.Body.String())

		login := parsed.Data["login"].(map[string]interface{})
		token := login["token"].(string)
		require.NotEmpty(t, token)

		userID, err := api.svc.Authenticate(token)
		require.NoError(t, err)
		assert.Equal(t, id, userID)

		userData := login["user"].(map[string]interface{})
		assert.Equal(t, id, userData["id"])
		assert.Equal(t, "user-01@example.com", userData["email"])
		assert.NotContains(t, userData, "password")
	})

	t.Run("wrong password", func(t *testing.T) {
		api := setupAPI(t)
		api.seedUser(t, 1)

		resp := testutils.PostGraphQL(t, api.router, loginMutation, map[string]interface{}{
			"data": map[string]interface{}{
				"email":    "user-01@example.com",
				"password": "efasrepuS",
			},
		}, "")

		msg := requireWireError(t, resp, http.StatusUnauthorized)
		assert.Equal(t, "Invalid Credentials", msg)
	})

	t.Run("unknown email", func(t *testing.T) {
		api := setupAPI(t)

		resp := testutils.PostGraphQL(t, api.router, loginMutation, map[string]interface{}{
			"data": map[string]interface{}{
				"email":    "ghost@example.com",
				"password": "Supersafe",
			},
		}, "")

		msg := requireWireError(t, resp, http.StatusUnauthorized)
		assert.Equal(t, "Invalid Credentials", msg)
	})

	t.Run("invalid email", func(t *testing.T) {
		api := setupAPI(t)

		resp := testutils.PostGraphQL(t, api.router, loginMutation, map[string]interface{}{
			"data": map[string]interface{}{
				"email":    "not-an-email",
				"password": "Supersafe",
			},
		}, "")

		msg := requireWireError(t, resp, http.StatusBadRequest)
		assert.Equal(t, "Invalid email", msg)
	})
}

func TestCreateUserMutation(t *testing.T) {
	newUserData := func(email string) map[string]interface{} {
		return map[string]interface{}{
			"data": map[string]interface{}{
				"name":      "new",
				"email":     email,
				"password":  "Supersafe",
				"birthDate": "01-01-1970",
				"cpf":       "28",
			},
		}
	}

	t.Run("requires authentication", func(t *testing.T) {
		api := setupAPI(t)

		resp := testutils.PostGraphQL(t, api.router, createUserMutation, newUserData("new@example.com"), "")
		requireWireError(t, resp, http.StatusUnauthorized)
	})

	t.Run("rejects an invalid token", func(t *testing.T) {
		api := setupAPI(t)

		resp := testutils.PostGraphQL(t, api.router, createUserMutation, newUserData("new@example.com"), "not.a.token")
		requireWireError(t, resp, http.StatusUnauthorized)
	})

	t.Run("success", func(t *testing.T) {
		api := setupAPI(t)
		api.seedUser(t, 1)
		token := api.login(t, "user-01@example.com")

		resp := testutils.PostGraphQL(t, api.router, createUserMutation, newUserData("new@example.com"), token)
		testutils.RequireHTTPStatus(t, resp, http.StatusOK)

		var parsed graphqlResponse
		testutils.ParseResponse(t, resp, &parsed)
		require.Empty(t, parsed.Errors, "body: %s", resp.Body.String())

		created := parsed.Data["createUser"].(map[string]interface{})
		assert.Equal(t, "new@example.com", created["email"])
		assert.NotEmpty(t, created["id"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		api := setupAPI(t)
		api.seedUser(t, 1)
		token := api.login(t, "user-01@example.com")

		resp := testutils.PostGraphQL(t, api.router, createUserMutation, newUserData("user-01@example.com"), token)

		msg := requireWireError(t, resp, http.StatusBadRequest)
		assert.Contains(t, msg, "already in use")
	})

	t.Run("weak password", func(t *testing.T) {
		api := setupAPI(t)
		api.seedUser(t, 1)
		token := api.login(t, "user-01@example.com")

		data := newUserData("new@example.com")
		data["data"].(map[string]interface{})["password"] = "short1"

		resp := testutils.PostGraphQL(t, api.router, createUserMutation, data, token)
		requireWireError(t, resp, http.StatusBadRequest)
	})
}

func TestGetUserQuery(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		api := setupAPI(t)
		id := api.seedUser(t, 1)

		resp := testutils.PostGraphQL(t, api.router, getUserQuery, map[string]interface{}{
			"data": map[string]interface{}{"id": id},
		}, "")
		requireWireError(t, resp, http.StatusUnauthorized)
	})

	t.Run("success", func(t *testing.T) {
		api := setupAPI(t)
		id := api.seedUser(t, 1)
		token := api.login(t, "user-01@example.com")

		resp := testutils.PostGraphQL(t, api.router, getUserQuery, map[string]interface{}{
			"data": map[string]interface{}{"id": id},
		}, token)
		testutils.RequireHTTPStatus(t, resp, http.StatusOK)

		var parsed graphqlResponse
		testutils.ParseResponse(t, resp, &parsed)
		require.Empty(t, parsed.Errors, "body: %s", resp.Body.String())

		found := parsed.Data["user"].(map[string]interface{})
		assert.Equal(t, id, found["id"])
		assert.Equal(t, "user-01@example.com", found["email"])
	})

	t.Run("unknown id", func(t *testing.T) {
		api := setupAPI(t)
		api.seedUser(t, 1)
		token := api.login(t, "user-01@example.com")

		resp := testutils.PostGraphQL(t, api.router, getUserQuery, map[string]interface{}{
			"data": map[string]interface{}{"id": "missing-id"},
		}, token)

		msg := requireWireError(t, resp, http.StatusNotFound)
		assert.Contains(t, msg, "not found")
	})
}

func TestGetUsersQuery(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		api := setupAPI(t)

		resp := testutils.PostGraphQL(t, api.router, getUsersQuery, map[string]interface{}{
			"data": map[string]interface{}{},
		}, "")
		requireWireError(t, resp, http.StatusUnauthorized)
	})

	t.Run("pagination over fifteen users", func(t *testing.T) {
		api := setupAPI(t)
		for i := 0; i < 15; i++ {
			api.seedUser(t, i)
		}
		token := api.login(t, "user-00@example.com")

		resp := testutils.PostGraphQL(t, api.router, getUsersQuery, map[string]interface{}{
			"data": map[string]interface{}{},
		}, token)
		testutils.RequireHTTPStatus(t, resp, http.StatusOK)

		var parsed graphqlResponse
		testutils.ParseResponse(t, resp, &parsed)
		require.Empty(t, parsed.Errors, "body: %s", resp.Body.String())

		page := parsed.Data["users"].(map[string]interface{})
		users := page["users"].([]interface{})
		assert.Len(t, users, 10)
		assert.Equal(t, true, page["hasMore"])
		assert.Equal(t, float64(0), page["skippedUsers"])
		assert.Equal(t, float64(15), page["totalUsers"])

		first := users[0].(map[string]interface{})
		assert.Equal(t, "user-00", first["name"])

		resp = testutils.PostGraphQL(t, api.router, getUsersQuery, map[string]interface{}{
			"data": map[string]interface{}{"count": 10, "skip": 10},
		}, token)

		parsed = graphqlResponse{}
		testutils.ParseResponse(t, resp, &parsed)
		require.Empty(t, parsed.Errors, "body: %s", resp.Body.String())

		page = parsed.Data["users"].(map[string]interface{})
		assert.Len(t, page["users"].([]interface{}), 5)
		assert.Equal(t, false, page["hasMore"])
		assert.Equal(t, float64(10), page["skippedUsers"])
	})
}

func TestTransportErrors(t *testing.T) {
	t.Run("unreadable body is the only HTTP 400", func(t *testing.T) {
		api := setupAPI(t)

		req, err := http.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{not json"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp := httptest.NewRecorder()
		api.router.ServeHTTP(resp, req)

		testutils.RequireHTTPStatus(t, resp, http.StatusBadRequest)

		var parsed graphqlResponse
		testutils.ParseResponse(t, resp, &parsed)
		require.NotEmpty(t, parsed.Errors)
		assert.Equal(t, http.StatusBadRequest, parsed.Errors[0].Code)
	})

	t.Run("query syntax error travels as a 400 wire error", func(t *testing.T) {
		api := setupAPI(t)

		resp := testutils.PostGraphQL(t, api.router, `query { hello`, nil, "")
		requireWireError(t, resp, http.StatusBadRequest)
	})

	t.Run("unknown field fails validation with a 400 wire error", func(t *testing.T) {
		api := setupAPI(t)

		resp := testutils.PostGraphQL(t, api.router, `query { nope }`, nil, "")
		requireWireError(t, resp, http.StatusBadRequest)
	})
}
