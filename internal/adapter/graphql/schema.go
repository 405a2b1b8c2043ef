package graphql

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/lmarques/graphql-user-api/pkg/errors"

	"github.com/graphql-go/graphql"
	"github.com/lmarques/graphql-user-api/internal/app/user"
	"github.com/lmarques/graphql-user-api/internal/infra/metrics"
	"github.com/lmarques/graphql-user-api/internal/infra/middleware"
	"go.uber.org/zap"
)

// Schema constrói e guarda o schema GraphQL da aplicação. As declarações
// são explícitas e verificadas na inicialização: um schema inválido
// derruba o processo antes do listener subir.
type Schema struct {
	svc     *user.Service
	metrics *metrics.APIMetrics
	logger  *zap.Logger
	schema  graphql.Schema
}

// NewSchema monta o schema com as cinco operações da API
func NewSchema(svc *user.Service, apiMetrics *metrics.APIMetrics, logger *zap.Logger) (*Schema, error) {
	s := &Schema{
		svc:     svc,
		metrics: apiMetrics,
		logger:  logger,
	}

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "User",
		Description: "Um usuário do sistema",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"birthDate": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"cpf":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	loginType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Login",
		Description: "Objeto de resposta ao login",
		Fields: graphql.Fields{
			"token": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.String),
				Description: "JWT token",
			},
			"user": &graphql.Field{
				Type:        graphql.NewNonNull(userType),
				Description: "Informações do usuário autenticado",
			},
		},
	})

	usersType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Users",
		Description: "Objeto de retorno de users",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Description: "Usuários em ordem alfabética",
			},
			"hasMore": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.Boolean),
				Description: "Se há mais usuários no sistema",
			},
			"skippedUsers": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.Int),
				Description: "Quantos usuários foram pulados",
			},
			"totalUsers": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.Int),
				Description: "Quantos usuários há no sistema",
			},
		},
	})

	loginInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name:        "LoginInput",
		Description: "Informações para realizar login",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"rememberMe": &graphql.InputObjectFieldConfig{
				Type:         graphql.Boolean,
				DefaultValue: false,
				Description:  "Estender a validade do token",
			},
		},
	})

	getUserInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name:        "GetUserInput",
		Description: "Objeto de entrada para user",
		Fields: graphql.InputObjectConfigFieldMap{
			"id": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
	})

	getUsersInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name:        "GetUsersInput",
		Description: "Objeto de entrada para users",
		Fields: graphql.InputObjectConfigFieldMap{
			"count": &graphql.InputObjectFieldConfig{
				Type:         graphql.Int,
				DefaultValue: user.DefaultPageCount,
				Description:  "Número de usuários",
			},
			"skip": &graphql.InputObjectFieldConfig{
				Type:         graphql.Int,
				DefaultValue: user.DefaultPageSkip,
				Description:  "Quantos usuários devem ser pulados",
			},
		},
	})

	createUserInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name:        "CreateUserInput",
		Description: "Objeto de entrada para createUser",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"birthDate": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"cpf":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.String),
				Description: "Query básica de hello world",
				Resolve: s.instrument("hello", func(p graphql.ResolveParams) (interface{}, error) {
					return "Hello!", nil
				}),
			},
			"user": &graphql.Field{
				Type:        graphql.NewNonNull(userType),
				Description: "Busca um usuário com um determinado id",
				Args: graphql.FieldConfigArgument{
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(getUserInput)},
				},
				Resolve: s.instrument("user", func(p graphql.ResolveParams) (interface{}, error) {
					if err := s.authenticate(p.Context); err != nil {
						return nil, err
					}
					data := inputMap(p)
					return s.svc.GetUser(p.Context, stringArg(data, "id"))
				}),
			},
			"users": &graphql.Field{
				Type:        graphql.NewNonNull(usersType),
				Description: "Busca count usuários depois de skip em ordem alfabética",
				Args: graphql.FieldConfigArgument{
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(getUsersInput)},
				},
				Resolve: s.instrument("users", func(p graphql.ResolveParams) (interface{}, error) {
					if err := s.authenticate(p.Context); err != nil {
						return nil, err
					}
					data := inputMap(p)
					count := intArg(data, "count", user.DefaultPageCount)
					skip := intArg(data, "skip", user.DefaultPageSkip)
					return s.svc.GetUsers(p.Context, count, skip)
				}),
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type:        graphql.NewNonNull(loginType),
				Description: "Autenticação de um usuário no sistema",
				Args: graphql.FieldConfigArgument{
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(loginInput)},
				},
				Resolve: s.instrument("login", func(p graphql.ResolveParams) (interface{}, error) {
					data := inputMap(p)
					return s.svc.Login(p.Context,
						stringArg(data, "email"),
						stringArg(data, "password"),
						boolArg(data, "rememberMe"),
					)
				}),
			},
			"createUser": &graphql.Field{
				Type:        graphql.NewNonNull(userType),
				Description: "Cria um novo usuário",
				Args: graphql.FieldConfigArgument{
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createUserInput)},
				},
				Resolve: s.instrument("createUser", func(p graphql.ResolveParams) (interface{}, error) {
					if err := s.authenticate(p.Context); err != nil {
						return nil, err
					}
					data := inputMap(p)
					return s.svc.CreateUser(p.Context, user.CreateUserInput{
						Name:      stringArg(data, "name"),
						Email:     stringArg(data, "email"),
						Password:  stringArg(data, "password"),
						BirthDate: stringArg(data, "birthDate"),
						CPF:       stringArg(data, "cpf"),
					})
				}),
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return nil, err
	}

	s.schema = schema
	return s, nil
}

// Schema retorna o schema GraphQL compilado
func (s *Schema) Schema() graphql.Schema {
	return s.schema
}

// authenticate exige um token bearer válido no contexto da requisição
func (s *Schema) authenticate(ctx context.Context) error {
	token, _ := middleware.BearerFromContext(ctx)
	if _, err := s.svc.Authenticate(token); err != nil {
		return err
	}
	return nil
}

// instrument envolve um resolver com métricas por operação
func (s *Schema) instrument(operation string, fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		start := time.Now()

		result, err := fn(p)
		if err != nil {
			code := http.StatusInternalServerError
			if apiErr, ok := apperrors.AsAPIError(err); ok {
				code = apiErr.Code
			}
			s.metrics.OperationFailed(operation, code, time.Since(start))
			return nil, err
		}

		s.metrics.OperationCompleted(operation, time.Since(start))
		return result, nil
	}
}

// inputMap extrai o argumento data de uma operação
func inputMap(p graphql.ResolveParams) map[string]interface{} {
	data, _ := p.Args["data"].(map[string]interface{})
	return data
}

func stringArg(data map[string]interface{}, key string) string {
	v, _ := data[key].(string)
	return v
}

func boolArg(data map[string]interface{}, key string) bool {
	v, _ := data[key].(bool)
	return v
}

// intArg aceita int ou float64, dependendo de como o valor chegou
// (literal da query ou variável JSON)
func intArg(data map[string]interface{}, key string, fallback int) int {
	switch v := data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}
