package user

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/lmarques/graphql-user-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/lmarques/graphql-user-api/internal/domain/model"
	"github.com/lmarques/graphql-user-api/pkg/security"
	"github.com/lmarques/graphql-user-api/pkg/validation"
	"go.uber.org/zap"
)

// Repository define a interface de acesso a dados de usuário
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*model.UserEntity, error)
	FindByID(ctx context.Context, id string) (*model.UserEntity, error)
	FindPage(ctx context.Context, count, skip int) ([]model.UserEntity, int64, error)
	Insert(ctx context.Context, entity *model.UserEntity) error
}

// TokenManager emite e verifica tokens de acesso
type TokenManager interface {
	GenerateToken(userID string, extended bool) (string, error)
	VerifyToken(token string) (*security.Claims, error)
}

// Valores padrão da janela de paginação
const (
	DefaultPageCount = 10
	DefaultPageSkip  = 0
)

// CreateUserInput é a entrada do use-case de criação de usuário
type CreateUserInput struct {
	Name      string
	Email     string
	Password  string
	BirthDate string
	CPF       string
}

// Service implementa os use-cases de usuário: login, criação e consultas.
// As dependências são construídas uma vez na inicialização e passadas
// explicitamente, sem container.
type Service struct {
	repo   Repository
	tokens TokenManager
	logger *zap.Logger
}

// NewService cria um novo serviço de usuários
func NewService(repo Repository, tokens TokenManager, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Authenticate valida o token bearer e retorna o id do usuário autenticado.
// Qualquer falha (token ausente, malformado, assinatura inválida ou
// expirado) resulta em 401.
func (s *Service) Authenticate(token string) (string, error) {
	if token == "" {
		return "", apperrors.Unauthorized("Authentication required", nil)
	}

	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return "", apperrors.Unauthorized("Invalid or expired token", nil)
	}

	return claims.UserID, nil
}

// Login autentica um usuário por email e senha e emite um token JWT.
// Email desconhecido e senha incorreta produzem o mesmo 401 para não
// revelar quais emails estão cadastrados.
func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool) (*model.LoginResult, error) {
	if !validation.IsValidEmail(email) {
		return nil, apperrors.BadRequest("Invalid email", nil)
	}

	entity, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if apiErr, ok := apperrors.AsAPIError(err); ok && apiErr.Code == http.StatusNotFound {
			s.logger.Warn("falha na autenticação: email não cadastrado", zap.String("email", email))
			return nil, apperrors.Unauthorized("Invalid Credentials", nil)
		}
		return nil, err
	}

	if !security.CheckPassword(password, entity.Password) {
		s.logger.Warn("falha na autenticação: senha incorreta", zap.String("user_id", entity.ID))
		return nil, apperrors.Unauthorized("Invalid Credentials", nil)
	}

	token, err := s.tokens.GenerateToken(entity.ID, rememberMe)
	if err != nil {
		return nil, apperrors.InternalServer("", err)
	}

	s.logger.Info("login bem-sucedido", zap.String("user_id", entity.ID))

	return &model.LoginResult{
		Token: token,
		User:  entity.ToModel(),
	}, nil
}

// CreateUser valida e persiste um novo usuário, retornando-o sem a senha.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if !validation.IsValidEmail(input.Email) {
		return nil, apperrors.BadRequest("Invalid email", nil)
	}

	if !validation.IsStrongPassword(input.Password) {
		return nil, apperrors.BadRequest(
			"Password must be at least 7 characters long and contain both uppercase and lowercase letters", nil)
	}

	email := strings.ToLower(input.Email)

	// Pré-checagem de unicidade; o índice único do banco cobre a corrida
	// entre esta consulta e o Insert
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.BadRequest("Email already in use", nil)
	} else if apiErr, ok := apperrors.AsAPIError(err); !ok || apiErr.Code != http.StatusNotFound {
		return nil, err
	}

	digest, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.InternalServer("", err)
	}

	entity := &model.UserEntity{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     email,
		Password:  digest,
		BirthDate: input.BirthDate,
		CPF:       input.CPF,
	}

	if err := s.repo.Insert(ctx, entity); err != nil {
		return nil, err
	}

	s.logger.Info("usuário criado", zap.String("user_id", entity.ID))

	return entity.ToModel(), nil
}

// GetUser busca um usuário pelo id
func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.BadRequest("Bad user id", nil)
	}

	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return entity.ToModel(), nil
}

// GetUsers retorna uma página de usuários em ordem alfabética com os
// contadores de paginação.
func (s *Service) GetUsers(ctx context.Context, count, skip int) (*model.UsersPage, error) {
	if count <= 0 {
		count = DefaultPageCount
	}
	if skip < 0 {
		skip = DefaultPageSkip
	}

	entities, total, err := s.repo.FindPage(ctx, count, skip)
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(entities))
	for i := range entities {
		users = append(users, entities[i].ToModel())
	}

	// hasMore considera a janela pedida, não a quantidade retornada
	hasMore := total-int64(skip)-int64(count) > 0

	return &model.UsersPage{
		Users:        users,
		HasMore:      hasMore,
		SkippedUsers: skip,
		TotalUsers:   int(total),
	}, nil
}
