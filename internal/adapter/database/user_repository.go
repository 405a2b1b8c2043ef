package database

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/lmarques/graphql-user-api/pkg/errors"

	"github.com/lmarques/graphql-user-api/internal/domain/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserRepository é o acesso à tabela de usuários. As linhas saem daqui
// completas, com o hash de senha; remover a senha antes de expor o dado
// é responsabilidade dos use-cases.
type UserRepository struct {
	db     *gorm.DB
	logger *zap.Logger
	tracer trace.Tracer
}

// NewUserRepository cria um novo repositório de usuários
func NewUserRepository(db *gorm.DB, logger *zap.Logger) *UserRepository {
	tracer := otel.GetTracerProvider().Tracer("user-api.repository.user")

	return &UserRepository{
		db:     db,
		logger: logger,
		tracer: tracer,
	}
}

// FindByEmail busca um usuário pelo email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.UserEntity, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"UserRepository.FindByEmail",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "users"),
		),
	)
	defer span.End()

	var entity model.UserEntity
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User", nil)
		}
		r.logger.Error("falha ao buscar usuário por email", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, apperrors.InternalServer("", err)
	}

	return &entity, nil
}

// FindByID busca um usuário pelo id
func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.UserEntity, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"UserRepository.FindByID",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "users"),
		),
	)
	defer span.End()

	var entity model.UserEntity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User", nil)
		}
		r.logger.Error("falha ao buscar usuário por id", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, apperrors.InternalServer("", err)
	}

	return &entity, nil
}

// FindPage retorna uma janela de usuários ordenada por nome e o total
// de usuários na tabela.
func (r *UserRepository) FindPage(ctx context.Context, count, skip int) ([]model.UserEntity, int64, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"UserRepository.FindPage",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "users"),
			attribute.Int("page.count", count),
			attribute.Int("page.skip", skip),
		),
	)
	defer span.End()

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.UserEntity{}).Count(&total).Error; err != nil {
		r.logger.Error("falha ao contar usuários", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, 0, apperrors.InternalServer("", err)
	}

	var entities []model.UserEntity
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(count).
		Offset(skip).
		Find(&entities).Error; err != nil {
		r.logger.Error("falha ao buscar página de usuários", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, 0, apperrors.InternalServer("", err)
	}

	return entities, total, nil
}

// Insert persiste um novo usuário. O índice único de email fecha a corrida
// entre a pré-checagem do use-case e a escrita: a segunda inserção
// concorrente falha aqui.
func (r *UserRepository) Insert(ctx context.Context, entity *model.UserEntity) error {
	ctx, span := r.tracer.Start(
		ctx,
		"UserRepository.Insert",
		trace.WithAttributes(
			attribute.String("db.operation", "insert"),
			attribute.String("db.table", "users"),
		),
	)
	defer span.End()

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		if isDuplicateKeyError(err) {
			return apperrors.BadRequest("Email already in use", nil)
		}
		r.logger.Error("falha ao inserir usuário", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return apperrors.InternalServer("", err)
	}

	return nil
}

// isDuplicateKeyError reconhece violações de unicidade também nos drivers
// que não implementam a tradução de erros do GORM
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
