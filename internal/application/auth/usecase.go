package auth

import (
	"context"
	"time"

	"github.com/tu-usuario/retail-api/internal/application/dto"
	"github.com/tu-usuario/retail-api/internal/domain"
	"github.com/tu-usuario/retail-api/internal/domain/entity"
	"github.com/tu-usuario/retail-api/internal/domain/repository"
	"github.com/tu-usuario/retail-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpMin  int
	RefreshExpMin int
	Issuer        string
}

// UseCase casos de uso de autenticación: registro, login y rotación de tokens.
type UseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register crea un usuario: hashea password con bcrypt y persiste.
// Devuelve Conflict si el email ya existe.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	if in.Email == "" || in.Password == "" || in.Username == "" {
		return nil, domain.InvalidInput("username, email y password son requeridos")
	}
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("el email %s ya está registrado", in.Email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleStaff
	}
	if role != entity.RoleAdmin && role != entity.RoleStaff {
		return nil, domain.InvalidInput("rol inválido: %s", role)
	}
	now := time.Now()
	user := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.authResponse(user)
}

// Login verifica email/password y emite el par access + refresh.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Unauthorized("credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.Unauthorized("credenciales inválidas")
	}
	return uc.authResponse(user)
}

// Refresh valida el refresh token, verifica que el usuario siga existiendo y
// rota ambos tokens.
func (uc *UseCase) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	userID, _, err := jwt.ParseRefreshToken(uc.jwtCfg.RefreshSecret, refreshToken)
	if err != nil {
		return nil, domain.Unauthorized("refresh token inválido o expirado")
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Unauthorized("usuario no encontrado")
	}
	access, refresh, err := uc.tokenPair(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func (uc *UseCase) tokenPair(user *entity.User) (access, refresh string, err error) {
	access, err = jwt.GenerateAccessToken(uc.jwtCfg.AccessSecret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.AccessExpMin)
	if err != nil {
		return "", "", err
	}
	refresh, err = jwt.GenerateRefreshToken(uc.jwtCfg.RefreshSecret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshExpMin)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (uc *UseCase) authResponse(user *entity.User) (*dto.AuthResponse, error) {
	access, refresh, err := uc.tokenPair(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		User:         *toUserResponse(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
