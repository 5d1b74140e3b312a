package service

import (
	"context"
	"time"

	"migapos/internal/dto"
	"migapos/internal/model"
	"migapos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles login and user administration. Tokens carry user_id,
// tenant_id and rol; every request downstream is scoped by those claims.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, tenantID uuid.UUID, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, tenantID uuid.UUID) ([]dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, tenantID, id uuid.UUID) error
}

type authService struct {
	usuarios  repository.UsuarioRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(usuarios repository.UsuarioRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{usuarios: usuarios, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.usuarios.FindByEmail(ctx, req.Email)
	if err != nil {
		// Mismo error para usuario inexistente y password incorrecta.
		return nil, ErrCredencialesInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredencialesInvalidas
	}

	ahora := time.Now()
	claims := jwt.MapClaims{
		"user_id":   u.ID.String(),
		"tenant_id": u.TenantID.String(),
		"rol":       u.Rol,
		"iat":       ahora.Unix(),
		"exp":       ahora.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, &DependenciaError{Op: "firmar token", Causa: err}
	}

	log.Info().Str("usuario", u.Email).Str("rol", u.Rol).Msg("login exitoso")

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.tokenTTL.Seconds()),
		Usuario:   usuarioToResponse(u),
	}, nil
}

func (s *authService) CrearUsuario(ctx context.Context, tenantID uuid.UUID, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if _, err := s.usuarios.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailEnUso
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &DependenciaError{Op: "hashear password", Causa: err}
	}

	u := &model.Usuario{
		TenantID:       tenantID,
		Email:          req.Email,
		PasswordHash:   string(hash),
		NombreCompleto: req.NombreCompleto,
		Rol:            req.Rol,
		Activo:         true,
	}
	if err := s.usuarios.Create(ctx, u); err != nil {
		return nil, &DependenciaError{Op: "crear usuario", Causa: err}
	}
	resp := usuarioToResponse(u)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, tenantID uuid.UUID) ([]dto.UsuarioResponse, error) {
	usuarios, err := s.usuarios.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		out = append(out, usuarioToResponse(&usuarios[i]))
	}
	return out, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.usuarios.FindByID(ctx, tenantID, id); err != nil {
		return ErrUsuarioNoEncontrado
	}
	return s.usuarios.SoftDelete(ctx, tenantID, id)
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:             u.ID.String(),
		Email:          u.Email,
		NombreCompleto: u.NombreCompleto,
		Rol:            u.Rol,
		Activo:         u.Activo,
	}
}
