package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"handcraftedhaven/internal/domain"
	"handcraftedhaven/internal/repos"
)

type AuthService struct {
	Artisans *repos.ArtisanRepo
}

func (s *AuthService) Login(ctx context.Context, sid, email, password string) (*domain.Artisan, error) {
	a, err := s.Artisans.ByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(password)) != nil {
		return nil, domain.ErrBadCreds
	}
	if err := s.Artisans.BindSession(ctx, sid, a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Artisans.UnbindSession(ctx, sid)
}

func (s *AuthService) CurrentArtisan(ctx context.Context, sid string) (*domain.Artisan, error) {
	return s.Artisans.SessionArtisan(ctx, sid)
}
