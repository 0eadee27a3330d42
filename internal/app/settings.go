package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/agentdesk/internal/domain/model"
)

// Branding returns a copy of the branding settings.
func (s *Service) Branding() model.Branding {
	current := s.branding.Get()
	out := make(model.Branding, len(current))
	for k, v := range current {
		out[k] = v
	}
	return out
}

// SetBranding replaces the branding settings.
func (s *Service) SetBranding(ctx context.Context, b model.Branding) model.Branding {
	if b == nil {
		b = model.Branding{}
	}
	s.branding.Set(ctx, b)
	return s.Branding()
}

// Session returns the demo user, if any.
func (s *Service) Session() model.Session {
	return s.session.Get()
}

// Login sets the demo user. Nothing is verified; the role defaults to
// viewer.
func (s *Service) Login(ctx context.Context, name, role string) (model.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Session{}, fmt.Errorf("%w: name is required", ErrInvalidLogin)
	}
	switch role = strings.ToLower(strings.TrimSpace(role)); role {
	case "":
		role = model.RoleViewer
	case model.RoleAdmin, model.RoleViewer:
	default:
		return model.Session{}, fmt.Errorf("%w: role %q", ErrInvalidLogin, role)
	}
	return s.session.Set(ctx, model.Session{Name: name, Role: role}), nil
}

// Logout clears the demo user.
func (s *Service) Logout(ctx context.Context) {
	s.session.Clear(ctx)
}
