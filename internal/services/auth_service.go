package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/ratepulse/feedback-api/internal/config"
	"github.com/ratepulse/feedback-api/internal/models"
	"github.com/ratepulse/feedback-api/internal/repository"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrMissingIDToken       = errors.New("identity provider response contained no id token")
	ErrIdentityVerification = errors.New("failed to verify identity token")
	ErrMissingSubject       = errors.New("identity token carried no subject")
)

// IdentityClaims is the subset of OIDC claims this service consumes.
type IdentityClaims struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
	Picture    string
}

// IdentityVerifier validates a raw ID token and extracts its claims.
// Production wraps the issuer's oidc verifier; tests substitute a stub.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*IdentityClaims, error)
}

type oidcIdentityVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func (v *oidcIdentityVerifier) Verify(ctx context.Context, rawIDToken string) (*IdentityClaims, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityVerification, err)
	}

	var claims struct {
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityVerification, err)
	}

	return &IdentityClaims{
		Subject:    idToken.Subject,
		Email:      claims.Email,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		Picture:    claims.Picture,
	}, nil
}

// AuthService delegates authentication to an external OIDC provider and
// maintains the local user record derived from its claims.
type AuthService struct {
	oauth        *oauth2.Config
	verifier     IdentityVerifier
	userRepo     repository.UserRepository
	templateRepo repository.TemplateRepository
}

// NewAuthService discovers the OIDC issuer and wires the full login flow.
func NewAuthService(ctx context.Context, cfg *config.Config, userRepo repository.UserRepository, templateRepo repository.TemplateRepository) (*AuthService, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC issuer: %w", err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}

	verifier := &oidcIdentityVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID}),
	}

	return NewAuthServiceWithParts(oauthCfg, verifier, userRepo, templateRepo), nil
}

// NewAuthServiceWithParts assembles an AuthService from pre-built pieces.
func NewAuthServiceWithParts(oauth *oauth2.Config, verifier IdentityVerifier, userRepo repository.UserRepository, templateRepo repository.TemplateRepository) *AuthService {
	return &AuthService{
		oauth:        oauth,
		verifier:     verifier,
		userRepo:     userRepo,
		templateRepo: templateRepo,
	}
}

// AuthCodeURL builds the provider redirect for the given state nonce.
func (s *AuthService) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, verifies the identity
// token, and logs the user in.
func (s *AuthService) HandleCallback(ctx context.Context, code string) (*models.User, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, ErrMissingIDToken
	}

	claims, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	return s.CompleteLogin(claims)
}

// CompleteLogin upserts the user from verified claims and seeds the default
// templates on first login. The feedback link id is assigned on insert and
// preserved on every later login.
func (s *AuthService) CompleteLogin(claims *IdentityClaims) (*models.User, error) {
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	user := &models.User{
		ID:              claims.Subject,
		Email:           optional(claims.Email),
		FirstName:       optional(claims.GivenName),
		LastName:        optional(claims.FamilyName),
		ProfileImageURL: optional(claims.Picture),
	}

	stored, err := s.userRepo.Upsert(user)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	if err := s.seedDefaultTemplates(stored.ID); err != nil {
		return nil, fmt.Errorf("failed to seed default templates: %w", err)
	}

	return stored, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// seedDefaultTemplates gives a brand-new account its starter templates.
// A no-op once the user owns any template at all.
func (s *AuthService) seedDefaultTemplates(userID string) error {
	count, err := s.templateRepo.CountByUserID(userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, seed := range defaultTemplateSeeds() {
		template := seed
		template.UserID = userID
		if err := s.templateRepo.Create(&template); err != nil {
			return err
		}
	}
	return nil
}

func defaultTemplateSeeds() []models.Template {
	return []models.Template{
		{
			Name:        "Customer Service",
			Description: "Collect feedback about customer service quality",
			Categories: []models.Category{
				{ID: "service_quality", Label: "Service Quality"},
				{ID: "response_time", Label: "Response Time"},
				{ID: "problem_resolution", Label: "Problem Resolution"},
				{ID: "overall_experience", Label: "Overall Experience"},
			},
			IsDefault: 1,
		},
		{
			Name:        "Product Feedback",
			Description: "Gather insights about product quality and features",
			Categories: []models.Category{
				{ID: "product_quality", Label: "Product Quality"},
				{ID: "features", Label: "Features"},
				{ID: "usability", Label: "Usability"},
				{ID: "value_for_money", Label: "Value for Money"},
			},
		},
		{
			Name:        "Restaurant Experience",
			Description: "Capture dining experience feedback",
			Categories: []models.Category{
				{ID: "food_quality", Label: "Food Quality"},
				{ID: "service", Label: "Service"},
				{ID: "ambiance", Label: "Ambiance"},
				{ID: "value", Label: "Value"},
			},
		},
		{
			Name:        "Event Feedback",
			Description: "Collect feedback about events and experiences",
			Categories: []models.Category{
				{ID: "organization", Label: "Organization"},
				{ID: "content_quality", Label: "Content Quality"},
				{ID: "venue", Label: "Venue"},
				{ID: "overall_satisfaction", Label: "Overall Satisfaction"},
			},
		},
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
