package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/food_storefront/internal/domain"
)

type PrincipalClaims struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Role    domain.Role    `json:"role"`
	Country domain.Country `json:"country"`
	jwt.RegisteredClaims
}

// Codec turns a principal into a signed token and back.
type Codec struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func NewCodec(secret []byte, ttl time.Duration, issuer string) *Codec {
	return &Codec{secret: secret, ttl: ttl, issuer: issuer}
}

func (c *Codec) TTL() time.Duration { return c.ttl }

func (c *Codec) Save(p domain.Principal) (string, error) {
	now := time.Now()
	claims := PrincipalClaims{
		Name:    p.Name,
		Email:   p.Email,
		Role:    p.Role,
		Country: p.Country,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Restore fails with domain.ErrCorruptToken for anything that is not a
// current, well-formed token signed with this codec's secret.
func (c *Codec) Restore(token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, fmt.Errorf("empty token: %w", domain.ErrCorruptToken)
	}

	var claims PrincipalClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.secret, nil
	}, jwt.WithIssuer(c.issuer), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrCorruptToken, err)
	}

	p := domain.Principal{
		ID:      claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Role:    claims.Role,
		Country: claims.Country,
	}
	if p.ID == "" || !p.Role.Valid() || !p.Country.Valid() {
		return domain.Principal{}, fmt.Errorf("incomplete principal: %w", domain.ErrCorruptToken)
	}
	return p, nil
}
