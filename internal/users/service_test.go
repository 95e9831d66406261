package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/testutil"
)

var (
	nick   = &domain.Principal{ID: "1", Role: domain.RoleAdmin, Country: domain.CountryAmerica}
	marvel = &domain.Principal{ID: "2", Role: domain.RoleManager, Country: domain.CountryIndia}
)

func newService(t *testing.T) *Service {
	return &Service{Repo: &GormRepo{DB: testutil.NewSeededDB(t)}}
}

func TestRepo_FindByEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	u, err := svc.Repo.FindByEmail(ctx, " Thanos@Shield.com ")
	require.NoError(t, err)
	assert.Equal(t, "4", u.ID)

	_, err = svc.Repo.FindByEmail(ctx, "loki@asgard.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_RequiresAdmin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, _, err := svc.List(ctx, marvel, 0, 0)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = svc.List(ctx, nil, 0, 0)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = svc.Delete(ctx, marvel, "5")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_CreateUpdateDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, nick, Input{Name: "Loki", Email: "Loki@Asgard.com", Role: domain.RoleMember, Country: domain.CountryIndia})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "loki@asgard.com", u.Email)

	users, total, err := svc.List(ctx, nick, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Len(t, users, 7)

	updated, err := svc.Update(ctx, nick, u.ID, Input{Name: "Loki", Email: "loki@asgard.com", Role: domain.RoleManager, Country: domain.CountryIndia})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, updated.Role)

	require.NoError(t, svc.Delete(ctx, nick, u.ID))
	assert.ErrorIs(t, svc.Delete(ctx, nick, u.ID), domain.ErrNotFound)
}

func TestService_Validation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   Input
	}{
		{name: "missing name", in: Input{Email: "a@b.c", Role: domain.RoleMember, Country: domain.CountryIndia}},
		{name: "bad email", in: Input{Name: "A", Email: "nope", Role: domain.RoleMember, Country: domain.CountryIndia}},
		{name: "bad role", in: Input{Name: "A", Email: "a@b.c", Role: "Boss", Country: domain.CountryIndia}},
		{name: "bad country", in: Input{Name: "A", Email: "a@b.c", Role: domain.RoleMember, Country: "Mars"}},
		{name: "duplicate email", in: Input{Name: "A", Email: "THOR@shield.com", Role: domain.RoleMember, Country: domain.CountryIndia}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, nick, tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	_, err := svc.Update(ctx, nick, "5", Input{Name: "Thor", Email: "thor@shield.com", Role: domain.RoleMember, Country: domain.CountryIndia})
	assert.NoError(t, err, "keeping own email is allowed")

	assert.ErrorIs(t, svc.Delete(ctx, nick, "1"), domain.ErrValidation)
}
