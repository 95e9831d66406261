package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/testutil"
)

var (
	nick   = &domain.Principal{ID: "1", Role: domain.RoleAdmin, Country: domain.CountryAmerica}
	marvel = &domain.Principal{ID: "2", Role: domain.RoleManager, Country: domain.CountryIndia}
	thanos = &domain.Principal{ID: "4", Role: domain.RoleMember, Country: domain.CountryIndia}
)

func newService(t *testing.T) *Service {
	return &Service{Repo: &GormRepo{DB: testutil.NewSeededDB(t)}}
}

func names(rs []models.Restaurant) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}

func TestService_ListRestaurants(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		p    *domain.Principal
		term string
		want []string
	}{
		{name: "anonymous sees all", p: nil, want: []string{
			"Taj Mahal Spices", "Delhi Delights", "Mumbai Street Food", "American Diner", "Burger Joint", "New York Pizza"}},
		{name: "member sees own country", p: thanos, want: []string{"Taj Mahal Spices", "Delhi Delights", "Mumbai Street Food"}},
		{name: "search by name is case insensitive", p: nil, term: "  BURGER ", want: []string{"Burger Joint"}},
		{name: "search by description", p: nil, term: "chaat", want: []string{"Mumbai Street Food"}},
		{name: "search respects visibility", p: thanos, term: "pizza", want: []string{}},
		{name: "admin search", p: nick, term: "delhi", want: []string{"Delhi Delights"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListRestaurants(ctx, tt.p, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

type stubSearcher struct {
	ids []string
	err error
}

func (s stubSearcher) SearchRestaurants(context.Context, string) ([]string, error) {
	return s.ids, s.err
}

func TestService_ListRestaurantsWithSearcher(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	svc.Search = stubSearcher{ids: []string{"6", "1", "4"}}
	got, err := svc.ListRestaurants(ctx, thanos, "anything")
	require.NoError(t, err)
	assert.Equal(t, []string{"Taj Mahal Spices"}, names(got))

	svc.Search = stubSearcher{err: errors.New("cluster red")}
	got, err = svc.ListRestaurants(ctx, nil, "garlic")
	require.NoError(t, err)
	assert.Empty(t, got, "fallback matches restaurant text only")

	got, err = svc.ListRestaurants(ctx, nil, "thin crust")
	require.NoError(t, err)
	assert.Equal(t, []string{"New York Pizza"}, names(got))
}

func TestService_ListRestaurantsMidWordWithoutSearchHits(t *testing.T) {
	searcher, fake := newFakeSearcher(t)
	fake.searchHits = `[]`

	svc := newService(t)
	svc.Search = searcher
	ctx := context.Background()

	got, err := svc.ListRestaurants(ctx, thanos, "elhi")
	require.NoError(t, err)
	assert.Equal(t, []string{"Delhi Delights"}, names(got))

	svc.Search = nil
	withoutSearch, err := svc.ListRestaurants(ctx, thanos, "elhi")
	require.NoError(t, err)
	assert.Equal(t, names(withoutSearch), names(got))
}

func TestService_ListRestaurantsUnionsSearchHits(t *testing.T) {
	svc := newService(t)
	svc.Search = stubSearcher{ids: []string{"3"}}

	got, err := svc.ListRestaurants(context.Background(), marvel, "delhi")
	require.NoError(t, err)
	assert.Equal(t, []string{"Delhi Delights", "Mumbai Street Food"}, names(got))
}

func TestService_GetRestaurantAndMenu(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.GetRestaurant(ctx, thanos, "4")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.GetRestaurant(ctx, thanos, "42")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	r, err := svc.GetRestaurant(ctx, nil, "4")
	require.NoError(t, err)
	assert.Equal(t, "American Diner", r.Name)

	menu, err := svc.Menu(ctx, marvel, "1")
	require.NoError(t, err)
	require.Len(t, menu, 3)
	assert.Equal(t, "Butter Chicken", menu[0].Name)
	assert.Equal(t, "14.99", menu[0].Price.StringFixed(2))

	_, err = svc.Menu(ctx, marvel, "5")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

type recordingIndexer struct {
	indexed []string
	removed []string
}

func (r *recordingIndexer) IndexRestaurant(_ context.Context, rest models.Restaurant) error {
	r.indexed = append(r.indexed, rest.Name)
	return nil
}

func (r *recordingIndexer) RemoveRestaurant(_ context.Context, id string) error {
	r.removed = append(r.removed, id)
	return nil
}

func TestService_AdminRestaurants(t *testing.T) {
	svc := newService(t)
	idx := &recordingIndexer{}
	svc.Index = idx
	ctx := context.Background()

	_, err := svc.CreateRestaurant(ctx, marvel, RestaurantInput{Name: "Chai Point", Country: domain.CountryIndia})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.CreateRestaurant(ctx, nick, RestaurantInput{Name: " ", Country: domain.CountryIndia})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateRestaurant(ctx, nick, RestaurantInput{Name: "Chai Point", Country: "Canada"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	r, err := svc.CreateRestaurant(ctx, nick, RestaurantInput{Name: "Chai Point", Country: domain.CountryIndia, Description: "Tea"})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)

	r, err = svc.UpdateRestaurant(ctx, nick, r.ID, RestaurantInput{Name: "Chai Point Express", Country: domain.CountryIndia})
	require.NoError(t, err)
	assert.Equal(t, "Chai Point Express", r.Name)

	_, err = svc.UpdateRestaurant(ctx, nick, "missing", RestaurantInput{Name: "X", Country: domain.CountryIndia})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := svc.AdminRestaurants(ctx, nick)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	assert.Equal(t, []string{"Chai Point", "Chai Point Express"}, idx.indexed)
}

func TestService_DeleteRestaurantCascadesMenu(t *testing.T) {
	svc := newService(t)
	idx := &recordingIndexer{}
	svc.Index = idx
	ctx := context.Background()

	require.NoError(t, svc.DeleteRestaurant(ctx, nick, "6"))
	assert.Equal(t, []string{"6"}, idx.removed)

	_, err := svc.Repo.GetMenuItem(ctx, "601")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := svc.Repo.CountMenuItems(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 15, n)

	assert.ErrorIs(t, svc.DeleteRestaurant(ctx, nick, "6"), domain.ErrNotFound)
}

func TestService_AdminDishes(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.CreateDish(ctx, nick, DishInput{Name: "Samosa", Price: decimal.RequireFromString("3.50"), RestaurantID: "404"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateDish(ctx, nick, DishInput{Name: "Samosa", Price: decimal.RequireFromString("-1"), RestaurantID: "2"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateDish(ctx, thanos, DishInput{Name: "Samosa", Price: decimal.RequireFromString("3.50"), RestaurantID: "2"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	d, err := svc.CreateDish(ctx, nick, DishInput{Name: "Samosa", Price: decimal.RequireFromString("3.50"), RestaurantID: "2"})
	require.NoError(t, err)

	dishes, err := svc.AdminDishes(ctx, nick, "2")
	require.NoError(t, err)
	assert.Len(t, dishes, 4)

	d, err = svc.UpdateDish(ctx, nick, d.ID, DishInput{Name: "Samosa (2 pc)", Price: decimal.RequireFromString("4.25"), RestaurantID: "2"})
	require.NoError(t, err)

	got, err := svc.Repo.GetMenuItem(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Samosa (2 pc)", got.Name)
	assert.Equal(t, "4.25", got.Price.StringFixed(2))

	require.NoError(t, svc.DeleteDish(ctx, nick, d.ID))
	assert.ErrorIs(t, svc.DeleteDish(ctx, nick, d.ID), domain.ErrNotFound)

	all, err := svc.AdminDishes(ctx, nick, "")
	require.NoError(t, err)
	assert.Len(t, all, 18)
}
