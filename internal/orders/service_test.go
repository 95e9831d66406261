package orders

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_storefront/internal/cart"
	"github.com/Skotchmaster/food_storefront/internal/catalog"
	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/events"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/payments"
	"github.com/Skotchmaster/food_storefront/internal/testutil"
)

var (
	nick    = &domain.Principal{ID: "1", Name: "Nick Fury", Role: domain.RoleAdmin, Country: domain.CountryAmerica}
	marvel  = &domain.Principal{ID: "2", Name: "Captain Marvel", Role: domain.RoleManager, Country: domain.CountryIndia}
	america = &domain.Principal{ID: "3", Name: "Captain America", Role: domain.RoleManager, Country: domain.CountryAmerica}
	thanos  = &domain.Principal{ID: "4", Name: "Thanos", Role: domain.RoleMember, Country: domain.CountryIndia}
)

func sampleOrder() models.Order {
	return models.Order{ID: "x", RestaurantName: "Taj Mahal Spices", Status: domain.StatusPending, Total: decimal.RequireFromString("42.97")}
}

func samplePM() models.PaymentMethod {
	return models.PaymentMethod{ID: "2001", UserID: "1", CardLast4: "4242", Provider: "Visa", Expiry: "05/25"}
}

type fixture struct {
	svc    *Service
	carts  *cart.Service
	events *events.RecordingPublisher
}

func newFixture(t *testing.T, settler Settler) *fixture {
	t.Helper()
	db := testutil.NewSeededDB(t)
	rec := &events.RecordingPublisher{}
	menu := &catalog.GormRepo{DB: db}
	carts := &cart.Service{Store: &cart.GormStore{DB: db}, Menu: menu, Events: rec}
	return &fixture{
		svc: &Service{
			Repo:        &GormRepo{DB: db},
			Carts:       carts,
			Payments:    &payments.Service{Repo: &payments.GormRepo{DB: db}},
			Restaurants: menu,
			Settler:     settler,
			Guard:       NewLocalGuard(),
			Events:      rec,
		},
		carts:  carts,
		events: rec,
	}
}

func (f *fixture) fill(t *testing.T, p *domain.Principal, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := f.carts.AddItem(context.Background(), p, id, false)
		require.NoError(t, err)
	}
}

func ids(orders []models.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestQuote(t *testing.T) {
	f := newFixture(t, SimulatedSettler{})
	f.fill(t, marvel, "101", "101", "102")

	q, err := f.svc.Quote(context.Background(), marvel)
	require.NoError(t, err)
	assert.Equal(t, "42.97", q.Subtotal.StringFixed(2))
	assert.Equal(t, "4.30", q.Tax.StringFixed(2))
	assert.Equal(t, "47.27", q.Total.StringFixed(2))
	assert.Equal(t, "1", q.RestaurantID)
	assert.Len(t, q.Lines, 2)

	_, err = f.svc.Quote(context.Background(), thanos)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCheckout_Success(t *testing.T) {
	f := newFixture(t, SimulatedSettler{Delay: time.Millisecond})
	ctx := context.Background()
	f.fill(t, marvel, "201", "201", "203")

	o, err := f.svc.Checkout(ctx, marvel, "2002")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, o.Status)
	assert.Equal(t, "26.97", o.Total.StringFixed(2))
	assert.Equal(t, "Delhi Delights", o.RestaurantName)

	stored, err := f.svc.Repo.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, stored.Status)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "201", stored.Items[0].MenuItemID)
	assert.Equal(t, 2, stored.Items[0].Quantity)

	c, err := f.carts.Get(ctx, marvel)
	require.NoError(t, err)
	assert.True(t, c.Empty())

	assert.Equal(t, []string{events.OrderCreated, events.CartCleared, events.OrderPaid}, f.events.Types())
}

func TestCheckout_Rejections(t *testing.T) {
	f := newFixture(t, SimulatedSettler{})
	ctx := context.Background()

	_, err := f.svc.Checkout(ctx, thanos, "2004")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.Checkout(ctx, nil, "2004")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.Checkout(ctx, marvel, "2002")
	assert.ErrorIs(t, err, domain.ErrValidation, "empty cart")

	f.fill(t, marvel, "301")
	_, err = f.svc.Checkout(ctx, marvel, "2001")
	assert.ErrorIs(t, err, domain.ErrValidation, "foreign payment method")
	_, err = f.svc.Checkout(ctx, marvel, "")
	assert.ErrorIs(t, err, domain.ErrValidation, "no payment method")

	all, err := f.svc.Repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5, "no order created")
}

func TestCheckout_SettlementFailureKeepsPending(t *testing.T) {
	f := newFixture(t, SettlerFunc(func(context.Context, models.Order, models.PaymentMethod) error {
		return errors.New("card declined")
	}))
	ctx := context.Background()
	f.fill(t, nick, "601", "602")

	o, err := f.svc.Checkout(ctx, nick, "2001")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSettlementFailed)
	require.NotNil(t, o)
	assert.Equal(t, domain.StatusPending, o.Status)

	stored, err := f.svc.Repo.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Equal(t, "31.98", stored.Total.StringFixed(2))

	c, err := f.carts.Get(ctx, nick)
	require.NoError(t, err)
	assert.Len(t, c.Lines(), 2, "cart kept for retry")

	cancelled, err := f.svc.Cancel(ctx, nick, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
}

func TestCheckout_CancelledContextFailsSettlement(t *testing.T) {
	f := newFixture(t, SimulatedSettler{Delay: time.Hour})
	f.fill(t, america, "501")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	o, err := f.svc.Checkout(ctx, america, "2003")
	assert.ErrorIs(t, err, domain.ErrSettlementFailed)
	require.NotNil(t, o)

	stored, err := f.svc.Repo.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestCheckout_ReentrantCallRejected(t *testing.T) {
	entered := make(chan struct{})
	proceed := make(chan struct{})
	var once sync.Once

	f := newFixture(t, SettlerFunc(func(context.Context, models.Order, models.PaymentMethod) error {
		once.Do(func() { close(entered) })
		<-proceed
		return nil
	}))
	ctx := context.Background()
	f.fill(t, marvel, "103")

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Checkout(ctx, marvel, "2002")
		done <- err
	}()

	<-entered
	_, err := f.svc.Checkout(ctx, marvel, "2002")
	assert.ErrorIs(t, err, domain.ErrCheckoutInProgress)

	close(proceed)
	require.NoError(t, <-done)

	all, err := f.svc.List(ctx, marvel)
	require.NoError(t, err)
	assert.Len(t, all, 3, "only one new order")
}

func TestList_Visibility(t *testing.T) {
	f := newFixture(t, SimulatedSettler{})
	ctx := context.Background()

	got, err := f.svc.List(ctx, marvel)
	require.NoError(t, err)
	assert.Equal(t, []string{"1001", "1002", "1004"}, ids(got))

	got, err = f.svc.List(ctx, thanos)
	require.NoError(t, err)
	assert.Equal(t, []string{"1004"}, ids(got))

	got, err = f.svc.List(ctx, nick)
	require.NoError(t, err)
	assert.Equal(t, []string{"1001", "1002", "1003", "1004", "1005"}, ids(got))

	_, err = f.svc.List(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.AdminList(ctx, marvel)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCancel(t *testing.T) {
	f := newFixture(t, SimulatedSettler{})
	ctx := context.Background()

	_, err := f.svc.Cancel(ctx, thanos, "1004")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "members cannot cancel")

	_, err = f.svc.Cancel(ctx, marvel, "1003")
	assert.ErrorIs(t, err, domain.ErrNotFound, "outside manager scope")

	_, err = f.svc.Cancel(ctx, nick, "1001")
	assert.ErrorIs(t, err, domain.ErrForbiddenTransition, "paid is terminal")

	o, err := f.svc.Cancel(ctx, marvel, "1002")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, o.Status)

	_, err = f.svc.Cancel(ctx, marvel, "1002")
	assert.ErrorIs(t, err, domain.ErrForbiddenTransition)

	_, err = f.svc.Cancel(ctx, nick, "9999")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, []string{events.OrderCancelled}, f.events.Types())
}

func TestRepo_UpdateStatusRace(t *testing.T) {
	f := newFixture(t, SimulatedSettler{})
	ctx := context.Background()

	require.NoError(t, f.svc.Repo.UpdateStatus(ctx, "1004", domain.StatusPending, domain.StatusPaid))
	err := f.svc.Repo.UpdateStatus(ctx, "1004", domain.StatusPending, domain.StatusCancelled)
	assert.ErrorIs(t, err, domain.ErrForbiddenTransition)

	err = f.svc.Repo.UpdateStatus(ctx, "nope", domain.StatusPending, domain.StatusPaid)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	counts, err := f.svc.Repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[domain.StatusPending])
	assert.EqualValues(t, 3, counts[domain.StatusPaid])
	assert.EqualValues(t, 1, counts[domain.StatusCancelled])
}

func TestReceipt(t *testing.T) {
	f := newFixture(t, SimulatedSettler{})
	ctx := context.Background()

	png, err := f.svc.Receipt(ctx, thanos, "1004")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = f.svc.Receipt(ctx, thanos, "1001")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, "order=1001;restaurant=Taj Mahal Spices;status=paid;total=42.97",
		receiptPayload(models.Order{ID: "1001", RestaurantName: "Taj Mahal Spices", Status: domain.StatusPaid, Total: decimal.RequireFromString("42.97")}))
}
