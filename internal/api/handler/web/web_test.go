package web

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/raffle-web/internal/api/middleware"
	"github.com/vietanh2810/raffle-web/internal/config"
	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/service"
	"github.com/vietanh2810/raffle-web/internal/view"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	users map[string]domain.User
}

func (f *fakeAuth) Signup(_ context.Context, form domain.AuthFormData) (domain.User, error) {
	if _, ok := f.users[form.Email]; ok {
		return domain.User{}, service.ErrUserEmailExists
	}
	u := domain.User{ID: uint(len(f.users) + 1), UserNumber: "55554444", Email: form.Email, Password: form.Password, Role: domain.RoleUser, Status: domain.UserActive}
	f.users[form.Email] = u
	return u, nil
}

func (f *fakeAuth) Login(_ context.Context, form domain.AuthFormData) (domain.User, error) {
	u, ok := f.users[form.Email]
	if !ok {
		return domain.User{}, service.ErrUserNotFound
	}
	if u.Password != form.Password {
		return domain.User{}, service.ErrWrongPassword
	}
	if u.Status == domain.UserSuspended {
		return domain.User{}, service.ErrUserSuspended
	}
	return u, nil
}

type fakeItems struct {
	items   []domain.Item
	filters []domain.PublicFilter
	sold    map[uint]int
}

func (f *fakeItems) GetItem(_ context.Context, id uint) (domain.Item, error) {
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.Item{}, service.ErrItemNotFound
}

func (f *fakeItems) ListPublic(_ context.Context, filter domain.PublicFilter) ([]domain.PublicItem, error) {
	f.filters = append(f.filters, filter)
	return domain.PublicItems(f.items), nil
}

func (f *fakeItems) ListAdmin(context.Context, domain.ItemFilter) ([]domain.Item, error) {
	return f.items, nil
}

func (f *fakeItems) Categories(context.Context) ([]string, error) {
	return []string{"fashion", "tech"}, nil
}

func (f *fakeItems) CreateItem(_ context.Context, item domain.Item) (domain.Item, error) {
	item.ID = uint(len(f.items) + 1)
	item.Status = domain.ItemActive
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeItems) SellTickets(_ context.Context, id uint, n int) (domain.Item, error) {
	item, err := f.GetItem(context.Background(), id)
	if err != nil {
		return domain.Item{}, err
	}
	if item.TicketsLeft() < n {
		return domain.Item{}, service.ErrNotEnoughTickets
	}
	f.sold[id] += n
	item.TicketsSold += n
	return item, nil
}

type fakeUsers struct {
	auth *fakeAuth
}

func (f *fakeUsers) GetUser(_ context.Context, id uint) (domain.User, error) {
	for _, u := range f.auth.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, service.ErrUserNotFound
}

func (f *fakeUsers) ListUsers(context.Context, domain.UserStatus) ([]domain.User, error) {
	users := make([]domain.User, 0, len(f.auth.users))
	for _, u := range f.auth.users {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeUsers) SetStatus(_ context.Context, id uint, status domain.UserStatus) (domain.User, error) {
	for email, u := range f.auth.users {
		if u.ID == id {
			u.Status = status
			f.auth.users[email] = u
			return u, nil
		}
	}
	return domain.User{}, service.ErrUserNotFound
}

type fakeStats struct{}

func (fakeStats) Dashboard(context.Context) (domain.DashboardStats, error) {
	return domain.DashboardStats{ActiveItems: 2, CompletedItems: 1, TicketsSold: 40, TicketRevenue: 120, Users: 3}, nil
}

type fixture struct {
	router *gin.Engine
	auth   *fakeAuth
	items  *fakeItems
	jar    http.CookieJar
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	renderer, err := view.New()
	require.NoError(t, err)

	fa := &fakeAuth{users: map[string]domain.User{
		"admin@example.com": {ID: 1, UserNumber: "10000001", Email: "admin@example.com", Password: "admin1234", Role: domain.RoleAdmin, Status: domain.UserActive},
		"ana@example.com":   {ID: 2, UserNumber: "10000002", Email: "ana@example.com", Password: "secret123", Role: domain.RoleUser, Status: domain.UserActive, Balance: 12.5, RafflePoints: 40},
	}}
	fi := &fakeItems{
		items: []domain.Item{
			{ID: 1, Name: "Drone", Category: "tech", Price: 650, TicketPrice: 3, TicketsTotal: 100, TicketsSold: 40, Status: domain.ItemActive},
			{ID: 2, Name: "Scarf", Category: "fashion", Price: 40, TicketPrice: 1, TicketsTotal: 10, TicketsSold: 10, Status: domain.ItemCompleted},
		},
		sold: map[uint]int{},
	}

	authn := middleware.NewAuthenticator(
		&config.APIConfig{JWTSigningKey: "test-signing-key-0123456789", TokenTTL: time.Hour},
		&config.SessionConfig{CookieName: "raffle_session"},
	).WithUserLookup(&fakeUsers{auth: fa})
	prefs := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))

	h := NewHandler(renderer, authn, prefs, "raffle_prefs", Services{
		Auth:  fa,
		Items: fi,
		Users: &fakeUsers{auth: fa},
		Stats: fakeStats{},
	})

	r := gin.New()
	r.Use(authn.Hydrate())
	h.Routes(r)
	r.NoRoute(h.NoRoute)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &fixture{router: r, auth: fa, items: fi, jar: jar}
}

var base, _ = url.Parse("http://example.com/")

func (f *fixture) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("User-Agent", "raffle-test")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range f.jar.Cookies(base) {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	f.jar.SetCookies(base, w.Result().Cookies())

	return w
}

func (f *fixture) login(t *testing.T, email, password string) {
	t.Helper()

	w := f.do(http.MethodPost, "/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, w.Code)
}

func TestHome_RemembersFilter(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/?searchTerm=dro&category=tech&sortBy=price_asc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="dro"`)

	want := domain.PublicFilter{SearchTerm: "dro", Category: "tech", SortBy: domain.SortPriceAsc}

	w = f.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.items.filters, 2)
	assert.Equal(t, want, f.items.filters[0])
	assert.Equal(t, want, f.items.filters[1], "every field must survive the prefs cookie")
	assert.Contains(t, w.Body.String(), `<option value="tech" selected>`)

	w = f.do(http.MethodGet, "/?reset=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.PublicFilter{SortBy: domain.SortNewest}, f.items.filters[3])
}

func TestHome_CorruptPrefsCookie(t *testing.T) {
	f := newFixture(t)
	f.jar.SetCookies(base, []*http.Cookie{{Name: "raffle_prefs", Value: "garbage"}})

	w := f.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.PublicFilter{SortBy: domain.SortNewest}, f.items.filters[0])
}

func TestItemPage(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/items/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Drone")
	assert.Contains(t, body, "data:image/png;base64,")
	assert.Contains(t, body, "http://example.com/items/1")

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/items/99", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/items/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/nowhere", nil).Code)
}

func TestLoginFlow(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/account", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = f.do(http.MethodPost, "/login", url.Values{"email": {"ana@example.com"}, "password": {"wrong123"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	w = f.do(http.MethodGet, "/login", nil)
	assert.Contains(t, w.Body.String(), "Email or password is incorrect.")

	w = f.do(http.MethodPost, "/login", url.Values{"email": {"ana@example.com"}, "password": {"secret123"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/account", w.Header().Get("Location"))

	w = f.do(http.MethodGet, "/account", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Account #10000002")
	assert.Contains(t, body, "Welcome back!")
	assert.Contains(t, body, "$12.50")

	// The flash is shown once.
	w = f.do(http.MethodGet, "/account", nil)
	assert.NotContains(t, w.Body.String(), "Welcome back!")

	w = f.do(http.MethodPost, "/logout", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	w = f.do(http.MethodGet, "/account", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestLogin_SuspendedUser(t *testing.T) {
	f := newFixture(t)
	u := f.auth.users["ana@example.com"]
	u.Status = domain.UserSuspended
	f.auth.users["ana@example.com"] = u

	w := f.do(http.MethodPost, "/login", url.Values{"email": {"ana@example.com"}, "password": {"secret123"}})
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = f.do(http.MethodGet, "/login", nil)
	assert.Contains(t, w.Body.String(), "This account is suspended.")
	assert.Contains(t, w.Body.String(), `href="/login"`)
}

func TestAccount_SuspendedWhileSignedIn(t *testing.T) {
	f := newFixture(t)
	f.login(t, "ana@example.com", "secret123")

	w := f.do(http.MethodGet, "/account", nil)
	require.Equal(t, http.StatusOK, w.Code)

	u := f.auth.users["ana@example.com"]
	u.Status = domain.UserSuspended
	f.auth.users["ana@example.com"] = u

	w = f.do(http.MethodGet, "/account", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	for _, c := range f.jar.Cookies(base) {
		assert.NotEqual(t, "raffle_session", c.Name, "the session cookie must be expired")
	}

	// Reactivating does not bring the dropped session back.
	u.Status = domain.UserActive
	f.auth.users["ana@example.com"] = u
	w = f.do(http.MethodGet, "/account", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/register", url.Values{"email": {"new@example.com"}, "password": {"short"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `value="new@example.com"`)

	w = f.do(http.MethodPost, "/register", url.Values{"email": {"new@example.com"}, "password": {"longer123"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/account", w.Header().Get("Location"))

	w = f.do(http.MethodGet, "/account", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Your user number is 55554444.")

	// Already signed in.
	w = f.do(http.MethodGet, "/register", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestAdmin_Access(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/admin", nil)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	f.login(t, "ana@example.com", "secret123")
	w = f.do(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	f = newFixture(t)
	f.login(t, "admin@example.com", "admin1234")
	w = f.do(http.MethodGet, "/admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Tickets sold")
	assert.Contains(t, body, `action="/admin/items/1/tickets"`)
	assert.NotContains(t, body, `action="/admin/items/2/tickets"`, "completed items take no more sales")
}

func TestAdmin_ItemsAndUsers(t *testing.T) {
	f := newFixture(t)
	f.login(t, "admin@example.com", "admin1234")

	w := f.do(http.MethodPost, "/admin/items", url.Values{
		"name": {"Bike"}, "category": {"Outdoor"}, "price": {"300"}, "ticketPrice": {"2"}, "ticketsTotal": {"150"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, f.items.items, 3)
	assert.Equal(t, "outdoor", f.items.items[2].Category)

	w = f.do(http.MethodPost, "/admin/items/1/tickets", url.Values{"count": {"5"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 5, f.items.sold[1])

	w = f.do(http.MethodPost, "/admin/items/1/tickets", url.Values{"count": {"500"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = f.do(http.MethodGet, "/admin", nil)
	assert.Contains(t, w.Body.String(), "Not enough tickets left.")

	w = f.do(http.MethodPost, "/admin/users/2/status", url.Values{"status": {"suspended"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, domain.UserSuspended, f.auth.users["ana@example.com"].Status)

	w = f.do(http.MethodPost, "/admin/users/1/status", url.Values{"status": {"suspended"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, domain.UserActive, f.auth.users["admin@example.com"].Status)

	w = f.do(http.MethodGet, "/admin/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "You cannot change your own status.")
	assert.Contains(t, w.Body.String(), "Reactivate")
}
