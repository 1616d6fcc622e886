package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telascatalogo/telas/app/cart"
	"github.com/telascatalogo/telas/app/controllers"
	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/app/order"
	"github.com/telascatalogo/telas/app/repositories"
	"github.com/telascatalogo/telas/app/routes"
	"github.com/telascatalogo/telas/app/services"
	_ "github.com/telascatalogo/telas/database/migrations"
	"github.com/telascatalogo/telas/pkg/auth"
	"github.com/telascatalogo/telas/pkg/database"
	"github.com/telascatalogo/telas/pkg/migration"
	"github.com/telascatalogo/telas/pkg/router"
	"github.com/telascatalogo/telas/pkg/storage"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type testApp struct {
	t       *testing.T
	handler http.Handler
	repo    *repositories.FabricRepository
	token   string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	_, err = migration.New(db).Run()
	require.NoError(t, err)

	ctx := context.Background()
	repo := repositories.NewFabricRepository(db, repositories.WithNotifier(func(string, interface{}) {}))
	admins := repositories.NewAdminRepository(db)
	admin, err := admins.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	token, err := auth.GenerateToken(admin.ID, admin.Username)
	require.NoError(t, err)

	r := router.New()
	require.NoError(t, routes.RegisterAPI(r, routes.Deps{
		Catalog:   services.NewCatalog(repo),
		Fabrics:   repo,
		Auth:      services.NewAuthService(admins),
		Images:    storage.NewImageUploader(storage.NewLocalDisk(t.TempDir(), ""), 1<<20),
		UploadMax: 1 << 20,
		Carts:     cart.NewMemoryStore(),
		Composer:  order.Composer{Currency: "CUP", Phone: "+5355366583"},
	}))
	return &testApp{t: t, handler: r.Handler(), repo: repo, token: token}
}

func (a *testApp) seed(fields models.FabricFields) models.Fabric {
	a.t.Helper()
	f, err := a.repo.Insert(context.Background(), fields)
	require.NoError(a.t, err)
	return f
}

func (a *testApp) do(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body) //nolint:errcheck
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (a *testApp) authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+a.token)
	return req
}

func algodon() models.FabricFields {
	return models.FabricFields{
		Name: "Algodón Premium", PricePerMeter: models.Price(450), Category: "Algodón",
		Color: "Blanco", Material: "Algodón 100%", Width: 150, Stock: 25, Featured: true,
	}
}

func seda() models.FabricFields {
	return models.FabricFields{
		Name: "Seda Elegante", PricePerMeter: models.Price(1200), Category: "Seda",
		Color: "Dorado", Material: "Seda Natural", Width: 140, Stock: 15,
	}
}

func decodeFabrics(t *testing.T, raw json.RawMessage) []models.Fabric {
	t.Helper()
	var out []models.Fabric
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestCatalogRoutes(t *testing.T) {
	app := newTestApp(t)
	a := app.seed(algodon())
	app.seed(seda())

	w, env := app.do(httptest.NewRequest(http.MethodGet, "/api/fabrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeFabrics(t, env.Data), 2)

	_, env = app.do(httptest.NewRequest(http.MethodGet, "/api/fabrics?category=Seda", nil))
	got := decodeFabrics(t, env.Data)
	require.Len(t, got, 1)
	assert.Equal(t, "Seda Elegante", got[0].Name)

	_, env = app.do(httptest.NewRequest(http.MethodGet, "/api/fabrics?search=SEDA", nil))
	assert.Len(t, decodeFabrics(t, env.Data), 1)

	_, env = app.do(httptest.NewRequest(http.MethodGet, "/api/fabrics?featured=true", nil))
	got = decodeFabrics(t, env.Data)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	_, env = app.do(httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	var cats []string
	require.NoError(t, json.Unmarshal(env.Data, &cats))
	assert.ElementsMatch(t, []string{"Algodón", "Seda"}, cats)
}

func TestShowFabric(t *testing.T) {
	app := newTestApp(t)
	a := app.seed(algodon())

	w, env := app.do(httptest.NewRequest(http.MethodGet, "/api/fabrics/"+itoa(a.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	var f models.Fabric
	require.NoError(t, json.Unmarshal(env.Data, &f))
	assert.Equal(t, "Algodón Premium", f.Name)

	w, env = app.do(httptest.NewRequest(http.MethodGet, "/api/fabrics/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Fabric not found", env.Message)

	w, _ = app.do(httptest.NewRequest(http.MethodGet, "/api/fabrics/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminWritesRequireToken(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.do(jsonRequest(http.MethodPost, "/api/fabrics", map[string]interface{}{
		"name": "Lino", "pricePerMeter": 650, "category": "Lino",
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = app.do(httptest.NewRequest(http.MethodDelete, "/api/fabrics/1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminFabricLifecycle(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(app.authed(jsonRequest(http.MethodPost, "/api/fabrics", map[string]interface{}{
		"name": "Lino Veraniego", "pricePerMeter": 650, "category": "Lino",
	})))
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Fabric
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.DefaultWidth, created.Width)

	w, env = app.do(app.authed(jsonRequest(http.MethodPost, "/api/fabrics", map[string]interface{}{
		"name": "Sin precio", "category": "Lino",
	})))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "pricePerMeter")

	path := "/api/fabrics/" + itoa(created.ID)
	w, env = app.do(app.authed(jsonRequest(http.MethodPut, path, map[string]interface{}{
		"name": "Lino Natural", "pricePerMeter": 700, "category": "Lino", "stock": 4,
	})))
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Fabric
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Lino Natural", updated.Name)
	assert.Equal(t, 700.0, updated.PricePerMeter)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	w, _ = app.do(app.authed(jsonRequest(http.MethodPut, "/api/fabrics/999", map[string]interface{}{
		"name": "Nada", "pricePerMeter": 1, "category": "Lino",
	})))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = app.do(app.authed(httptest.NewRequest(http.MethodDelete, path, nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Fabric deleted successfully", env.Message)

	w, _ = app.do(app.authed(httptest.NewRequest(http.MethodDelete, path, nil)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "admin", "password": "wrong",
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", env.Message)

	w, env = app.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "password")

	w, env = app.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "admin", "password": "admin123",
	}))
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "admin", out.User.Username)

	claims, err := auth.ValidateToken(out.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestUpload(t *testing.T) {
	app := newTestApp(t)

	upload := func(content []byte) *http.Request {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", "muestra.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	w, _ := app.do(upload(png))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := app.do(app.authed(upload(png)))
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.True(t, strings.HasPrefix(out["imageUrl"], "/uploads/"), out["imageUrl"])
	assert.True(t, strings.HasSuffix(out["imageUrl"], ".png"), out["imageUrl"])

	w, env = app.do(app.authed(upload([]byte("plain text, not an image"))))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "unsupported content type")

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w, env = app.do(app.authed(req))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", env.Message)
}

func cartCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == controllers.CartCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", controllers.CartCookie)
	return nil
}

func TestCartFlow(t *testing.T) {
	app := newTestApp(t)
	a := app.seed(algodon())

	w, env := app.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{
		"fabricId": a.ID, "meters": 2.5,
	}))
	require.Equal(t, http.StatusOK, w.Code)
	cookie := cartCookie(t, w)

	var view struct {
		LineCount int    `json:"line_count"`
		Total     string `json:"total"`
		Currency  string `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 1, view.LineCount)
	assert.Equal(t, "1125", view.Total)
	assert.Equal(t, "CUP", view.Currency)

	withCart := func(req *http.Request) *http.Request {
		req.AddCookie(cookie)
		return req
	}

	w, _ = app.do(withCart(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{
		"fabricId": 999, "meters": 1,
	})))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = app.do(withCart(jsonRequest(http.MethodPut, "/api/cart/items/"+itoa(a.ID), map[string]interface{}{
		"meters": 0.1,
	})))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "225", view.Total)

	w, env = app.do(withCart(jsonRequest(http.MethodPost, "/api/cart/order", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	var o struct {
		Message string `json:"message"`
		URL     string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Contains(t, o.Message, "*TOTAL: 225 CUP*")
	assert.True(t, strings.HasPrefix(o.URL, "https://wa.me/+5355366583?text="), o.URL)

	w, _ = app.do(withCart(httptest.NewRequest(http.MethodDelete, "/api/cart/items/"+itoa(a.ID), nil)))
	require.Equal(t, http.StatusOK, w.Code)

	w, env = app.do(withCart(jsonRequest(http.MethodPost, "/api/cart/order", nil)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty", env.Message)
}

func TestCartsAreIsolatedByCookie(t *testing.T) {
	app := newTestApp(t)
	a := app.seed(algodon())

	w, _ := app.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{"fabricId": a.ID}))
	require.Equal(t, http.StatusOK, w.Code)

	w, env := app.do(httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		LineCount int `json:"line_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Zero(t, view.LineCount)
}

func TestGraphQLCategories(t *testing.T) {
	app := newTestApp(t)
	app.seed(algodon())
	app.seed(seda())

	w := httptest.NewRecorder()
	app.handler.ServeHTTP(w, jsonRequest(http.MethodPost, "/graphql", map[string]string{
		"query": `{ categories fabrics(category: "Seda") { name pricePerMeter } }`,
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Data struct {
			Categories []string `json:"categories"`
			Fabrics    []struct {
				Name          string  `json:"name"`
				PricePerMeter float64 `json:"pricePerMeter"`
			} `json:"fabrics"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.ElementsMatch(t, []string{"Algodón", "Seda"}, result.Data.Categories)
	require.Len(t, result.Data.Fabrics, 1)
	assert.Equal(t, 1200.0, result.Data.Fabrics[0].PricePerMeter)
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
