package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/imoveis/catalog/config"
	"github.com/imoveis/catalog/internal/api/handlers"
	"github.com/imoveis/catalog/internal/core/auth"
	"github.com/imoveis/catalog/internal/core/contact"
	"github.com/imoveis/catalog/internal/core/inquiry"
	"github.com/imoveis/catalog/internal/core/listing"
	"github.com/imoveis/catalog/internal/core/media"
	"github.com/imoveis/catalog/internal/core/validation"
	"github.com/imoveis/catalog/internal/platform/metrics"
)

const (
	adminEmail    = "admin@imoveis.test"
	adminPassword = "senha-forte"
)

type testServer struct {
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zap.NewNop()
	m := metrics.New()
	validator := validation.NewValidator()

	authService := auth.NewService(auth.NewMemoryStore(),
		&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1},
		&config.AuthConfig{})
	_, err := authService.EnsureAdmin(context.Background(), adminEmail, adminPassword, "Admin")
	require.NoError(t, err)

	listingService := listing.NewService(listing.NewMemoryRepository(listing.ExampleListings()), validator, log,
		listing.WithExampleData(), listing.WithMetrics(m))
	contactService := contact.NewService(contact.NewMemoryRepository(), validator, m, log)
	inquiryService := inquiry.NewService(inquiry.NewComposer(listingService, log), contactService)

	store, err := media.NewLocalStore(t.TempDir(), LocalUploadsPath)
	require.NoError(t, err)
	logo := imaging.New(20, 10, color.Black)
	mediaService := media.NewService(store, media.NewWatermarker(logo), media.DefaultMaxBytes, m, log)

	router := NewRouter(authService,
		handlers.NewAuthHandler(authService),
		handlers.NewListingHandler(listingService),
		handlers.NewContactHandler(inquiryService, contactService),
		handlers.NewUploadHandler(mediaService),
		log, m)
	engine := router.Setup(gin.TestMode)

	s := &testServer{engine: engine}
	w := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail, "password": adminPassword}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp auth.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	s.token = resp.Token
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func listingIDs(result listing.SearchResult) []string {
	ids := make([]string, 0, len(result.Listings))
	for _, l := range result.Listings {
		ids = append(ids, l.ID)
	}
	return ids
}

func validListing() listing.Input {
	return listing.Input{
		Title:     "Apartamento Garden",
		Type:      "Apartamento",
		Price:     "R$ 530.000",
		Location:  "Lourdes, Belo Horizonte",
		Bedrooms:  2,
		Bathrooms: 2,
		Suites:    1,
		Area:      88,
		Images:    []string{"/uploads/listings/garden.jpg"},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/health", nil, false)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearch(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/listings?suites=0&tipo=todos&garagem=indiferente", nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	result := decode[listing.SearchResult](t, w)
	assert.Equal(t, []string{"exemplo-4", "exemplo-6"}, listingIDs(result))
	assert.True(t, result.Example)
	assert.Equal(t, "suites=0", result.Query)
}

func TestSearch_InvalidPriceIgnored(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/listings?precoMin=abc&precoMax=-5", nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	result := decode[listing.SearchResult](t, w)
	assert.Equal(t, 6, result.Total)
}

func TestGetListing(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/listings/exemplo-3", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cobertura Vista para o Mar", decode[listing.Listing](t, w).Title)

	w = s.do(t, http.MethodGet, "/api/listings/nao-existe", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/listings"},
		{http.MethodPost, "/api/admin/listings"},
		{http.MethodPut, "/api/admin/listings/exemplo-1"},
		{http.MethodDelete, "/api/admin/listings/exemplo-1"},
		{http.MethodGet, "/api/admin/contacts"},
		{http.MethodPost, "/api/admin/uploads"},
		{http.MethodGet, "/api/auth/me"},
	}

	for _, r := range routes {
		w := s.do(t, r.method, r.path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", r.method, r.path)
	}

	w := s.do(t, http.MethodGet, "/api/listings/exemplo-1", nil, false)
	assert.Equal(t, http.StatusOK, w.Code, "nothing was deleted")
}

func TestRegisterClosed(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "novo@imoveis.test", "password": "senha-forte", "name": "Novo",
	}, false)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/auth/me", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, adminEmail, decode[auth.User](t, w).Email)
}

func TestListingLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/admin/listings", validListing(), true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[listing.Listing](t, w)
	assert.Equal(t, "/uploads/listings/garden.jpg", created.CoverImage)

	w = s.do(t, http.MethodGet, "/api/listings?termo=garden", nil, false)
	assert.Equal(t, []string{created.ID}, listingIDs(decode[listing.SearchResult](t, w)))

	in := validListing()
	in.Featured = true
	in.Images = []string{"/b.jpg", "/a.jpg"}
	w = s.do(t, http.MethodPut, "/api/admin/listings/"+created.ID, in, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "/b.jpg", decode[listing.Listing](t, w).CoverImage)

	w = s.do(t, http.MethodDelete, "/api/admin/listings/"+created.ID, nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/listings?termo=garden", nil, false)
	assert.Empty(t, decode[listing.SearchResult](t, w).Listings)

	w = s.do(t, http.MethodDelete, "/api/admin/listings/"+created.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateListingValidation(t *testing.T) {
	s := newTestServer(t)
	in := validListing()
	in.Images = nil

	w := s.do(t, http.MethodPost, "/api/admin/listings", in, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "details")
}

func TestContactFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/contact/draft?imovel=exemplo-2", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	draft := decode[inquiry.Draft](t, w)
	assert.Equal(t, inquiry.StatusResolved, draft.Status)
	assert.Contains(t, draft.Body, "Casa de Luxo com Piscina")

	w = s.do(t, http.MethodPost, "/api/contact", inquiry.Submission{
		Name:      "Ana",
		Email:     "ana@example.com",
		Phone:     "31 97777-6666",
		Message:   draft.Body,
		ListingID: "exemplo-2",
	}, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/admin/contacts", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[contact.ListResponse](t, w)
	require.Len(t, list.Messages, 1)
	assert.Equal(t, 1, list.Unread)
	ref, _, ok := inquiry.ParseHeader(list.Messages[0].Body)
	require.True(t, ok)
	assert.Equal(t, "exemplo-2", ref.ID)

	id := list.Messages[0].ID
	for i := 0; i < 2; i++ {
		w = s.do(t, http.MethodPost, "/api/admin/contacts/"+id+"/read", nil, true)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w = s.do(t, http.MethodPost, "/api/admin/contacts/not-a-uuid/read", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/admin/contacts/"+id, nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestContactValidationEchoesForm(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/contact", inquiry.Submission{
		Name:    "Ana",
		Email:   "ana@example.com",
		Message: "Quero visitar",
	}, false)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]json.RawMessage](t, w)
	assert.Contains(t, string(body["form"]), "Quero visitar")

	w = s.do(t, http.MethodGet, "/api/admin/contacts", nil, true)
	assert.Empty(t, decode[contact.ListResponse](t, w).Messages)
}

func multipartUpload(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (s *testServer) upload(t *testing.T, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartUpload(t, files)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)
	var img bytes.Buffer
	require.NoError(t, imaging.Encode(&img, imaging.New(200, 100, color.White), imaging.JPEG))

	w := s.upload(t, map[string][]byte{"sala.jpg": img.Bytes()})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), LocalUploadsPath+"/listings/")
}

func TestUploadRejectsNonImage(t *testing.T) {
	s := newTestServer(t)

	w := s.upload(t, map[string][]byte{"contrato.txt": []byte(strings.Repeat("texto ", 100))})

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/listings", nil, false)

	w := s.do(t, http.MethodGet, "/metrics", nil, false)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "imoveis_")
}
