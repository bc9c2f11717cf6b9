package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hbnb/internal/auth"
	"hbnb/internal/domain"
	"hbnb/internal/metrics"
	"hbnb/internal/repository/memory"
	"hbnb/internal/service"
)

const testAdminSecret = "let-me-in"

type testServer struct {
	t      *testing.T
	router *gin.Engine
	facade *service.Facade
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	facade := service.NewFacade(service.Repositories{
		Users:     memory.NewStore[*domain.User](),
		Places:    memory.NewStore[*domain.Place](),
		Amenities: memory.NewStore[*domain.Amenity](),
		Reviews:   memory.NewStore[*domain.Review](),
	}, auth.NewBcryptHasher(bcrypt.MinCost), nil)

	router := gin.New()
	NewHandler(Services{
		Users:     facade,
		Places:    facade,
		Amenities: facade,
		Reviews:   facade,
		Photos:    service.NewPhotoService(facade, nil, service.PhotoConfig{}, nil),
	}, Options{
		Tokens:      auth.NewTokenIssuer("test-secret", time.Hour),
		AdminSecret: testAdminSecret,
		LoginRate:   100,
		LoginBurst:  100,
		Metrics:     metrics.New(),
	}).RegisterRoutes(router)

	return &testServer{t: t, router: router, facade: facade}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// register creates a user through the API and logs them in.
func (s *testServer) register(email string, adminSecret string) (UserResponse, string) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/users", "", gin.H{
		"first_name":   "Test",
		"last_name":    "User",
		"email":        email,
		"password":     "secret",
		"admin_secret": adminSecret,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode[UserResponse](s.t, rec)

	rec = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": "secret"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	token := decode[map[string]string](s.t, rec)["access_token"]
	require.NotEmpty(s.t, token)
	return user, token
}

func (s *testServer) createPlace(token string, body gin.H) PlaceResponse {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/places", token, body)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[PlaceResponse](s.t, rec)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegistrationAndLogin(t *testing.T) {
	s := newTestServer(t)

	user, _ := s.register("alice@example.com", "")
	assert.False(t, user.IsAdmin)
	assert.NotContains(t, s.do(http.MethodGet, "/api/v1/users/"+user.ID, "", nil).Body.String(), "password")

	adminUser, _ := s.register("root@example.com", testAdminSecret)
	assert.True(t, adminUser.IsAdmin)

	wrong, _ := s.register("eve@example.com", "guess")
	assert.False(t, wrong.IsAdmin)

	rec := s.do(http.MethodPost, "/api/v1/users", "", gin.H{
		"first_name": "A", "last_name": "B", "email": "alice@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/users", "", gin.H{
		"first_name": "A", "last_name": "B", "email": "not-an-email", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email format")

	rec = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestAdminCreatesUsers(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.register("alice@example.com", "")
	_, adminToken := s.register("root@example.com", testAdminSecret)

	body := gin.H{
		"first_name": "Ops", "last_name": "Team", "email": "ops@example.com",
		"password": "secret", "is_admin": true,
	}
	rec := s.do(http.MethodPost, "/api/v1/admin/users", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/users", userToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/users", adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, decode[UserResponse](t, rec).IsAdmin)

	rec = s.do(http.MethodPost, "/api/v1/admin/users", adminToken, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLongPasswordIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/api/v1/users", "", gin.H{
		"first_name": "A", "last_name": "B", "email": "long@example.com",
		"password": strings.Repeat("x", 80),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at most 72 bytes")
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/places", "", gin.H{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/places", "garbage", gin.H{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, token := s.register("alice@example.com", "")
	rec = s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", decode[UserResponse](t, rec).Email)
}

func TestPlaceFlow(t *testing.T) {
	s := newTestServer(t)
	alice, aliceToken := s.register("alice@example.com", "")
	_, bobToken := s.register("bob@example.com", "")

	rec := s.do(http.MethodPost, "/api/v1/amenities", aliceToken, gin.H{"name": "Wifi"})
	require.Equal(t, http.StatusCreated, rec.Code)
	wifi := decode[AmenityResponse](t, rec)

	place := s.createPlace(aliceToken, gin.H{
		"title":     "Paris flat",
		"price":     100,
		"latitude":  48.8566,
		"longitude": 2.3522,
		"owner_id":  "someone-else",
		"amenities": []string{wifi.ID, "unknown"},
	})
	assert.Equal(t, alice.ID, place.OwnerID, "non-admins always own what they create")
	assert.Equal(t, []string{wifi.ID}, place.Amenities)

	rec = s.do(http.MethodGet, "/api/v1/places/"+place.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[PlaceDetailResponse](t, rec)
	require.NotNil(t, detail.Owner)
	assert.Equal(t, "alice@example.com", detail.Owner.Email)
	require.Len(t, detail.Amenities, 1)
	assert.Equal(t, "Wifi", detail.Amenities[0].Name)

	rec = s.do(http.MethodPut, "/api/v1/places/"+place.ID, bobToken, gin.H{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/places/"+place.ID, aliceToken, gin.H{"latitude": 91})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/places/"+place.ID, aliceToken, gin.H{"price": 120})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 120.0, decode[PlaceResponse](t, rec).Price)

	rec = s.do(http.MethodGet, "/api/v1/places?owner_id="+alice.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]PlaceResponse](t, rec), 1)

	rec = s.do(http.MethodPost, "/api/v1/places", aliceToken, gin.H{"title": "Bad", "price": -10})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/places/"+place.ID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(http.MethodDelete, "/api/v1/places/"+place.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/v1/places/"+place.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminCreatesPlaceForAnotherUser(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.register("alice@example.com", "")
	_, adminToken := s.register("root@example.com", testAdminSecret)

	place := s.createPlace(adminToken, gin.H{"title": "Managed", "price": 50, "owner_id": alice.ID})
	assert.Equal(t, alice.ID, place.OwnerID)

	rec := s.do(http.MethodPost, "/api/v1/places", adminToken, gin.H{"title": "Orphan", "price": 50, "owner_id": "ghost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "owner not found")
}

func TestReviewFlow(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.register("alice@example.com", "")
	bob, bobToken := s.register("bob@example.com", "")
	place := s.createPlace(aliceToken, gin.H{"title": "Loft", "price": 80})

	rec := s.do(http.MethodPost, "/api/v1/reviews", bobToken, gin.H{"rating": 4, "place_id": place.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required field: text")

	rec = s.do(http.MethodPost, "/api/v1/reviews", bobToken, gin.H{"text": "Nice", "rating": 6, "place_id": place.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/reviews", bobToken, gin.H{"text": "Nice", "rating": 5, "place_id": place.ID, "user_id": "spoofed"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	review := decode[ReviewResponse](t, rec)
	assert.Equal(t, bob.ID, review.UserID)

	rec = s.do(http.MethodGet, "/api/v1/places/"+place.ID+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reviews := decode[[]ReviewResponse](t, rec)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)

	rec = s.do(http.MethodGet, "/api/v1/places/ghost/reviews", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/reviews/"+review.ID, aliceToken, gin.H{"rating": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/reviews/"+review.ID, bobToken, gin.H{"text": "Very nice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Very nice", decode[ReviewResponse](t, rec).Text)

	rec = s.do(http.MethodDelete, "/api/v1/reviews/"+review.ID, bobToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/v1/reviews/"+review.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAmenityAdminOnlyMutations(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.register("alice@example.com", "")
	_, adminToken := s.register("root@example.com", testAdminSecret)

	rec := s.do(http.MethodPost, "/api/v1/amenities", userToken, gin.H{"name": "Pool"})
	require.Equal(t, http.StatusCreated, rec.Code)
	pool := decode[AmenityResponse](t, rec)

	rec = s.do(http.MethodPut, "/api/v1/amenities/"+pool.ID, userToken, gin.H{"name": "Spa"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/amenities/"+pool.ID, adminToken, gin.H{"name": "Spa"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Spa", decode[AmenityResponse](t, rec).Name)

	rec = s.do(http.MethodGet, "/api/v1/amenities", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]AmenityResponse](t, rec), 1)

	rec = s.do(http.MethodDelete, "/api/v1/amenities/"+pool.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserUpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	alice, aliceToken := s.register("alice@example.com", "")
	_, bobToken := s.register("bob@example.com", "")

	rec := s.do(http.MethodPut, "/api/v1/users/"+alice.ID, bobToken, gin.H{"first_name": "Mallory"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/users/"+alice.ID, aliceToken, gin.H{"is_admin": true})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/users/"+alice.ID, aliceToken, gin.H{"email": "bob@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/users/"+alice.ID, aliceToken, gin.H{"first_name": "Alicia"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alicia", decode[UserResponse](t, rec).FirstName)

	rec = s.do(http.MethodDelete, "/api/v1/users/"+alice.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]UserResponse](t, rec), 1)
}

func TestPhotosWithoutStorage(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register("alice@example.com", "")
	place := s.createPlace(token, gin.H{"title": "Loft", "price": 80})

	rec := s.do(http.MethodGet, "/api/v1/places/"+place.ID+"/photos", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	facade := service.NewFacade(service.Repositories{
		Users:     memory.NewStore[*domain.User](),
		Places:    memory.NewStore[*domain.Place](),
		Amenities: memory.NewStore[*domain.Amenity](),
		Reviews:   memory.NewStore[*domain.Review](),
	}, auth.NewBcryptHasher(bcrypt.MinCost), nil)
	router := gin.New()
	NewHandler(Services{Users: facade, Places: facade, Amenities: facade, Reviews: facade}, Options{
		Tokens:     auth.NewTokenIssuer("test-secret", time.Hour),
		LoginRate:  0.001,
		LoginBurst: 2,
	}).RegisterRoutes(router)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"a@example.com","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/v1/places", "", nil)

	rec := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hbnb_http_requests_total{method="GET",path="/api/v1/places",status="200"} 1`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.Validationf("x")))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.Referencef("x")))
	assert.Equal(t, http.StatusUnauthorized, statusFor(domain.ErrInvalidCredentials))
	assert.Equal(t, http.StatusForbidden, statusFor(domain.Forbiddenf("x")))
	assert.Equal(t, http.StatusNotFound, statusFor(domain.NotFoundf("x")))
	assert.Equal(t, http.StatusConflict, statusFor(domain.Conflictf("x")))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(service.ErrStorageNotConfigured))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
