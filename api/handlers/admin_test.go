package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/scooterco/scooter-rental-api/api/handlers"
	"github.com/scooterco/scooter-rental-api/databases/mocks"
	"github.com/scooterco/scooter-rental-api/models"
	"github.com/scooterco/scooter-rental-api/pricing"
	"github.com/scooterco/scooter-rental-api/rental"
)

func TestAdmin_AdminLoginHandler(t *testing.T) {
	_ = os.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.User{
		ID:           "admin-1",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}, nil)

	body := bytes.NewBufferString(`{"email": "admin@example.com", "password": "correct horse"}`)
	req, err := http.NewRequest("POST", "/api/v1/admin/login", body)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Admin{UDB: userDB}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.AdminLoginHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Token string `json:"token"`
		Admin struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"admin"`
	}
	err = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "admin-1", resp.Admin.ID)
	assert.Equal(t, models.RoleAdmin, resp.Admin.Role)

	// The token carries the admin scope
	parsed, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["scope"])
	assert.Equal(t, "admin-1", claims["sub"])
}

func TestAdmin_AdminLoginHandlerWrongPassword(t *testing.T) {
	_ = os.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.User{
		ID:           "admin-1",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}, nil)

	body := bytes.NewBufferString(`{"email": "admin@example.com", "password": "wrong"}`)
	req, err := http.NewRequest("POST", "/api/v1/admin/login", body)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Admin{UDB: userDB}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.AdminLoginHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdmin_AdminLoginHandlerUnknownEmail(t *testing.T) {
	_ = os.Setenv("JWT_SECRET", "test-secret")

	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	body := bytes.NewBufferString(`{"email": "nobody@example.com", "password": "whatever"}`)
	req, err := http.NewRequest("POST", "/api/v1/admin/login", body)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Admin{UDB: userDB}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.AdminLoginHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdmin_ListScootersHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/admin/scooters", nil)
	if err != nil {
		t.Fatal(err)
	}

	scooterDB := &mocks.ScooterDatabase{}
	scooterDB.On("Find", mock.Anything, mock.Anything).Return([]models.Scooter{
		{ID: "SCOOT-001", IsReserved: false},
		{ID: "SCOOT-002", IsReserved: true},
		{ID: "SCOOT-003", IsReserved: false},
	}, nil)

	h := handlers.Admin{SDB: scooterDB}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.ListScootersHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.FleetResponse
	err = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, 3, resp.Stats.Total)
	assert.Equal(t, 2, resp.Stats.Available)
	assert.Equal(t, 1, resp.Stats.Reserved)
}

func TestAdmin_CreateScooterHandler(t *testing.T) {
	body := bytes.NewBufferString(`{"id": "SCOOT-100", "lat": 30.2672, "lng": -97.7431}`)
	req, err := http.NewRequest("POST", "/api/v1/admin/scooters", body)
	if err != nil {
		t.Fatal(err)
	}

	scooterDB := &mocks.ScooterDatabase{}
	scooterDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	scooterDB.On("InsertOne", mock.Anything, models.Scooter{ID: "SCOOT-100", Lat: 30.2672, Lng: -97.7431}).Return(nil)

	h := handlers.Admin{SDB: scooterDB}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.CreateScooterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	scooterDB.AssertExpectations(t)
}

func TestAdmin_CreateScooterHandlerDuplicate(t *testing.T) {
	body := bytes.NewBufferString(`{"id": "SCOOT-001", "lat": 30.2672, "lng": -97.7431}`)
	req, err := http.NewRequest("POST", "/api/v1/admin/scooters", body)
	if err != nil {
		t.Fatal(err)
	}

	scooterDB := &mocks.ScooterDatabase{}
	scooterDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)

	h := handlers.Admin{SDB: scooterDB}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.CreateScooterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAdmin_CreateScooterHandlerOutOfRegion(t *testing.T) {
	body := bytes.NewBufferString(`{"id": "SCOOT-100", "lat": 51.5074, "lng": -0.1278}`)
	req, err := http.NewRequest("POST", "/api/v1/admin/scooters", body)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Admin{SDB: &mocks.ScooterDatabase{}}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.CreateScooterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdmin_UpdateScooterHandler(t *testing.T) {
	body := bytes.NewBufferString(`{"lat": 30.2800, "lng": -97.7400}`)
	req, err := http.NewRequest("PUT", "/api/v1/admin/scooters/SCOOT-001", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"scooter_id": "SCOOT-001"})

	scooterDB := &mocks.ScooterDatabase{}
	scooterDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	h := handlers.Admin{SDB: scooterDB}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.UpdateScooterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdmin_UpdateScooterHandlerReserved(t *testing.T) {
	body := bytes.NewBufferString(`{"lat": 30.2800, "lng": -97.7400}`)
	req, err := http.NewRequest("PUT", "/api/v1/admin/scooters/SCOOT-001", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"scooter_id": "SCOOT-001"})

	scooterDB := &mocks.ScooterDatabase{}
	// A reserved scooter does not match the conditional update
	scooterDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	h := handlers.Admin{SDB: scooterDB}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.UpdateScooterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAdmin_DeleteScooterHandler(t *testing.T) {
	req, err := http.NewRequest("DELETE", "/api/v1/admin/scooters/SCOOT-001", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"scooter_id": "SCOOT-001"})

	scooterDB := &mocks.ScooterDatabase{}
	scooterDB.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(1), nil)

	h := handlers.Admin{SDB: scooterDB}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.DeleteScooterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"deleted": "SCOOT-001"}`, rr.Body.String())
}

func TestAdmin_DeleteScooterHandlerReserved(t *testing.T) {
	req, err := http.NewRequest("DELETE", "/api/v1/admin/scooters/SCOOT-001", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"scooter_id": "SCOOT-001"})

	scooterDB := &mocks.ScooterDatabase{}
	scooterDB.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(0), nil)

	h := handlers.Admin{SDB: scooterDB}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.DeleteScooterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAdmin_ForceReleaseHandler(t *testing.T) {
	req, err := http.NewRequest("PUT", "/api/v1/admin/scooters/SCOOT-001/release", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"scooter_id": "SCOOT-001"})

	scooters := &mocks.ScooterDatabase{}
	rentals := &mocks.RentalDatabase{}

	rentals.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	scooters.On("Release", mock.Anything, "SCOOT-001", (*models.Location)(nil)).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	lc := rental.New(scooters, rentals, &mocks.TransactionDatabase{}, &mocks.UserDatabase{}, pricing.DefaultPolicy())
	h := handlers.Admin{Lifecycle: lc}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.ForceReleaseHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"released": "SCOOT-001", "status": "available"}`, rr.Body.String())
}

func TestAdmin_ForceReleaseHandlerNotReserved(t *testing.T) {
	req, err := http.NewRequest("PUT", "/api/v1/admin/scooters/SCOOT-001/release", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"scooter_id": "SCOOT-001"})

	scooters := &mocks.ScooterDatabase{}
	rentals := &mocks.RentalDatabase{}

	rentals.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)
	scooters.On("Release", mock.Anything, "SCOOT-001", (*models.Location)(nil)).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	lc := rental.New(scooters, rentals, &mocks.TransactionDatabase{}, &mocks.UserDatabase{}, pricing.DefaultPolicy())
	h := handlers.Admin{Lifecycle: lc}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.ForceReleaseHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
