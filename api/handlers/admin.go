package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/scooterco/scooter-rental-api/api"
	"github.com/scooterco/scooter-rental-api/config"
	"github.com/scooterco/scooter-rental-api/databases"
	"github.com/scooterco/scooter-rental-api/geo"
	"github.com/scooterco/scooter-rental-api/models"
	"github.com/scooterco/scooter-rental-api/rental"
)

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
	Admin struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"admin"`
}

type scooterUpsertRequest struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Admin represents the admin handler
type Admin struct {
	SDB       databases.ScooterDatabase
	UDB       databases.UserDatabase
	Lifecycle *rental.Lifecycle
}

// AdminLoginHandler handles admin login via email/password and returns a JWT
func (h Admin) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid request"})
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "email and password required"})
		return
	}

	admin, err := h.UDB.FindOne(r.Context(), bson.M{"email": email, "role": models.RoleAdmin})
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
		return
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
		return
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "server misconfigured"})
		return
	}

	claims := jwt.MapClaims{
		"sub":   admin.ID,
		"email": admin.Email,
		"scope": "admin",
		"typ":   "access",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "token generation failed"})
		return
	}

	var resp adminLoginResponse
	resp.Token = signed
	resp.Admin.ID = admin.ID
	resp.Admin.Email = admin.Email
	resp.Admin.Role = admin.Role

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// ListScootersHandler returns the whole fleet with reservation counts
func (h Admin) ListScootersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	scooters, err := h.SDB.Find(ctx, bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get scooters", http.StatusInternalServerError, w, err)
		return
	}
	if scooters == nil {
		scooters = []models.Scooter{}
	}

	stats := models.FleetStats{Total: len(scooters)}
	for _, s := range scooters {
		if s.IsReserved {
			stats.Reserved++
		} else {
			stats.Available++
		}
	}

	b, err := json.Marshal(models.FleetResponse{Stats: stats, Scooters: scooters})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateScooterHandler adds a scooter to the fleet
func (h Admin) CreateScooterHandler(w http.ResponseWriter, r *http.Request) {
	var req scooterUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}

	id, err := geo.ValidateScooterID(req.ID)
	if err != nil {
		config.ErrorStatus("invalid scooter id", http.StatusBadRequest, w, err)
		return
	}
	lat, lng, err := geo.ValidateCoordinates(req.Lat, req.Lng, geo.Options{CheckRegionBounds: true})
	if err != nil {
		config.ErrorStatus("invalid coordinates", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := h.SDB.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		config.ErrorStatus("failed to check existing scooters", http.StatusInternalServerError, w, err)
		return
	}
	if existing > 0 {
		config.ErrorStatus("scooter id already exists", http.StatusConflict, w, errors.New("duplicate scooter id"))
		return
	}

	scooter := models.Scooter{ID: id, Lat: lat, Lng: lng, IsReserved: false}
	if err := h.SDB.InsertOne(ctx, scooter); err != nil {
		config.ErrorStatus("failed to create scooter", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(scooter)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateScooterHandler relocates a scooter. Reserved scooters cannot be moved
// out from under an active rental.
func (h Admin) UpdateScooterHandler(w http.ResponseWriter, r *http.Request) {
	scooterID := mux.Vars(r)["scooter_id"]

	var req scooterUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}

	id, err := geo.ValidateScooterID(scooterID)
	if err != nil {
		config.ErrorStatus("invalid scooter id", http.StatusBadRequest, w, err)
		return
	}
	lat, lng, err := geo.ValidateCoordinates(req.Lat, req.Lng, geo.Options{CheckRegionBounds: true})
	if err != nil {
		config.ErrorStatus("invalid coordinates", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := h.SDB.UpdateOne(ctx,
		bson.M{"id": id, "is_reserved": false},
		bson.M{"$set": bson.M{"lat": lat, "lng": lng}},
	)
	if err != nil {
		config.ErrorStatus("failed to update scooter", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("scooter not found or currently reserved", http.StatusConflict, w, errors.New("no matching available scooter"))
		return
	}

	b, err := json.Marshal(models.Scooter{ID: id, Lat: lat, Lng: lng})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteScooterHandler removes a scooter from the fleet. Reserved scooters
// must be force-released first.
func (h Admin) DeleteScooterHandler(w http.ResponseWriter, r *http.Request) {
	scooterID := mux.Vars(r)["scooter_id"]

	id, err := geo.ValidateScooterID(scooterID)
	if err != nil {
		config.ErrorStatus("invalid scooter id", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	deleted, err := h.SDB.DeleteOne(ctx, bson.M{"id": id, "is_reserved": false})
	if err != nil {
		config.ErrorStatus("failed to delete scooter", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("scooter not found or currently reserved", http.StatusConflict, w, errors.New("no matching available scooter"))
		return
	}

	b, _ := json.Marshal(map[string]string{"deleted": id})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ForceReleaseHandler frees a stuck scooter without charging the renter
func (h Admin) ForceReleaseHandler(w http.ResponseWriter, r *http.Request) {
	scooterID := mux.Vars(r)["scooter_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := h.Lifecycle.ForceRelease(ctx, scooterID); err != nil {
		config.ErrorStatus("failed to force release scooter", rentalErrorStatus(err), w, err)
		return
	}

	b, _ := json.Marshal(map[string]string{"released": scooterID, "status": "available"})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
