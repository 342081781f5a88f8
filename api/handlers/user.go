package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/scooterco/scooter-rental-api/api"
	"github.com/scooterco/scooter-rental-api/config"
	"github.com/scooterco/scooter-rental-api/databases"
	"github.com/scooterco/scooter-rental-api/models"
)

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

type userCreateRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type paymentMethodRequest struct {
	CardNumber     string `json:"card_number"`
	CardType       string `json:"card_type"`
	CardholderName string `json:"cardholder_name"`
}

// UserCreateHandler registers a new renter account
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req userCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		config.ErrorStatus("a valid email is required", http.StatusBadRequest, w, errors.New("invalid email"))
		return
	}
	if len(req.Password) < 8 {
		config.ErrorStatus("password must be at least 8 characters", http.StatusBadRequest, w, errors.New("password too short"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := u.DB.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		config.ErrorStatus("failed to check existing users", http.StatusInternalServerError, w, err)
		return
	}
	if existing > 0 {
		config.ErrorStatus("email is already registered", http.StatusConflict, w, errors.New("duplicate email"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		Role:         models.RoleRenter,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.DB.InsertOne(ctx, user); err != nil {
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// SetPaymentMethodHandler stores the masked card on the authenticated user's
// profile. The full card number is never persisted.
func (u User) SetPaymentMethodHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFrom(r.Context())
	if !ok {
		config.ErrorStatus("missing identity", http.StatusUnauthorized, w, errors.New("no identity on request"))
		return
	}

	var req paymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}

	digits := strings.ReplaceAll(strings.ReplaceAll(req.CardNumber, " ", ""), "-", "")
	if len(digits) < 12 || len(digits) > 19 {
		config.ErrorStatus("card number must be 12 to 19 digits", http.StatusBadRequest, w, errors.New("invalid card number"))
		return
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			config.ErrorStatus("card number must be 12 to 19 digits", http.StatusBadRequest, w, errors.New("invalid card number"))
			return
		}
	}

	lastFour := digits[len(digits)-4:]
	cardType := strings.TrimSpace(req.CardType)
	if cardType == "" {
		cardType = "Card"
	}
	payment := models.PaymentMethod{
		CardType:         cardType,
		CardLastFour:     lastFour,
		CardNumberMasked: "****-****-****-" + lastFour,
		CardholderName:   strings.TrimSpace(req.CardholderName),
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := u.DB.UpdateOne(ctx,
		bson.M{"id": identity.UserID},
		bson.M{"$set": bson.M{"payment_method": payment, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		config.ErrorStatus("failed to update payment method", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("user not found", http.StatusNotFound, w, errors.New("no matching user"))
		return
	}

	b, err := json.Marshal(map[string]interface{}{"payment_method": payment})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
