package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/scooterco/scooter-rental-api/api"
	"github.com/scooterco/scooter-rental-api/config"
	"github.com/scooterco/scooter-rental-api/databases"
	"github.com/scooterco/scooter-rental-api/models"
	"github.com/scooterco/scooter-rental-api/pricing"
	"github.com/scooterco/scooter-rental-api/rental"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Lifecycle *rental.Lifecycle
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	policy := pricing.PolicyFromEnv()
	scooterDB := databases.NewScooterDatabase(a.dbHelper)
	rentalDB := databases.NewRentalDatabase(a.dbHelper)
	transactionDB := databases.NewTransactionDatabase(a.dbHelper)
	userDB := databases.NewUserDatabase(a.dbHelper)

	a.Lifecycle = rental.New(scooterDB, rentalDB, transactionDB, userDB, policy)

	s := Scooter{DB: scooterDB, MaxSearchRadius: a.Config.MaxSearchRadius, Policy: policy}
	rent := Rental{Lifecycle: a.Lifecycle}
	u := User{DB: userDB}
	admin := Admin{SDB: scooterDB, UDB: userDB, Lifecycle: a.Lifecycle}
	report := Report{TDB: transactionDB, RDB: rentalDB}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/users/register", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/users/payment-method", api.Middleware(http.HandlerFunc(u.SetPaymentMethodHandler))).Methods("PUT")

	apiCreate.Handle("/scooters/available", api.Middleware(http.HandlerFunc(s.AvailableScootersHandler))).Methods("GET")
	apiCreate.Handle("/scooters/search", api.Middleware(http.HandlerFunc(s.SearchScootersHandler))).Methods("GET")
	apiCreate.Handle("/pricing", api.Middleware(http.HandlerFunc(s.PricingHandler))).Methods("GET")

	apiCreate.Handle("/rentals/start", api.Middleware(http.HandlerFunc(rent.StartRentalHandler))).Methods("POST")
	apiCreate.Handle("/rentals/end", api.Middleware(http.HandlerFunc(rent.EndRentalHandler))).Methods("POST")
	apiCreate.Handle("/rentals/active", api.Middleware(http.HandlerFunc(rent.ActiveRentalHandler))).Methods("GET")
	apiCreate.Handle("/rentals/history", api.Middleware(http.HandlerFunc(rent.RentalHistoryHandler))).Methods("GET")

	apiCreate.Handle("/admin/login", http.HandlerFunc(admin.AdminLoginHandler)).Methods("POST")
	apiCreate.Handle("/admin/scooters", api.AdminMiddleware(http.HandlerFunc(admin.ListScootersHandler))).Methods("GET")
	apiCreate.Handle("/admin/scooters", api.AdminMiddleware(http.HandlerFunc(admin.CreateScooterHandler))).Methods("POST")
	apiCreate.Handle("/admin/scooters/{scooter_id}", api.AdminMiddleware(http.HandlerFunc(admin.UpdateScooterHandler))).Methods("PUT")
	apiCreate.Handle("/admin/scooters/{scooter_id}", api.AdminMiddleware(http.HandlerFunc(admin.DeleteScooterHandler))).Methods("DELETE")
	apiCreate.Handle("/admin/scooters/{scooter_id}/release", api.AdminMiddleware(http.HandlerFunc(admin.ForceReleaseHandler))).Methods("PUT")

	apiCreate.Handle("/admin/reports/revenue", api.AdminMiddleware(http.HandlerFunc(report.RevenueSummaryHandler))).Methods("GET")
	apiCreate.Handle("/admin/reports/transactions", api.AdminMiddleware(http.HandlerFunc(report.TransactionLogHandler))).Methods("GET")
	apiCreate.Handle("/admin/reports/rentals", api.AdminMiddleware(http.HandlerFunc(report.RentalsReportHandler))).Methods("GET")
	apiCreate.Handle("/admin/reports/usage", api.AdminMiddleware(http.HandlerFunc(report.UsageReportHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("scooter-rental-api has connected to the database")

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// DatabaseHelper exposes the connected db helper for background jobs
func (a *App) DatabaseHelper() databases.DatabaseHelper {
	return a.dbHelper
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
