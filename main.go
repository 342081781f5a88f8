package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/scooterco/scooter-rental-api/api/handlers"
	"github.com/scooterco/scooter-rental-api/api/scheduler"
	"github.com/scooterco/scooter-rental-api/databases"

	"go.uber.org/zap"

	"github.com/scooterco/scooter-rental-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { //initialize database and router
		log.Fatal(err)
	}

	sched := scheduler.NewScheduler(databases.NewRentalDatabase(a.DatabaseHelper()), a.Lifecycle)
	sched.Start()
	defer sched.Stop()

	port := os.Getenv("PORT")
	baseURL := os.Getenv("BASE_URL")
	zap.S().Infow("scooter-rental-api is up and running",
		"port", port,
		"url", baseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", port), a.Router))
}
