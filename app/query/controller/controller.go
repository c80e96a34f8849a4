package controller

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Rohan-1103/covidx/app/query/types"
)

type Controller struct {
	App *types.App
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	return &Controller{
		App: app,
	}
}

// NewRouter returns a new router with all the routes defined in this file.
func (c *Controller) NewRouter() (*mux.Router, error) {
	r := mux.NewRouter()

	r.Handle("/health", http.HandlerFunc(c.HandleHealth)).Methods("GET")

	r.HandleFunc("/vaccinations/rolling", c.HandleRollingVaccinations).Methods("GET")
	r.HandleFunc("/vaccinations/rolling/{location}", c.HandleRollingByLocation).Methods("GET")

	r.HandleFunc("/leaderboards/infection-rates", c.HandleInfectionRates).Methods("GET")
	r.HandleFunc("/leaderboards/death-counts", c.HandleDeathCounts).Methods("GET")
	r.HandleFunc("/leaderboards/continent-death-counts", c.HandleContinentDeathCounts).Methods("GET")

	r.HandleFunc("/summary/daily", c.HandleGlobalDaily).Methods("GET")
	r.HandleFunc("/summary/total", c.HandleGlobalTotals).Methods("GET")

	return r, nil
}

// WithCORS allows dashboard frontends on other origins to read the API.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
