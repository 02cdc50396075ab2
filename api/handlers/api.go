package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Guilherme-Jorge/DenTeethAPI/api"
	"github.com/Guilherme-Jorge/DenTeethAPI/api/scheduler"
	"github.com/Guilherme-Jorge/DenTeethAPI/config"
	"github.com/Guilherme-Jorge/DenTeethAPI/databases"
	"github.com/Guilherme-Jorge/DenTeethAPI/dispatch"
	"github.com/Guilherme-Jorge/DenTeethAPI/models"
	"github.com/Guilherme-Jorge/DenTeethAPI/notify"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()

	professionalDB := databases.NewProfessionalDatabase(a.dbHelper)
	emergencyDB := databases.NewEmergencyDatabase(a.dbHelper)
	responseDB := databases.NewResponseDatabase(a.dbHelper)
	evaluationDB := databases.NewEvaluationDatabase(a.dbHelper)
	lockDB := databases.NewSchedulerLockDatabase(a.dbHelper)

	gateway := notify.NewExpoGateway()
	hub := notify.NewHub()
	registry := dispatch.NewRegistry(professionalDB)
	dispatcher := dispatch.NewDispatcher(registry, gateway)
	responder := dispatch.NewResponder(registry, emergencyDB, responseDB, gateway, hub)
	transitions := dispatch.NewTransitionManager(registry, emergencyDB)

	a.Scheduler = scheduler.NewScheduler(emergencyDB, lockDB, dispatcher)

	p := Professional{DB: professionalDB, Registry: registry, Transitions: transitions}
	e := Emergency{DB: emergencyDB, Dispatcher: dispatcher, Transitions: transitions}
	resp := Response{DB: responseDB, Responder: responder}
	ev := Evaluation{DB: evaluationDB, Registry: registry, SendgridKey: a.Config.SendgridKey}
	sig := UploadSignature{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// live response updates for requesters
	r.HandleFunc("/ws/updates", hub.ServeWS)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/professional", api.Middleware(http.HandlerFunc(p.CreateProfessionalHandler))).Methods("POST")
	apiCreate.Handle("/professional/{uid}", api.Middleware(http.HandlerFunc(p.ProfessionalByUIDHandler))).Methods("GET")
	apiCreate.Handle("/professional/{uid}/availability", api.Middleware(http.HandlerFunc(p.UpdateAvailabilityHandler))).Methods("PUT")
	apiCreate.Handle("/professional/{uid}/device-token", api.Middleware(http.HandlerFunc(p.UpdateDeviceTokenHandler))).Methods("PUT")
	apiCreate.Handle("/professional/{uid}/profile-image", api.Middleware(http.HandlerFunc(p.UpdateProfileImageHandler))).Methods("PUT")
	apiCreate.Handle("/professional/{uid}/finalize", api.Middleware(http.HandlerFunc(p.FinalizeAccountHandler))).Methods("POST")

	apiCreate.Handle("/emergency", api.Middleware(http.HandlerFunc(e.CreateEmergencyHandler))).Methods("POST")
	apiCreate.Handle("/emergency/{emergency_id}", api.Middleware(http.HandlerFunc(e.EmergencyByIDHandler))).Methods("GET")
	apiCreate.Handle("/emergency/{emergency_id}/status", api.Middleware(http.HandlerFunc(e.UpdateEmergencyStatusHandler))).Methods("PUT")

	apiCreate.Handle("/response", api.Middleware(http.HandlerFunc(resp.CreateResponseHandler))).Methods("POST")
	apiCreate.Handle("/responses/emergency/{emergency_id}", api.Middleware(http.HandlerFunc(resp.ResponsesByEmergencyIDHandler))).Methods("GET")

	apiCreate.Handle("/evaluation", api.Middleware(http.HandlerFunc(ev.CreateEvaluationHandler))).Methods("POST")
	apiCreate.Handle("/evaluations/professional/{uid}", api.Middleware(http.HandlerFunc(ev.EvaluationsByProfessionalHandler))).Methods("GET")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(sig.GenerateSignature))).Methods("POST")

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
	zap.S().Info("denteeth-api has connected to the database")

	// initialize api router
	a.initializeRoutes()

	// re-notify job for emergencies that nobody answered
	a.Scheduler.Start()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
