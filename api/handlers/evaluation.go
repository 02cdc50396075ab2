package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Guilherme-Jorge/DenTeethAPI/config"
	"github.com/Guilherme-Jorge/DenTeethAPI/databases"
	"github.com/Guilherme-Jorge/DenTeethAPI/dispatch"
	"github.com/Guilherme-Jorge/DenTeethAPI/models"
	templates "github.com/Guilherme-Jorge/DenTeethAPI/templates/html"
)

// Evaluation exported for testing purposes
type Evaluation struct {
	DB          databases.EvaluationDatabase
	Registry    *dispatch.Registry
	SendgridKey string
}

type evaluationCreateRequest struct {
	ProfessionalUID     string `json:"professionalUid"`
	ProfessionalRating  int    `json:"professionalRating"`
	ProfessionalComment string `json:"professionalComment"`
	AppRating           int    `json:"appRating"`
	AppComment          string `json:"appComment"`
	DeviceToken         string `json:"deviceToken"`
}

// CreateEvaluationHandler stores a post-service evaluation. The professional
// gets an email about it afterwards, best-effort.
func (e Evaluation) CreateEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody evaluationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if requestBody.ProfessionalUID == "" {
		config.ErrorStatus("missing required field", http.StatusBadRequest, w,
			fmt.Errorf("%w: \"professionalUid\" is required", dispatch.ErrInvalidArgument))
		return
	}

	newEvaluation := bson.M{
		"_id": primitive.NewObjectID(),
		"evaluation": models.EvaluationDetails{
			ProfessionalUID:     requestBody.ProfessionalUID,
			ProfessionalRating:  requestBody.ProfessionalRating,
			ProfessionalComment: requestBody.ProfessionalComment,
			AppRating:           requestBody.AppRating,
			AppComment:          requestBody.AppComment,
			DeviceToken:         requestBody.DeviceToken,
			CreatedAt:           primitive.NewDateTimeFromTime(time.Now()),
		},
		"__v": 0,
	}

	if _, err := e.DB.InsertOne(r.Context(), newEvaluation); err != nil {
		config.InternalError("failed to insert evaluation", w, err)
		return
	}

	go e.emailProfessional(requestBody.ProfessionalUID, requestBody.ProfessionalRating, requestBody.ProfessionalComment)

	config.Success("evaluation recorded", http.StatusCreated, w, nil)
}

// EvaluationsByProfessionalHandler returns every evaluation filed against
// the given professional
func (e Evaluation) EvaluationsByProfessionalHandler(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	evaluations, err := e.DB.Find(r.Context(), bson.M{"evaluation.professionalUid": uid})
	if err != nil {
		config.ErrorStatus("failed to get evaluations for professional", http.StatusNotFound, w, err)
		return
	}
	if len(evaluations) == 0 {
		evaluations = []models.Evaluation{}
	}

	config.Success("evaluations found", http.StatusOK, w, evaluations)
}

// emailProfessional sends the professional a heads-up about the new
// evaluation. Failures are logged only; the evaluation is already stored.
func (e Evaluation) emailProfessional(uid string, rating int, comment string) {
	if e.SendgridKey == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	professional, err := e.Registry.FindByUID(ctx, uid)
	if err != nil || professional.Details.Email == "" {
		zap.S().Warnw("evaluation email skipped", "uid", uid, "error", err)
		return
	}

	from := mail.NewEmail("DenTeeth", "no-reply@denteeth.app")
	to := mail.NewEmail(professional.Details.Name, professional.Details.Email)
	subject := "You received a new evaluation - DenTeeth"
	htmlContent := templates.RenderEvaluationReceivedEmail(professional.Details.Name, rating, comment)
	plainText := fmt.Sprintf("You received a new evaluation with rating %d/5.", rating)

	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(e.SendgridKey)
	response, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send evaluation email", "uid", uid, "error", err)
		return
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
}
