package models

// Evaluation holds the structure for the evaluations collection in mongo.
// Written once, immutable.
type Evaluation struct {
	ID      string            `json:"_id" bson:"_id"`
	Details EvaluationDetails `json:"evaluation" bson:"evaluation"`
	Version int32             `json:"__v" bson:"__v"`
}

// EvaluationDetails holds the structure for the inner evaluation structure as
// defined in the evaluations collection in mongo
type EvaluationDetails struct {
	ProfessionalUID     string      `json:"professionalUid" bson:"professionalUid"`
	ProfessionalRating  int         `json:"professionalRating" bson:"professionalRating"`
	ProfessionalComment string      `json:"professionalComment" bson:"professionalComment"`
	AppRating           int         `json:"appRating" bson:"appRating"`
	AppComment          string      `json:"appComment" bson:"appComment"`
	DeviceToken         string      `json:"deviceToken" bson:"deviceToken"` // requester push token, optional
	CreatedAt           interface{} `json:"createdAt" bson:"createdAt"`
}
