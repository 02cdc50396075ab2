package models

// Response holds the structure for the responses collection in mongo.
// Documents are written once and never mutated.
type Response struct {
	ID      string          `json:"_id" bson:"_id"`
	Details ResponseDetails `json:"response" bson:"response"`
	Version int32           `json:"__v" bson:"__v"`
}

// ResponseDetails holds the structure for the inner response structure as
// defined in the responses collection in mongo. The professional fields are a
// snapshot taken at response time and must not be re-fetched later.
type ResponseDetails struct {
	EmergencyID              string      `json:"emergencyId" bson:"emergencyId"`
	ProfessionalUID          string      `json:"professionalUid" bson:"professionalUid"`
	Status                   string      `json:"status" bson:"status"`
	ProfessionalName         string      `json:"professionalName" bson:"professionalName"`
	ProfessionalPhone        string      `json:"professionalPhone" bson:"professionalPhone"`
	ProfessionalProfileImage string      `json:"professionalProfileImage" bson:"professionalProfileImage"`
	CreatedAt                interface{} `json:"createdAt" bson:"createdAt"`
}
