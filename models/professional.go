package models

// Professional holds the structure for the professionals collection in mongo
type Professional struct {
	ID      string              `json:"_id" bson:"_id"`
	Details ProfessionalDetails `json:"professional" bson:"professional"`
	Version int32               `json:"__v" bson:"__v"`
}

// ProfessionalDetails holds the structure for the inner professional structure
// as defined in the professionals collection in mongo. UID is issued by the
// external account system; the store does not enforce its uniqueness.
type ProfessionalDetails struct {
	UID                string      `json:"uid" bson:"uid"`
	Name               string      `json:"name" bson:"name"`
	Phone              string      `json:"phone" bson:"phone"`
	Email              string      `json:"email" bson:"email"`
	Address            string      `json:"address" bson:"address"`
	Curriculum         string      `json:"curriculum" bson:"curriculum"`
	Availability       bool        `json:"availability" bson:"availability"`
	DeviceToken        string      `json:"deviceToken" bson:"deviceToken"`             // Expo push token; absent until the app registers one
	ProfileImage       string      `json:"profileImage" bson:"profileImage"`           // hosted image URL, optional
	AccountFinalizedAt interface{} `json:"accountFinalizedAt" bson:"accountFinalizedAt"` // set once registration completes
	CreatedAt          interface{} `json:"createdAt" bson:"createdAt"`
	UpdatedAt          interface{} `json:"updatedAt" bson:"updatedAt"`
}
