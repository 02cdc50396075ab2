package models

// EmergencyStatusNew is the status every emergency starts with. Later
// statuses are set by the response flow, not by the dispatcher.
const EmergencyStatusNew = "NEW"

// MaxEmergencyPhotos is the cap on photo references per emergency
const MaxEmergencyPhotos = 3

// Emergency holds the structure for the emergencies collection in mongo
type Emergency struct {
	ID      string           `json:"_id" bson:"_id"`
	Details EmergencyDetails `json:"emergency" bson:"emergency"`
	Version int32            `json:"__v" bson:"__v"`
}

// EmergencyDetails holds the structure for the inner emergency structure as
// defined in the emergencies collection in mongo
type EmergencyDetails struct {
	RequesterName  string      `json:"requesterName" bson:"requesterName"`
	RequesterPhone string      `json:"requesterPhone" bson:"requesterPhone"`
	Photos         []string    `json:"photos" bson:"photos"`
	Description    string      `json:"description" bson:"description"`
	Status         string      `json:"status" bson:"status"`
	DeviceToken    string      `json:"deviceToken" bson:"deviceToken"` // requester push token, optional
	RenotifiedAt   interface{} `json:"renotifiedAt" bson:"renotifiedAt"`
	CreatedAt      interface{} `json:"createdAt" bson:"createdAt"`
}
