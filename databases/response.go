package databases

// go generate: mockery --name ResponseDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Guilherme-Jorge/DenTeethAPI/models"
)

const responseCollectionName = "responses"

// ResponseDatabase contains the methods to use with the response database.
// Responses are insert-only; there is no update or delete.
type ResponseDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Response, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Response, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type responseDatabase struct {
	db DatabaseHelper
}

// NewResponseDatabase initializes a new instance of response database with the provided db connection
func NewResponseDatabase(db DatabaseHelper) ResponseDatabase {
	return &responseDatabase{
		db: db,
	}
}

func (r *responseDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Response, error) {
	response := &models.Response{}
	err := r.db.Collection(responseCollectionName).FindOne(ctx, filter, opts...).Decode(&response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (r *responseDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Response, error) {
	var responses []models.Response
	cr, err := r.db.Collection(responseCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&responses)
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return r.db.Collection(responseCollectionName).InsertOne(ctx, document, opts...)
}
