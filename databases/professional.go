package databases

// go generate: mockery --name ProfessionalDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Guilherme-Jorge/DenTeethAPI/models"
)

const professionalCollectionName = "professionals"

// ProfessionalDatabase contains the methods to use with the professional database
type ProfessionalDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Professional, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Professional, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type professionalDatabase struct {
	db DatabaseHelper
}

// NewProfessionalDatabase initializes a new instance of professional database with the provided db connection
func NewProfessionalDatabase(db DatabaseHelper) ProfessionalDatabase {
	return &professionalDatabase{
		db: db,
	}
}

func (p *professionalDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Professional, error) {
	professional := &models.Professional{}
	err := p.db.Collection(professionalCollectionName).FindOne(ctx, filter, opts...).Decode(&professional)
	if err != nil {
		return nil, err
	}
	return professional, nil
}

func (p *professionalDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Professional, error) {
	var professionals []models.Professional
	cr, err := p.db.Collection(professionalCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&professionals)
	if err != nil {
		return nil, err
	}
	return professionals, nil
}

func (p *professionalDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return p.db.Collection(professionalCollectionName).InsertOne(ctx, document, opts...)
}

func (p *professionalDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return p.db.Collection(professionalCollectionName).UpdateOne(ctx, filter, update, opts...)
}
