package databases

// go generate: mockery --name EvaluationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Guilherme-Jorge/DenTeethAPI/models"
)

const evaluationCollectionName = "evaluations"

// EvaluationDatabase contains the methods to use with the evaluation database.
// Evaluations are insert-only.
type EvaluationDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Evaluation, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type evaluationDatabase struct {
	db DatabaseHelper
}

// NewEvaluationDatabase initializes a new instance of evaluation database with the provided db connection
func NewEvaluationDatabase(db DatabaseHelper) EvaluationDatabase {
	return &evaluationDatabase{
		db: db,
	}
}

func (e *evaluationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	cr, err := e.db.Collection(evaluationCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&evaluations)
	if err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (e *evaluationDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return e.db.Collection(evaluationCollectionName).InsertOne(ctx, document, opts...)
}
