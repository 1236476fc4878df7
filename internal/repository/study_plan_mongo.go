package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"gate-tutor-backend/internal/database"
	"gate-tutor-backend/internal/models"
)

// StudyPlanCollection matches the collection name mongoose derives from the
// StudyPlan model, so existing data stays readable.
const StudyPlanCollection = "studyplans"

type studyPlanDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Topic         string             `bson:"topic"`
	Status        string             `bson:"status"`
	ScheduledDate time.Time          `bson:"scheduledDate"`
}

type MongoStudyPlanRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoStudyPlanRepo(client *mongo.Client, dbName string) *MongoStudyPlanRepo {
	return &MongoStudyPlanRepo{
		client: client,
		coll:   client.Database(dbName).Collection(StudyPlanCollection),
	}
}

func (r *MongoStudyPlanRepo) ListAll(ctx context.Context) ([]*models.StudyPlan, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query study plans: %w", err)
	}

	var docs []studyPlanDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode study plans: %w", err)
	}

	plans := make([]*models.StudyPlan, 0, len(docs))
	for _, d := range docs {
		plans = append(plans, &models.StudyPlan{
			ID:            d.ID.Hex(),
			Topic:         d.Topic,
			Status:        d.Status,
			ScheduledDate: d.ScheduledDate.UTC(),
		})
	}
	return plans, nil
}

func (r *MongoStudyPlanRepo) Create(ctx context.Context, p *models.StudyPlan) error {
	doc := studyPlanDocument{
		ID:            primitive.NewObjectID(),
		Topic:         p.Topic,
		Status:        p.Status,
		ScheduledDate: p.ScheduledDate,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert study plan: %w", err)
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (r *MongoStudyPlanRepo) Ping(ctx context.Context) error {
	return database.PingMongo(ctx, r.client)
}

func (r *MongoStudyPlanRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
