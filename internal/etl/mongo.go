package etl

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BartekS5/pghdfs/pkg/logger"
	"github.com/BartekS5/pghdfs/pkg/models"
)

const (
	DefaultReportDatabase   = "pghdfs"
	DefaultReportCollection = "export_runs"
)

type documentInserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoReportSink keeps one document per export run.
type MongoReportSink struct {
	coll documentInserter
}

func NewMongoReportSink(client *mongo.Client, database, collection string) *MongoReportSink {
	if database == "" {
		database = DefaultReportDatabase
	}
	if collection == "" {
		collection = DefaultReportCollection
	}
	return &MongoReportSink{coll: client.Database(database).Collection(collection)}
}

func (m *MongoReportSink) Save(ctx context.Context, report models.RunReport) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := m.coll.InsertOne(ctx, report)
	if err != nil {
		return err
	}
	logger.Infof("Run report %s stored as %v", report.RunID, res.InsertedID)
	return nil
}
