package mongodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/config"
	"github.com/biomax/dashboard/internal/domain/models"
	"github.com/biomax/dashboard/internal/repository/records"
)

// MongoDBRepository reads manifests and invoices mirrored into MongoDB. Documents
// carry the ERP column names as field names.
type MongoDBRepository struct {
	client            *mongo.Client
	dbName            string
	stockCollection   string
	billingCollection string
	loc               *time.Location
	logger            *zap.Logger
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, cfg config.MongoDBConfig, loc *time.Location, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(cfg.URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:            client,
		dbName:            cfg.DBName,
		stockCollection:   cfg.StockCollection,
		billingCollection: cfg.BillingCollection,
		loc:               loc,
		logger:            logger,
	}, nil
}

// FetchMovements returns inbound, non-cancelled manifests, newest entry first.
func (r *MongoDBRepository) FetchMovements(ctx context.Context) ([]models.StockMovement, error) {
	filter := bson.M{records.ColStatus: bson.M{"$ne": records.StatusCancelled}}
	rows, err := r.find(ctx, r.stockCollection, filter, records.ColEntryAt)
	if err != nil {
		return nil, err
	}

	out := make([]models.StockMovement, 0, len(rows))
	for _, row := range rows {
		if m := records.DecodeMovement(row, r.loc); records.IsInboundActive(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// FetchInvoices returns outbound invoices, newest issue first.
func (r *MongoDBRepository) FetchInvoices(ctx context.Context) ([]models.Invoice, error) {
	rows, err := r.find(ctx, r.billingCollection, bson.M{}, records.ColIssuedAt)
	if err != nil {
		return nil, err
	}

	out := make([]models.Invoice, 0, len(rows))
	for _, row := range rows {
		out = append(out, records.DecodeInvoice(row, r.loc))
	}
	return out, nil
}

func (r *MongoDBRepository) find(ctx context.Context, collName string, filter bson.M, sortBy string) ([]records.Row, error) {
	collection := r.client.Database(r.dbName).Collection(collName)
	opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collName, err)
	}
	defer cursor.Close(ctx)

	var rows []records.Row
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", collName, err)
		}
		rows = append(rows, DocumentToRow(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", collName, err)
	}

	r.logger.Debug("documents fetched", zap.String("collection", collName), zap.Int("count", len(rows)))
	return rows, nil
}

// DocumentToRow flattens a document into column text the record decoder reads.
func DocumentToRow(doc bson.M) records.Row {
	row := make(records.Row, len(doc))
	for key, value := range doc {
		if key == "_id" {
			continue
		}
		if text, ok := stringify(value); ok {
			row[key] = text
		}
	}
	return row
}

func stringify(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case primitive.DateTime:
		return v.Time().UTC().Format(time.RFC3339Nano), true
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), true
	case primitive.Decimal128:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return fmt.Sprint(v), true
	}
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
