package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Herzon-Palma/Coders/inventory/models"
)

var ErrStockNotFound = errors.New("stock record not found")

// InventoryRepository defines data access for per-product stock records.
type InventoryRepository interface {
	FindByProductID(ctx context.Context, productID string) (*models.StockRecord, error)
	FindByProductIDs(ctx context.Context, productIDs []string) ([]models.StockRecord, error)
	SetStock(ctx context.Context, productID string, quantity, threshold int) error
	Reserve(ctx context.Context, productID string, quantity int) error
	Release(ctx context.Context, productID string, quantity int) error
}

type MongoInventoryRepository struct {
	collection *mongo.Collection
}

func NewMongoInventoryRepository(db *mongo.Database) *MongoInventoryRepository {
	return &MongoInventoryRepository{collection: db.Collection("inventory")}
}

// NewMongoDatabase connects to MongoDB and returns the named database.
func NewMongoDatabase(ctx context.Context, uri, name string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, client.Database(name), nil
}

func (r *MongoInventoryRepository) FindByProductID(ctx context.Context, productID string) (*models.StockRecord, error) {
	var record models.StockRecord
	err := r.collection.FindOne(ctx, bson.M{"product_id": productID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrStockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find stock for product %s: %w", productID, err)
	}
	return &record, nil
}

func (r *MongoInventoryRepository) FindByProductIDs(ctx context.Context, productIDs []string) ([]models.StockRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"product_id": bson.M{"$in": productIDs}})
	if err != nil {
		return nil, fmt.Errorf("find stock records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.StockRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode stock records: %w", err)
	}
	return records, nil
}

// SetStock upserts the on-hand quantity and alert threshold for a product.
func (r *MongoInventoryRepository) SetStock(ctx context.Context, productID string, quantity, threshold int) error {
	filter := bson.M{"product_id": productID}
	update := bson.M{
		"$set": bson.M{
			"quantity":   quantity,
			"threshold":  threshold,
			"updated_at": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{"reserved": 0},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set stock for product %s: %w", productID, err)
	}
	return nil
}

// Reserve holds stock for a pending checkout. The filter guards against
// overselling: the update only matches while enough unreserved stock
// remains.
func (r *MongoInventoryRepository) Reserve(ctx context.Context, productID string, quantity int) error {
	filter := bson.M{
		"product_id": productID,
		"$expr": bson.M{
			"$gte": bson.A{bson.M{"$subtract": bson.A{"$quantity", "$reserved"}}, quantity},
		},
	}
	update := bson.M{
		"$inc": bson.M{"reserved": quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("reserve stock for product %s: %w", productID, err)
	}
	if result.MatchedCount == 0 {
		return ErrStockNotFound
	}
	return nil
}

// Release returns previously reserved stock, clamping at zero.
func (r *MongoInventoryRepository) Release(ctx context.Context, productID string, quantity int) error {
	filter := bson.M{"product_id": productID, "reserved": bson.M{"$gte": quantity}}
	update := bson.M{
		"$inc": bson.M{"reserved": -quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("release stock for product %s: %w", productID, err)
	}
	if result.MatchedCount == 0 {
		return ErrStockNotFound
	}
	return nil
}
