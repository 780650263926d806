package mongo

import (
	"context"
	"errors"
	"time"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const foodItemCollectionName = "food_items"

// mongoFoodItemRepository implements repository.FoodItemRepository.
type mongoFoodItemRepository struct {
	collection *mongo.Collection
}

// NewMongoFoodItemRepository creates a new nutrition catalog repository.
func NewMongoFoodItemRepository(db *mongo.Database) repository.FoodItemRepository {
	return &mongoFoodItemRepository{
		collection: db.Collection(foodItemCollectionName),
	}
}

// Create inserts a new food item into the catalog.
func (r *mongoFoodItemRepository) Create(ctx context.Context, item *domain.FoodItem) (primitive.ObjectID, error) {
	if item.FoodName == "" {
		return primitive.NilObjectID, errors.New("food item name is required")
	}

	item.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted food item ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single food item.
func (r *mongoFoodItemRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FoodItem, error) {
	var item domain.FoodItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetAll retrieves the whole catalog, alphabetical by food name.
func (r *mongoFoodItemRepository) GetAll(ctx context.Context) ([]domain.FoodItem, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "food_name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []domain.FoodItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update replaces the mutable fields of a food item.
func (r *mongoFoodItemRepository) Update(ctx context.Context, item *domain.FoodItem) error {
	if item.ID == primitive.NilObjectID {
		return errors.New("food item ID is required for update")
	}

	filter := bson.M{"_id": item.ID}
	update := bson.M{
		"$set": bson.M{
			"food_name":     item.FoodName,
			"quantity":      item.Quantity,
			"energy_kcal":   item.EnergyKcal,
			"carbohydrates": item.Carbohydrates,
			"protein":       item.Protein,
			"fat":           item.Fat,
			"fiber":         item.Fiber,
			"calcium":       item.Calcium,
			"phosphorous":   item.Phosphorous,
			"iron":          item.Iron,
			"vitamin_a":     item.VitaminA,
			"vitamin_b1":    item.VitaminB1,
			"vitamin_b2":    item.VitaminB2,
			"vitamin_b3":    item.VitaminB3,
			"vitamin_b9":    item.VitaminB9,
			"updatedAt":     time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a food item from the catalog.
func (r *mongoFoodItemRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureFoodItemIndexes creates necessary indexes. Call during startup.
func EnsureFoodItemIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "food_name", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
