package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FoodItem is one entry in the gym's nutrition catalog: a named food with
// its nutrient profile per stated quantity. Trainers pick from this catalog
// when drawing up diet plans.
type FoodItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FoodName      string             `bson:"food_name" json:"food_name"`
	Quantity      string             `bson:"quantity" json:"quantity"` // e.g. "100 g"
	EnergyKcal    float64            `bson:"energy_kcal" json:"energy_kcal"`
	Carbohydrates float64            `bson:"carbohydrates" json:"carbohydrates"`
	Protein       float64            `bson:"protein" json:"protein"`
	Fat           float64            `bson:"fat" json:"fat"`
	Fiber         float64            `bson:"fiber" json:"fiber"`
	Calcium       float64            `bson:"calcium" json:"calcium"`
	Phosphorous   float64            `bson:"phosphorous" json:"phosphorous"`
	Iron          float64            `bson:"iron" json:"iron"`
	VitaminA      float64            `bson:"vitamin_a" json:"vitamin_a"`
	VitaminB1     float64            `bson:"vitamin_b1" json:"vitamin_b1"`
	VitaminB2     float64            `bson:"vitamin_b2" json:"vitamin_b2"`
	VitaminB3     float64            `bson:"vitamin_b3" json:"vitamin_b3"`
	VitaminB9     float64            `bson:"vitamin_b9" json:"vitamin_b9"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
