package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlan is the structured plan embedded in a user's document. There is
// at most one per member; setting a new one replaces the old.
type WorkoutPlan struct {
	StartDate string        `bson:"start_date" json:"start_date"`
	EndDate   string        `bson:"end_date" json:"end_date"`
	Progress  []DayProgress `bson:"progress" json:"progress"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// DayProgress tracks which planned exercises were performed on one weekday.
type DayProgress struct {
	Day       string            `bson:"day" json:"day"` // e.g. "Monday"
	Exercises []PlannedExercise `bson:"exercises" json:"exercises"`
}

type PlannedExercise struct {
	ExerciseID string `bson:"exercise_id" json:"exercise_id"`
	Completed  bool   `bson:"completed" json:"completed"`
	Sets       *int   `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps       *int   `bson:"reps,omitempty" json:"reps,omitempty"`
}

// DietPlan is a nutrition plan drawn up for one member. Stored in its own
// collection; a member can accumulate several over time.
type DietPlan struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"user_id" json:"user_id"`
	StartDate       string             `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate         string             `bson:"end_date,omitempty" json:"end_date,omitempty"`
	DesiredWeight   *float64           `bson:"desired_weight,omitempty" json:"desired_weight,omitempty"`
	DesiredCalories *float64           `bson:"desired_calories,omitempty" json:"desired_calories,omitempty"`
	DesiredProteins *float64           `bson:"desired_proteins,omitempty" json:"desired_proteins,omitempty"`
	Meals           []Meal             `bson:"meals" json:"meals"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// Meal is one food item prescribed by a diet plan.
type Meal struct {
	FoodName      string  `bson:"food_name" json:"food_name"`
	Quantity      string  `bson:"quantity" json:"quantity"`
	EnergyKcal    float64 `bson:"energy_kcal" json:"energy_kcal"`
	Carbohydrates float64 `bson:"carbohydrates" json:"carbohydrates"`
	Protein       float64 `bson:"protein" json:"protein"`
	Fat           float64 `bson:"fat" json:"fat"`
}
