package domain

// NoLogsMarker is emitted by range reports for calendar days that have no
// stored entries. Callers never need to distinguish "never logged" from
// "logged nothing".
const NoLogsMarker = "No logs for this date"

// ActivityDocument is the per-user activity ledger: one document per member,
// keyed by the member's ID, holding every day they ever logged. Days is a
// typed map rather than dynamically named top-level fields so the schema
// stays expressible and indexable.
type ActivityDocument struct {
	OwnerID string              `bson:"_id" json:"ownerId"`
	Days    map[string]DaySlice `bson:"days" json:"days"`
}

// DaySlice is the pair of append-only logs for one member on one calendar
// day. A slice is never partially present: both lists exist (possibly empty)
// from the moment the day is created.
type DaySlice struct {
	WorkoutLogs []WorkoutEntry `bson:"workout_logs" json:"workout_logs"`
	DietLogs    []DietEntry    `bson:"diet_logs" json:"diet_logs"`
}

// IsEmpty reports whether the slice holds no entries of either kind.
func (s DaySlice) IsEmpty() bool {
	return len(s.WorkoutLogs) == 0 && len(s.DietLogs) == 0
}

// WorkoutEntry records one named workout for a day. Immutable once appended;
// the name is its identity within the day, so the same workout can be logged
// at most once per member per day.
type WorkoutEntry struct {
	WorkoutName  string  `bson:"workout_name" json:"workout_name"`
	SetsAssigned int     `bson:"sets_assigned" json:"sets_assigned"`
	SetsDone     int     `bson:"sets_done" json:"sets_done"`
	RepsAssigned int     `bson:"reps_assigned" json:"reps_assigned"`
	RepsDone     int     `bson:"reps_done" json:"reps_done"`
	LoadAssigned float64 `bson:"load_assigned" json:"load_assigned"`
	LoadDone     float64 `bson:"load_done" json:"load_done"`
	// Performance is load_done over load_assigned as a percentage. Values
	// over 100 are valid: the member exceeded their target.
	Performance  float64 `bson:"performance" json:"performance"`
	UploadedTime string  `bson:"uploaded_time" json:"uploaded_time"`
}

// DietEntry records one named food intake for a day, keyed by food name the
// same way workout entries are keyed by workout name.
type DietEntry struct {
	FoodName     string  `bson:"food_name" json:"food_name"`
	Quantity     float64 `bson:"quantity" json:"quantity"`
	Units        string  `bson:"units,omitempty" json:"units,omitempty"`
	ImageURL     string  `bson:"image_url,omitempty" json:"image_url,omitempty"`
	UploadedTime string  `bson:"uploaded_time" json:"uploaded_time"`
}

// DayReport is one day of a gap-filled range report. Slice is nil for days
// with no stored entries; those render as NoLogsMarker.
type DayReport struct {
	Date  string
	Slice *DaySlice
}
