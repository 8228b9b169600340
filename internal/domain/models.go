package domain

// Access levels stored in users.access_level.
const (
	AccessLevelBlocked = 0
	AccessLevelAdmin   = 1
)

// MeterTypeElectric is the only meter type for which a PPE code is meaningful.
const MeterTypeElectric = "electric"

type User struct {
	ID          int64  `db:"user_id" json:"-"`
	Email       string `db:"email" json:"email"`
	Password    string `db:"password" json:"-"`
	AccessLevel int    `db:"access_level" json:"access_level"`
}

type Facility struct {
	ID      int64  `db:"facility_id" json:"-"`
	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address"`
	Email   string `db:"email" json:"email"`
}

type Meter struct {
	ID             int64   `db:"meter_id" json:"-"`
	FacilityID     int64   `db:"facility_id" json:"-"`
	Serial         string  `db:"serial_number" json:"serial_number"`
	Type           string  `db:"meter_type" json:"meter_type"`
	PPE            *string `db:"ppe" json:"ppe,omitempty"`
	MultiplyFactor float64 `db:"multiply_factor" json:"multiply_factor"`
	Description    *string `db:"description" json:"description,omitempty"`
}

type Reading struct {
	ID      int64   `db:"reading_id" json:"reading_id"`
	Value   float64 `db:"value" json:"value"`
	Date    string  `db:"reading_date" json:"reading_date"`
	MeterID int64   `db:"meter_id" json:"-"`
	UserID  int64   `db:"user_id" json:"-"`
}

// FacilityReading is the joined row returned when listing readings for a
// facility: surrogate foreign keys are replaced by the meter serial number
// and the reporting user's email.
type FacilityReading struct {
	ID     int64   `db:"reading_id" json:"reading_id"`
	Value  float64 `db:"value" json:"value"`
	Date   string  `db:"reading_date" json:"reading_date"`
	Serial string  `db:"serial_number" json:"meter_serial_number"`
	Email  string  `db:"email" json:"email"`
}
