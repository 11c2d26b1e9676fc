package strava

import "encoding/json"

// MetaAthlete is the athlete reference embedded in activities.
type MetaAthlete struct {
	ID            int64 `json:"id"`
	ResourceState *int  `json:"resource_state,omitempty"`
}

// PolylineMap is the route summary of an activity.
type PolylineMap struct {
	ID              string  `json:"id"`
	SummaryPolyline *string `json:"summary_polyline,omitempty"`
	Polyline        *string `json:"polyline,omitempty"`
}

// Athlete is the authenticated athlete's profile.
type Athlete struct {
	ID            int64    `json:"id"`
	Username      *string  `json:"username,omitempty"`
	ResourceState int      `json:"resource_state"`
	Firstname     string   `json:"firstname"`
	Lastname      string   `json:"lastname"`
	Bio           *string  `json:"bio,omitempty"`
	City          *string  `json:"city,omitempty"`
	State         *string  `json:"state,omitempty"`
	Country       *string  `json:"country,omitempty"`
	Sex           *string  `json:"sex,omitempty"`
	Premium       bool     `json:"premium"`
	Summit        bool     `json:"summit"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	BadgeTypeID   *int     `json:"badge_type_id,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	ProfileMedium *string  `json:"profile_medium,omitempty"`
	Profile       *string  `json:"profile,omitempty"`
	Friend        *string  `json:"friend,omitempty"`
	Follower      *string  `json:"follower,omitempty"`
}

// Activity is the summary representation returned by activity listings.
type Activity struct {
	ID            int64       `json:"id"`
	ResourceState int         `json:"resource_state"`
	Athlete       MetaAthlete `json:"athlete"`
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	SportType     string      `json:"sport_type,omitempty"`
	WorkoutType   *int        `json:"workout_type,omitempty"`

	StartDate      string  `json:"start_date"`
	StartDateLocal string  `json:"start_date_local"`
	Timezone       string  `json:"timezone"`
	UTCOffset      float64 `json:"utc_offset"`

	Distance           float64  `json:"distance"`
	MovingTime         int      `json:"moving_time"`
	ElapsedTime        int      `json:"elapsed_time"`
	TotalElevationGain float64  `json:"total_elevation_gain"`
	ElevHigh           *float64 `json:"elev_high,omitempty"`
	ElevLow            *float64 `json:"elev_low,omitempty"`

	LocationCity    *string      `json:"location_city,omitempty"`
	LocationState   *string      `json:"location_state,omitempty"`
	LocationCountry *string      `json:"location_country,omitempty"`
	StartLatLng     []float64    `json:"start_latlng,omitempty"`
	EndLatLng       []float64    `json:"end_latlng,omitempty"`
	Map             *PolylineMap `json:"map,omitempty"`

	AchievementCount int `json:"achievement_count"`
	KudosCount       int `json:"kudos_count"`
	CommentCount     int `json:"comment_count"`
	AthleteCount     int `json:"athlete_count"`
	PhotoCount       int `json:"photo_count"`
	TotalPhotoCount  int `json:"total_photo_count"`
	PRCount          int `json:"pr_count"`

	Trainer         bool    `json:"trainer"`
	Commute         bool    `json:"commute"`
	Manual          bool    `json:"manual"`
	Private         bool    `json:"private"`
	Flagged         bool    `json:"flagged"`
	HasKudoed       bool    `json:"has_kudoed"`
	HasHeartrate    bool    `json:"has_heartrate"`
	DeviceWatts     *bool   `json:"device_watts,omitempty"`
	Visibility      string  `json:"visibility,omitempty"`
	GearID          *string `json:"gear_id,omitempty"`
	FromAcceptedTag *bool   `json:"from_accepted_tag,omitempty"`

	AverageSpeed         float64  `json:"average_speed"`
	MaxSpeed             float64  `json:"max_speed"`
	AverageCadence       *float64 `json:"average_cadence,omitempty"`
	AverageWatts         *float64 `json:"average_watts,omitempty"`
	WeightedAverageWatts *int     `json:"weighted_average_watts,omitempty"`
	Kilojoules           *float64 `json:"kilojoules,omitempty"`
	AverageHeartrate     *float64 `json:"average_heartrate,omitempty"`
	MaxHeartrate         *float64 `json:"max_heartrate,omitempty"`
	HeartrateOptOut      *bool    `json:"heartrate_opt_out,omitempty"`

	UploadID    *int64  `json:"upload_id,omitempty"`
	UploadIDStr *string `json:"upload_id_str,omitempty"`
	ExternalID  *string `json:"external_id,omitempty"`
}

// SegmentEffort is one attempt at a segment within an activity.
type SegmentEffort struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	ElapsedTime      int      `json:"elapsed_time"`
	MovingTime       int      `json:"moving_time"`
	StartDate        string   `json:"start_date"`
	StartDateLocal   string   `json:"start_date_local"`
	Distance         float64  `json:"distance"`
	StartIndex       *int     `json:"start_index,omitempty"`
	EndIndex         *int     `json:"end_index,omitempty"`
	AverageWatts     *float64 `json:"average_watts,omitempty"`
	AverageHeartrate *float64 `json:"average_heartrate,omitempty"`
	PRRank           *int     `json:"pr_rank,omitempty"`
	KOMRank          *int     `json:"kom_rank,omitempty"`
}

// DetailedActivity is a single activity with its description, energy and
// segment efforts.
type DetailedActivity struct {
	Activity
	Description    *string         `json:"description,omitempty"`
	Calories       *float64        `json:"calories,omitempty"`
	DeviceName     *string         `json:"device_name,omitempty"`
	SegmentEfforts []SegmentEffort `json:"segment_efforts,omitempty"`
}

// ActivityTotals rolls up a set of activities.
type ActivityTotals struct {
	Count            int     `json:"count"`
	Distance         float64 `json:"distance"`
	MovingTime       int     `json:"moving_time"`
	ElapsedTime      int     `json:"elapsed_time"`
	ElevationGain    float64 `json:"elevation_gain"`
	AchievementCount *int    `json:"achievement_count,omitempty"`
}

// AthleteStats are the totals Strava computes for an athlete.
type AthleteStats struct {
	BiggestRideDistance       *float64       `json:"biggest_ride_distance,omitempty"`
	BiggestClimbElevationGain *float64       `json:"biggest_climb_elevation_gain,omitempty"`
	RecentRideTotals          ActivityTotals `json:"recent_ride_totals"`
	RecentRunTotals           ActivityTotals `json:"recent_run_totals"`
	RecentSwimTotals          ActivityTotals `json:"recent_swim_totals"`
	YTDRideTotals             ActivityTotals `json:"ytd_ride_totals"`
	YTDRunTotals              ActivityTotals `json:"ytd_run_totals"`
	YTDSwimTotals             ActivityTotals `json:"ytd_swim_totals"`
	AllRideTotals             ActivityTotals `json:"all_ride_totals"`
	AllRunTotals              ActivityTotals `json:"all_run_totals"`
	AllSwimTotals             ActivityTotals `json:"all_swim_totals"`
}

// Stream is one sample series. Data stays raw because its element type
// depends on the stream: numbers for most, [lat, lng] pairs for latlng,
// booleans for moving.
type Stream struct {
	Type         string          `json:"type,omitempty"`
	Data         json.RawMessage `json:"data"`
	SeriesType   string          `json:"series_type"`
	OriginalSize int             `json:"original_size"`
	Resolution   string          `json:"resolution"`
}

// StreamSet holds an activity's streams keyed by stream type.
type StreamSet map[string]Stream
