package intervals

// Records mirror the intervals.icu JSON payloads. Optional values are
// pointers (or nil slices) tagged omitempty so an absent metric stays absent
// when a record is re-encoded; nothing here ever substitutes a zero.
// Timestamps are kept as the strings the API sends, which are local times
// without an offset for the *_local fields.

// Stream is one time series attached to an activity.
type Stream struct {
	Type      string    `json:"type"`
	Name      *string   `json:"name,omitempty"`
	Data      []float64 `json:"data"`
	Data2     []float64 `json:"data2,omitempty"`
	Anomalies []int     `json:"anomalies,omitempty"`
}

// Interval is a segment of an activity delimited by sample indexes.
type Interval struct {
	ID         *int `json:"id,omitempty"`
	StartIndex int  `json:"start_index"`
	EndIndex   int  `json:"end_index"`
	StartTime  *int `json:"start_time,omitempty"`
	EndTime    *int `json:"end_time,omitempty"`

	AverageWatts     *float64 `json:"average_watts,omitempty"`
	MaxWatts         *float64 `json:"max_watts,omitempty"`
	MinWatts         *float64 `json:"min_watts,omitempty"`
	NormalizedWatts  *float64 `json:"normalized_watts,omitempty"`
	VariabilityIndex *float64 `json:"variability_index,omitempty"`
	Intensity        *float64 `json:"intensity,omitempty"`

	AverageHeartrate *float64 `json:"average_heartrate,omitempty"`
	MaxHeartrate     *float64 `json:"max_heartrate,omitempty"`
	MinHeartrate     *float64 `json:"min_heartrate,omitempty"`

	AverageSpeed *float64 `json:"average_speed,omitempty"`
	MaxSpeed     *float64 `json:"max_speed,omitempty"`
	Distance     *float64 `json:"distance,omitempty"`
	MovingTime   *int     `json:"moving_time,omitempty"`
	ElapsedTime  *int     `json:"elapsed_time,omitempty"`

	AverageCadence *float64 `json:"average_cadence,omitempty"`
	MaxCadence     *float64 `json:"max_cadence,omitempty"`

	TotalElevationGain *float64 `json:"total_elevation_gain,omitempty"`
	AverageGrade       *float64 `json:"average_grade,omitempty"`

	TrainingLoad *float64 `json:"training_load,omitempty"`
	ZoneTime     []int    `json:"zone_time,omitempty"`

	Name  *string `json:"name,omitempty"`
	Type  *string `json:"type,omitempty"`
	Color *string `json:"color,omitempty"`
}

// IntervalGroup aggregates a set of intervals of the same activity.
type IntervalGroup struct {
	Name      string  `json:"name"`
	Color     *string `json:"color,omitempty"`
	Intervals []int   `json:"intervals"`

	TotalTime         *int     `json:"total_time,omitempty"`
	TotalDistance     *float64 `json:"total_distance,omitempty"`
	AveragePower      *float64 `json:"average_power,omitempty"`
	AverageHeartrate  *float64 `json:"average_heartrate,omitempty"`
	TotalTrainingLoad *float64 `json:"total_training_load,omitempty"`
}

// PowerCurve is the athlete's best power per duration bucket.
type PowerCurve struct {
	Secs        []int                `json:"secs"`
	Values      []float64            `json:"values"`
	WattsPerKg  []float64            `json:"watts_per_kg,omitempty"`
	Dates       []string             `json:"dates,omitempty"`
	ActivityIDs []string             `json:"activity_ids,omitempty"`
	Percentiles map[string][]float64 `json:"percentiles,omitempty"`
}

// ActivityPowerCurve is the power curve of a single activity.
type ActivityPowerCurve struct {
	ID             string    `json:"id"`
	StartDateLocal string    `json:"start_date_local"`
	Watts          []float64 `json:"watts"`
	Weight         *float64  `json:"weight,omitempty"`
}

// HRCurve is the athlete's best heart rate per duration bucket.
type HRCurve struct {
	Secs        []int     `json:"secs"`
	Values      []float64 `json:"values"`
	Dates       []string  `json:"dates,omitempty"`
	ActivityIDs []string  `json:"activity_ids,omitempty"`
}

// PaceCurve is the athlete's best pace per duration bucket, in seconds per metre.
type PaceCurve struct {
	Secs        []int     `json:"secs"`
	Values      []float64 `json:"values"`
	Dates       []string  `json:"dates,omitempty"`
	ActivityIDs []string  `json:"activity_ids,omitempty"`
}

// Effort is one best-effort segment inside an activity.
type Effort struct {
	StartIndex int      `json:"start_index"`
	EndIndex   int      `json:"end_index"`
	Distance   float64  `json:"distance"`
	Watts      *float64 `json:"watts,omitempty"`
	Pace       *float64 `json:"pace,omitempty"`
	Heartrate  *float64 `json:"heartrate,omitempty"`
	MovingTime int      `json:"moving_time"`
	Rank       *int     `json:"rank,omitempty"`
}

// BestEfforts groups an activity's best efforts by metric.
type BestEfforts struct {
	Power []Effort `json:"power,omitempty"`
	Pace  []Effort `json:"pace,omitempty"`
	HR    []Effort `json:"hr,omitempty"`
}

// ActivitySummary is the list view of an activity.
type ActivitySummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	StartDateLocal string `json:"start_date_local"`

	MovingTime  *int     `json:"moving_time,omitempty"`
	ElapsedTime *int     `json:"elapsed_time,omitempty"`
	Distance    *float64 `json:"distance,omitempty"`

	AverageWatts        *float64 `json:"average_watts,omitempty"`
	MaxWatts            *float64 `json:"max_watts,omitempty"`
	ICUFTP              *float64 `json:"icu_ftp,omitempty"`
	ICUWeightedAvgWatts *float64 `json:"icu_weighted_avg_watts,omitempty"`
	ICUTrainingLoad     *float64 `json:"icu_training_load,omitempty"`

	AverageHeartrate *float64 `json:"average_heartrate,omitempty"`
	MaxHeartrate     *float64 `json:"max_heartrate,omitempty"`

	AverageSpeed *float64 `json:"average_speed,omitempty"`
	MaxSpeed     *float64 `json:"max_speed,omitempty"`

	TotalElevationGain *float64 `json:"total_elevation_gain,omitempty"`

	ICUATL      *float64 `json:"icu_atl,omitempty"` // fatigue
	ICUCTL      *float64 `json:"icu_ctl,omitempty"` // fitness
	ICURampRate *float64 `json:"icu_ramp_rate,omitempty"`
	ICUForm     *float64 `json:"icu_form,omitempty"`
}

// Activity is the full record of a completed workout.
type Activity struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	Type           string  `json:"type"`
	StartDateLocal string  `json:"start_date_local"`
	Timezone       *string `json:"timezone,omitempty"`

	MovingTime  *int     `json:"moving_time,omitempty"`
	ElapsedTime *int     `json:"elapsed_time,omitempty"`
	Distance    *float64 `json:"distance,omitempty"`

	AverageWatts         *float64 `json:"average_watts,omitempty"`
	MaxWatts             *float64 `json:"max_watts,omitempty"`
	WeightedAverageWatts *float64 `json:"weighted_average_watts,omitempty"`
	ICUFTP               *float64 `json:"icu_ftp,omitempty"`
	ICUWeightedAvgWatts  *float64 `json:"icu_weighted_avg_watts,omitempty"`
	ICUTrainingLoad      *float64 `json:"icu_training_load,omitempty"`
	NormalizedWatts      *float64 `json:"normalized_watts,omitempty"`
	IntensityFactor      *float64 `json:"intensity_factor,omitempty"`
	VariabilityIndex     *float64 `json:"variability_index,omitempty"`

	AverageHeartrate *float64 `json:"average_heartrate,omitempty"`
	MaxHeartrate     *float64 `json:"max_heartrate,omitempty"`

	AverageSpeed *float64 `json:"average_speed,omitempty"`
	MaxSpeed     *float64 `json:"max_speed,omitempty"`
	Pace         *float64 `json:"pace,omitempty"`

	AverageCadence *float64 `json:"average_cadence,omitempty"`
	MaxCadence     *float64 `json:"max_cadence,omitempty"`

	TotalElevationGain *float64  `json:"total_elevation_gain,omitempty"`
	StartLatLng        []float64 `json:"start_latlng,omitempty"`
	EndLatLng          []float64 `json:"end_latlng,omitempty"`
	WeatherTemp        *float64  `json:"weather_temp,omitempty"`
	WeatherHumidity    *float64  `json:"weather_humidity,omitempty"`
	WeatherWindSpeed   *float64  `json:"weather_wind_speed,omitempty"`

	ICUATL          *float64 `json:"icu_atl,omitempty"`
	ICUCTL          *float64 `json:"icu_ctl,omitempty"`
	ICURampRate     *float64 `json:"icu_ramp_rate,omitempty"`
	ICUForm         *float64 `json:"icu_form,omitempty"`
	ICURecoveryTime *int     `json:"icu_recovery_time,omitempty"`

	PowerMeter        *string  `json:"power_meter,omitempty"`
	PowerMeterSerial  *string  `json:"power_meter_serial,omitempty"`
	PowerMeterBattery *float64 `json:"power_meter_battery,omitempty"`

	PowerZoneTimes []int `json:"power_zone_times,omitempty"`
	HRZoneTimes    []int `json:"hr_zone_times,omitempty"`
	PaceZoneTimes  []int `json:"pace_zone_times,omitempty"`

	StravaID *string `json:"strava_id,omitempty"`
	GarminID *string `json:"garmin_id,omitempty"`

	HasPower     *bool `json:"has_power,omitempty"`
	HasHeartrate *bool `json:"has_heartrate,omitempty"`
	HasCadence   *bool `json:"has_cadence,omitempty"`
	HasGPS       *bool `json:"has_gps,omitempty"`

	Achievements []string `json:"achievements,omitempty"`

	Created *string `json:"created,omitempty"`
	Updated *string `json:"updated,omitempty"`
}

// ActivityWithIntervals is an Activity fetched with its interval analysis.
type ActivityWithIntervals struct {
	Activity
	ICUIntervals []Interval      `json:"icu_intervals,omitempty"`
	ICUGroups    []IntervalGroup `json:"icu_groups,omitempty"`
}

// SportSettings holds the zones configured for one sport.
type SportSettings struct {
	Sport   string   `json:"sport"`
	FTP     *float64 `json:"ftp,omitempty"`
	FTPDate *string  `json:"ftp_date,omitempty"`

	PowerZoneNames  []string  `json:"power_zone_names,omitempty"`
	PowerZoneBounds []float64 `json:"power_zone_bounds,omitempty"`
	HRZoneNames     []string  `json:"hr_zone_names,omitempty"`
	HRZoneBounds    []float64 `json:"hr_zone_bounds,omitempty"`
	PaceZoneNames   []string  `json:"pace_zone_names,omitempty"`
	PaceZoneBounds  []float64 `json:"pace_zone_bounds,omitempty"`
}

// Athlete is the intervals.icu athlete profile.
type Athlete struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`

	City     *string  `json:"city,omitempty"`
	Country  *string  `json:"country,omitempty"`
	Timezone *string  `json:"timezone,omitempty"`
	Locale   *string  `json:"locale,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`

	MeasurementPreference *string `json:"measurement_preference,omitempty"`
	TrainingView          *string `json:"training_view,omitempty"`

	SportsSettings []SportSettings `json:"sports_settings,omitempty"`

	StravaAthleteID *string `json:"strava_athlete_id,omitempty"`
	GarminUserID    *string `json:"garmin_user_id,omitempty"`
	PolarUserID     *string `json:"polar_user_id,omitempty"`

	AutoSync   *bool `json:"auto_sync,omitempty"`
	SyncStrava *bool `json:"sync_strava,omitempty"`
	SyncGarmin *bool `json:"sync_garmin,omitempty"`
	SyncPolar  *bool `json:"sync_polar,omitempty"`

	Privacy   *string `json:"privacy,omitempty"`
	ShowEmail *bool   `json:"show_email,omitempty"`

	Created *string `json:"created,omitempty"`
	Updated *string `json:"updated,omitempty"`
}

// Wellness is one day of wellness data. ID is the ISO date.
type Wellness struct {
	ID        string `json:"id"`
	AthleteID string `json:"athlete_id"`

	SleepQuality *int     `json:"sleep_quality,omitempty"`
	SleepHours   *float64 `json:"sleep_hours,omitempty"`

	RestingHR *int     `json:"resting_hr,omitempty"`
	HRV       *float64 `json:"hrv,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	BodyFat   *float64 `json:"body_fat,omitempty"`

	Stress     *int `json:"stress,omitempty"`
	Fatigue    *int `json:"fatigue,omitempty"`
	Soreness   *int `json:"soreness,omitempty"`
	Mood       *int `json:"mood,omitempty"`
	Motivation *int `json:"motivation,omitempty"`

	MenstrualFlow *int `json:"menstrual_flow,omitempty"`

	Notes *string `json:"notes,omitempty"`

	Created *string `json:"created,omitempty"`
	Updated *string `json:"updated,omitempty"`
}

// Event is a calendar entry: a planned workout, race or note. ActivityID is
// set once the event has been executed.
type Event struct {
	ID             *int   `json:"id,omitempty"`
	AthleteID      string `json:"athlete_id"`
	StartDateLocal string `json:"start_date_local"`

	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    string  `json:"category"`
	Type        *string `json:"type,omitempty"`

	MovingTime *int `json:"moving_time,omitempty"`

	TargetPower        *float64 `json:"target_power,omitempty"`
	TargetHeartrate    *float64 `json:"target_heartrate,omitempty"`
	TargetPace         *float64 `json:"target_pace,omitempty"`
	TargetDistance     *float64 `json:"target_distance,omitempty"`
	TargetTrainingLoad *float64 `json:"target_training_load,omitempty"`

	WorkoutDoc *string `json:"workout_doc,omitempty"`

	Completed  *bool   `json:"completed,omitempty"`
	ActivityID *string `json:"activity_id,omitempty"`

	HideFromAthlete   *bool `json:"hide_from_athlete,omitempty"`
	AthleteCannotEdit *bool `json:"athlete_cannot_edit,omitempty"`

	ExternalID *string `json:"external_id,omitempty"`

	Created *string `json:"created,omitempty"`
	Updated *string `json:"updated,omitempty"`
}

// ActivitySearchResult is a page of search hits.
type ActivitySearchResult struct {
	Activities []ActivitySummary `json:"activities"`
	TotalCount *int              `json:"total_count,omitempty"`
	Page       *int              `json:"page,omitempty"`
	PerPage    *int              `json:"per_page,omitempty"`
}
