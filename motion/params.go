package motion

// Params holds every tuning constant of the motion core. Durations named
// *Millis or *Min/*Max for stop/rest are milliseconds; target change bounds
// and JitterInterval are ticks. The yaml names are used by the pet prefab.
type Params struct {
	BaseSpeedX float64 `yaml:"base_speed_x"`
	BaseSpeedY float64 `yaml:"base_speed_y"`

	StopChance      float64 `yaml:"stop_chance"`
	StopDurationMin int     `yaml:"stop_duration_min"`
	StopDurationMax int     `yaml:"stop_duration_max"`
	StayPutChance   float64 `yaml:"stay_put_chance"`

	TickMillis     int     `yaml:"tick_millis"`
	JitterInterval int     `yaml:"jitter_interval"`
	Jitter         float64 `yaml:"jitter"`

	EscapeChance  float64 `yaml:"escape_chance"`
	RespawnMargin float64 `yaml:"respawn_margin"`
	RespawnSpeedX float64 `yaml:"respawn_speed_x"`
	RespawnSpeedY int     `yaml:"respawn_speed_y"`

	TargetChangeMin     int     `yaml:"target_change_min"`
	TargetChangeMax     int     `yaml:"target_change_max"`
	OutsideTargetChance float64 `yaml:"outside_target_chance"`

	FollowDistance      int     `yaml:"follow_distance"`
	FollowStartDistance float64 `yaml:"follow_start_distance"`
	FollowStopDistance  float64 `yaml:"follow_stop_distance"`

	InertiaFactor float64 `yaml:"inertia_factor"`
	IntentFactor  float64 `yaml:"intent_factor"`

	RestChance      float64 `yaml:"rest_chance"`
	RestDurationMin int     `yaml:"rest_duration_min"`
	RestDurationMax int     `yaml:"rest_duration_max"`
	RestDistance    float64 `yaml:"rest_distance"`

	SpeedWander  float64 `yaml:"speed_wander"`
	SpeedFollow  float64 `yaml:"speed_follow"`
	SpeedCurious float64 `yaml:"speed_curious"`
	SpeedDefault float64 `yaml:"speed_default"`

	FlipThreshold float64 `yaml:"flip_threshold"`

	PausedPollMillis int `yaml:"paused_poll_millis"`
	DragPollMillis   int `yaml:"drag_poll_millis"`
}

func DefaultParams() Params {
	return Params{
		BaseSpeedX: 3,
		BaseSpeedY: 2,

		StopChance:      0.003,
		StopDurationMin: 4000,
		StopDurationMax: 8000,
		StayPutChance:   0.3,

		TickMillis:     30,
		JitterInterval: 5,
		Jitter:         0.15,

		EscapeChance:  0.3,
		RespawnMargin: 50,
		RespawnSpeedX: 3,
		RespawnSpeedY: 2,

		TargetChangeMin:     200,
		TargetChangeMax:     500,
		OutsideTargetChance: 0.4,

		FollowDistance:      80,
		FollowStartDistance: 200,
		FollowStopDistance:  60,

		InertiaFactor: 0.95,
		IntentFactor:  0.05,

		RestChance:      0.6,
		RestDurationMin: 1000,
		RestDurationMax: 3000,
		RestDistance:    20,

		SpeedWander:  0.8,
		SpeedFollow:  1.2,
		SpeedCurious: 0.5,
		SpeedDefault: 1.0,

		FlipThreshold: 0.5,

		PausedPollMillis: 100,
		DragPollMillis:   50,
	}
}

// SpeedMultiplier returns the per-mode scale applied to BaseSpeed.
func (p Params) SpeedMultiplier(m Mode) float64 {
	switch m {
	case ModeWander:
		return p.SpeedWander
	case ModeFollow:
		return p.SpeedFollow
	case ModeCurious:
		return p.SpeedCurious
	case ModeRest:
		return p.SpeedDefault
	}
	return p.SpeedDefault
}

// sanitized repairs values that would stall or crash the loop.
func (p Params) sanitized() Params {
	def := DefaultParams()
	if p.TickMillis <= 0 {
		p.TickMillis = def.TickMillis
	}
	if p.JitterInterval <= 0 {
		p.JitterInterval = def.JitterInterval
	}
	if p.PausedPollMillis <= 0 {
		p.PausedPollMillis = def.PausedPollMillis
	}
	if p.DragPollMillis <= 0 {
		p.DragPollMillis = def.DragPollMillis
	}
	if p.TargetChangeMax < p.TargetChangeMin {
		p.TargetChangeMax = p.TargetChangeMin
	}
	if p.StopDurationMax < p.StopDurationMin {
		p.StopDurationMax = p.StopDurationMin
	}
	if p.RestDurationMax < p.RestDurationMin {
		p.RestDurationMax = p.RestDurationMin
	}
	if p.FollowStopDistance > p.FollowStartDistance {
		p.FollowStopDistance = p.FollowStartDistance
	}
	return p
}
