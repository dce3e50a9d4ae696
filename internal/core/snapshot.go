package core

import "time"

// Snapshot is a point-in-time record of a user's XP standing, emitted each
// time a profile is fetched fresh from the platform.
type Snapshot struct {
	Login        string    `json:"login"`
	UserID       int64     `json:"userId"`
	Campus       string    `json:"campus"`
	TotalXP      int64     `json:"totalXp"`
	SchoolXP     int64     `json:"schoolXp"`
	PiscineGoXP  int64     `json:"piscineGoXp"`
	PiscineJSXP  int64     `json:"piscineJsXp"`
	TotalUp      int64     `json:"totalUp"`
	TotalUpBonus int64     `json:"totalUpBonus"`
	TotalDown    int64     `json:"totalDown"`
	Projects     int       `json:"projects"`
	Exercises    int       `json:"exercises"`
	TakenAt      time.Time `json:"takenAt"`
}

// NewSnapshot captures p and the sizes of its partition at the given time.
func NewSnapshot(p Profile, part Partition, at time.Time) Snapshot {
	return Snapshot{
		Login:        p.User.Login,
		UserID:       p.User.ID,
		Campus:       p.User.Campus,
		TotalXP:      p.Totals.Total,
		SchoolXP:     p.Totals.School,
		PiscineGoXP:  p.Totals.PiscineGo,
		PiscineJSXP:  p.Totals.PiscineJS,
		TotalUp:      p.User.TotalUp,
		TotalUpBonus: p.User.TotalUpBonus,
		TotalDown:    p.User.TotalDown,
		Projects:     len(part.Projects),
		Exercises:    len(part.Exercises),
		TakenAt:      at.UTC(),
	}
}

// AuditRatio is the formatted audit ratio at the time of the snapshot.
func (s Snapshot) AuditRatio() string {
	return AuditRatio(s.TotalUp+s.TotalUpBonus, s.TotalDown)
}

func (s Snapshot) Validate() error {
	if s.Login == "" {
		return ErrEmptyLogin
	}
	if s.TotalXP < 0 || s.TotalUp < 0 || s.TotalDown < 0 {
		return ErrNegativeAmount
	}
	return nil
}
