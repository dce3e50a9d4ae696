package core

import (
	"errors"
	"strings"
	"time"
)

const (
	ObjectProject  ObjectType = "project"
	ObjectExercise ObjectType = "exercise"
	ObjectPiscine  ObjectType = "piscine"
	ObjectOther    ObjectType = "other"
)

type (
	ObjectType string

	// Object is the curriculum item an XP transaction was earned on.
	Object struct {
		Type ObjectType `json:"type"`
		Name string     `json:"name"`
	}

	// Transaction is a single XP grant as returned by the platform.
	Transaction struct {
		Amount    int64     `json:"amount"`
		Path      string    `json:"path"`
		CreatedAt time.Time `json:"createdAt"`
		Object    Object    `json:"object"`
	}

	// UserInfo holds the profile fields of the signed-in user.
	UserInfo struct {
		ID           int64  `json:"id"`
		Campus       string `json:"campus"`
		Login        string `json:"login"`
		Email        string `json:"email"`
		FirstName    string `json:"firstName"`
		LastName     string `json:"lastName"`
		TotalUp      int64  `json:"totalUp"`
		TotalUpBonus int64  `json:"totalUpBonus"`
		TotalDown    int64  `json:"totalDown"`
	}

	// XPTotals are the pre-aggregated sums computed upstream.
	XPTotals struct {
		Total     int64 `json:"total"`
		School    int64 `json:"school"`
		PiscineGo int64 `json:"piscineGo"`
		PiscineJS int64 `json:"piscineJs"`
	}

	Profile struct {
		User         UserInfo      `json:"user"`
		Transactions []Transaction `json:"transactions"`
		Totals       XPTotals      `json:"totals"`
	}
)

var (
	ErrNegativeAmount = errors.New("negative amount")
	ErrEmptyLogin     = errors.New("empty login")
)

// Known reports whether t is one of the object types the platform documents.
func (t ObjectType) Known() bool {
	switch t {
	case ObjectProject, ObjectExercise, ObjectPiscine, ObjectOther:
		return true
	default:
		return false
	}
}

func (t Transaction) Validate() error {
	if t.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// FullName joins first and last name, falling back to the login.
func (u UserInfo) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Login
	}
	return name
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.User.Login) == "" {
		return ErrEmptyLogin
	}
	for _, t := range p.Transactions {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
