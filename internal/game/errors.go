package game

import "errors"

// Configuration errors. Gameplay rejections are never errors; they are
// reported as a false return and leave state untouched.
var (
	ErrInvalidSource   = errors.New("invalid gravity source")
	ErrDuplicateSource = errors.New("duplicate gravity source id")
	ErrUnknownPlanet   = errors.New("unknown planet")
	ErrNoCharacters    = errors.New("no characters registered")
	ErrInvalidSlot     = errors.New("invalid ability slot")
	ErrInvalidAmmo     = errors.New("invalid ammo count")
	ErrInvalidConfig   = errors.New("invalid configuration")
)
