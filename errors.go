package stocks

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotFound is returned when a holdings file does not exist.
	// It matches fs.ErrNotExist too.
	ErrNotFound = notFound{}
	// ErrInsufficientShares is returned when selling more shares than held.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrUndefinedRatio is returned when a ratio has a zero denominator.
	ErrUndefinedRatio = errors.New("undefined ratio")
	// ErrDataUnavailable is returned when a Market has no, or not enough, data for a symbol.
	ErrDataUnavailable = errors.New("market data unavailable")
)

type notFound struct{}

func (notFound) Error() string        { return "holdings not found" }
func (notFound) Is(target error) bool { return target == fs.ErrNotExist }
