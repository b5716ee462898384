package panel

import (
	"fmt"
	"time"
)

type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Notice is a user-visible status message.
type Notice struct {
	Level Level
	Text  string
	Time  time.Time
}

const maxNotices = 32
