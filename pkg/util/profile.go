package util

import (
	"time"
)

// TimeProfile measures one named span of work.
type TimeProfile struct {
	Name      string
	StartTime time.Time
	Duration  time.Duration
}

func StartTimeProfile(name string) TimeProfile {
	return TimeProfile{Name: name, StartTime: time.Now()}
}

func (p *TimeProfile) Stop() time.Duration {
	p.Duration = time.Since(p.StartTime)
	return p.Duration
}

// StopAndLog stops the profile and writes it through the given printf
// style log function.
func (p *TimeProfile) StopAndLog(f func(format string, args ...interface{})) {
	d := p.Stop()
	f("[profile] %s %s", p.Name, d)
}
