package prep

import (
	"fmt"
	"sync"
)

// Stats summarizes a stage run.
type Stats struct {
	Recordings int
	Snippets   int
	Speech     int
	Background int
	Skipped    int
}

func (s Stats) String() string {
	return fmt.Sprintf("recordings=%d snippets=%d speech=%d background=%d skipped=%d",
		s.Recordings, s.Snippets, s.Speech, s.Background, s.Skipped)
}

type statsCollector struct {
	mutex sync.Mutex
	stats Stats
}

func (c *statsCollector) add(s Stats) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stats.Recordings += s.Recordings
	c.stats.Snippets += s.Snippets
	c.stats.Speech += s.Speech
	c.stats.Background += s.Background
	c.stats.Skipped += s.Skipped
}

func (c *statsCollector) result() Stats {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.stats
}
