// Package ical serializes stored events into an iCalendar feed so the
// calendar can be subscribed to from external clients.
package ical

import (
	"fmt"

	"github.com/google/uuid"
)

type Calendar struct {
	id     string
	name   string
	events []Event
}

func NewCalendar(name string) Calendar {
	return Calendar{
		id:   uuid.NewString(),
		name: name,
	}
}

func (c *Calendar) GetID() string {
	return c.id
}

func (c *Calendar) GetName() string {
	return c.name
}

func (c *Calendar) AddEvent(event Event) {
	c.events = append(c.events, event)
}

// ToIcal writes the whole VCALENDAR through the provided writer.
func (c *Calendar) ToIcal(writer func(string)) error {
	writer("BEGIN:VCALENDAR\n")
	writer("VERSION:2.0\n")
	writer("PRODID:-//calbox//calendar//EN\n")
	if c.name != "" {
		writer(foldLine(fmt.Sprintf("X-WR-CALNAME:%s", escapeText(c.name))))
	}
	for i := range c.events {
		if err := c.events[i].writeTo(writer); err != nil {
			return fmt.Errorf("(*Calendar).ToIcal: %w", err)
		}
	}
	writer("END:VCALENDAR\n")
	return nil
}
