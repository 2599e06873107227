package notifier

import (
	"errors"
	"fmt"

	"github.com/kdwils/dvmnbot/pkg/dvmn"
)

var ErrNotFound = errors.New("response has no reviewed attempts")

// Verdict is the outcome of a lesson review
type Verdict int

const (
	Accepted Verdict = iota
	Rejected
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "Accepted"
	case Rejected:
		return "Rejected"
	}

	return fmt.Sprintf("Verdict(%d)", int(v))
}

func verdict(isNegative bool) Verdict {
	if isNegative {
		return Rejected
	}

	return Accepted
}

// Message is the notification derived from a single reviewed attempt
type Message struct {
	Title  string
	Status Verdict
	URL    string
}

const template = "Your work has been reviewed!\n\nLesson: %s\nStatus: %s\nLink: %s"

func (m Message) Text() string {
	return fmt.Sprintf(template, m.Title, m.Status, m.URL)
}

func FromAttempt(a dvmn.Attempt) Message {
	return Message{
		Title:  a.LessonTitle,
		Status: verdict(a.IsNegative),
		URL:    a.LessonURL,
	}
}

// FromResponse builds the message for a found response. Only the first attempt is used.
func FromResponse(r *dvmn.Response) (Message, error) {
	if r == nil || r.Status != dvmn.StatusFound || len(r.NewAttempts) == 0 {
		return Message{}, ErrNotFound
	}

	return FromAttempt(r.NewAttempts[0]), nil
}
