package checkin

import (
	"context"
	"strings"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byType map[string]actionFunc
}

func newActionFactory(onCheckIn, onCheckOut actionFunc) *actionFactory {
	return &actionFactory{
		byType: map[string]actionFunc{
			TypeCheckIn:  onCheckIn,
			TypeCheckOut: onCheckOut,
		},
	}
}

func (f *actionFactory) get(eventType string) (actionFunc, bool) {
	eventType = strings.ToLower(strings.TrimSpace(eventType))
	fn, ok := f.byType[eventType]
	return fn, ok
}
