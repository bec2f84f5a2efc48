// README: Inbound UI events and the dispatch table that maps each kind to its handler.
package session

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"tripmap/internal/modules/dataset"
	"tripmap/internal/modules/homebase"
	"tripmap/internal/modules/selection"
	"tripmap/internal/types"
)

type EventKind string

const (
	KindEntityClick        EventKind = "entity_click"
	KindMapClick           EventKind = "map_click"
	KindDeselect           EventKind = "deselect"
	KindToggleCategory     EventKind = "toggle_category"
	KindSetHomeBase        EventKind = "set_home_base"
	KindHomeBaseFromEntity EventKind = "home_base_from_entity"
	KindArmHomePicker      EventKind = "arm_home_base_picker"
	KindCancelHomePicker   EventKind = "cancel_home_base_picker"
	KindGoHome             EventKind = "go_home"
	KindReturnToStart      EventKind = "return_to_start"
)

// Event is a UI interaction posted by the client.
type Event struct {
	Kind     EventKind    `json:"kind" binding:"required"`
	EntityID types.ID     `json:"entityId,omitempty"`
	Point    *types.Point `json:"point,omitempty"`
	// Category is "places" or "restaurants" for toggle_category.
	Category string `json:"category,omitempty"`
	Name     string `json:"name,omitempty"`
}

// handlerFunc runs with the session lock held.
type handlerFunc func(ctx context.Context, s *Session, ev Event) ([]selection.Event, error)

var handlers = map[EventKind]handlerFunc{
	KindEntityClick:        onEntityClick,
	KindMapClick:           onMapClick,
	KindDeselect:           onDeselect,
	KindToggleCategory:     onToggleCategory,
	KindSetHomeBase:        onSetHomeBase,
	KindHomeBaseFromEntity: onHomeBaseFromEntity,
	KindArmHomePicker:      onArmHomePicker,
	KindCancelHomePicker:   onCancelHomePicker,
	KindGoHome:             onGoHome,
	KindReturnToStart:      onReturnToStart,
}

func onEntityClick(_ context.Context, s *Session, ev Event) ([]selection.Event, error) {
	if strings.TrimSpace(string(ev.EntityID)) == "" {
		return nil, eris.Wrap(ErrInvalidEvent, "entity_click requires entityId")
	}
	return s.ctrl.SelectEntity(ev.EntityID)
}

// onMapClick sets the home base while the picker is armed; otherwise it does nothing.
func onMapClick(_ context.Context, s *Session, ev Event) ([]selection.Event, error) {
	if ev.Point == nil || !ev.Point.Valid() {
		return nil, eris.Wrap(ErrInvalidEvent, "map_click requires a valid point")
	}
	if !s.pickerArmed {
		return nil, nil
	}
	events, err := s.ctrl.SetHomeBase(*ev.Point, homebase.CustomLocationName)
	if err != nil {
		return nil, err
	}
	s.pickerArmed = false
	return append(events, s.homeView()...), nil
}

func onDeselect(_ context.Context, s *Session, _ Event) ([]selection.Event, error) {
	return s.ctrl.Deselect(), nil
}

func onToggleCategory(_ context.Context, s *Session, ev Event) ([]selection.Event, error) {
	kind, ok := dataset.ParseKind(ev.Category)
	if !ok {
		return nil, eris.Wrapf(ErrInvalidEvent, "unknown category %q", ev.Category)
	}
	return s.ctrl.ToggleCategoryVisibility(kind), nil
}

func onSetHomeBase(_ context.Context, s *Session, ev Event) ([]selection.Event, error) {
	if ev.Point == nil {
		return nil, eris.Wrap(ErrInvalidEvent, "set_home_base requires a point")
	}
	events, err := s.ctrl.SetHomeBase(*ev.Point, ev.Name)
	if err != nil {
		return nil, eris.Wrapf(ErrInvalidEvent, "%v", err)
	}
	s.pickerArmed = false
	return append(events, s.homeView()...), nil
}

func onHomeBaseFromEntity(_ context.Context, s *Session, ev Event) ([]selection.Event, error) {
	if _, err := s.homes.SetFromEntity(ev.EntityID); err != nil {
		return nil, err
	}
	s.pickerArmed = false
	return append(s.ctrl.HomeBaseChanged(), s.homeView()...), nil
}

func onArmHomePicker(_ context.Context, s *Session, _ Event) ([]selection.Event, error) {
	if s.ctrl.Dataset() == nil {
		return nil, ErrNoDataset
	}
	s.pickerArmed = true
	return []selection.Event{{Type: selection.EventHomePickerArmed, Candidates: s.homes.PopularCandidates()}}, nil
}

func onCancelHomePicker(_ context.Context, s *Session, _ Event) ([]selection.Event, error) {
	s.pickerArmed = false
	return nil, nil
}

func onGoHome(_ context.Context, s *Session, _ Event) ([]selection.Event, error) {
	return s.homeView(), nil
}

func onReturnToStart(ctx context.Context, s *Session, _ Event) ([]selection.Event, error) {
	return s.reset(ctx), nil
}
