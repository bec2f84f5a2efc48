// README: Outbound render boundary; events are notifications and nothing is read back.
package selection

import "go.uber.org/zap"

type Renderer interface {
	Render(Event)
}

type RendererFunc func(Event)

func (f RendererFunc) Render(e Event) { f(e) }

// Notify delivers events in order.
func Notify(r Renderer, events []Event) {
	if r == nil {
		return
	}
	for _, e := range events {
		r.Render(e)
	}
}

// LogRenderer writes each event to the zap logger at debug level.
type LogRenderer struct {
	Log *zap.Logger
}

func (l LogRenderer) Render(e Event) {
	log := l.Log
	if log == nil {
		log = zap.L()
	}
	fields := []zap.Field{zap.String("event", string(e.Type))}
	switch {
	case e.Entity != nil:
		fields = append(fields, zap.String("entity", string(e.Entity.ID)))
	case e.Route != nil:
		fields = append(fields, zap.String("entity", string(e.Route.EntityID)), zap.Float64("distance_km", e.Route.DistanceKm))
	case e.Matches != nil:
		fields = append(fields, zap.Int("matches", len(e.Matches)))
	case e.HomeBase != nil:
		fields = append(fields, zap.String("home_base", e.HomeBase.Name))
	}
	log.Debug("render", fields...)
}
