package route

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/uptrace/bun"

	"calbox/ical"
	"calbox/src-server/model"
	"calbox/src-server/utils"
)

func Ical(muxer *http.ServeMux, as *utils.AppState) {
	// export the caller's whole calendar as an iCalendar feed
	muxer.HandleFunc("GET /calendar/export.ics", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			eventModels := make([]model.Event, 0)
			if err := as.BunDB.
				NewSelect().
				Model(&eventModels).
				Where("owner_id = ?", payload.UserID).
				Relation("Participants", func(q *bun.SelectQuery) *bun.SelectQuery {
					return q.Order("position ASC")
				}).
				Scan(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get events"))
				slog.Error("can't get events", "error", err)
				return
			}

			icalCalendar := ical.NewCalendar(as.Config.GetCalendarName())
			for i := range eventModels {
				icalEvent, err := ical.NewEvent(eventModels[i].ToRecord())
				if err != nil {
					// one bad row must not sink the whole feed
					slog.Warn("skipping unexportable event", "id", eventModels[i].ID, "error", err)
					continue
				}
				icalCalendar.AddEvent(icalEvent)
			}

			w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			writer := func(s string) {
				if _, err := io.WriteString(w, s); err != nil {
					slog.Warn("can't write to response", "where", "route/ical.go", "error", err)
				}
			}
			if err := icalCalendar.ToIcal(writer); err != nil {
				slog.Error("can't serialize calendar", "error", err)
			}
		}))
}
