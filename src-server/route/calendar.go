package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/uptrace/bun"

	"calbox/calview"
	"calbox/src-server/model"
	"calbox/src-server/utils"
)

// fetchEvents loads the caller's events that can contribute occurrences
// to [startDate, endDate]: anything whose own interval intersects it,
// plus every recurring event that starts on or before its end. Date
// columns are YYYY-MM-DD, so string comparison is chronological.
func fetchEvents(r *http.Request, as *utils.AppState, ownerID, startDate, endDate string) ([]model.Event, error) {
	eventModels := make([]model.Event, 0)
	startTimer := time.Now()
	if err := as.BunDB.
		NewSelect().
		Model(&eventModels).
		Where("owner_id = ?", ownerID).
		Where("start_date <= ?", endDate).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("is_recurring = ?", true).
				WhereOr("end_date >= ?", startDate)
		}).
		Relation("Participants", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("position ASC")
		}).
		Scan(r.Context()); err != nil {
		return nil, err
	}
	as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds())
	return eventModels, nil
}

func toRecords(eventModels []model.Event) []calview.EventRecord {
	records := make([]calview.EventRecord, 0, len(eventModels))
	for i := range eventModels {
		records = append(records, eventModels[i].ToRecord())
	}
	return records
}

func Calendar(muxer *http.ServeMux, as *utils.AppState) {
	type MonthViewReqBody struct {
		Year  int `json:"year"`
		Month int `json:"month"` // 1-12
	}

	type MonthCellRespBody struct {
		Date        string          `json:"date"`
		InMonth     bool            `json:"inMonth"`
		Occurrences []eventRespBody `json:"occurrences"`
	}

	// 6x7 month grid with per-cell occurrences
	muxer.HandleFunc("POST /calendar/month-view", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			var reqBody MonthViewReqBody
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			grid, err := calview.MonthGrid(reqBody.Year, time.Month(reqBody.Month), as.Config.GetStartOfWeek())
			switch {
			case errors.Is(err, calview.ErrMonthOutOfRange):
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Month out of range"))
				return
			case err != nil:
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't build month grid"))
				slog.Error("can't build month grid", "error", err)
				return
			}

			windowStart := grid[0]
			windowEnd := grid[len(grid)-1]
			eventModels, err := fetchEvents(r, as, payload.UserID,
				calview.FormatDate(windowStart), calview.FormatDate(windowEnd))
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get events"))
				slog.Error("can't get events", "error", err)
				return
			}

			startTimer := time.Now()
			occurrences := calview.ExpandForWindow(toRecords(eventModels), windowStart, windowEnd)
			cells := calview.AssignToMonthCells(occurrences, grid)
			as.MetricChans.CalendarExpand <- float64(time.Since(startTimer).Microseconds())

			respBody := make([]MonthCellRespBody, 0, len(grid))
			for i, day := range grid {
				cell := MonthCellRespBody{
					Date:        calview.FormatDate(day),
					InMonth:     day.Month() == time.Month(reqBody.Month),
					Occurrences: make([]eventRespBody, 0, len(cells[i])),
				}
				for _, entry := range cells[i] {
					startsHere := entry.StartsHere
					cell.Occurrences = append(cell.Occurrences, occurrenceToResp(entry.Occurrence, &startsHere))
				}
				respBody = append(respBody, cell)
			}
			respBodyJson, err := json.Marshal(respBody)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	type WeekViewReqBody struct {
		WeekStart string `json:"weekStart"` // YYYY-MM-DD, first visible day
	}

	type WeekCellRespBody struct {
		Day         int             `json:"day"`  // 0-6 from weekStart
		Hour        int             `json:"hour"` // 0-23
		Occurrences []eventRespBody `json:"occurrences"`
	}

	// 7x24 week grid; only occupied cells are returned
	muxer.HandleFunc("POST /calendar/week-view", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			var reqBody WeekViewReqBody
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			weekStart, err := calview.ParseDate(reqBody.WeekStart)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid week start date"))
				return
			}

			weekDays := make([]time.Time, 0, 7)
			for i := 0; i < 7; i++ {
				weekDays = append(weekDays, weekStart.AddDate(0, 0, i))
			}

			eventModels, err := fetchEvents(r, as, payload.UserID,
				calview.FormatDate(weekDays[0]), calview.FormatDate(weekDays[6]))
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get events"))
				slog.Error("can't get events", "error", err)
				return
			}

			startTimer := time.Now()
			occurrences := calview.ExpandForWindow(toRecords(eventModels), weekDays[0], weekDays[6])
			cells, err := calview.AssignToWeekCells(occurrences, weekDays)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't build week grid"))
				slog.Error("can't build week grid", "error", err)
				return
			}
			as.MetricChans.CalendarExpand <- float64(time.Since(startTimer).Microseconds())

			respBody := make([]WeekCellRespBody, 0, len(cells))
			for day := 0; day < 7; day++ {
				for hour := 0; hour < 24; hour++ {
					entries, ok := cells[calview.WeekCell{Day: day, Hour: hour}]
					if !ok {
						continue
					}
					cell := WeekCellRespBody{
						Day:         day,
						Hour:        hour,
						Occurrences: make([]eventRespBody, 0, len(entries)),
					}
					for _, entry := range entries {
						startsHere := entry.StartsHere
						cell.Occurrences = append(cell.Occurrences, occurrenceToResp(entry.Occurrence, &startsHere))
					}
					respBody = append(respBody, cell)
				}
			}
			respBodyJson, err := json.Marshal(respBody)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	type DayViewReqBody struct {
		Date string `json:"date"` // YYYY-MM-DD
	}

	type DaySlotRespBody struct {
		Hour        int             `json:"hour"`
		Label       string          `json:"label"`
		Occurrences []eventRespBody `json:"occurrences"`
	}

	// 24 hourly slots for one day
	muxer.HandleFunc("POST /calendar/day-view", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			var reqBody DayViewReqBody
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			day, err := calview.ParseDate(reqBody.Date)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid date"))
				return
			}

			eventModels, err := fetchEvents(r, as, payload.UserID, reqBody.Date, reqBody.Date)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get events"))
				slog.Error("can't get events", "error", err)
				return
			}

			startTimer := time.Now()
			occurrences := calview.ExpandForWindow(toRecords(eventModels), day, day)
			slots := calview.AssignToSlots(occurrences, day)
			as.MetricChans.CalendarExpand <- float64(time.Since(startTimer).Microseconds())

			hourSlots := calview.HourSlots()
			respBody := make([]DaySlotRespBody, 0, len(slots))
			for i, slot := range slots {
				respSlot := DaySlotRespBody{
					Hour:        slot.Hour,
					Label:       hourSlots[i].Label,
					Occurrences: make([]eventRespBody, 0, len(slot.Entries)),
				}
				for _, entry := range slot.Entries {
					startsHere := entry.StartsHere
					respSlot.Occurrences = append(respSlot.Occurrences, occurrenceToResp(entry.Occurrence, &startsHere))
				}
				respBody = append(respBody, respSlot)
			}
			respBodyJson, err := json.Marshal(respBody)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))
}
