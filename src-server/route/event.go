package route

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"calbox/calview"
	"calbox/src-server/model"
	"calbox/src-server/utils"
)

// EventCoordinates mirrors the optional coordinates of a structured place.
type EventCoordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// EventLocation carries either a plain address or a structured place;
// PlaceID decides which.
type EventLocation struct {
	Address     string            `json:"address"`
	PlaceID     string            `json:"placeId,omitempty"`
	Coordinates *EventCoordinates `json:"coordinates,omitempty"`
}

type EventRecurrence struct {
	Type       string `json:"type"`
	Interval   int    `json:"interval"`
	EndDate    string `json:"endDate,omitempty"`
	DaysOfWeek []int  `json:"daysOfWeek,omitempty"`
	DayOfMonth int    `json:"dayOfMonth,omitempty"`
}

type EventBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`

	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`

	Location *EventLocation `json:"location,omitempty"`

	IsPublic    bool `json:"isPublic"`
	IsDraft     bool `json:"isDraft"`
	IsRecurring bool `json:"isRecurring"`

	Tags         []string `json:"tags,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Reminders    []int    `json:"reminders,omitempty"`

	RecurrencePattern *EventRecurrence `json:"recurrencePattern,omitempty"`
}

func (b *EventBody) applyTo(eventModel *model.Event) {
	eventModel.Title = utils.CleanupString(b.Title)
	eventModel.Description = b.Description
	eventModel.StartDate = b.StartDate
	eventModel.EndDate = b.EndDate
	eventModel.StartTime = b.StartTime
	eventModel.EndTime = b.EndTime
	eventModel.IsPublic = b.IsPublic
	eventModel.IsDraft = b.IsDraft
	eventModel.IsRecurring = b.IsRecurring
	eventModel.SetTags(b.Tags)
	eventModel.SetReminders(b.Reminders)

	if b.Location != nil {
		eventModel.LocationAddress = b.Location.Address
		eventModel.PlaceID = b.Location.PlaceID
		if b.Location.Coordinates != nil {
			eventModel.Latitude = b.Location.Coordinates.Lat
			eventModel.Longitude = b.Location.Coordinates.Lng
			eventModel.HasCoordinates = true
		}
	}

	if b.IsRecurring && b.RecurrencePattern != nil {
		eventModel.RecurrenceType = b.RecurrencePattern.Type
		eventModel.RecurrenceInterval = b.RecurrencePattern.Interval
		eventModel.RecurrenceEndDate = b.RecurrencePattern.EndDate
		eventModel.RecurrenceDayOfMonth = b.RecurrencePattern.DayOfMonth
		eventModel.SetDaysOfWeek(b.RecurrencePattern.DaysOfWeek)
	}
}

// eventRespBody serializes a stored event (or an expanded occurrence)
// back into the request-body shape plus identifiers.
type eventRespBody struct {
	ID         string `json:"id"`
	OriginalID string `json:"originalId,omitempty"`
	EventBody
	StartsHere *bool `json:"startsHere,omitempty"`
}

func recordToResp(record calview.EventRecord) eventRespBody {
	resp := eventRespBody{
		ID: record.ID,
		EventBody: EventBody{
			Title:        record.Title,
			Description:  record.Description,
			StartDate:    record.StartDate,
			EndDate:      record.EndDate,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			IsPublic:     record.IsPublic,
			IsDraft:      record.IsDraft,
			IsRecurring:  record.IsRecurring,
			Tags:         record.Tags,
			Participants: record.Participants,
			Reminders:    record.Reminders,
		},
	}
	switch location := record.Location.(type) {
	case calview.PlainAddress:
		resp.Location = &EventLocation{Address: string(location)}
	case calview.StructuredPlace:
		eventLocation := &EventLocation{Address: location.Address, PlaceID: location.PlaceID}
		if location.HasCoordinates {
			eventLocation.Coordinates = &EventCoordinates{Lat: location.Latitude, Lng: location.Longitude}
		}
		resp.Location = eventLocation
	}
	if record.Recurrence != nil {
		resp.RecurrencePattern = &EventRecurrence{
			Type:       string(record.Recurrence.Type),
			Interval:   record.Recurrence.Interval,
			EndDate:    record.Recurrence.EndDate,
			DaysOfWeek: record.Recurrence.DaysOfWeek,
			DayOfMonth: record.Recurrence.DayOfMonth,
		}
	}
	return resp
}

func occurrenceToResp(occ calview.Occurrence, startsHere *bool) eventRespBody {
	resp := recordToResp(occ.EventRecord)
	resp.OriginalID = occ.OriginalID
	resp.StartsHere = startsHere
	return resp
}

func replaceParticipants(r *http.Request, as *utils.AppState, eventID string, participants []string) error {
	if _, err := as.BunDB.NewDelete().
		Model((*model.Participant)(nil)).
		Where("event_id = ?", eventID).
		Exec(r.Context()); err != nil {
		return err
	}
	for i, email := range participants {
		participantModel := model.Participant{
			EventID:  eventID,
			Email:    email,
			Position: i,
		}
		if _, err := as.BunDB.NewInsert().
			Model(&participantModel).
			Exec(r.Context()); err != nil {
			return err
		}
	}
	return nil
}

func Event(muxer *http.ServeMux, as *utils.AppState) {
	// create a new event, the success response is the event ID
	muxer.HandleFunc("POST /event/create", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			var reqBody EventBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			eventModel := model.Event{
				ID:      uuid.NewString(),
				OwnerID: payload.UserID,
			}
			reqBody.applyTo(&eventModel)

			startTimer := time.Now()
			if err := eventModel.Upsert(r.Context(), as.BunDB); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(err.Error()))
				return
			}
			if err := replaceParticipants(r, as, eventModel.ID, reqBody.Participants); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't save participants"))
				slog.Error("can't save participants", "error", err)
				return
			}
			as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

			w.WriteHeader(http.StatusOK)
			w.Write([]byte(eventModel.ID))
		}))

	type ModifyEventReqBody struct {
		ID string `json:"id"`
		EventBody
	}

	// modify an existing event
	muxer.HandleFunc("POST /event/modify", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			var reqBody ModifyEventReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			eventModel := new(model.Event)
			if err := as.BunDB.NewSelect().
				Model(eventModel).
				Where("id = ?", reqBody.ID).
				Where("owner_id = ?", payload.UserID).
				Scan(r.Context()); err != nil {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Event not found"))
				return
			}

			reqBody.applyTo(eventModel)

			startTimer := time.Now()
			if err := eventModel.Upsert(r.Context(), as.BunDB); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(err.Error()))
				return
			}
			if err := replaceParticipants(r, as, eventModel.ID, reqBody.Participants); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't save participants"))
				slog.Error("can't save participants", "error", err)
				return
			}
			as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

			w.WriteHeader(http.StatusOK)
			w.Write([]byte(eventModel.ID))
		}))

	type DeleteEventReqBody struct {
		ID string `json:"id"`
	}

	// delete an event and its participants
	muxer.HandleFunc("POST /event/delete", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			var reqBody DeleteEventReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil || reqBody.ID == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			startTimer := time.Now()
			if _, err := as.BunDB.NewDelete().
				Model((*model.Event)(nil)).
				Where("id = ?", reqBody.ID).
				Where("owner_id = ?", payload.UserID).
				Exec(context.WithValue(r.Context(), model.EventIDCtxKey, reqBody.ID)); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't delete event"))
				slog.Error("can't delete event", "error", err)
				return
			}
			as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		}))

	type ListEventsReqBody struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}

	// list stored events whose interval intersects the date range
	muxer.HandleFunc("POST /event/list", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			var reqBody ListEventsReqBody
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			if _, err := calview.ParseDate(reqBody.StartDate); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid start date"))
				return
			}
			if _, err := calview.ParseDate(reqBody.EndDate); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid end date"))
				return
			}

			eventModels, err := fetchEvents(r, as, payload.UserID, reqBody.StartDate, reqBody.EndDate)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get events"))
				slog.Error("can't get events", "error", err)
				return
			}

			respBody := make([]eventRespBody, 0, len(eventModels))
			for _, eventModel := range eventModels {
				record := eventModel.ToRecord()
				resp := recordToResp(record)
				respBody = append(respBody, resp)
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

	type QuickAddReqBody struct {
		Text string `json:"text"`
	}

	// create an event from free text like "lunch with bob tomorrow at noon"
	muxer.HandleFunc("POST /event/quick-add", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			var reqBody QuickAddReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil || strings.TrimSpace(reqBody.Text) == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			parsed, err := as.When.Parse(reqBody.Text, time.Now().In(as.Config.GetLocation()))
			if err != nil || parsed == nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Can't find a date or time in the text"))
				return
			}

			title := utils.CleanupString(strings.Replace(reqBody.Text, parsed.Text, "", 1))
			if title == "" {
				title = "Untitled Event"
			}
			start := parsed.Time
			end := start.Add(time.Hour)

			eventModel := model.Event{
				ID:        uuid.NewString(),
				OwnerID:   payload.UserID,
				Title:     title,
				StartDate: start.Format(calview.DateLayout),
				EndDate:   end.Format(calview.DateLayout),
				StartTime: start.Format("15:04"),
				EndTime:   end.Format("15:04"),
			}

			startTimer := time.Now()
			if err := eventModel.Upsert(r.Context(), as.BunDB); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(err.Error()))
				return
			}
			as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

			w.WriteHeader(http.StatusOK)
			w.Write([]byte(eventModel.ID))
		}))
}
