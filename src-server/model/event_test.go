package model_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"calbox/calview"
	"calbox/src-server/model"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { bundb.Close() })
	return bundb
}

func TestEventUpsertAndToRecord(t *testing.T) {
	bundb := newTestDB(t)

	userModel := model.User{
		ID:    uuid.NewString(),
		Email: "ann@example.com",
	}
	if err := userModel.SetPassword("hunter2"); err != nil {
		t.Fatal(err)
	}
	if err := userModel.Upsert(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}

	eventModel := model.Event{
		ID:                   uuid.NewString(),
		OwnerID:              userModel.ID,
		Title:                "Weekly sync",
		StartDate:            "2024-01-01",
		EndDate:              "2024-01-01",
		StartTime:            "09:00",
		EndTime:              "10:00",
		LocationAddress:      "Room 4",
		IsRecurring:          true,
		RecurrenceType:       string(calview.RecurrenceWeekly),
		RecurrenceInterval:   1,
		RecurrenceDayOfMonth: 0,
	}
	eventModel.SetTags([]string{"work", "team"})
	eventModel.SetReminders([]int{30, 10})
	eventModel.SetDaysOfWeek([]int{1, 3})
	if err := eventModel.Upsert(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}

	for i, email := range []string{"bob@example.com", "carol@example.com"} {
		participantModel := model.Participant{
			EventID:  eventModel.ID,
			Email:    email,
			Position: i,
		}
		if _, err := bundb.NewInsert().
			Model(&participantModel).
			Exec(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	// case: round-trip through ToRecord
	func() {
		loaded := new(model.Event)
		if err := bundb.NewSelect().
			Model(loaded).
			Where("id = ?", eventModel.ID).
			Relation("Participants").
			Scan(context.Background()); err != nil {
			t.Fatal(err)
		}
		record := loaded.ToRecord()

		if record.Title != "Weekly sync" || !record.IsRecurring {
			t.Errorf("record fields wrong: %+v", record)
		}
		if record.Location == nil || record.Location.DisplayAddress() != "Room 4" {
			t.Errorf("location wrong: %+v", record.Location)
		}
		if _, ok := record.Location.(calview.PlainAddress); !ok {
			t.Errorf("expected a plain address, got %T", record.Location)
		}
		if len(record.Tags) != 2 {
			t.Errorf("tags wrong: %v", record.Tags)
		}
		if len(record.Reminders) != 2 || record.Reminders[0] != 10 || record.Reminders[1] != 30 {
			t.Errorf("reminders must come back ascending: %v", record.Reminders)
		}
		if len(record.Participants) != 2 || record.Participants[0] != "bob@example.com" {
			t.Errorf("participants wrong: %v", record.Participants)
		}
		if record.Recurrence == nil ||
			record.Recurrence.Type != calview.RecurrenceWeekly ||
			len(record.Recurrence.DaysOfWeek) != 2 {
			t.Errorf("recurrence wrong: %+v", record.Recurrence)
		}
	}()

	// case: structured place round-trip
	func() {
		placeEvent := eventModel
		placeEvent.ID = uuid.NewString()
		placeEvent.PlaceID = "place-42"
		placeEvent.Latitude = 52.3
		placeEvent.Longitude = 4.9
		placeEvent.HasCoordinates = true
		if err := placeEvent.Upsert(context.Background(), bundb); err != nil {
			t.Fatal(err)
		}
		record := placeEvent.ToRecord()
		place, ok := record.Location.(calview.StructuredPlace)
		if !ok {
			t.Fatalf("expected a structured place, got %T", record.Location)
		}
		if place.PlaceID != "place-42" || !place.HasCoordinates {
			t.Errorf("place wrong: %+v", place)
		}
	}()

	// case: delete event and participants are gone
	func() {
		if _, err := bundb.NewDelete().
			Model((*model.Event)(nil)).
			Where("id = ?", eventModel.ID).
			Exec(context.WithValue(context.Background(), model.EventIDCtxKey, eventModel.ID)); err != nil {
			t.Fatal(err)
		}
		count, err := bundb.NewSelect().
			Model((*model.Participant)(nil)).
			Where("event_id = ?", eventModel.ID).
			Count(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if count != 0 {
			t.Error("participants should not exist", count)
		}
	}()
}

func TestEventUpsertRejectsBadInput(t *testing.T) {
	bundb := newTestDB(t)

	base := model.Event{
		ID:        uuid.NewString(),
		OwnerID:   "u1",
		Title:     "ok",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
		StartTime: "09:00",
		EndTime:   "10:00",
	}

	noTitle := base
	noTitle.Title = ""
	if err := noTitle.Upsert(context.Background(), bundb); err == nil {
		t.Error("blank title must be rejected")
	}

	badDate := base
	badDate.StartDate = "01/01/2024"
	if err := badDate.Upsert(context.Background(), bundb); err == nil {
		t.Error("unparsable start date must be rejected")
	}

	inverted := base
	inverted.EndTime = "08:00"
	if err := inverted.Upsert(context.Background(), bundb); err == nil {
		t.Error("end before start must be rejected")
	}

	badRecurrence := base
	badRecurrence.IsRecurring = true
	badRecurrence.RecurrenceType = "fortnightly"
	if err := badRecurrence.Upsert(context.Background(), bundb); err == nil {
		t.Error("unknown recurrence type must be rejected")
	}
}

func TestUserPassword(t *testing.T) {
	userModel := model.User{ID: "u1", Email: "ann@example.com"}
	if err := userModel.SetPassword("hunter2"); err != nil {
		t.Fatal(err)
	}
	if !userModel.CheckPassword("hunter2") {
		t.Error("correct password must verify")
	}
	if userModel.CheckPassword("wrong") {
		t.Error("wrong password must not verify")
	}
}

func TestContactUpsert(t *testing.T) {
	bundb := newTestDB(t)

	contactModel := model.Contact{
		ID:      uuid.NewString(),
		OwnerID: "u1",
		Name:    "Bob",
		Email:   "bob@example.com",
	}
	if err := contactModel.Upsert(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}

	contactModel.Phone = "555-0100"
	if err := contactModel.Upsert(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}

	loaded := new(model.Contact)
	if err := bundb.NewSelect().
		Model(loaded).
		Where("id = ?", contactModel.ID).
		Scan(context.Background()); err != nil {
		t.Fatal(err)
	}
	if loaded.Phone != "555-0100" || loaded.UpdatedAt == 0 {
		t.Errorf("update not persisted: %+v", loaded)
	}

	badEmail := model.Contact{ID: uuid.NewString(), OwnerID: "u1", Name: "X", Email: "not-an-email"}
	if err := badEmail.Upsert(context.Background(), bundb); err == nil {
		t.Error("invalid email must be rejected")
	}
}
