package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"calbox/src-server/model"
	"calbox/src-server/utils"
)

func Contact(muxer *http.ServeMux, as *utils.AppState) {
	type ContactBody struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}

	// create a new contact, the success response is the contact ID
	muxer.HandleFunc("POST /contact/create", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			var reqBody ContactBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			contactModel := model.Contact{
				ID:      uuid.NewString(),
				OwnerID: payload.UserID,
				Name:    utils.CleanupString(reqBody.Name),
				Email:   reqBody.Email,
				Phone:   reqBody.Phone,
				Address: reqBody.Address,
			}

			startTimer := time.Now()
			if err := contactModel.Upsert(r.Context(), as.BunDB); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(err.Error()))
				return
			}
			as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

			w.WriteHeader(http.StatusOK)
			w.Write([]byte(contactModel.ID))
		}))

	type ModifyContactReqBody struct {
		ID string `json:"id"`
		ContactBody
	}

	muxer.HandleFunc("POST /contact/modify", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			var reqBody ModifyContactReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			contactModel := new(model.Contact)
			if err := as.BunDB.NewSelect().
				Model(contactModel).
				Where("id = ?", reqBody.ID).
				Where("owner_id = ?", payload.UserID).
				Scan(r.Context()); err != nil {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Contact not found"))
				return
			}

			contactModel.Name = utils.CleanupString(reqBody.Name)
			contactModel.Email = reqBody.Email
			contactModel.Phone = reqBody.Phone
			contactModel.Address = reqBody.Address

			startTimer := time.Now()
			if err := contactModel.Upsert(r.Context(), as.BunDB); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(err.Error()))
				return
			}
			as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

			w.WriteHeader(http.StatusOK)
			w.Write([]byte(contactModel.ID))
		}))

	type DeleteContactReqBody struct {
		ID string `json:"id"`
	}

	muxer.HandleFunc("POST /contact/delete", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			var reqBody DeleteContactReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil || reqBody.ID == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			startTimer := time.Now()
			if _, err := as.BunDB.NewDelete().
				Model((*model.Contact)(nil)).
				Where("id = ?", reqBody.ID).
				Where("owner_id = ?", payload.UserID).
				Exec(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't delete contact"))
				slog.Error("can't delete contact", "error", err)
				return
			}
			as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		}))

	type OneContactRespBody struct {
		ID string `json:"id"`
		ContactBody
	}

	muxer.HandleFunc("GET /contact/list", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			payload, ok := userPayload(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user from middleware"))
				return
			}

			contactModels := make([]model.Contact, 0)
			startTimer := time.Now()
			if err := as.BunDB.NewSelect().
				Model(&contactModels).
				Where("owner_id = ?", payload.UserID).
				Order("name ASC").
				Scan(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get contacts"))
				slog.Error("can't get contacts", "error", err)
				return
			}
			as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds())

			respBody := make([]OneContactRespBody, 0, len(contactModels))
			for _, contactModel := range contactModels {
				respBody = append(respBody, OneContactRespBody{
					ID: contactModel.ID,
					ContactBody: ContactBody{
						Name:    contactModel.Name,
						Email:   contactModel.Email,
						Phone:   contactModel.Phone,
						Address: contactModel.Address,
					},
				})
			}
			respBodyJson, err := json.Marshal(respBody)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))
}
