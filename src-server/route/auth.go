package route

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"calbox/src-server/jwt"
	"calbox/src-server/model"
	"calbox/src-server/utils"
)

func Auth(muxer *http.ServeMux, as *utils.AppState) {
	type RegisterReqBody struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}

	muxer.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var reqBody RegisterReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		if _, err := mail.ParseAddress(reqBody.Email); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid email"))
			return
		}
		if len(reqBody.Password) < 8 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Password must be at least 8 characters"))
			return
		}

		exists, err := as.BunDB.NewSelect().
			Model((*model.User)(nil)).
			Where("email = ?", reqBody.Email).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't check if user exists"))
			slog.Error("can't check if user exists", "error", err)
			return
		case exists:
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte("Email already registered"))
			return
		}

		userModel := model.User{
			ID:          uuid.NewString(),
			Email:       reqBody.Email,
			DisplayName: utils.CleanupString(reqBody.DisplayName),
			CreatedAt:   time.Now().UTC().Unix(),
		}
		if err := userModel.SetPassword(reqBody.Password); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't set password"))
			slog.Error("can't set password", "error", err)
			return
		}

		startTimer := time.Now()
		if err := userModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't create user"))
			slog.Error("can't create user", "error", err)
			return
		}
		as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(userModel.ID))
	})

	type LoginReqBody struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	type LoginRespBody struct {
		Token string `json:"token"`
	}

	muxer.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var reqBody LoginReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		userModel := new(model.User)
		startTimer := time.Now()
		err := as.BunDB.NewSelect().
			Model(userModel).
			Where("email = ?", reqBody.Email).
			Scan(r.Context())
		switch {
		case errors.Is(err, sql.ErrNoRows):
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Wrong email or password"))
			return
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user"))
			slog.Error("can't get user", "error", err)
			return
		}
		as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds())

		if !userModel.CheckPassword(reqBody.Password) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Wrong email or password"))
			return
		}

		now := time.Now().UTC()
		token, err := jwt.Encode(jwt.Payload{
			UserID:    userModel.ID,
			Email:     userModel.Email,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(as.Config.GetJWTExpire()).Unix(),
		}, as.Config.GetJWTSecret())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't create token"))
			slog.Error("can't create token", "error", err)
			return
		}

		respBodyJson, err := json.Marshal(LoginRespBody{Token: token})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})
}
