/*
Package handler provides the HTTP handler for the login credential check.

The check is a flat lookup against the configured user table. It answers success
or failure only; there are no sessions, tokens, or password hashing.
*/
package handler

import (
	"net/http"

	"github.com/manuav007/EchoFlow/internal/pkg/errs"
	"github.com/manuav007/EchoFlow/internal/pkg/logx"
	"github.com/manuav007/EchoFlow/internal/pkg/req"
	"github.com/manuav007/EchoFlow/internal/pkg/resp"
)

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin creates an HTTP HandlerFunc that verifies a username/password pair
// against the flat credential table.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Username == "" || input.Password == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if !deps.Auth.Verify(input.Username, input.Password) {
			logx.Warn("Login rejected: invalid credentials.", "username", input.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"username": input.Username,
		})
	}
}
